// Package ui provides styled terminal output for the cococtl CLI.
//
// Output falls back to plain text when stdout is not a terminal or when
// NO_COLOR is set, so logs stay readable when piped into files or CI.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// colorEnabled reports whether styled output should be used.
var colorEnabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

func render(style interface{ Render(...string) string }, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// Infof prints an informational message.
func Infof(format string, args ...any) {
	fmt.Printf("%s %s\n", render(infoStyle, "[INFO]"), fmt.Sprintf(format, args...))
}

// Warnf prints a warning message.
func Warnf(format string, args ...any) {
	fmt.Printf("%s %s\n", render(warnStyle, "[WARN]"), fmt.Sprintf(format, args...))
}

// Errorf prints an error message to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", render(errorStyle, "[ERROR]"), fmt.Sprintf(format, args...))
}

// Section prints a section banner.
func Section(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n", render(sectionStyle, rule))
	fmt.Printf("%s\n", render(sectionStyle, "  "+title))
	fmt.Printf("%s\n\n", render(sectionStyle, rule))
}

// Dimf prints de-emphasized detail text, such as tool output excerpts.
func Dimf(format string, args ...any) {
	fmt.Printf("%s\n", render(dimStyle, fmt.Sprintf(format, args...)))
}
