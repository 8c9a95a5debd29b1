// Package buildtool wraps the local container build tool (nerdctl or docker)
// behind a small command interface so callers never build argv strings and
// tests never spawn processes.
package buildtool

import (
	"context"
	"fmt"
	"os/exec"
)

// Cmd is a single external command invocation.
type Cmd struct {
	Name string
	Args []string
}

func (c Cmd) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Runner executes external commands. The exec-backed implementation is used
// in production; tests substitute a recording fake.
type Runner interface {
	// Run executes the command and returns its combined output.
	Run(ctx context.Context, c Cmd) ([]byte, error)

	// RunPiped executes producer and consumer with producer's stdout
	// connected to consumer's stdin, returning the consumer's output.
	RunPiped(ctx context.Context, producer, consumer Cmd) ([]byte, error)

	// LookPath reports whether the named binary is on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns its combined output.
func (ExecRunner) Run(ctx context.Context, c Cmd) ([]byte, error) {
	// #nosec G204 - command names and arguments come from internal config
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	return cmd.CombinedOutput()
}

// RunPiped connects producer stdout to consumer stdin.
func (ExecRunner) RunPiped(ctx context.Context, producer, consumer Cmd) ([]byte, error) {
	// #nosec G204
	prod := exec.CommandContext(ctx, producer.Name, producer.Args...)
	// #nosec G204
	cons := exec.CommandContext(ctx, consumer.Name, consumer.Args...)

	pipe, err := prod.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	cons.Stdin = pipe

	if err := prod.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", producer.Name, err)
	}

	out, consErr := cons.CombinedOutput()
	prodErr := prod.Wait()

	if prodErr != nil {
		return out, fmt.Errorf("%s failed: %w", producer, prodErr)
	}
	if consErr != nil {
		return out, fmt.Errorf("%s failed: %w", consumer, consErr)
	}
	return out, nil
}

// LookPath reports whether the named binary is on PATH.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
