// Package prerequisites provides utilities for checking the client
// tools and host capabilities a Confidential Containers environment
// needs.
package prerequisites

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// DefaultTools returns the default set of tools to check. kubectl is
// always required for installing the operator kustomization.
func DefaultTools() []Tool {
	return []Tool{
		{
			Name:        "kubectl",
			Required:    true,
			Description: "Required for applying the operator kustomization",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
		},
	}
}

// BuildTools returns the tools needed for building component images.
// nerdctl is preferred because it can build directly into the k8s.io
// containerd namespace; docker works as a fallback.
func BuildTools() []Tool {
	return []Tool{
		{
			Name:        "nerdctl",
			Required:    true,
			Description: "Required for building images into the k8s.io containerd namespace",
			InstallURL:  "https://github.com/containerd/nerdctl",
		},
		{
			Name:        "docker",
			Required:    false,
			Description: "Fallback build tool when nerdctl is unavailable",
			InstallURL:  "https://docs.docker.com/engine/install/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			// Try to get version (best effort)
			result.Version = getToolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckDefault checks the default required tools.
func CheckDefault() *CheckResults {
	return Check(DefaultTools())
}

// CheckAll checks everything needed for a full setup run.
func CheckAll() *CheckResults {
	defaults := DefaultTools()
	buildTools := BuildTools()
	all := make([]Tool, 0, len(defaults)+len(buildTools))
	all = append(all, defaults...)
	all = append(all, buildTools...)
	return Check(all)
}

// KVMAvailable reports whether /dev/kvm exists. Hardware-backed
// runtime classes (kata-qemu) need KVM on the host.
func KVMAvailable() bool {
	_, err := os.Stat("/dev/kvm")
	return err == nil
}

// IsWSL reports whether the host is a WSL environment, where nested
// virtualization support varies by Windows build.
func IsWSL() bool {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	// Common version flags to try
	versionFlags := []string{"--version", "version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			// Return first line of output, trimmed
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
