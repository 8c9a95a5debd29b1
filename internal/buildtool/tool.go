package buildtool

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Tool drives a container build binary. nerdctl is preferred because it
// shares image namespaces with the cluster's containerd; docker works for
// builds but has no namespace separation.
type Tool struct {
	binary string
	runner Runner
}

// Detect picks the first available build tool, preferring nerdctl.
func Detect(runner Runner) (*Tool, error) {
	for _, name := range []string{"nerdctl", "docker"} {
		if _, err := runner.LookPath(name); err == nil {
			return &Tool{binary: name, runner: runner}, nil
		}
	}
	return nil, fmt.Errorf("no container build tool found (tried nerdctl, docker)")
}

// New returns a Tool for a specific binary. Used when the configuration
// pins the build tool explicitly.
func New(binary string, runner Runner) *Tool {
	return &Tool{binary: binary, runner: runner}
}

// Binary returns the underlying binary name.
func (t *Tool) Binary() string { return t.binary }

// SupportsNamespaces reports whether the tool has containerd namespaces.
func (t *Tool) SupportsNamespaces() bool { return t.binary == "nerdctl" }

// BuildOptions describe a single build invocation.
type BuildOptions struct {
	Namespace  string            // containerd namespace (nerdctl only)
	ContextDir string            // build context directory
	Dockerfile string            // path to the Dockerfile
	Tag        string            // image tag; empty for intermediate targets
	Target     string            // build stage target; empty for the final stage
	BuildArgs  map[string]string // --build-arg values
}

// Build runs a container build and returns the combined tool output.
func (t *Tool) Build(ctx context.Context, opts BuildOptions) ([]byte, error) {
	args := t.namespaceArgs(opts.Namespace)
	args = append(args, "build")

	// Deterministic argv ordering keeps logs and tests stable.
	keys := make([]string, 0, len(opts.BuildArgs))
	for k := range opts.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, opts.BuildArgs[k]))
	}

	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	args = append(args, opts.ContextDir)

	return t.runner.Run(ctx, Cmd{Name: t.binary, Args: args})
}

// ImageDigest returns the content digest of an image reference in the given
// namespace, or an empty string when the image is not present.
func (t *Tool) ImageDigest(ctx context.Context, namespace, ref string) (string, error) {
	args := t.namespaceArgs(namespace)
	args = append(args, "images", "--no-trunc", "--format", "{{.Digest}}", ref)

	out, err := t.runner.Run(ctx, Cmd{Name: t.binary, Args: args})
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w\nOutput: %s", ref, err, out)
	}

	digest := strings.TrimSpace(string(out))
	if digest == "" || digest == "<none>" {
		return "", nil
	}
	// Multi-platform listings repeat the digest per line.
	if i := strings.IndexByte(digest, '\n'); i >= 0 {
		digest = digest[:i]
	}
	return digest, nil
}

// CopyImage streams an image from one containerd namespace to another via
// save/load. The tool must support namespaces.
func (t *Tool) CopyImage(ctx context.Context, fromNamespace, toNamespace, ref string) ([]byte, error) {
	if !t.SupportsNamespaces() {
		return nil, fmt.Errorf("%s does not support image namespaces", t.binary)
	}

	save := Cmd{Name: t.binary, Args: append(t.namespaceArgs(fromNamespace), "save", ref)}
	load := Cmd{Name: t.binary, Args: append(t.namespaceArgs(toNamespace), "load")}
	return t.runner.RunPiped(ctx, save, load)
}

// RemoveImage deletes an image reference from a namespace, ignoring
// not-found conditions.
func (t *Tool) RemoveImage(ctx context.Context, namespace, ref string) error {
	args := t.namespaceArgs(namespace)
	args = append(args, "rmi", ref)

	out, err := t.runner.Run(ctx, Cmd{Name: t.binary, Args: args})
	if err != nil && !strings.Contains(string(out), "No such image") {
		return fmt.Errorf("failed to remove %s: %w\nOutput: %s", ref, err, out)
	}
	return nil
}

func (t *Tool) namespaceArgs(namespace string) []string {
	if namespace == "" || !t.SupportsNamespaces() {
		return nil
	}
	return []string{"--namespace", namespace}
}
