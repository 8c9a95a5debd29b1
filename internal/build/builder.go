// Package build drives staged container builds for patched components.
//
// A component build runs the intermediate Dockerfile stages one at a time
// via --target so a failure attributes to the stage that caused it: the
// source stage fetches upstream at the pinned ref, the patch stage applies
// the local patch set, and the final untargeted build compiles and
// assembles the minimal image. A failed stage leaves no tagged artifact.
package build

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jplazaroalonso/local-deployment/internal/buildtool"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/util/retry"
)

// logTailLines bounds the tool output kept on a Result.
const logTailLines = 40

// Builder builds component images with the local build tool.
type Builder struct {
	tool      *buildtool.Tool
	namespace string
	timeouts  *config.Timeouts
}

// NewBuilder returns a Builder that builds into the given containerd
// namespace.
func NewBuilder(tool *buildtool.Tool, namespace string, timeouts *config.Timeouts) *Builder {
	return &Builder{tool: tool, namespace: namespace, timeouts: timeouts}
}

// Build runs the staged pipeline for one component and returns its Result.
// The image reference is deterministic: name:version.
func (b *Builder) Build(ctx context.Context, spec config.ComponentSpec) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeouts.Build)
	defer cancel()

	tag := fmt.Sprintf("%s:%s", spec.Name, spec.Version)
	log.Printf("Building %s (ref %s)...", tag, spec.SourceRef)

	contextDir, cleanup, err := b.prepareContext(spec)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	opts := buildtool.BuildOptions{
		Namespace:  b.namespace,
		ContextDir: contextDir,
		Dockerfile: spec.Dockerfile,
		BuildArgs:  buildArgs(spec),
	}

	start := time.Now()
	var out []byte

	for _, stage := range spec.Stages {
		stageOpts := opts
		stageOpts.Target = stage

		run := func() error {
			var buildErr error
			out, buildErr = b.tool.Build(ctx, stageOpts)
			return buildErr
		}

		var stageErr error
		if stage == "source" {
			// The fetch stage hits the network; transient failures may be
			// retried when configured. All other stages run exactly once.
			stageErr = retry.Do(ctx, run,
				retry.Attempts(b.timeouts.RetryMaxAttempts),
				retry.InitialDelay(b.timeouts.RetryInitialDelay))
		} else {
			stageErr = run()
		}

		if stageErr != nil {
			return nil, b.classifyStageError(spec, stage, out, stageErr)
		}
	}

	if out, err = b.tool.Build(ctx, withTag(opts, tag)); err != nil {
		return nil, &BuildError{Component: spec.Name, Output: tail(out), Err: err}
	}

	digest, err := b.tool.ImageDigest(ctx, b.namespace, tag)
	if err != nil {
		return nil, &BuildError{Component: spec.Name, Output: tail(out), Err: err}
	}

	res := &Result{
		Component: spec.Name,
		ImageRef:  tag,
		Digest:    digest,
		Duration:  time.Since(start),
		LogTail:   tail(out),
	}
	log.Printf("Built %s (%s) in %s", res.ImageRef, res.Digest, res.Duration.Round(time.Second))
	return res, nil
}

// classifyStageError maps a failed stage onto the error taxonomy.
func (b *Builder) classifyStageError(spec config.ComponentSpec, stage string, out []byte, err error) error {
	switch stage {
	case "source", "fetch":
		return &SourceFetchError{Component: spec.Name, Ref: spec.SourceRef, Output: tail(out), Err: err}
	case "patch":
		return &PatchApplyError{Component: spec.Name, Output: tail(out), Err: err}
	default:
		return &BuildError{Component: spec.Name, Output: tail(out), Err: err}
	}
}

// prepareContext materializes the build context. Generated files are merged
// with a copy of the declared context in a throwaway directory so the
// declared directory is never written to.
func (b *Builder) prepareContext(spec config.ComponentSpec) (string, func(), error) {
	noop := func() {}

	if len(spec.ExtraFiles) == 0 {
		return spec.BuildContext(), noop, nil
	}

	dir, err := os.MkdirTemp("", "cococtl-build-"+spec.Name+"-")
	if err != nil {
		return "", noop, fmt.Errorf("failed to create build context: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	if err := os.CopyFS(dir, os.DirFS(spec.BuildContext())); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("failed to copy build context %s: %w", spec.BuildContext(), err)
	}

	for rel, content := range spec.ExtraFiles {
		path := filepath.Join(dir, "artifacts", filepath.Clean(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			cleanup()
			return "", noop, fmt.Errorf("failed to create artifact dir: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			cleanup()
			return "", noop, fmt.Errorf("failed to write artifact %s: %w", rel, err)
		}
	}

	return dir, cleanup, nil
}

// buildArgs assembles the build arguments every staged Dockerfile receives.
func buildArgs(spec config.ComponentSpec) map[string]string {
	args := map[string]string{
		"VERSION":    spec.Version,
		"SOURCE_REF": spec.SourceRef,
		"TARGETARCH": targetArch(),
	}
	if len(spec.Patches) > 0 {
		args["PATCHES"] = strings.Join(spec.Patches, " ")
	}
	for k, v := range spec.BuildArgs {
		args[k] = v
	}
	return args
}

func targetArch() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64"
	default:
		return "amd64"
	}
}

func withTag(opts buildtool.BuildOptions, tag string) buildtool.BuildOptions {
	opts.Tag = tag
	return opts
}

// tail returns the trailing lines of tool output for diagnostics.
func tail(out []byte) string {
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}
	return strings.Join(lines, "\n")
}
