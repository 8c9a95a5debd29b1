// Package registry makes locally built images resolvable by the cluster's
// container runtime without a remote push, by copying them into the
// containerd namespace the runtime pulls from (k8s.io under nerdctl).
package registry

import (
	"context"
	"fmt"
	"log"

	"github.com/jplazaroalonso/local-deployment/internal/build"
	"github.com/jplazaroalonso/local-deployment/internal/buildtool"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/util/retry"
)

// RegistrationError reports a failure to place an image into the cluster's
// image namespace. Environmental; safe for an operator to retry.
type RegistrationError struct {
	ImageRef string
	Output   string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s: %v", e.ImageRef, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Registrar copies built images from the build namespace into the cluster's
// image namespace.
type Registrar struct {
	tool     *buildtool.Tool
	source   string
	target   string
	timeouts *config.Timeouts
}

// NewRegistrar returns a Registrar copying from source to target namespace.
func NewRegistrar(tool *buildtool.Tool, source, target string, timeouts *config.Timeouts) *Registrar {
	return &Registrar{tool: tool, source: source, target: target, timeouts: timeouts}
}

// Register makes the image from res resolvable in the target namespace.
// Registering the same image reference twice is a no-op on the second call:
// when the target namespace already holds the digest, nothing is copied.
func (r *Registrar) Register(ctx context.Context, res *build.Result) error {
	if !r.tool.SupportsNamespaces() {
		// Docker shares its image store with the cluster runtime in
		// docker-backed distributions; the build already registered it.
		log.Printf("Image %s already visible to the cluster runtime (%s)", res.ImageRef, r.tool.Binary())
		return nil
	}

	existing, err := r.tool.ImageDigest(ctx, r.target, res.ImageRef)
	if err != nil {
		return &RegistrationError{ImageRef: res.ImageRef, Err: err}
	}
	if existing != "" && existing == res.Digest {
		log.Printf("Image %s already registered in %s namespace", res.ImageRef, r.target)
		return nil
	}

	op := func() error {
		out, copyErr := r.tool.CopyImage(ctx, r.source, r.target, res.ImageRef)
		if copyErr != nil {
			return &RegistrationError{ImageRef: res.ImageRef, Output: string(out), Err: copyErr}
		}
		return nil
	}

	if err := retry.Do(ctx, op,
		retry.Attempts(r.timeouts.RetryMaxAttempts),
		retry.InitialDelay(r.timeouts.RetryInitialDelay)); err != nil {
		return err
	}

	log.Printf("Registered %s in %s namespace", res.ImageRef, r.target)
	return nil
}
