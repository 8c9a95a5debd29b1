package k8s

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// execKubectl runs kubectl and returns its combined output. Declared as
// a variable so tests can intercept the exec.
var execKubectl = func(ctx context.Context, args ...string) ([]byte, error) {
	// #nosec G204 - args are assembled from internal configuration
	cmd := exec.CommandContext(ctx, "kubectl", args...)
	return cmd.CombinedOutput()
}

var (
	kustomizeApplyRetries = 5
	kustomizeRetryDelay   = 5 * time.Second
)

// ApplyKustomize applies a kustomization (local directory or remote
// URL) using kubectl server-side apply. kubectl is used here instead of
// the dynamic client because resolving a remote kustomization requires
// the kustomize engine that kubectl embeds.
//
// Transient API server connection failures are retried; other failures
// are returned immediately.
func ApplyKustomize(ctx context.Context, kubeconfigPath, target string) error {
	args := []string{}
	if kubeconfigPath != "" {
		args = append(args, "--kubeconfig", kubeconfigPath)
	}
	args = append(args, "apply", "--server-side", "--force-conflicts", "-k", target)

	var lastOutput string
	var lastErr error
	for attempt := 1; attempt <= kustomizeApplyRetries; attempt++ {
		output, err := execKubectl(ctx, args...)
		if err == nil {
			return nil
		}

		lastOutput = string(output)
		lastErr = err
		if !isRetryableKubectlOutput(lastOutput) || attempt == kustomizeApplyRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(kustomizeRetryDelay):
		}
	}

	return fmt.Errorf("kubectl apply -k %s failed: %w\noutput: %s", target, lastErr, lastOutput)
}

// isRetryableKubectlOutput reports whether kubectl output indicates a
// transient connection problem rather than a real apply failure.
func isRetryableKubectlOutput(output string) bool {
	return strings.Contains(output, "EOF") ||
		strings.Contains(output, "connection refused") ||
		strings.Contains(output, "Unable to connect") ||
		strings.Contains(output, "connection reset")
}
