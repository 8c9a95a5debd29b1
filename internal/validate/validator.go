// Package validate checks that a Confidential Containers installation
// actually works: the CcRuntime rollout has completed, a confidential
// RuntimeClass exists, and a pod scheduled onto it reaches Running.
package validate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/jplazaroalonso/local-deployment/api/v1beta1"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/ui"
)

// State is the observable validation phase.
type State string

const (
	StatePending  State = "Pending"
	StatePolling  State = "Polling"
	StateReady    State = "Ready"
	StateTimedOut State = "TimedOut"
	StateFailed   State = "Failed"
)

// SmokeResult records the outcome of the runtime class smoke test.
type SmokeResult struct {
	PodName      string
	RuntimeClass string
	Phase        corev1.PodPhase
	Events       []string
}

// Report is the result of one validation run.
type Report struct {
	State         State
	Ready         bool
	Elapsed       time.Duration
	FailureReason string
	SmokeTest     *SmokeResult
}

// Cluster is the narrow slice of cluster operations the validator
// needs. *k8s.Client satisfies it.
type Cluster interface {
	GetCcRuntime(ctx context.Context, name string) (*v1beta1.CcRuntime, error)
	RuntimeClassNames(ctx context.Context) ([]string, error)
	CreatePod(ctx context.Context, pod *corev1.Pod) error
	DeletePod(ctx context.Context, namespace, name string) error
	GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error)
	PodEvents(ctx context.Context, namespace, name string) ([]string, error)
}

// Validator drives a validation run against a cluster.
type Validator struct {
	cluster  Cluster
	cfg      config.ValidationConfig
	timeouts config.Timeouts
	arch     string

	state State
}

// New creates a Validator for the given cluster and configuration.
func New(cluster Cluster, cfg config.ValidationConfig, timeouts config.Timeouts) *Validator {
	return &Validator{
		cluster:  cluster,
		cfg:      cfg,
		timeouts: timeouts,
		arch:     runtime.GOARCH,
		state:    StatePending,
	}
}

// State returns the current validation phase.
func (v *Validator) State() State { return v.state }

// Run validates the installation. When confirm is true the run only
// needs to re-confirm an installation that apply reported unchanged,
// so a much shorter deadline applies.
func (v *Validator) Run(ctx context.Context, confirm bool) Report {
	start := time.Now()
	timeout := v.timeouts.Validate
	if confirm {
		timeout = v.timeouts.ValidateConfirm
	}
	deadline := start.Add(timeout)

	v.state = StatePolling
	report := v.pollInstallation(ctx, deadline)
	if report != nil {
		report.Elapsed = time.Since(start)
		v.state = report.State
		return *report
	}

	report = v.smokeTest(ctx, deadline)
	report.Elapsed = time.Since(start)
	v.state = report.State
	return *report
}

// pollInstallation waits for the CcRuntime rollout to complete. A nil
// return means the installation is complete and the smoke test should
// run; otherwise the returned report is terminal.
func (v *Validator) pollInstallation(ctx context.Context, deadline time.Time) *Report {
	for {
		cr, err := v.cluster.GetCcRuntime(ctx, v.cfg.CcRuntimeName)
		switch {
		case err != nil:
			// Transient API errors are retried until the deadline.
			ui.Warnf("failed to read ccruntime %s: %v", v.cfg.CcRuntimeName, err)
		case cr == nil:
			return &Report{
				State:         StateFailed,
				FailureReason: fmt.Sprintf("ccruntime %q does not exist; run setup first", v.cfg.CcRuntimeName),
			}
		case cr.InstallationFailed():
			return &Report{
				State: StateFailed,
				FailureReason: fmt.Sprintf("runtime installation failed on %d of %d nodes: %v",
					cr.Status.InstallationStatus.Failed.FailedNodesCount,
					cr.Status.TotalNodesCount,
					cr.Status.InstallationStatus.Failed.FailedNodesList),
			}
		case cr.InstallationComplete():
			return nil
		default:
			ui.Infof("waiting for runtime installation: %d/%d nodes done",
				cr.Status.InstallationStatus.Completed.CompletedNodesCount,
				cr.Status.TotalNodesCount)
		}

		if report := v.waitInterval(ctx, deadline, "runtime installation did not complete"); report != nil {
			return report
		}
	}
}

// smokeTest schedules a pod onto the preferred confidential runtime
// class and waits for it to reach Running.
func (v *Validator) smokeTest(ctx context.Context, deadline time.Time) *Report {
	classes, err := v.cluster.RuntimeClassNames(ctx)
	if err != nil {
		return &Report{
			State:         StateFailed,
			FailureReason: fmt.Sprintf("failed to list runtime classes: %v", err),
		}
	}

	class := SelectRuntimeClass(classes, v.arch)
	if class == "" {
		return &Report{
			State:         StateFailed,
			FailureReason: fmt.Sprintf("no confidential runtime class found among %v", classes),
		}
	}
	ui.Infof("smoke testing runtime class %s", class)

	smoke := &SmokeResult{
		PodName:      "coco-smoke",
		RuntimeClass: class,
	}
	pod := v.smokePod(smoke.PodName, class)
	if err := v.cluster.CreatePod(ctx, pod); err != nil {
		smoke.Events, _ = v.cluster.PodEvents(ctx, v.cfg.Namespace, smoke.PodName)
		return &Report{
			State:         StateFailed,
			FailureReason: fmt.Sprintf("failed to create smoke test pod: %v", err),
			SmokeTest:     smoke,
		}
	}
	defer func() {
		// Best-effort cleanup with a fresh context so cancellation of
		// the run does not leak the pod.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_ = v.cluster.DeletePod(cleanupCtx, v.cfg.Namespace, smoke.PodName)
	}()

	for {
		current, err := v.cluster.GetPod(ctx, v.cfg.Namespace, smoke.PodName)
		if err == nil {
			smoke.Phase = current.Status.Phase
			switch current.Status.Phase {
			case corev1.PodRunning, corev1.PodSucceeded:
				return &Report{State: StateReady, Ready: true, SmokeTest: smoke}
			case corev1.PodFailed:
				smoke.Events, _ = v.cluster.PodEvents(ctx, v.cfg.Namespace, smoke.PodName)
				return &Report{
					State:         StateFailed,
					FailureReason: fmt.Sprintf("smoke test pod failed on runtime class %s", class),
					SmokeTest:     smoke,
				}
			}
		}

		if report := v.waitInterval(ctx, deadline, "smoke test pod did not reach Running"); report != nil {
			smoke.Events, _ = v.cluster.PodEvents(ctx, v.cfg.Namespace, smoke.PodName)
			report.SmokeTest = smoke
			return report
		}
	}
}

// waitInterval sleeps one poll interval. It returns a terminal report
// when the deadline passes or the context is cancelled.
func (v *Validator) waitInterval(ctx context.Context, deadline time.Time, timeoutReason string) *Report {
	if time.Now().Add(v.timeouts.PollInterval).After(deadline) {
		return &Report{State: StateTimedOut, FailureReason: timeoutReason}
	}

	select {
	case <-ctx.Done():
		return &Report{State: StateTimedOut, FailureReason: fmt.Sprintf("validation cancelled: %v", ctx.Err())}
	case <-time.After(v.timeouts.PollInterval):
		return nil
	}
}

// smokePod builds the throwaway pod used to exercise a runtime class.
func (v *Validator) smokePod(name, runtimeClass string) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: v.cfg.Namespace,
			Labels: map[string]string{
				"app.kubernetes.io/managed-by": "cococtl",
			},
		},
		Spec: corev1.PodSpec{
			RuntimeClassName: &runtimeClass,
			RestartPolicy:    corev1.RestartPolicyNever,
			Containers: []corev1.Container{
				{
					Name:  "smoke",
					Image: v.cfg.SmokeImage,
				},
			},
		},
	}
}
