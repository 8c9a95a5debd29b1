// Package lifecycle orchestrates the build, setup and validate flows
// across the builder, image registrar, cluster client and validator.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jplazaroalonso/local-deployment/internal/build"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/k8s"
	"github.com/jplazaroalonso/local-deployment/internal/manifest"
	"github.com/jplazaroalonso/local-deployment/internal/ui"
	"github.com/jplazaroalonso/local-deployment/internal/util/async"
	"github.com/jplazaroalonso/local-deployment/internal/validate"
)

// fieldManager identifies cococtl as the Server-Side Apply actor.
const fieldManager = "cococtl"

// ComponentBuilder produces an image for one component.
type ComponentBuilder interface {
	Build(ctx context.Context, spec config.ComponentSpec) (*build.Result, error)
}

// ImageRegistrar makes a built image visible to the cluster runtime.
type ImageRegistrar interface {
	Register(ctx context.Context, res *build.Result) error
}

// Cluster is the slice of cluster operations setup needs. *k8s.Client
// satisfies it.
type Cluster interface {
	Apply(ctx context.Context, manifests []byte, fieldManager string) ([]k8s.ApplyOutcome, error)
	LabelNodes(ctx context.Context, labels map[string]string) ([]string, error)
	WaitForCRDEstablished(ctx context.Context, name string, interval, timeout time.Duration) error
}

// InstallValidator runs the post-install validation.
type InstallValidator interface {
	Run(ctx context.Context, confirm bool) validate.Report
}

// StageError wraps a failure with the setup stage it occurred in.
// Setup is fail-fast: the first stage error aborts the run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Controller drives the environment lifecycle. It is safe for
// concurrent use; builds of the same component are serialized and
// their results cached for the life of the process.
type Controller struct {
	cfg       *config.Config
	timeouts  *config.Timeouts
	builder   ComponentBuilder
	registrar ImageRegistrar
	cluster   Cluster
	validator InstallValidator
	cache     *build.Cache

	// applyKustomize is a hook for tests; defaults to k8s.ApplyKustomize.
	applyKustomize func(ctx context.Context, kubeconfigPath, target string) error

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Controller.
func New(
	cfg *config.Config,
	timeouts *config.Timeouts,
	builder ComponentBuilder,
	registrar ImageRegistrar,
	cluster Cluster,
	validator InstallValidator,
) *Controller {
	return &Controller{
		cfg:            cfg,
		timeouts:       timeouts,
		builder:        builder,
		registrar:      registrar,
		cluster:        cluster,
		validator:      validator,
		cache:          build.NewCache(),
		applyKustomize: k8s.ApplyKustomize,
		locks:          make(map[string]*sync.Mutex),
	}
}

// componentLock returns the mutex serializing builds of one component.
func (c *Controller) componentLock(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[name] = lock
	}
	return lock
}

// ensureBuilt builds and registers one component unless a result is
// already cached.
func (c *Controller) ensureBuilt(ctx context.Context, name string) (*build.Result, error) {
	lock := c.componentLock(name)
	lock.Lock()
	defer lock.Unlock()

	if res, ok := c.cache.Get(name); ok {
		ui.Dimf("%s already built as %s", name, res.ImageRef)
		return res, nil
	}

	spec, ok := c.cfg.Components[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}

	res, err := c.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := c.registrar.Register(ctx, res); err != nil {
		return nil, err
	}

	c.cache.Put(res)
	return res, nil
}

// Build builds and registers the named components in parallel. An
// empty list means every declared component. Duplicate names are
// collapsed. All components are attempted even when some fail, and
// every failure is reported.
func (c *Controller) Build(ctx context.Context, names []string) (map[string]*build.Result, error) {
	if len(names) == 0 {
		names = c.cfg.ComponentNames()
	}
	names = dedupe(names)

	for _, name := range names {
		if _, ok := c.cfg.Components[name]; !ok {
			return nil, fmt.Errorf("unknown component %q", name)
		}
	}

	tasks := make([]async.Task, 0, len(names))
	for _, name := range names {
		tasks = append(tasks, async.Task{
			Name: name,
			Func: func(ctx context.Context) error {
				_, err := c.ensureBuilt(ctx, name)
				return err
			},
		})
	}

	results := async.Run(ctx, tasks)

	var errs []error
	built := make(map[string]*build.Result, len(names))
	for _, name := range names {
		if err := results[name]; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		res, _ := c.cache.Get(name)
		built[name] = res
	}

	return built, errors.Join(errs...)
}

// Setup brings the environment to a validated state: build and
// register all components, label the nodes, install the operator, wait
// for its CRD, apply the resolved manifests, then validate.
func (c *Controller) Setup(ctx context.Context) (*validate.Report, error) {
	ui.Section("Building components")
	if _, err := c.Build(ctx, nil); err != nil {
		return nil, &StageError{Stage: "build", Err: err}
	}

	ui.Section("Preparing cluster")
	labeled, err := c.cluster.LabelNodes(ctx, c.cfg.Cluster.NodeLabels)
	if err != nil {
		return nil, &StageError{Stage: "label-nodes", Err: err}
	}
	for _, node := range labeled {
		ui.Infof("labeled node %s", node)
	}

	ui.Section("Installing operator")
	url := c.cfg.Operator.ResolvedKustomizeURL()
	ui.Infof("applying operator kustomization %s", url)
	if err := c.applyKustomize(ctx, c.cfg.Cluster.Kubeconfig, url); err != nil {
		return nil, &StageError{Stage: "operator", Err: err}
	}

	ui.Infof("waiting for CRD %s", c.cfg.Operator.CRDName)
	err = c.cluster.WaitForCRDEstablished(ctx, c.cfg.Operator.CRDName,
		c.timeouts.PollInterval, c.timeouts.CRDWait)
	if err != nil {
		return nil, &StageError{Stage: "crd-wait", Err: err}
	}

	ui.Section("Applying manifests")
	changed, err := c.applyManifests(ctx)
	if err != nil {
		return nil, &StageError{Stage: "manifests", Err: err}
	}
	if !changed {
		ui.Infof("manifests unchanged, confirming existing installation")
	}

	ui.Section("Validating")
	report := c.validator.Run(ctx, !changed)
	if !report.Ready {
		return &report, &StageError{
			Stage: "validate",
			Err:   fmt.Errorf("validation finished in state %s: %s", report.State, report.FailureReason),
		}
	}

	return &report, nil
}

// applyManifests resolves every configured manifest template against
// the cached build results and applies it. It reports whether any
// applied object actually changed.
func (c *Controller) applyManifests(ctx context.Context) (bool, error) {
	known := c.cfg.ComponentNames()
	results := c.cache.Snapshot()

	changed := false
	for _, path := range c.cfg.Cluster.Manifests {
		tmpl, err := manifest.Load(path)
		if err != nil {
			return changed, err
		}

		resolved, err := manifest.Resolve(tmpl, known, results)
		if err != nil {
			return changed, err
		}
		for component, ref := range resolved.ImageRefs {
			ui.Infof("%s: using locally built %s", component, ref)
		}

		outcomes, err := c.cluster.Apply(ctx, resolved.Manifests, fieldManager)
		if err != nil {
			return changed, err
		}
		for _, outcome := range outcomes {
			if outcome.Changed {
				changed = true
				ui.Infof("applied %s %s", outcome.Kind, outcome.Name)
			} else {
				ui.Dimf("unchanged %s %s", outcome.Kind, outcome.Name)
			}
		}
	}

	return changed, nil
}

// Validate runs validation against the current cluster state without
// building or applying anything.
func (c *Controller) Validate(ctx context.Context) *validate.Report {
	report := c.validator.Run(ctx, false)
	return &report
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
