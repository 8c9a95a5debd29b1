package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplazaroalonso/local-deployment/internal/build"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/k8s"
	"github.com/jplazaroalonso/local-deployment/internal/validate"
)

type fakeBuilder struct {
	mu     sync.Mutex
	built  []string
	failOn map[string]error
}

func (f *fakeBuilder) Build(ctx context.Context, spec config.ComponentSpec) (*build.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[spec.Name]; err != nil {
		return nil, err
	}
	f.built = append(f.built, spec.Name)
	return &build.Result{
		Component: spec.Name,
		ImageRef:  spec.Name + ":" + spec.Version,
		Digest:    "sha256:" + spec.Name,
	}, nil
}

type fakeRegistrar struct {
	mu         sync.Mutex
	registered []string
	err        error
}

func (f *fakeRegistrar) Register(ctx context.Context, res *build.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, res.ImageRef)
	return nil
}

type fakeSetupCluster struct {
	calls        []string
	applied      [][]byte
	outcomes     []k8s.ApplyOutcome
	labelErr     error
	crdErr       error
	applyErr     error
	labeledWith  map[string]string
	crdName      string
	crdTimeout   time.Duration
	crdInterval  time.Duration
	labeledNodes []string
}

func (f *fakeSetupCluster) Apply(ctx context.Context, manifests []byte, fm string) ([]k8s.ApplyOutcome, error) {
	f.calls = append(f.calls, "apply")
	f.applied = append(f.applied, manifests)
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return f.outcomes, nil
}

func (f *fakeSetupCluster) LabelNodes(ctx context.Context, labels map[string]string) ([]string, error) {
	f.calls = append(f.calls, "label-nodes")
	f.labeledWith = labels
	if f.labelErr != nil {
		return nil, f.labelErr
	}
	return f.labeledNodes, nil
}

func (f *fakeSetupCluster) WaitForCRDEstablished(ctx context.Context, name string, interval, timeout time.Duration) error {
	f.calls = append(f.calls, "crd-wait")
	f.crdName = name
	f.crdInterval = interval
	f.crdTimeout = timeout
	return f.crdErr
}

type fakeValidator struct {
	report  validate.Report
	confirm *bool
	calls   int
}

func (f *fakeValidator) Run(ctx context.Context, confirm bool) validate.Report {
	f.calls++
	f.confirm = &confirm
	return f.report
}

func testConfig(t *testing.T, manifests ...string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Components: map[string]config.ComponentSpec{
			"coco-payload": {Name: "coco-payload", Version: "v0.11.0", Dockerfile: "containers/coco-payload/Dockerfile"},
			"cert-manager": {Name: "cert-manager", Version: "v1.14.0", Dockerfile: "containers/cert-manager/Dockerfile"},
		},
		Operator: config.OperatorConfig{
			Version:      "v0.12.0",
			KustomizeURL: "github.com/confidential-containers/operator/config/release?ref=%s",
			Namespace:    "confidential-containers-system",
			CRDName:      "ccruntimes.confidentialcontainers.org",
		},
		Cluster: config.ClusterConfig{
			Kubeconfig: "/tmp/kubeconfig",
			NodeLabels: map[string]string{"confidentialcontainers.org/enabled": "true"},
			Manifests:  manifests,
		},
		Validation: config.ValidationConfig{
			SmokeImage:    "nginx:alpine",
			Namespace:     "default",
			CcRuntimeName: "ccruntime-sample",
		},
	}
	return cfg
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		Build:        time.Minute,
		CRDWait:      time.Minute,
		Validate:     time.Minute,
		PollInterval: time.Millisecond,
	}
}

func newTestController(cfg *config.Config, builder *fakeBuilder, registrar *fakeRegistrar,
	cluster *fakeSetupCluster, validator *fakeValidator) *Controller {
	c := New(cfg, testTimeouts(), builder, registrar, cluster, validator)
	c.applyKustomize = func(ctx context.Context, kubeconfigPath, target string) error {
		cluster.calls = append(cluster.calls, "kustomize:"+target)
		return nil
	}
	return c
}

func TestBuild_AllComponents(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{}
	registrar := &fakeRegistrar{}
	c := newTestController(testConfig(t), builder, registrar, &fakeSetupCluster{}, &fakeValidator{})

	results, err := c.Build(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "coco-payload:v0.11.0", results["coco-payload"].ImageRef)
	assert.ElementsMatch(t, []string{"coco-payload:v0.11.0", "cert-manager:v1.14.0"}, registrar.registered)
}

func TestBuild_UnknownComponent(t *testing.T) {
	t.Parallel()
	c := newTestController(testConfig(t), &fakeBuilder{}, &fakeRegistrar{}, &fakeSetupCluster{}, &fakeValidator{})

	_, err := c.Build(context.Background(), []string{"harbor-core"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown component "harbor-core"`)
}

func TestBuild_DuplicateNamesCollapsed(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{}
	c := newTestController(testConfig(t), builder, &fakeRegistrar{}, &fakeSetupCluster{}, &fakeValidator{})

	results, err := c.Build(context.Background(), []string{"coco-payload", "coco-payload"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"coco-payload"}, builder.built)
}

func TestBuild_ResultsCached(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{}
	c := newTestController(testConfig(t), builder, &fakeRegistrar{}, &fakeSetupCluster{}, &fakeValidator{})

	_, err := c.Build(context.Background(), []string{"coco-payload"})
	require.NoError(t, err)
	_, err = c.Build(context.Background(), []string{"coco-payload"})
	require.NoError(t, err)

	assert.Equal(t, []string{"coco-payload"}, builder.built)
}

func TestBuild_AllFailuresReported(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{failOn: map[string]error{
		"coco-payload": errors.New("fetch failed"),
		"cert-manager": errors.New("compile failed"),
	}}
	c := newTestController(testConfig(t), builder, &fakeRegistrar{}, &fakeSetupCluster{}, &fakeValidator{})

	_, err := c.Build(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coco-payload: fetch failed")
	assert.Contains(t, err.Error(), "cert-manager: compile failed")
}

func TestBuild_PartialFailureStillBuildsOthers(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{failOn: map[string]error{
		"coco-payload": errors.New("fetch failed"),
	}}
	c := newTestController(testConfig(t), builder, &fakeRegistrar{}, &fakeSetupCluster{}, &fakeValidator{})

	results, err := c.Build(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, results, "cert-manager")
	assert.Equal(t, "cert-manager:v1.14.0", results["cert-manager"].ImageRef)
}

func TestBuild_RegistrationFailureFailsComponent(t *testing.T) {
	t.Parallel()
	registrar := &fakeRegistrar{err: errors.New("copy failed")}
	c := newTestController(testConfig(t), &fakeBuilder{}, registrar, &fakeSetupCluster{}, &fakeValidator{})

	_, err := c.Build(context.Background(), []string{"coco-payload"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy failed")
}

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ccruntime.yaml")
	data := `apiVersion: confidentialcontainers.org/v1beta1
kind: CcRuntime
metadata:
  name: ccruntime-sample
spec:
  runtimeName: kata
  config:
    installType: bundle
    payloadImage: coco-payload:latest
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestSetup_HappyPath(t *testing.T) {
	t.Parallel()
	manifestPath := writeManifest(t)
	cfg := testConfig(t, manifestPath)
	cluster := &fakeSetupCluster{
		labeledNodes: []string{"local-node"},
		outcomes: []k8s.ApplyOutcome{
			{Kind: "CcRuntime", Name: "ccruntime-sample", Changed: true},
		},
	}
	validator := &fakeValidator{report: validate.Report{State: validate.StateReady, Ready: true}}
	c := newTestController(cfg, &fakeBuilder{}, &fakeRegistrar{}, cluster, validator)

	report, err := c.Setup(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.Ready)

	// Stages run in order.
	assert.Equal(t, []string{
		"label-nodes",
		"kustomize:github.com/confidential-containers/operator/config/release?ref=v0.12.0",
		"crd-wait",
		"apply",
	}, cluster.calls)

	assert.Equal(t, "ccruntimes.confidentialcontainers.org", cluster.crdName)
	assert.Equal(t, cfg.Cluster.NodeLabels, cluster.labeledWith)

	// The applied manifest references the locally built image.
	require.Len(t, cluster.applied, 1)
	assert.Contains(t, string(cluster.applied[0]), "coco-payload:v0.11.0")

	// A changed apply runs full validation, not a confirmation pass.
	require.NotNil(t, validator.confirm)
	assert.False(t, *validator.confirm)
}

func TestSetup_UnchangedApplyConfirms(t *testing.T) {
	t.Parallel()
	manifestPath := writeManifest(t)
	cfg := testConfig(t, manifestPath)
	cluster := &fakeSetupCluster{
		outcomes: []k8s.ApplyOutcome{
			{Kind: "CcRuntime", Name: "ccruntime-sample", Changed: false},
		},
	}
	validator := &fakeValidator{report: validate.Report{State: validate.StateReady, Ready: true}}
	c := newTestController(cfg, &fakeBuilder{}, &fakeRegistrar{}, cluster, validator)

	_, err := c.Setup(context.Background())
	require.NoError(t, err)
	require.NotNil(t, validator.confirm)
	assert.True(t, *validator.confirm)
}

func TestSetup_BuildFailureStopsBeforeCluster(t *testing.T) {
	t.Parallel()
	builder := &fakeBuilder{failOn: map[string]error{"coco-payload": errors.New("fetch failed")}}
	cluster := &fakeSetupCluster{}
	c := newTestController(testConfig(t), builder, &fakeRegistrar{}, cluster, &fakeValidator{})

	_, err := c.Setup(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "build", stageErr.Stage)
	assert.Empty(t, cluster.calls)
}

func TestSetup_LabelFailure(t *testing.T) {
	t.Parallel()
	cluster := &fakeSetupCluster{labelErr: errors.New("no nodes")}
	c := newTestController(testConfig(t), &fakeBuilder{}, &fakeRegistrar{}, cluster, &fakeValidator{})

	_, err := c.Setup(context.Background())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "label-nodes", stageErr.Stage)
}

func TestSetup_CRDWaitFailure(t *testing.T) {
	t.Parallel()
	cluster := &fakeSetupCluster{crdErr: errors.New("timed out waiting for the condition")}
	c := newTestController(testConfig(t), &fakeBuilder{}, &fakeRegistrar{}, cluster, &fakeValidator{})

	_, err := c.Setup(context.Background())
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "crd-wait", stageErr.Stage)
}

func TestSetup_ValidationFailureReturnsReport(t *testing.T) {
	t.Parallel()
	manifestPath := writeManifest(t)
	cfg := testConfig(t, manifestPath)
	cluster := &fakeSetupCluster{
		outcomes: []k8s.ApplyOutcome{{Kind: "CcRuntime", Name: "ccruntime-sample", Changed: true}},
	}
	validator := &fakeValidator{report: validate.Report{
		State:         validate.StateFailed,
		FailureReason: "smoke test pod failed",
	}}
	c := newTestController(cfg, &fakeBuilder{}, &fakeRegistrar{}, cluster, validator)

	report, err := c.Setup(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "validate", stageErr.Stage)

	// The report is returned alongside the error for diagnostics.
	require.NotNil(t, report)
	assert.Equal(t, validate.StateFailed, report.State)
}

func TestValidate_Passthrough(t *testing.T) {
	t.Parallel()
	validator := &fakeValidator{report: validate.Report{State: validate.StateReady, Ready: true}}
	c := newTestController(testConfig(t), &fakeBuilder{}, &fakeRegistrar{}, &fakeSetupCluster{}, validator)

	report := c.Validate(context.Background())
	assert.True(t, report.Ready)
	require.NotNil(t, validator.confirm)
	assert.False(t, *validator.confirm)
}
