package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
components:
  coco-payload:
    version: v0.11.0
    dockerfile: containers/coco-payload/Dockerfile
    patches:
      - containers/coco-payload/patches/0001-openrc-install.patch
  cert-manager:
    version: v1.14.0
    dockerfile: containers/cert-manager/Dockerfile
    sourceRef: v1.14.0-patched
operator:
  version: v0.12.0
cluster:
  manifests:
    - manifests/runtimeclass.yaml
    - manifests/ccruntime.yaml
`

func TestLoad_Sample(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"cert-manager", "coco-payload"}, cfg.ComponentNames())

	payload := cfg.Components["coco-payload"]
	assert.Equal(t, "coco-payload", payload.Name)
	assert.Equal(t, "v0.11.0", payload.SourceRef, "sourceRef defaults to version")
	assert.Equal(t, []string{"source", "patch"}, payload.Stages)

	cm := cfg.Components["cert-manager"]
	assert.Equal(t, "v1.14.0-patched", cm.SourceRef)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "confidential-containers-system", cfg.Operator.Namespace)
	assert.Equal(t, "ccruntimes.confidentialcontainers.org", cfg.Operator.CRDName)
	assert.Equal(t, "k8s.io", cfg.Cluster.ImageNamespace)
	assert.Equal(t, "default", cfg.Cluster.BuildNamespace)
	assert.Equal(t, "nginx:alpine", cfg.Validation.SmokeImage)
	assert.Equal(t, "true", cfg.Cluster.NodeLabels["confidentialcontainers.org/enabled"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte("{invalid: ["))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "yaml", cfgErr.Field)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("/nonexistent/coco.yaml")
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestResolveVersion(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	tests := []struct {
		name      string
		component string
		want      string
		wantErr   bool
	}{
		{name: "payload", component: "coco-payload", want: "v0.11.0"},
		{name: "cert-manager", component: "cert-manager", want: "v1.14.0"},
		{name: "unknown component", component: "harbor-core", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := cfg.ResolveVersion(tt.component)
			if tt.wantErr {
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveVersion_Malformed(t *testing.T) {
	t.Parallel()

	cfg := &Config{Components: map[string]ComponentSpec{
		"bad": {Name: "bad", Version: "latest", Dockerfile: "Dockerfile"},
	}}

	_, err := cfg.ResolveVersion("bad")
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), "does not look like a version")
}

func TestValidate_MissingDockerfile(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
components:
  broken:
    version: v1.0.0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dockerfile is required")
}

func TestValidate_PatchOutsideContext(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte(`
components:
  coco-payload:
    version: v0.11.0
    dockerfile: containers/coco-payload/Dockerfile
    patches:
      - patches/0001-openrc-install.patch
operator:
  version: v0.12.0
`))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "components.coco-payload.patches", cfgErr.Field)
	assert.Contains(t, cfgErr.Reason, "outside the build context")
}

func TestBuildContext(t *testing.T) {
	t.Parallel()

	spec := ComponentSpec{Dockerfile: "containers/coco-payload/Dockerfile"}
	assert.Equal(t, "containers/coco-payload", spec.BuildContext())

	spec.Context = "containers/shared"
	assert.Equal(t, "containers/shared", spec.BuildContext())
}

// The repository's own coco.yaml must be buildable as shipped: every patch
// it declares exists on disk inside its component's build context.
func TestShippedConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(filepath.Join("..", "..", "coco.yaml"))
	require.NoError(t, err)

	for _, name := range cfg.ComponentNames() {
		spec := cfg.Components[name]
		_, err := os.Stat(filepath.Join("..", "..", spec.Dockerfile))
		require.NoError(t, err, "dockerfile for %s", name)
		for _, p := range spec.Patches {
			_, err := os.Stat(filepath.Join("..", "..", p))
			require.NoError(t, err, "patch %s for %s", p, name)
		}
	}
}

func TestValidate_VersionSuffixes(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"v0.1.0-beta.3", "1.2.3", "v10.0.1+meta"} {
		cfg := &Config{Components: map[string]ComponentSpec{
			"c": {Name: "c", Version: v, Dockerfile: "Dockerfile"},
		}}
		got, err := cfg.ResolveVersion("c")
		require.NoError(t, err, v)
		assert.Equal(t, v, got)
	}
}

func TestResolvedKustomizeURL(t *testing.T) {
	t.Parallel()

	op := OperatorConfig{
		Version:      "v0.12.0",
		KustomizeURL: "github.com/confidential-containers/operator/config/release?ref=%s",
	}
	assert.Equal(t,
		"github.com/confidential-containers/operator/config/release?ref=v0.12.0",
		op.ResolvedKustomizeURL())

	pinned := OperatorConfig{Version: "v0.12.0", KustomizeURL: "file:///local/overlay"}
	assert.Equal(t, "file:///local/overlay", pinned.ResolvedKustomizeURL())
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	ts := LoadTimeouts()
	assert.Equal(t, 0, ts.RetryMaxAttempts, "no automatic retry unless configured")
	assert.NotZero(t, ts.Validate)
	assert.NotZero(t, ts.PollInterval)
}

func TestLoadTimeouts_EnvOverride(t *testing.T) {
	t.Setenv("COCOCTL_POLL_INTERVAL", "1s")
	t.Setenv("COCOCTL_RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("COCOCTL_TIMEOUT_VALIDATE", "bogus")

	ts := LoadTimeouts()
	assert.Equal(t, "1s", ts.PollInterval.String())
	assert.Equal(t, 3, ts.RetryMaxAttempts)
	// Invalid values fall back to defaults.
	assert.Equal(t, "5m0s", ts.Validate.String())
}
