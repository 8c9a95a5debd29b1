// Package config loads and validates the coco.yaml configuration that
// declares buildable components, manifest templates, and cluster settings.
package config

import (
	"path/filepath"
	"sort"
)

// Config is the top-level configuration for a cococtl run.
// It is immutable once loaded.
type Config struct {
	// Components maps a component name to its build specification.
	Components map[string]ComponentSpec `yaml:"components"`

	// Operator configures the upstream Confidential Containers operator.
	Operator OperatorConfig `yaml:"operator"`

	// Cluster configures access to the target single-node cluster.
	Cluster ClusterConfig `yaml:"cluster"`

	// Validation configures the smoke workload.
	Validation ValidationConfig `yaml:"validation"`
}

// ComponentSpec declares how a single component is built.
type ComponentSpec struct {
	// Name is the component name, filled from the map key on load.
	Name string `yaml:"-"`

	// Version is the declared version used to tag the image and select
	// the source ref. Must look like a semantic version.
	Version string `yaml:"version"`

	// SourceRef is the upstream ref (tag or commit) the build fetches.
	// Defaults to Version.
	SourceRef string `yaml:"sourceRef"`

	// Dockerfile is the path to the staged Dockerfile for this component.
	Dockerfile string `yaml:"dockerfile"`

	// Context is the build context directory. When empty a throwaway
	// context is created next to the Dockerfile.
	Context string `yaml:"context"`

	// Stages are the intermediate build targets executed in order before
	// the final image build. Failures classify by stage name.
	Stages []string `yaml:"stages"`

	// Patches are local patch files applied during the patch stage, in
	// declared order. Paths are passed to the build as a build argument.
	Patches []string `yaml:"patches"`

	// ExtraFiles are generated files written into the build context under
	// artifacts/ before the build starts, keyed by relative path.
	ExtraFiles map[string]string `yaml:"extraFiles"`

	// BuildArgs are additional build arguments.
	BuildArgs map[string]string `yaml:"buildArgs"`
}

// BuildContext returns the effective build context directory: the declared
// context, or the Dockerfile's directory when none is set.
func (s ComponentSpec) BuildContext() string {
	if s.Context != "" {
		return s.Context
	}
	return filepath.Dir(s.Dockerfile)
}

// OperatorConfig configures the upstream operator installation.
type OperatorConfig struct {
	// Version is the pinned operator release ref.
	Version string `yaml:"version"`

	// KustomizeURL is the kustomize source for the operator manifests.
	// The %s placeholder, if present, is substituted with Version.
	KustomizeURL string `yaml:"kustomizeURL"`

	// Namespace is where the operator deploys its controller.
	Namespace string `yaml:"namespace"`

	// CRDName is the CRD the setup waits for after installing the operator.
	CRDName string `yaml:"crdName"`
}

// ClusterConfig configures cluster and image-namespace access.
type ClusterConfig struct {
	// Kubeconfig is the path to the kubeconfig file. Empty means the
	// standard loading rules (KUBECONFIG, ~/.kube/config).
	Kubeconfig string `yaml:"kubeconfig"`

	// ImageNamespace is the containerd namespace the cluster runtime
	// resolves images from.
	ImageNamespace string `yaml:"imageNamespace"`

	// BuildNamespace is the containerd namespace images are built into
	// before registration.
	BuildNamespace string `yaml:"buildNamespace"`

	// BuildTool is the container build binary. Auto-detected when empty.
	BuildTool string `yaml:"buildTool"`

	// Manifests are the static manifest templates applied during setup,
	// in order.
	Manifests []string `yaml:"manifests"`

	// NodeLabels are applied to every node before the operator install.
	NodeLabels map[string]string `yaml:"nodeLabels"`
}

// ValidationConfig configures the smoke workload.
type ValidationConfig struct {
	// SmokeImage is the image run under the new runtime class.
	SmokeImage string `yaml:"smokeImage"`

	// Namespace is where the smoke pod is created.
	Namespace string `yaml:"namespace"`

	// CcRuntimeName is the CcRuntime resource checked for readiness.
	CcRuntimeName string `yaml:"ccRuntimeName"`
}

// ComponentNames returns the declared component names in sorted order.
func (c *Config) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
