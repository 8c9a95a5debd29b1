package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "coco.yaml"

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Field: "file", Reason: err.Error()}
	}

	return Load(data)
}

// Load parses configuration from YAML bytes, applies defaults, and validates.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Field: "yaml", Reason: err.Error()}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for name, spec := range c.Components {
		spec.Name = name
		if spec.SourceRef == "" {
			spec.SourceRef = spec.Version
		}
		if len(spec.Stages) == 0 {
			spec.Stages = []string{"source", "patch"}
		}
		c.Components[name] = spec
	}

	if c.Operator.Version == "" {
		c.Operator.Version = "v0.12.0"
	}
	if c.Operator.KustomizeURL == "" {
		c.Operator.KustomizeURL = "github.com/confidential-containers/operator/config/release?ref=%s"
	}
	if c.Operator.Namespace == "" {
		c.Operator.Namespace = "confidential-containers-system"
	}
	if c.Operator.CRDName == "" {
		c.Operator.CRDName = "ccruntimes.confidentialcontainers.org"
	}

	if c.Cluster.ImageNamespace == "" {
		c.Cluster.ImageNamespace = "k8s.io"
	}
	if c.Cluster.BuildNamespace == "" {
		c.Cluster.BuildNamespace = "default"
	}
	if len(c.Cluster.NodeLabels) == 0 {
		c.Cluster.NodeLabels = map[string]string{
			"node-role.kubernetes.io/worker":     "",
			"confidentialcontainers.org/enabled": "true",
		}
	}

	if c.Validation.SmokeImage == "" {
		c.Validation.SmokeImage = "nginx:alpine"
	}
	if c.Validation.Namespace == "" {
		c.Validation.Namespace = "default"
	}
	if c.Validation.CcRuntimeName == "" {
		c.Validation.CcRuntimeName = "ccruntime-sample"
	}
}

// ResolvedKustomizeURL returns the operator kustomize URL with the version
// substituted into the %s placeholder when one is present.
func (o OperatorConfig) ResolvedKustomizeURL() string {
	if containsFormatVerb(o.KustomizeURL) {
		return fmt.Sprintf(o.KustomizeURL, o.Version)
	}
	return o.KustomizeURL
}

func containsFormatVerb(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '%' && s[i+1] == 's' {
			return true
		}
	}
	return false
}
