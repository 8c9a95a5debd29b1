package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ConfigurationError reports bad or missing input data. It is always fatal
// and never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// versionPattern accepts semantic-version-like strings with an optional
// leading v and an optional pre-release or build suffix, matching the
// pinned refs used upstream (e.g. v0.12.0, 1.14.0, v0.1.0-beta.3).
var versionPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+([-+][0-9A-Za-z.-]+)?$`)

// ResolveVersion returns the declared version for the named component.
// It is side-effect free and safe to call repeatedly and concurrently.
func (c *Config) ResolveVersion(name string) (string, error) {
	spec, ok := c.Components[name]
	if !ok {
		return "", &ConfigurationError{
			Field:  "components." + name,
			Reason: "unknown component",
		}
	}
	if spec.Version == "" {
		return "", &ConfigurationError{
			Field:  "components." + name + ".version",
			Reason: "version is required",
		}
	}
	if !versionPattern.MatchString(spec.Version) {
		return "", &ConfigurationError{
			Field:  "components." + name + ".version",
			Reason: fmt.Sprintf("%q does not look like a version", spec.Version),
		}
	}
	return spec.Version, nil
}

// Validate checks the loaded configuration for consistency.
func (c *Config) Validate() error {
	for _, name := range c.ComponentNames() {
		if _, err := c.ResolveVersion(name); err != nil {
			return err
		}
		spec := c.Components[name]
		if spec.Dockerfile == "" {
			return &ConfigurationError{
				Field:  "components." + name + ".dockerfile",
				Reason: "dockerfile is required",
			}
		}
		// Patches are COPY'd from the build context, so a path outside it
		// never reaches the patch stage.
		for _, p := range spec.Patches {
			if !insideDir(spec.BuildContext(), p) {
				return &ConfigurationError{
					Field:  "components." + name + ".patches",
					Reason: fmt.Sprintf("%s is outside the build context %s", p, spec.BuildContext()),
				}
			}
		}
	}
	if !versionPattern.MatchString(c.Operator.Version) {
		return &ConfigurationError{
			Field:  "operator.version",
			Reason: fmt.Sprintf("%q does not look like a version", c.Operator.Version),
		}
	}
	return nil
}

// insideDir reports whether path is lexically contained in dir.
func insideDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
