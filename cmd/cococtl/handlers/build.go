package handlers

import (
	"context"
	"time"

	"github.com/jplazaroalonso/local-deployment/internal/ui"
)

// Build builds and registers the named components, or every declared
// component when names is empty.
func Build(ctx context.Context, configPath string, names []string) error {
	cfg, err := loadConfigFile(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	timeouts := loadTimeouts()

	env, err := newBuildEnvironment(cfg, timeouts)
	if err != nil {
		return err
	}

	results, err := env.Build(ctx, names)
	for _, name := range sortedKeys(results) {
		res := results[name]
		ui.Infof("%s: %s (%s) in %s", res.Component, res.ImageRef, shortDigest(res.Digest), res.Duration.Round(time.Second))
	}
	return err
}

// shortDigest trims a sha256 digest for display.
func shortDigest(digest string) string {
	const prefix = "sha256:"
	if len(digest) > len(prefix)+12 {
		return digest[:len(prefix)+12]
	}
	return digest
}
