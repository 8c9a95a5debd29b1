package handlers

import (
	"context"
	"fmt"
)

// Validate checks the installed environment without mutating it.
func Validate(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	timeouts := loadTimeouts()

	env, err := newClusterEnvironment(cfg, timeouts)
	if err != nil {
		return err
	}

	report := env.Validate(ctx)
	printReport(report)
	if !report.Ready {
		return fmt.Errorf("validation finished in state %s: %s", report.State, report.FailureReason)
	}
	return nil
}
