package handlers

import (
	"context"
	"errors"

	"github.com/jplazaroalonso/local-deployment/internal/ui"
)

// Setup brings the environment to a validated state.
//
// Prerequisites are checked first: missing required tools abort the
// run, but a host without KVM only triggers a confirmation since some
// runtime classes work without hardware virtualization.
func Setup(ctx context.Context, configPath string, yes bool) error {
	cfg, err := loadConfigFile(resolveConfigPath(configPath))
	if err != nil {
		return err
	}
	timeouts := loadTimeouts()

	prereqs := checkSetupPrereqs()
	for _, result := range prereqs.Results {
		if result.Found {
			ui.Dimf("found %s (%s)", result.Tool.Name, result.Path)
		} else if result.Tool.Required {
			ui.Errorf("missing %s: %s", result.Tool.Name, result.Tool.Description)
		} else {
			ui.Warnf("missing optional %s: %s", result.Tool.Name, result.Tool.Description)
		}
	}
	if err := prereqs.Error(); err != nil {
		return err
	}

	if isWSL() {
		ui.Warnf("WSL host detected; nested virtualization support depends on the Windows build")
	}
	if !kvmAvailable() {
		ui.Warnf("/dev/kvm not found; hardware-backed runtime classes will not work")
		if !yes && isInteractiveTTY() {
			proceed, err := confirmProceed(ctx,
				"Continue without KVM?",
				"Only software-backed runtime classes will be usable.")
			if err != nil {
				return err
			}
			if !proceed {
				return errors.New("setup cancelled")
			}
		}
	}

	env, err := newClusterEnvironment(cfg, timeouts)
	if err != nil {
		return err
	}

	report, err := env.Setup(ctx)
	if report != nil {
		printReport(report)
	}
	return err
}
