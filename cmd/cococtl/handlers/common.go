// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/jplazaroalonso/local-deployment/internal/build"
	"github.com/jplazaroalonso/local-deployment/internal/buildtool"
	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/k8s"
	"github.com/jplazaroalonso/local-deployment/internal/lifecycle"
	"github.com/jplazaroalonso/local-deployment/internal/registry"
	"github.com/jplazaroalonso/local-deployment/internal/ui"
	"github.com/jplazaroalonso/local-deployment/internal/util/prerequisites"
	"github.com/jplazaroalonso/local-deployment/internal/validate"
)

// environment is the lifecycle surface handlers drive - matches
// lifecycle.Controller.
type environment interface {
	Build(ctx context.Context, names []string) (map[string]*build.Result, error)
	Setup(ctx context.Context) (*validate.Report, error)
	Validate(ctx context.Context) *validate.Report
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads the configuration from file.
	loadConfigFile = config.LoadFile

	// loadTimeouts reads timeout overrides from the environment.
	loadTimeouts = config.LoadTimeouts

	// checkSetupPrereqs runs the full prerequisite check.
	checkSetupPrereqs = prerequisites.CheckAll

	// kvmAvailable checks for host virtualization support.
	kvmAvailable = prerequisites.KVMAvailable

	// isWSL detects WSL hosts.
	isWSL = prerequisites.IsWSL

	// newBuildEnvironment wires a lifecycle controller without cluster
	// access, enough for building and registering images.
	newBuildEnvironment = func(cfg *config.Config, timeouts *config.Timeouts) (environment, error) {
		builder, registrar, err := buildStack(cfg, timeouts)
		if err != nil {
			return nil, err
		}
		return lifecycle.New(cfg, timeouts, builder, registrar, nil, nil), nil
	}

	// newClusterEnvironment wires the full lifecycle controller.
	newClusterEnvironment = func(cfg *config.Config, timeouts *config.Timeouts) (environment, error) {
		builder, registrar, err := buildStack(cfg, timeouts)
		if err != nil {
			return nil, err
		}
		cluster, err := k8s.NewFromKubeconfig(cfg.Cluster.Kubeconfig)
		if err != nil {
			return nil, err
		}
		validator := validate.New(cluster, cfg.Validation, *timeouts)
		return lifecycle.New(cfg, timeouts, builder, registrar, cluster, validator), nil
	}

	// confirmProceed asks the user a yes/no question.
	confirmProceed = func(ctx context.Context, title, description string) (bool, error) {
		proceed := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(title).
					Description(description).
					Value(&proceed),
			),
		).RunWithContext(ctx)
		return proceed, err
	}
)

// buildStack wires the build tool, builder and registrar.
func buildStack(cfg *config.Config, timeouts *config.Timeouts) (*build.Builder, *registry.Registrar, error) {
	runner := buildtool.ExecRunner{}

	var tool *buildtool.Tool
	if cfg.Cluster.BuildTool != "" {
		tool = buildtool.New(cfg.Cluster.BuildTool, runner)
	} else {
		detected, err := buildtool.Detect(runner)
		if err != nil {
			return nil, nil, err
		}
		tool = detected
	}

	builder := build.NewBuilder(tool, cfg.Cluster.BuildNamespace, timeouts)
	registrar := registry.NewRegistrar(tool, cfg.Cluster.BuildNamespace, cfg.Cluster.ImageNamespace, timeouts)
	return builder, registrar, nil
}

const validateElapsedRounding = time.Second

// resolveConfigPath falls back to the default configuration file name.
func resolveConfigPath(path string) string {
	if path == "" {
		return config.DefaultPath
	}
	return path
}

// sortedKeys returns the map keys in sorted order for stable output.
func sortedKeys(results map[string]*build.Result) []string {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// isInteractiveTTY reports whether stdin and stdout are a terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// printReport renders a validation report.
func printReport(report *validate.Report) {
	switch {
	case report.Ready:
		ui.Infof("environment validated in %s", report.Elapsed.Round(validateElapsedRounding))
	case report.State == validate.StateTimedOut:
		ui.Errorf("validation timed out after %s: %s", report.Elapsed.Round(validateElapsedRounding), report.FailureReason)
	default:
		ui.Errorf("validation failed: %s", report.FailureReason)
	}

	if smoke := report.SmokeTest; smoke != nil {
		ui.Infof("smoke test pod %s on runtime class %s: %s", smoke.PodName, smoke.RuntimeClass, smoke.Phase)
		for _, event := range smoke.Events {
			ui.Dimf("  %s", event)
		}
	}
}
