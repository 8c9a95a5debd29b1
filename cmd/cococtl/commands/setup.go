package commands

import (
	"github.com/spf13/cobra"

	"github.com/jplazaroalonso/local-deployment/cmd/cococtl/handlers"
)

// Setup returns the command for bringing the environment to a
// validated state.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: coco.yaml)
//	--yes, -y:    Skip interactive confirmation prompts
func Setup() *cobra.Command {
	var configPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Build, install and validate the environment",
		Long: `Bring the local Confidential Containers environment to a validated state.

Setup runs the full pipeline: build and register all component images,
label the cluster nodes, install the upstream operator from its pinned
kustomization, wait for the CcRuntime CRD, apply the resolved runtime
manifests and validate that a confidential workload runs.

Setup is idempotent: re-running it against a healthy environment
re-applies the same state and only re-confirms validation.

Examples:
  # Full setup using coco.yaml in the current directory
  cococtl setup

  # Non-interactive setup for CI
  cococtl setup -y`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Setup(cmd.Context(), configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: coco.yaml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompts")

	return cmd
}
