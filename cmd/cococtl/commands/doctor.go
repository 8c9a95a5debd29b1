package commands

import (
	"github.com/spf13/cobra"

	"github.com/jplazaroalonso/local-deployment/cmd/cococtl/handlers"
)

// Doctor returns the command for diagnosing the host and cluster.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: coco.yaml)
//	--json:       Output the diagnosis as JSON
func Doctor() *cobra.Command {
	var configPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the host and cluster",
		Long: `Check the host and cluster for everything setup needs.

Doctor verifies the required client tools (kubectl, nerdctl), host
virtualization support, and - when the cluster is reachable - the
installed runtime classes and CcRuntime rollout state.

Examples:
  cococtl doctor
  cococtl doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: coco.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output diagnosis as JSON")

	return cmd
}
