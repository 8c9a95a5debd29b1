package commands

import (
	"github.com/spf13/cobra"

	"github.com/jplazaroalonso/local-deployment/cmd/cococtl/handlers"
)

// Validate returns the command for validating an existing installation.
//
// Validation is read-only: it never builds, applies or mutates cluster
// state beyond the throwaway smoke test pod.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the installed environment",
		Long: `Check that the installed Confidential Containers environment works.

Validation waits for the CcRuntime rollout to complete, picks the
preferred confidential runtime class and schedules a smoke test pod
onto it. The command exits non-zero when validation fails or times out.

Examples:
  cococtl validate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: coco.yaml)")

	return cmd
}
