package commands

import (
	"github.com/spf13/cobra"

	"github.com/jplazaroalonso/local-deployment/cmd/cococtl/handlers"
)

// Build returns the command for building component images.
//
// Components are built in parallel from their staged Dockerfiles and
// the resulting images are registered into the cluster's containerd
// namespace. With no arguments every component declared in the
// configuration is built.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: coco.yaml)
func Build() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "build [component...]",
		Short: "Build and register component images",
		Long: `Build patched component images and register them with the cluster.

Each component is built from its staged Dockerfile. Source fetch and
patch failures are reported per stage so a broken patch is
distinguishable from an unreachable upstream. Successfully built images
are copied into the containerd namespace the cluster runtime pulls from.

Examples:
  # Build every declared component
  cococtl build

  # Build a single component
  cococtl build coco-payload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Build(cmd.Context(), configPath, args)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: coco.yaml)")

	return cmd
}
