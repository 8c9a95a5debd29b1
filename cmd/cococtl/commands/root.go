// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the cococtl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cococtl",
		Short: "Manage a local Confidential Containers environment",
	}

	// Core commands
	cmd.AddCommand(Build())
	cmd.AddCommand(Setup())
	cmd.AddCommand(Validate())

	// Utility commands
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
