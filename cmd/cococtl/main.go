// Package main is the entry point for the cococtl CLI.
//
// cococtl manages the lifecycle of a local Confidential Containers
// environment on a single-node Kubernetes cluster: it builds patched
// component images, registers them with the cluster's containerd,
// installs the upstream operator, applies the runtime manifests and
// validates that confidential workloads actually run.
//
// Commands: build, setup, validate, doctor.
//
// For detailed usage information, run:
//
//	cococtl --help
package main

import (
	"fmt"
	"os"

	"github.com/jplazaroalonso/local-deployment/cmd/cococtl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
