package main

import (
	"os"

	"github.com/trebuchet-org/govctl/internal/cli"
	"github.com/trebuchet-org/govctl/internal/config"
)

// Set via -ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
