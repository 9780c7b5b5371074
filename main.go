package main

import (
	"os"

	"adapterctl/cmd"
)

// Set by the build, e.g. -ldflags "-X main.version=v1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
