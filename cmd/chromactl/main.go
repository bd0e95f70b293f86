package main

import (
	"os"

	"github.com/kailas-cloud/chromactl/internal/cli"
	"github.com/kailas-cloud/chromactl/internal/compose"
	"github.com/kailas-cloud/chromactl/internal/version"
)

func main() {
	cmd := cli.NewRootCommand(version.Version, version.Commit, version.Date)
	if err := cmd.Execute(); err != nil {
		// Orchestrator exit codes pass through unchanged.
		os.Exit(compose.ExitCode(err))
	}
}
