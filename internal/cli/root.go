// Package cli defines the chromactl command surface.
package cli

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/config"
	"github.com/kailas-cloud/chromactl/internal/logger"
)

var (
	configPath string
	envName    string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chromactl",
		Short: "Lifecycle and demo tooling for a containerized Chroma instance",
		Long: `chromactl starts, stops, and resets a containerized Chroma vector
database and ships a demo client that seeds a sample corpus, runs canned
semantic queries, and scores the results with a heuristic
relevance/coverage evaluator.

The database itself is an external black box reached over HTTP; chromactl
only orchestrates it and talks to its REST API.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (overrides --env lookup)")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "environment name (local, dev, prod; default from ENV)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newUpCommand())
	rootCmd.AddCommand(newDownCommand())
	rootCmd.AddCommand(newLogsCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			fmt.Printf("chromactl %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// currentEnv resolves the environment name from the flag or ENV.
func currentEnv() string {
	if envName != "" {
		return envName
	}
	return config.GetEnv()
}

// setup loads the configuration and builds the tool logger. An explicit
// --config path wins over the env-derived config/<env>.yaml lookup.
func setup() (config.Config, *zap.Logger, error) {
	env := currentEnv()

	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(env, level)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// httpClientFor builds the HTTP client subcommands hand to the SDK,
// bounded by the configured per-request timeout.
func httpClientFor(cfg config.Config) *http.Client {
	return &http.Client{Timeout: time.Duration(cfg.Client.RequestTimeoutSec) * time.Second}
}
