package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/compose"
	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

var (
	upWait     bool
	logsFollow bool
	resetYes   bool
)

func newUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start the Chroma service",
		Long: `Create the persistence directory (if persistence is enabled) and start
the containerized Chroma service in the background. Safe to run twice:
the orchestrator converges on a single running instance.`,
		Args: cobra.NoArgs,
		RunE: runUp,
	}
	cmd.Flags().BoolVar(&upWait, "wait", false, "wait for the service to answer its heartbeat")
	return cmd
}

func runUp(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	runner := compose.NewRunner(cfg, log)
	if err := runner.Up(cmd.Context()); err != nil {
		return err
	}

	if upWait {
		timeout := time.Duration(cfg.Client.ReadinessTimeoutSec) * time.Second
		log.Info("waiting for heartbeat",
			zap.String("endpoint", cfg.BaseURL()),
			zap.Duration("timeout", timeout),
		)
		_, err := chroma.New(cmd.Context(),
			chroma.WithBaseURL(cfg.BaseURL()),
			chroma.WithHTTPClient(httpClientFor(cfg)),
			chroma.WithReadinessTimeout(timeout),
		)
		if err != nil {
			return fmt.Errorf("service started but not ready: %w", err)
		}
		log.Info("service ready")
	}
	return nil
}

func newDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop the Chroma service",
		Long:  "Stop the containerized Chroma service. Persisted data stays on disk.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return compose.NewRunner(cfg, log).Down(cmd.Context())
		},
	}
}

func newLogsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show Chroma service logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			if logsFollow {
				// Ctrl-C stops following without reporting an error.
				var cancel context.CancelFunc
				ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer cancel()
			}
			err = compose.NewRunner(cfg, log).Logs(ctx, logsFollow)
			if logsFollow && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	return cmd
}

func newResetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Stop the service and DELETE its persisted data",
		Long: `Stop the Chroma service, remove its volumes, and delete the persistence
directory. Destructive: refuses to run without --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if err := compose.NewRunner(cfg, log).Reset(cmd.Context(), resetYes); err != nil {
				if errors.Is(err, compose.ErrResetNotConfirmed) {
					return fmt.Errorf("%w: re-run with --yes to delete %s", err, cfg.Service.PersistDir)
				}
				return err
			}
			log.Info("reset complete", zap.String("persist_dir", cfg.Service.PersistDir))
			return nil
		},
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion of persisted data")
	return cmd
}
