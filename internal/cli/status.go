package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check Chroma service reachability and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			client, err := chroma.New(ctx,
				chroma.WithBaseURL(cfg.BaseURL()),
				chroma.WithHTTPClient(httpClientFor(cfg)),
				chroma.WithReadinessTimeout(5*time.Second),
			)
			if err != nil {
				fmt.Printf("chroma at %s: UNREACHABLE (%v)\n", cfg.BaseURL(), err)
				return err
			}

			version, err := client.Version(ctx)
			if err != nil {
				return err
			}
			cols, err := client.Collections().List(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("chroma at %s: OK\n", cfg.BaseURL())
			fmt.Printf("server version: %s\n", version)
			fmt.Printf("collections: %d\n", len(cols))
			for _, c := range cols {
				fmt.Printf("  - %s\n", c.Name)
			}
			return nil
		},
	}
}
