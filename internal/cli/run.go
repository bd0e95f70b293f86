package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/demo"
	"github.com/kailas-cloud/chromactl/internal/report"
	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

var (
	runReset      bool
	runTopK       int
	runCollection string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Seed the demo corpus and evaluate canned queries",
		Long: `Connect to the running Chroma service, idempotently upsert the sample
article corpus, execute the canned semantic queries, and print a heuristic
relevance/coverage report for each result set.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
	cmd.Flags().BoolVar(&runReset, "reset", false, "wipe the remote store before seeding (server must allow resets)")
	cmd.Flags().IntVar(&runTopK, "top-k", 0, "results per query (default from config)")
	cmd.Flags().StringVar(&runCollection, "collection", "", "collection name (default from config)")
	return cmd
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	collection := cfg.Demo.Collection
	if runCollection != "" {
		collection = runCollection
	}
	topK := cfg.Demo.TopK
	if runTopK > 0 {
		topK = runTopK
	}

	ctx := cmd.Context()
	reg := prometheus.NewRegistry()

	opts := []chroma.Option{
		chroma.WithBaseURL(cfg.BaseURL()),
		chroma.WithHTTPClient(httpClientFor(cfg)),
		chroma.WithReadinessTimeout(time.Duration(cfg.Client.ReadinessTimeoutSec) * time.Second),
		chroma.WithPrometheus(reg),
		chroma.WithLogger(sdkLogger()),
	}
	if cfg.Service.AllowReset {
		opts = append(opts, chroma.WithAllowReset())
	}

	log.Info("connecting to chroma",
		zap.String("endpoint", cfg.BaseURL()),
		zap.String("collection", collection),
		zap.Int("top_k", topK),
	)

	client, err := chroma.New(ctx, opts...)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(os.Stdout, !noColor)
	runner := demo.NewRunner(demo.NewClientStore(client), renderer, log, collection, topK)
	if err := runner.Run(ctx, runReset); err != nil {
		return err
	}

	if verbose {
		dumpOperationCounts(log, reg)
	}
	return nil
}

// sdkLogger returns an slog logger for the SDK telemetry, debug-level when
// verbose, otherwise silent.
func sdkLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// dumpOperationCounts logs the SDK operation counters gathered during the run.
func dumpOperationCounts(log *zap.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.Float64("count", m.GetCounter().GetValue())}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			log.Debug(mf.GetName(), fields...)
		}
	}
}
