// Package demo seeds a sample corpus into the Chroma service, runs canned
// semantic queries, and displays heuristic evaluation reports.
package demo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chromactl/internal/evaluate"
	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

// Store is the slice of the Chroma client the demo consumes.
type Store interface {
	Reset(ctx context.Context) error
	EnsureCollection(ctx context.Context, name string) (chroma.Collection, error)
	Upsert(ctx context.Context, col chroma.Collection, docs []chroma.Document) error
	Count(ctx context.Context, col chroma.Collection) (int, error)
	Query(ctx context.Context, col chroma.Collection, text string, topK int) ([]chroma.Result, error)
}

// Presenter displays one evaluation report.
type Presenter interface {
	Render(rep evaluate.Report)
}

// Runner executes the demo sequence: seed, query, evaluate, display.
// Queries run sequentially, blocking on each HTTP round trip.
type Runner struct {
	store      Store
	present    Presenter
	logger     *zap.Logger
	collection string
	topK       int
}

// NewRunner creates a demo runner for the named collection.
func NewRunner(store Store, present Presenter, logger *zap.Logger, collection string, topK int) *Runner {
	return &Runner{
		store:      store,
		present:    present,
		logger:     logger,
		collection: collection,
		topK:       topK,
	}
}

// Run seeds the corpus and evaluates the canned queries. reset wipes the
// remote store first (requires the server and client to permit resets).
func (r *Runner) Run(ctx context.Context, reset bool) error {
	logger := r.logger.With(zap.String("run_id", uuid.NewString()))

	if reset {
		logger.Warn("resetting remote store before seeding")
		if err := r.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset remote store: %w", err)
		}
	}

	col, err := r.store.EnsureCollection(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("ensure collection %q: %w", r.collection, err)
	}

	docs := Corpus()
	if err := r.store.Upsert(ctx, col, docs); err != nil {
		return fmt.Errorf("seed corpus: %w", err)
	}

	count, err := r.store.Count(ctx, col)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	logger.Info("corpus seeded",
		zap.String("collection", r.collection),
		zap.Int("upserted", len(docs)),
		zap.Int("stored", count),
	)

	for _, q := range Queries() {
		results, err := r.store.Query(ctx, col, q.Text, r.topK)
		if err != nil {
			return fmt.Errorf("query %q: %w", q.Text, err)
		}
		rep := evaluate.Evaluate(q.Text, q.Keywords, results)
		r.present.Render(rep)

		logger.Debug("query evaluated",
			zap.String("query", q.Text),
			zap.Int("results", len(rep.Hits)),
			zap.Int("relevance", rep.Relevance),
			zap.Int("coverage", rep.Coverage),
		)
	}

	logger.Info("evaluation completed", zap.Int("queries", len(Queries())))
	return nil
}
