package demo

import (
	"context"

	"github.com/kailas-cloud/chromactl/pkg/chroma"
)

// ClientStore adapts the Chroma SDK client to the Store interface.
type ClientStore struct {
	client *chroma.Client
}

// NewClientStore wraps an SDK client.
func NewClientStore(client *chroma.Client) *ClientStore {
	return &ClientStore{client: client}
}

func (s *ClientStore) Reset(ctx context.Context) error {
	return s.client.Reset(ctx)
}

func (s *ClientStore) EnsureCollection(ctx context.Context, name string) (chroma.Collection, error) {
	return s.client.Collections().GetOrCreate(ctx, name, nil)
}

func (s *ClientStore) Upsert(ctx context.Context, col chroma.Collection, docs []chroma.Document) error {
	return s.client.Documents(col).Upsert(ctx, docs)
}

func (s *ClientStore) Count(ctx context.Context, col chroma.Collection) (int, error) {
	return s.client.Documents(col).Count(ctx)
}

func (s *ClientStore) Query(
	ctx context.Context, col chroma.Collection, text string, topK int,
) ([]chroma.Result, error) {
	return s.client.Search(col).Query(ctx, text, topK)
}
