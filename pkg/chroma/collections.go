package chroma

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CollectionService manages collections.
type CollectionService struct {
	c *Client
}

type collectionDTO struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// GetOrCreate returns the named collection, creating it when missing.
// Metadata only applies on creation.
func (s *CollectionService) GetOrCreate(
	ctx context.Context, name string, metadata map[string]string,
) (Collection, error) {
	if name == "" {
		return Collection{}, fmt.Errorf("get or create collection: name is required")
	}

	body := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}

	var dto collectionDTO
	if err := s.c.do(ctx, "get_or_create_collection", http.MethodPost, "/collections", body, &dto); err != nil {
		return Collection{}, fmt.Errorf("get or create collection %q: %w", name, err)
	}
	return Collection{ID: dto.ID, Name: dto.Name, Metadata: dto.Metadata}, nil
}

// List returns all collections.
func (s *CollectionService) List(ctx context.Context) ([]Collection, error) {
	var dtos []collectionDTO
	if err := s.c.do(ctx, "list_collections", http.MethodGet, "/collections", nil, &dtos); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	cols := make([]Collection, len(dtos))
	for i, dto := range dtos {
		cols[i] = Collection{ID: dto.ID, Name: dto.Name, Metadata: dto.Metadata}
	}
	return cols, nil
}

// Delete removes a collection by name.
func (s *CollectionService) Delete(ctx context.Context, name string) error {
	if err := s.c.do(ctx, "delete_collection", http.MethodDelete, "/collections/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("delete collection %q: %w", name, err)
	}
	return nil
}
