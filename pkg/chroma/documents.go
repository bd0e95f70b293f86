package chroma

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// DocumentService manages documents within a single collection.
type DocumentService struct {
	c   *Client
	col Collection
}

// Upsert inserts or replaces documents keyed by ID. Re-running with the
// same IDs replaces existing entries and never creates duplicates.
func (s *DocumentService) Upsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := validateDocuments(docs); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	// Chroma's upsert endpoint takes columnar arrays.
	body := struct {
		IDs       []string            `json:"ids"`
		Documents []string            `json:"documents"`
		Metadatas []map[string]string `json:"metadatas"`
	}{
		IDs:       make([]string, len(docs)),
		Documents: make([]string, len(docs)),
		Metadatas: make([]map[string]string, len(docs)),
	}
	for i, d := range docs {
		body.IDs[i] = d.ID
		body.Documents[i] = d.Content
		body.Metadatas[i] = d.Metadata
	}

	path := "/collections/" + url.PathEscape(s.col.ID) + "/upsert"
	if err := s.c.do(ctx, "upsert", http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("upsert %d documents into %q: %w", len(docs), s.col.Name, err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (s *DocumentService) Count(ctx context.Context) (int, error) {
	var n int
	path := "/collections/" + url.PathEscape(s.col.ID) + "/count"
	if err := s.c.do(ctx, "count", http.MethodGet, path, nil, &n); err != nil {
		return 0, fmt.Errorf("count documents in %q: %w", s.col.Name, err)
	}
	return n, nil
}

// validateDocuments rejects empty or duplicated IDs and empty content
// before the batch goes over the wire.
func validateDocuments(docs []Document) error {
	seen := make(map[string]bool, len(docs))
	for i, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("document %d: ID is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("document %d: duplicate ID %q in batch", i, d.ID)
		}
		seen[d.ID] = true
		if d.Content == "" {
			return fmt.Errorf("document %q: content is required", d.ID)
		}
	}
	return nil
}
