package chroma

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SearchService runs kNN queries against a single collection.
type SearchService struct {
	c   *Client
	col Collection
}

// queryResponse is Chroma's columnar query result: one inner slice per
// query text, parallel across fields.
type queryResponse struct {
	IDs       [][]string            `json:"ids"`
	Documents [][]string            `json:"documents"`
	Metadatas [][]map[string]string `json:"metadatas"`
	Distances [][]float64           `json:"distances"`
}

// Query returns the topK nearest documents for the given query text,
// ordered by ascending distance. The server embeds the query.
func (s *SearchService) Query(ctx context.Context, text string, topK int) ([]Result, error) {
	if text == "" {
		return nil, fmt.Errorf("query: text is required")
	}
	if topK < 1 {
		return nil, fmt.Errorf("query: topK must be at least 1, got %d", topK)
	}

	body := map[string]any{
		"query_texts": []string{text},
		"n_results":   topK,
		"include":     []string{"documents", "metadatas", "distances"},
	}

	var resp queryResponse
	path := "/collections/" + url.PathEscape(s.col.ID) + "/query"
	if err := s.c.do(ctx, "query", http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("query %q: %w", s.col.Name, err)
	}

	results, err := zipResults(resp)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", s.col.Name, err)
	}
	return results, nil
}

// zipResults turns the columnar response for the first (only) query text
// into row-oriented results.
func zipResults(resp queryResponse) ([]Result, error) {
	if len(resp.IDs) == 0 {
		return nil, nil
	}
	ids := resp.IDs[0]

	docs := make([]string, len(ids))
	if len(resp.Documents) > 0 {
		if len(resp.Documents[0]) != len(ids) {
			return nil, fmt.Errorf("malformed response: %d documents for %d ids", len(resp.Documents[0]), len(ids))
		}
		docs = resp.Documents[0]
	}

	metas := make([]map[string]string, len(ids))
	if len(resp.Metadatas) > 0 && len(resp.Metadatas[0]) == len(ids) {
		metas = resp.Metadatas[0]
	}

	dists := make([]float64, len(ids))
	if len(resp.Distances) > 0 && len(resp.Distances[0]) == len(ids) {
		dists = resp.Distances[0]
	}

	results := make([]Result, len(ids))
	for i, id := range ids {
		results[i] = Result{
			ID:       id,
			Distance: dists[i],
			Content:  docs[i],
			Metadata: metas[i],
		}
	}
	return results, nil
}
