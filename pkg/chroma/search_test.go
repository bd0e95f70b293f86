package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func queryTestServer(t *testing.T, resp queryResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/heartbeat":
			_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
		case "/api/v1/collections/col-1/query":
			var req struct {
				QueryTexts []string `json:"query_texts"`
				NResults   int      `json:"n_results"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode query request: %v", err)
			}
			if len(req.QueryTexts) != 1 || req.NResults < 1 {
				t.Errorf("unexpected query request: %+v", req)
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestQuery_OrderedResults(t *testing.T) {
	srv := queryTestServer(t, queryResponse{
		IDs:       [][]string{{"ecology-01", "economy-01"}},
		Documents: [][]string{{"deforestation text", "inflation text"}},
		Metadatas: [][]map[string]string{{
			{"topic": "ecology"},
			{"topic": "economy"},
		}},
		Distances: [][]float64{{0.12, 0.55}},
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	col := Collection{ID: "col-1", Name: "articles"}

	results, err := client.Search(col).Query(context.Background(), "environmental impact", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "ecology-01" || results[1].ID != "economy-01" {
		t.Errorf("order not preserved: %v", results)
	}
	if results[0].Distance >= results[1].Distance {
		t.Errorf("distances out of order: %v vs %v", results[0].Distance, results[1].Distance)
	}
	if results[0].Topic() != "ecology" {
		t.Errorf("topic = %q, want ecology", results[0].Topic())
	}
}

func TestQuery_EmptyResultSet(t *testing.T) {
	srv := queryTestServer(t, queryResponse{
		IDs:       [][]string{{}},
		Documents: [][]string{{}},
		Metadatas: [][]map[string]string{{}},
		Distances: [][]float64{{}},
	})
	defer srv.Close()

	client := newTestClient(t, srv)
	col := Collection{ID: "col-1", Name: "articles"}

	results, err := client.Search(col).Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestQuery_InvalidArguments(t *testing.T) {
	srv := queryTestServer(t, queryResponse{})
	defer srv.Close()

	client := newTestClient(t, srv)
	col := Collection{ID: "col-1", Name: "articles"}
	ctx := context.Background()

	if _, err := client.Search(col).Query(ctx, "", 3); err == nil {
		t.Error("expected error for empty query text")
	}
	if _, err := client.Search(col).Query(ctx, "x", 0); err == nil {
		t.Error("expected error for topK < 1")
	}
}

func TestZipResults_Malformed(t *testing.T) {
	_, err := zipResults(queryResponse{
		IDs:       [][]string{{"a", "b"}},
		Documents: [][]string{{"only one"}},
	})
	if err == nil {
		t.Fatal("expected error for mismatched documents length")
	}
}

func TestResultTopic_Unknown(t *testing.T) {
	r := Result{ID: "a"}
	if got := r.Topic(); got != "unknown" {
		t.Errorf("Topic() = %q, want unknown", got)
	}
}
