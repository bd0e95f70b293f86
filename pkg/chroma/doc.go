// Package chroma provides a Go client for the subset of the Chroma
// vector database REST API used by chromactl: readiness, server reset,
// collection management, idempotent document upsert, and kNN queries.
//
// Embedding generation and nearest-neighbor indexing happen entirely
// inside the Chroma server; this client only moves documents and query
// text over HTTP.
//
//	client, _ := chroma.New(ctx,
//	    chroma.WithHostPort("localhost", 8000),
//	    chroma.WithAllowReset(),
//	)
//	col, _ := client.Collections().GetOrCreate(ctx, "articles", nil)
//	_ = client.Documents(col).Upsert(ctx, docs)
//	results, _ := client.Search(col).Query(ctx, "how to reduce emissions", 3)
package chroma
