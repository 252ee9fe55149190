// Package vector provides vector indexes and similarity search.
package vector

import "context"

// Index defines vector storage and nearest-neighbor search over article
// embeddings.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float64) error
	Search(ctx context.Context, query []float64, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Size() int
	Dimensions() int
	Close() error
}

// Result is a single vector search hit.
type Result struct {
	ID    string
	Score float64 // cosine similarity in [-1, 1]
}
