// Package vector provides a memory-compact quantized vector index.
package vector

import (
	"container/heap"
	"context"
	"fmt"
	"sync"

	"github.com/x448/float16"
)

// CompactIndex stores vectors quantized to IEEE 754 half precision, a quarter
// of the float64 footprint. Scores are computed in float64 after widening, so
// ranking error is bounded by the rounding of the stored vectors (about 3
// decimal digits), which is well below typical embedding noise.
type CompactIndex struct {
	dimensions int
	ids        []string
	vectors    [][]float16.Float16
	mu         sync.RWMutex
}

// NewCompactIndex creates a half-precision vector index with the given dimension.
func NewCompactIndex(dimensions int) (*CompactIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &CompactIndex{
		dimensions: dimensions,
		ids:        make([]string, 0),
		vectors:    make([][]float16.Float16, 0),
	}, nil
}

// Type returns the index type identifier.
func (c *CompactIndex) Type() string {
	return string(IndexTypeCompact)
}

// Add quantizes and appends vectors with the given IDs.
func (c *CompactIndex) Add(ctx context.Context, ids []string, vectors [][]float64) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != c.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), c.dimensions)
		}
		if err := validateVector(vectors[i]); err != nil {
			return fmt.Errorf("vector for %q: %w", id, err)
		}
		vec := make([]float16.Float16, c.dimensions)
		for j, v := range vectors[i] {
			vec[j] = float16.Fromfloat32(float32(v))
		}
		c.ids = append(c.ids, id)
		c.vectors = append(c.vectors, vec)
	}
	return nil
}

// Search returns the top-k stored vectors by cosine similarity to the query,
// best first. Each candidate is widened into a scratch buffer, so one search
// allocates a single dimension-sized slice regardless of corpus size.
func (c *CompactIndex) Search(ctx context.Context, query []float64, k int) ([]*Result, error) {
	if len(query) != c.dimensions {
		return nil, &DimensionMismatchError{Got: len(query), Want: c.dimensions}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if k <= 0 || len(c.ids) == 0 {
		return nil, nil
	}
	if k > len(c.ids) {
		k = len(c.ids)
	}
	buf := make([]float64, c.dimensions)
	h := make(resultHeap, 0, k)
	for i, vec := range c.vectors {
		for j, q := range vec {
			buf[j] = float64(q.Float32())
		}
		score, err := CosineSimilarity(query, buf)
		if err != nil {
			return nil, err
		}
		r := SimilarityResult{Index: i, Score: score}
		if h.Len() < k {
			heap.Push(&h, r)
		} else if better(r, h[0]) {
			h[0] = r
			heap.Fix(&h, 0)
		}
	}
	results := make([]*Result, h.Len())
	for i := len(results) - 1; i >= 0; i-- {
		t := heap.Pop(&h).(SimilarityResult)
		results[i] = &Result{ID: c.ids[t.Index], Score: t.Score}
	}
	return results, nil
}

// Remove removes vectors by ID, rebuilding the backing slices.
func (c *CompactIndex) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool)
	for _, id := range ids {
		removeSet[id] = true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	newIDs := make([]string, 0, len(c.ids))
	newVectors := make([][]float16.Float16, 0, len(c.vectors))
	for i, id := range c.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, c.vectors[i])
		}
	}
	c.ids = newIDs
	c.vectors = newVectors
	return nil
}

// Size returns the number of vectors in the index.
func (c *CompactIndex) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// Dimensions returns the vector dimension the index was created with.
func (c *CompactIndex) Dimensions() int {
	return c.dimensions
}

// Close is a no-op for CompactIndex.
func (c *CompactIndex) Close() error {
	return nil
}
