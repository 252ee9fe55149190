// Package vector provides an in-memory brute-force vector index.
package vector

import (
	"context"
	"fmt"
	"sync"
)

// MemoryIndex is an in-memory vector index using brute-force cosine search.
// At help-center corpus sizes (hundreds to a few thousand articles) exact
// scan beats approximate structures on both simplicity and recall.
type MemoryIndex struct {
	dimensions int
	ids        []string
	vectors    [][]float64
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory vector index with the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{
		dimensions: dimensions,
		ids:        make([]string, 0),
		vectors:    make([][]float64, 0),
	}, nil
}

// Type returns the index type identifier.
func (m *MemoryIndex) Type() string {
	return string(IndexTypeMemory)
}

// Add appends vectors with the given IDs. Every vector must match the index
// dimension and contain only finite values.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float64) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), m.dimensions)
		}
		if err := validateVector(vectors[i]); err != nil {
			return fmt.Errorf("vector for %q: %w", id, err)
		}
		vec := make([]float64, m.dimensions)
		copy(vec, vectors[i])
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, vec)
	}
	return nil
}

// Search returns the top-k stored vectors by cosine similarity to the query,
// best first. Ties keep insertion order.
func (m *MemoryIndex) Search(ctx context.Context, query []float64, k int) ([]*Result, error) {
	if len(query) != m.dimensions {
		return nil, &DimensionMismatchError{Got: len(query), Want: m.dimensions}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.ids) == 0 {
		return nil, nil
	}
	top, err := FindMostSimilar(query, m.vectors, k)
	if err != nil {
		return nil, err
	}
	results := make([]*Result, len(top))
	for i, t := range top {
		results[i] = &Result{ID: m.ids[t.Index], Score: t.Score}
	}
	return results, nil
}

// Remove removes vectors by ID, rebuilding the backing slices.
func (m *MemoryIndex) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool)
	for _, id := range ids {
		removeSet[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	newIDs := make([]string, 0, len(m.ids))
	newVectors := make([][]float64, 0, len(m.vectors))
	for i, id := range m.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, m.vectors[i])
		}
	}
	m.ids = newIDs
	m.vectors = newVectors
	return nil
}

// Size returns the number of vectors in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Dimensions returns the vector dimension the index was created with.
func (m *MemoryIndex) Dimensions() int {
	return m.dimensions
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}
