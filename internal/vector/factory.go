// Package vector provides vector index implementations and a factory for creating them.
package vector

import "fmt"

// IndexType selects the vector index implementation.
type IndexType string

const (
	// IndexTypeMemory keeps float64 vectors and searches brute force. The
	// default, exact, and fast enough below ~100k vectors.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeCompact quantizes stored vectors to half precision for a
	// quarter of the memory, at the cost of a little ranking precision.
	IndexTypeCompact IndexType = "compact"
)

// NewIndex creates a vector index of the specified type.
// Supported types: "memory" (default), "compact".
func NewIndex(indexType string, dimensions int) (Index, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypeCompact:
		return NewCompactIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, compact)", indexType)
	}
}
