// Package vector provides similarity math, top-K selection, and in-memory
// vector indexes for article embeddings.
package vector

import (
	"fmt"
	"math"
)

// DimensionMismatchError reports two vectors of different lengths. Vectors are
// never truncated or padded to fit each other.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vectors must have the same dimension: got %d and %d", e.Got, e.Want)
}

// InvalidVectorError reports a vector that cannot be scored: empty, or holding
// a NaN or infinite element. Index is the offending element position, or -1
// when the condition applies to the whole vector.
type InvalidVectorError struct {
	Reason string
	Index  int
}

func (e *InvalidVectorError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid vector: %s at index %d", e.Reason, e.Index)
	}
	return fmt.Sprintf("invalid vector: %s", e.Reason)
}

// validateVector rejects empty vectors and non-finite elements.
func validateVector(v []float64) error {
	if len(v) == 0 {
		return &InvalidVectorError{Reason: "empty vector", Index: -1}
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &InvalidVectorError{Reason: "non-finite value", Index: i}
		}
	}
	return nil
}

// validatePair applies the shared pairwise rules: both vectors non-empty,
// same length, all elements finite.
func validatePair(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return &InvalidVectorError{Reason: "empty vector", Index: -1}
	}
	if len(a) != len(b) {
		return &DimensionMismatchError{Got: len(a), Want: len(b)}
	}
	if err := validateVector(a); err != nil {
		return err
	}
	return validateVector(b)
}
