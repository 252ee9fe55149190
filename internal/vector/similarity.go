// Package vector provides similarity helpers over float64 embeddings.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// Both vectors must be non-empty, the same length, and finite everywhere; a
// length mismatch yields a *DimensionMismatchError, anything else a
// *InvalidVectorError. If either vector has zero magnitude the similarity is 0:
// a zero vector points nowhere, so it is equally (un)similar to everything.
func CosineSimilarity(a, b []float64) (float64, error) {
	if err := validatePair(a, b); err != nil {
		return 0, err
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	sim := floats.Dot(a, b) / (normA * normB)
	// Rounding can push the ratio a hair past the mathematical range.
	return math.Max(-1, math.Min(1, sim)), nil
}

// EuclideanDistance returns the L2 distance between a and b. Validation rules
// match CosineSimilarity. The result is symmetric, non-negative, and zero
// exactly when the vectors are elementwise equal.
func EuclideanDistance(a, b []float64) (float64, error) {
	if err := validatePair(a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 2), nil
}
