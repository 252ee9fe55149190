package utils

import "gonum.org/v1/gonum/floats"

// NormalizeL2 normalizes the vector in place to unit L2 norm.
// A zero vector is left unchanged.
func NormalizeL2(x []float64) {
	norm := floats.Norm(x, 2)
	if norm == 0 {
		return
	}
	floats.Scale(1/norm, x)
}
