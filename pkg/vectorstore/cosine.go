package vectorstore

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// Cosine returns the cosine similarity of two vectors. A zero-norm vector
// yields 0. Mismatched dimensionality is a data-integrity bug, the one
// error class here that aborts instead of degrading.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, goerr.New("vector dimensionality mismatch",
			goerr.V("lenA", len(a)), goerr.V("lenB", len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
