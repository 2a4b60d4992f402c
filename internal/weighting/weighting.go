// Package weighting computes the harmonic-decay distribution used to pick cards.
package weighting

import (
	"fmt"
	"math/rand/v2"

	"github.com/starford/backlog/internal/apperr"
)

// Probabilities returns n probabilities where element i is proportional to 1/(i+1).
// The result sums to 1 and never increases. n must be at least 1.
func Probabilities(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("weighting: length %d: %w", n, apperr.ErrNoCards)
	}

	probs := make([]float64, n)
	var total float64
	for i := range probs {
		probs[i] = 1 / float64(i+1)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, nil
}

// Choose draws one index from the categorical distribution described by weights.
func Choose(r *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}
	x := r.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if x < acc {
			return i
		}
	}
	// Rounding can leave acc a hair under 1.
	return len(weights) - 1
}
