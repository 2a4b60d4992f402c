// Package plot renders the card weighting curve as an ASCII chart.
package plot

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/starford/backlog/internal/weighting"
)

const (
	height   = 15
	maxWidth = 80
)

// Render writes the selection probability (in percent) of each position in a
// list of n cards.
func Render(w io.Writer, n int) error {
	probs, err := weighting.Probabilities(n)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	series := make([]float64, len(probs))
	for i, p := range probs {
		series[i] = p * 100
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("selection probability (%%) by position, %d cards", n)),
	}
	if n > maxWidth {
		opts = append(opts, asciigraph.Width(maxWidth))
	}

	if _, err := fmt.Fprintln(w, asciigraph.Plot(series, opts...)); err != nil {
		return fmt.Errorf("plot: write: %w", err)
	}
	return nil
}
