package weighting

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/starford/backlog/internal/apperr"
)

const tolerance = 1e-9

func TestProbabilities_One(t *testing.T) {
	probs, err := Probabilities(1)
	if err != nil {
		t.Fatalf("Probabilities(1): %v", err)
	}
	if len(probs) != 1 || probs[0] != 1 {
		t.Errorf("Probabilities(1) = %v, want [1]", probs)
	}
}

func TestProbabilities_Two(t *testing.T) {
	probs, err := Probabilities(2)
	if err != nil {
		t.Fatal(err)
	}
	if probs[0] <= probs[1] {
		t.Errorf("first = %v, want greater than second = %v", probs[0], probs[1])
	}
	if math.Abs(probs[0]+probs[1]-1) > tolerance {
		t.Errorf("sum = %v, want 1", probs[0]+probs[1])
	}
}

func TestProbabilities_Properties(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 57, 1000} {
		probs, err := Probabilities(n)
		if err != nil {
			t.Fatalf("Probabilities(%d): %v", n, err)
		}
		if len(probs) != n {
			t.Fatalf("len = %d, want %d", len(probs), n)
		}
		var sum float64
		for i, p := range probs {
			if p <= 0 {
				t.Errorf("n=%d: probs[%d] = %v, want positive", n, i, p)
			}
			if i > 0 && probs[i-1] < p {
				t.Errorf("n=%d: probs[%d]=%v < probs[%d]=%v", n, i-1, probs[i-1], i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > tolerance {
			t.Errorf("n=%d: sum = %v, want 1", n, sum)
		}
	}
}

func TestProbabilities_HarmonicRatio(t *testing.T) {
	probs, _ := Probabilities(4)
	for i := 1; i < len(probs); i++ {
		want := 1 / float64(i+1)
		if got := probs[i] / probs[0]; math.Abs(got-want) > tolerance {
			t.Errorf("probs[%d]/probs[0] = %v, want %v", i, got, want)
		}
	}
}

func TestProbabilities_Empty(t *testing.T) {
	for _, n := range []int{0, -3} {
		probs, err := Probabilities(n)
		if !errors.Is(err, apperr.ErrNoCards) {
			t.Errorf("Probabilities(%d) error = %v, want ErrNoCards", n, err)
		}
		if probs != nil {
			t.Errorf("Probabilities(%d) = %v, want nil", n, probs)
		}
	}
}

func TestChoose_FavoursEarlierIndexes(t *testing.T) {
	probs, _ := Probabilities(5)
	r := rand.New(rand.NewPCG(1, 2))
	counts := make([]int, len(probs))
	const draws = 20000
	for range draws {
		i := Choose(r, probs)
		if i < 0 || i >= len(probs) {
			t.Fatalf("Choose returned %d", i)
		}
		counts[i]++
	}
	if counts[0] <= counts[4] {
		t.Errorf("counts = %v, want first more frequent than last", counts)
	}
	got := float64(counts[0]) / draws
	if math.Abs(got-probs[0]) > 0.02 {
		t.Errorf("frequency of index 0 = %v, want about %v", got, probs[0])
	}
}

func TestChoose_Degenerate(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	if got := Choose(r, []float64{1}); got != 0 {
		t.Errorf("Choose([1]) = %d, want 0", got)
	}
	if got := Choose(r, nil); got != -1 {
		t.Errorf("Choose(nil) = %d, want -1", got)
	}
	if got := Choose(r, []float64{0, 0, 1}); got != 2 {
		t.Errorf("Choose([0 0 1]) = %d, want 2", got)
	}
}
