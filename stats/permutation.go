package stats

import (
	"fmt"
	"math/rand"
)

// PermutationResult is the outcome of a two-sample permutation test on the
// difference in means between two groups.
type PermutationResult struct {
	ObservedStatistic float64
	PValue            float64
	Iterations        int
	NExtreme          int
}

// IsSignificant reports whether the p-value is below alpha.
func (r PermutationResult) IsSignificant(alpha float64) bool {
	return r.PValue < alpha
}

// PermutationTest compares group means, shuffling the pooled sample
// n times and counting how often the permuted mean difference is at least
// as extreme (two-sided) as the observed one.
func PermutationTest(groupA, groupB []float64, n int, seed int64) (PermutationResult, error) {
	if len(groupA) == 0 || len(groupB) == 0 {
		return PermutationResult{}, fmt.Errorf("stats: both groups must be non-empty")
	}
	if n <= 0 {
		return PermutationResult{}, fmt.Errorf("stats: n (%d) must be > 0", n)
	}

	meanA := mean(groupA)
	meanB := mean(groupB)
	observed := meanA - meanB

	combined := make([]float64, 0, len(groupA)+len(groupB))
	combined = append(combined, groupA...)
	combined = append(combined, groupB...)
	nA := len(groupA)

	rng := rand.New(rand.NewSource(seed))
	nExtreme := 0
	for i := 0; i < n; i++ {
		rng.Shuffle(len(combined), func(a, b int) { combined[a], combined[b] = combined[b], combined[a] })
		permMeanA := mean(combined[:nA])
		permMeanB := mean(combined[nA:])
		if abs(permMeanA-permMeanB) >= abs(observed) {
			nExtreme++
		}
	}

	pValue := float64(nExtreme+1) / float64(n+1)

	return PermutationResult{
		ObservedStatistic: observed,
		PValue:            pValue,
		Iterations:        n,
		NExtreme:          nExtreme,
	}, nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
