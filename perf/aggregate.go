package perf

import (
	"math"
	"sort"
)

// Aggregate is the cross-symbol summary for one config id, present when
// that config ran on two or more symbols (spec.md §4.8 "cross-symbol
// aggregation").
type Aggregate struct {
	AvgSharpe    float64
	MinSharpe    float64
	AvgCAGR      float64
	MedianCAGR   float64
	WorstDD      float64 // most negative drawdown observed across symbols
	HitRate      float64 // fraction of symbols with Sharpe >= hitRateFloor
	SymbolCount  int
}

// Eligible reports whether this aggregate qualifies for a leaderboard
// per spec.md §4.8: symbol_count >= floor and min_sharpe is finite.
func (a Aggregate) Eligible(minSymbols int) bool {
	return a.SymbolCount >= minSymbols && !math.IsInf(a.MinSharpe, 0) && !math.IsNaN(a.MinSharpe)
}

// Aggregate computes cross-symbol statistics for one config id's
// per-symbol metrics. hitRateFloor is the minimum Sharpe counted as a
// "hit" (spec.md §4.8 documents 0 as the default floor — see
// SweepConfig.HitRateFloor).
func AggregateMetrics(perSymbol []Metrics, hitRateFloor float64) Aggregate {
	n := len(perSymbol)
	if n == 0 {
		return Aggregate{MinSharpe: math.Inf(1)}
	}

	sharpes := make([]float64, n)
	cagrs := make([]float64, n)
	worstDD := 0.0
	hits := 0
	var sumSharpe, sumCAGR float64
	minSharpe := math.Inf(1)

	for i, m := range perSymbol {
		sharpes[i] = m.Sharpe
		cagrs[i] = m.CAGR
		sumSharpe += m.Sharpe
		sumCAGR += m.CAGR
		if m.Sharpe < minSharpe {
			minSharpe = m.Sharpe
		}
		if m.MaxDrawdown < worstDD {
			worstDD = m.MaxDrawdown
		}
		if m.Sharpe >= hitRateFloor {
			hits++
		}
	}

	sorted := append([]float64(nil), cagrs...)
	sort.Float64s(sorted)

	return Aggregate{
		AvgSharpe:   sumSharpe / float64(n),
		MinSharpe:   minSharpe,
		AvgCAGR:     sumCAGR / float64(n),
		MedianCAGR:  median(sorted),
		WorstDD:     worstDD,
		HitRate:     float64(hits) / float64(n),
		SymbolCount: n,
	}
}

// median expects xs to already be sorted ascending.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return xs[n/2]
	}
	return (xs[n/2-1] + xs[n/2]) / 2
}
