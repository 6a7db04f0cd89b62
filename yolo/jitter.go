// Package yolo implements the long-running stochastic search loop
// (spec.md §4.10): jitter a base strategy grid, sweep it across a symbol
// universe, gate promising cross-symbol aggregates through walk-forward
// validation, and merge survivors into session/all-time leaderboards.
package yolo

import (
	"fmt"
	"math"
	"math/rand"

	"trendlab/strategy"
)

// lookbackStep/lookbackMin/lookbackMax bound every jittered MA window:
// lookbacks round to 5-bar steps and clamp to [5, 200] (spec.md §4.10).
const (
	lookbackStep = 5
	lookbackMin  = 5
	lookbackMax  = 200
)

// JitterMACrossover produces one neighboring grid point from base: each
// of Fast and Slow is multiplied by an independent random factor in
// 1 ± explorationPct, rounded to the nearest 5-bar step and clamped to
// [5, 200]. If the fast < slow constraint is violated by the
// independent jitter, slow is repaired to fast + lookbackStep (spec.md
// §4.10's "bump the offending parameter" rule) rather than the draw
// being discarded.
func JitterMACrossover(base strategy.MACrossoverConfig, rng *rand.Rand, explorationPct float64) (strategy.MACrossoverConfig, string) {
	newFast := jitterLookback(base.Fast, rng, explorationPct)
	newSlow := jitterLookback(base.Slow, rng, explorationPct)
	repaired := false
	if newSlow <= newFast {
		newSlow = newFast + lookbackStep
		repaired = true
	}

	out := base
	out.Fast = newFast
	out.Slow = newSlow

	summary := fmt.Sprintf("MACrossover fast %d->%d slow %d->%d", base.Fast, newFast, base.Slow, newSlow)
	if repaired {
		summary += " (slow repaired for fast<slow)"
	}
	return out, summary
}

func jitterLookback(base int, rng *rand.Rand, explorationPct float64) int {
	factor := 1 + (rng.Float64()*2-1)*explorationPct
	v := float64(base) * factor
	v = math.Round(v/lookbackStep) * lookbackStep
	if v < lookbackMin {
		v = lookbackMin
	}
	if v > lookbackMax {
		v = lookbackMax
	}
	return int(v)
}

// GridPoint pairs a jittered strategy with the human-readable summary of
// what changed from its base, for progress reporting.
type GridPoint struct {
	Spec    strategy.Spec
	Summary string
}

// JitterGrid produces one jittered GridPoint per entry in base.
func JitterGrid(base []strategy.MACrossoverConfig, rng *rand.Rand, explorationPct float64) ([]GridPoint, error) {
	out := make([]GridPoint, 0, len(base))
	for _, cfg := range base {
		jittered, summary := JitterMACrossover(cfg, rng, explorationPct)
		spec, err := strategy.NewMACrossover(jittered)
		if err != nil {
			return nil, fmt.Errorf("yolo: jittering %+v produced an invalid config: %w", cfg, err)
		}
		out = append(out, GridPoint{Spec: spec, Summary: summary})
	}
	return out, nil
}
