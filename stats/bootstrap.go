// Package stats provides the statistical-inference layer spec.md §4.11
// requires to guard sweep/YOLO results against overfitting: bootstrap
// confidence intervals, permutation significance tests, and multiple-
// comparison corrections. Formulas are grounded on the project's original
// Rust statistics.rs module, carried over verbatim where the spec is
// silent on exact constants.
package stats

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"trendlab/config"
)

// BootstrapResult is a percentile-method bootstrap confidence interval for
// a sample statistic.
type BootstrapResult struct {
	PointEstimate   float64
	CILower         float64
	CIUpper         float64
	StdError        float64
	ConfidenceLevel float64
	Iterations      int
	BootstrapMean   float64
	BootstrapMedian float64
}

// IsSignificant reports whether zero falls outside the confidence interval.
func (r BootstrapResult) IsSignificant() bool {
	return !(r.CILower <= 0 && r.CIUpper >= 0)
}

// IsSignificantlyPositive reports whether the CI lower bound is above zero.
func (r BootstrapResult) IsSignificantlyPositive() bool {
	return r.CILower > 0
}

// IsSignificantlyNegative reports whether the CI upper bound is below zero.
func (r BootstrapResult) IsSignificantlyNegative() bool {
	return r.CIUpper < 0
}

// CIWidth is the confidence interval's width, a measure of uncertainty.
func (r BootstrapResult) CIWidth() float64 {
	return r.CIUpper - r.CILower
}

// StatisticFunc computes a scalar statistic from a sample.
type StatisticFunc func(sample []float64) float64

// BootstrapCI resamples data with replacement cfg.Iterations times,
// computes statisticFn on each resample, and reports the percentile-method
// confidence interval over the bootstrap distribution.
func BootstrapCI(data []float64, statisticFn StatisticFunc, cfg config.BootstrapConfig) (BootstrapResult, error) {
	if err := cfg.Validate(); err != nil {
		return BootstrapResult{}, fmt.Errorf("stats: %w", err)
	}
	if len(data) < 2 {
		return BootstrapResult{}, fmt.Errorf("stats: need at least 2 samples, have %d", len(data))
	}

	n := len(data)
	pointEstimate := statisticFn(data)

	iterations := cfg.IterationsOrDefault()
	rng := rand.New(rand.NewSource(cfg.Seed))
	bootstrapStats := make([]float64, iterations)
	resample := make([]float64, n)
	for i := 0; i < iterations; i++ {
		for j := 0; j < n; j++ {
			resample[j] = data[rng.Intn(n)]
		}
		bootstrapStats[i] = statisticFn(resample)
	}
	sort.Float64s(bootstrapStats)

	confidenceLevel := cfg.ConfidenceLevelOrDefault()
	alpha := 1 - confidenceLevel
	lowerIdx := int(alpha / 2 * float64(iterations))
	upperIdx := int((1 - alpha/2) * float64(iterations))
	if upperIdx >= iterations {
		upperIdx = iterations - 1
	}
	ciLower := bootstrapStats[lowerIdx]
	ciUpper := bootstrapStats[upperIdx]

	var sum float64
	for _, x := range bootstrapStats {
		sum += x
	}
	bootstrapMean := sum / float64(iterations)
	var variance float64
	for _, x := range bootstrapStats {
		d := x - bootstrapMean
		variance += d * d
	}
	variance /= float64(iterations)
	stdError := math.Sqrt(variance)

	bootstrapMedian := bootstrapStats[iterations/2]

	return BootstrapResult{
		PointEstimate:   pointEstimate,
		CILower:         ciLower,
		CIUpper:         ciUpper,
		StdError:        stdError,
		ConfidenceLevel: confidenceLevel,
		Iterations:      iterations,
		BootstrapMean:   bootstrapMean,
		BootstrapMedian: bootstrapMedian,
	}, nil
}

// BootstrapSharpe bootstraps the Sharpe ratio (mean/std * sqrt(annualization),
// sample std dev) over a series of per-bar returns.
func BootstrapSharpe(returns []float64, annualization float64, cfg config.BootstrapConfig) (BootstrapResult, error) {
	sharpeFn := func(r []float64) float64 {
		if len(r) < 2 {
			return 0
		}
		var sum float64
		for _, x := range r {
			sum += x
		}
		mean := sum / float64(len(r))
		var variance float64
		for _, x := range r {
			d := x - mean
			variance += d * d
		}
		variance /= float64(len(r) - 1)
		std := math.Sqrt(variance)
		if std < 1e-10 {
			return 0
		}
		return (mean / std) * math.Sqrt(annualization)
	}
	return BootstrapCI(returns, sharpeFn, cfg)
}
