package stats

import (
	"fmt"
	"math"
	"sort"

	"trendlab/config"
)

// SampleStatistics summarizes a sample's location, spread, and shape.
type SampleStatistics struct {
	N        int
	Mean     float64
	Std      float64
	StdError float64
	Min      float64
	Max      float64
	Median   float64
	Q1       float64
	Q3       float64
	Skewness float64
	Kurtosis float64
}

// ComputeSampleStatistics returns the summary statistics of data.
func ComputeSampleStatistics(data []float64) (SampleStatistics, error) {
	if len(data) == 0 {
		return SampleStatistics{}, fmt.Errorf("stats: data must be non-empty")
	}
	n := len(data)
	m := mean(data)

	var variance float64
	if n > 1 {
		for _, x := range data {
			d := x - m
			variance += d * d
		}
		variance /= float64(n - 1)
	}
	std := math.Sqrt(variance)
	stdError := std / math.Sqrt(float64(n))

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	min, max := sorted[0], sorted[n-1]

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}
	q1 := interpolateQuantile(sorted, float64(n-1)*0.25)
	q3 := interpolateQuantile(sorted, float64(n-1)*0.75)

	var skewness, kurtosis float64
	if std > 1e-10 {
		var m3, m4 float64
		for _, x := range data {
			d := x - m
			m3 += d * d * d
			m4 += d * d * d * d
		}
		m3 /= float64(n)
		m4 /= float64(n)
		skewness = m3 / (std * std * std)
		kurtosis = m4/(std*std*std*std) - 3
	}

	return SampleStatistics{
		N: n, Mean: m, Std: std, StdError: stdError,
		Min: min, Max: max, Median: median, Q1: q1, Q3: q3,
		Skewness: skewness, Kurtosis: kurtosis,
	}, nil
}

func interpolateQuantile(sorted []float64, idx float64) float64 {
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// minSamplesForStrategyStats is the minimum number of return observations
// required before StrategyStatisticsFromReturns will produce a grade at all
// (spec.md §4.11, matching the original statistics.rs threshold).
const minSamplesForStrategyStats = 30

// StrategyStatisticsFromReturns computes the full statistical picture for a
// strategy's per-bar returns: sample statistics, a bootstrap Sharpe CI, and
// the confidence grade derived from it.
func StrategyStatisticsFromReturns(returns []float64, annualization float64, cfg config.BootstrapConfig) (StrategyStatistics, error) {
	if len(returns) < minSamplesForStrategyStats {
		return StrategyStatistics{}, fmt.Errorf("stats: need at least %d returns, have %d", minSamplesForStrategyStats, len(returns))
	}
	returnStats, err := ComputeSampleStatistics(returns)
	if err != nil {
		return StrategyStatistics{}, err
	}
	sharpeCI, err := BootstrapSharpe(returns, annualization, cfg)
	if err != nil {
		return StrategyStatistics{}, err
	}
	grade := GradeFromSharpeCI(sharpeCI, len(returns))
	return StrategyStatistics{
		SharpeCI:        sharpeCI,
		ReturnStats:     returnStats,
		ConfidenceGrade: grade,
	}, nil
}

// WithFDRAdjustment returns a copy of s with the FDR-adjusted p-value
// recorded and the confidence grade downgraded if it fails to clear alpha.
func (s StrategyStatistics) WithFDRAdjustment(adjustedP, alpha float64) StrategyStatistics {
	s.FDRAdjusted = true
	s.FDRPValue = adjustedP
	s.ConfidenceGrade = DowngradeForFDR(s.ConfidenceGrade, adjustedP, alpha)
	return s
}
