package perf

import "trendlab/config"

// Score extracts the scalar used for ranking, per cfg.RankMetric
// (spec.md §4.8/§6: configs are ordered by a configurable metric).
func Score(m Metrics, metric config.RankMetric) float64 {
	switch metric {
	case config.RankByCAGR:
		return m.CAGR
	case config.RankByNetPnL:
		return m.NetPnL
	default:
		return m.Sharpe
	}
}

// AggregateScore is Score's cross-symbol counterpart, used when ranking
// leaderboard entries that have already been aggregated across symbols.
func AggregateScore(a Aggregate, metric config.RankMetric) float64 {
	switch metric {
	case config.RankByCAGR:
		return a.AvgCAGR
	default:
		return a.AvgSharpe
	}
}
