// Package telemetry exposes prometheus counters/gauges for the research
// engine, adapted from the teacher's live-trading metrics package
// (same prometheus.NewCounterVec/NewGaugeVec/MustRegister pattern,
// re-targeted from order counters to sweep/YOLO counters).
package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	// ConfigsEvaluated counts backtests run, labeled by sweep phase
	// ("sweep", "yolo_walkforward").
	ConfigsEvaluated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendlab_configs_evaluated_total",
			Help: "Total number of strategy configs backtested, by phase.",
		},
		[]string{"phase"},
	)

	FillsSimulated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendlab_fills_simulated_total",
			Help: "Total number of simulated fills, by side.",
		},
		[]string{"side"},
	)

	SweepConfigsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trendlab_sweep_configs_in_flight",
			Help: "Number of configs currently being backtested by the sweep worker pool.",
		},
		[]string{"symbol"},
	)

	LeaderboardSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trendlab_leaderboard_size",
			Help: "Current number of entries held in a leaderboard.",
		},
		[]string{"kind"}, // "per_symbol" | "cross_symbol"
	)

	YoloIterations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trendlab_yolo_iterations_total",
			Help: "Total number of completed YOLO loop iterations.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ConfigsEvaluated,
		FillsSimulated,
		SweepConfigsInFlight,
		LeaderboardSize,
		YoloIterations,
	)
}
