package sweep

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/logger"
	"trendlab/perf"
	"trendlab/strategy"
	"trendlab/types"
)

// MultiResult is the outcome of sweeping the same config grid across
// several symbols, plus the cross-symbol aggregation spec.md §4.8 defines.
type MultiResult struct {
	PerSymbol   map[string]Result
	CrossSymbol map[types.StrategyConfigID]perf.Aggregate
	SymbolOrder []string // sorted, for deterministic iteration (spec.md §9)
}

// RunMultiSymbol runs Run once per symbol — symbols are visited in sorted
// order for determinism, with parallelism confined to the per-symbol
// config pool Run already bounds, avoiding the nested-thread-explosion
// spec.md §4.8/§9 warns against — then aggregates, for every config id
// present on at least cfg.MinSymbols() symbols, avg/min Sharpe, avg/median
// CAGR, worst drawdown, and hit rate.
func RunMultiSymbol(ctx context.Context, datasets map[string]*bar.Dataset, configs []strategy.Spec, cfg config.SweepConfig, bcfg config.BacktestConfig, cancel *atomic.Bool, progress ProgressFunc, log logger.Logger) (MultiResult, error) {
	symbols := make([]string, 0, len(datasets))
	for s := range datasets {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := MultiResult{
		PerSymbol:   make(map[string]Result, len(symbols)),
		CrossSymbol: make(map[types.StrategyConfigID]perf.Aggregate),
		SymbolOrder: symbols,
	}
	metricsByConfig := make(map[types.StrategyConfigID][]perf.Metrics)

	for _, sym := range symbols {
		if cancel != nil && cancel.Load() {
			break
		}
		emit(progress, Event{Kind: SymbolStarted, Symbol: sym, Total: len(configs)})
		res, err := Run(ctx, datasets[sym], configs, cfg, bcfg, cancel, progress, log)
		if err != nil {
			return MultiResult{}, fmt.Errorf("sweep: symbol %s: %w", sym, err)
		}
		out.PerSymbol[sym] = res
		for _, cr := range res.Configs {
			metricsByConfig[cr.ConfigID] = append(metricsByConfig[cr.ConfigID], cr.Metrics)
		}
	}

	minSymbols := cfg.MinSymbols()
	for id, ms := range metricsByConfig {
		agg := perf.AggregateMetrics(ms, cfg.HitRateFloor)
		if agg.Eligible(minSymbols) {
			out.CrossSymbol[id] = agg
		}
	}
	logInfo(log, "multisweep_complete", logger.Int("symbols", len(symbols)), logger.Int("cross_symbol_eligible", len(out.CrossSymbol)))
	return out, nil
}
