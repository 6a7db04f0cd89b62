package walkforward

import (
	"fmt"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/engine"
	"trendlab/perf"
	"trendlab/strategy"
)

// SplitResult carries one split's in-sample and out-of-sample metrics.
type SplitResult struct {
	Split Split
	IS    perf.Metrics
	OOS   perf.Metrics
}

// Result is the aggregated outcome of validating one strategy config
// across every rolling split (spec.md §4.9).
type Result struct {
	Splits         []SplitResult
	ISSharpeMean   float64
	OOSSharpeMean  float64
	Degradation    float64 // IS sharpe mean - OOS sharpe mean
	Pass           bool
}

// Validate runs spec against every rolling (train, test) split of ds:
// a fresh backtest on the train window establishes in-sample metrics,
// then a fresh backtest on the test window (the strategy carries no
// state between runs, so this is "re-initialized" per spec.md §4.9)
// establishes out-of-sample metrics. The aggregate passes when
// oos_sharpe_mean >= cfg.Gate and degradation <= cfg.MaxDegradation.
func Validate(ds *bar.Dataset, spec strategy.Spec, cfg config.WalkForwardConfig, bcfg config.BacktestConfig) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("walkforward: %w", err)
	}
	splits := RollingSplits(ds.Len(), cfg)
	if len(splits) == 0 {
		return Result{}, fmt.Errorf("walkforward: dataset of %d bars too short for min_train=%d test_length=%d", ds.Len(), cfg.MinTrain, cfg.TestLength)
	}

	results := make([]SplitResult, 0, len(splits))
	for _, sp := range splits {
		isMetrics, err := backtestWindow(ds, spec, bcfg, sp.TrainStart, sp.TrainEnd)
		if err != nil {
			return Result{}, fmt.Errorf("walkforward: in-sample window [%d,%d): %w", sp.TrainStart, sp.TrainEnd, err)
		}
		oosMetrics, err := backtestWindow(ds, spec, bcfg, sp.TestStart, sp.TestEnd)
		if err != nil {
			return Result{}, fmt.Errorf("walkforward: out-of-sample window [%d,%d): %w", sp.TestStart, sp.TestEnd, err)
		}
		results = append(results, SplitResult{Split: sp, IS: isMetrics, OOS: oosMetrics})
	}

	isMean := meanSharpe(results, func(r SplitResult) float64 { return r.IS.Sharpe })
	oosMean := meanSharpe(results, func(r SplitResult) float64 { return r.OOS.Sharpe })
	degradation := isMean - oosMean

	return Result{
		Splits:        results,
		ISSharpeMean:  isMean,
		OOSSharpeMean: oosMean,
		Degradation:   degradation,
		Pass:          oosMean >= cfg.Gate && degradation <= cfg.MaxDegradation,
	}, nil
}

func backtestWindow(ds *bar.Dataset, spec strategy.Spec, bcfg config.BacktestConfig, start, end int) (perf.Metrics, error) {
	bars := make([]bar.Bar, 0, end-start)
	for i := start; i < end; i++ {
		bars = append(bars, ds.Bar(i))
	}
	sub, err := bar.FromBars(bars)
	if err != nil {
		return perf.Metrics{}, err
	}
	res, err := engine.Backtest(sub, spec, bcfg)
	if err != nil {
		return perf.Metrics{}, err
	}
	return perf.Compute(res.EquityPoints, res.Trades, bcfg), nil
}

func meanSharpe(results []SplitResult, pick func(SplitResult) float64) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += pick(r)
	}
	return sum / float64(len(results))
}
