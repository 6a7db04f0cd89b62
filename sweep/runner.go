package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/engine"
	"trendlab/indicator"
	"trendlab/logger"
	"trendlab/perf"
	"trendlab/strategy"
	"trendlab/telemetry"
	"trendlab/types"
)

// ConfigResult pairs one config's backtest result and derived metrics.
type ConfigResult struct {
	ConfigID types.StrategyConfigID
	Result   *engine.Result
	Metrics  perf.Metrics
}

// Result is the outcome of a single-symbol sweep (spec.md §4.8).
type Result struct {
	Symbol     string
	Configs    []ConfigResult
	Cancelled  bool
	CompletedN int
	TotalN     int
}

// Run sweeps every config in configs against one symbol's dataset. It
// materializes the union of every config's indicator requirements once via
// the lazy cache (spec.md §4.8's dedup requirement), then backtests each
// config concurrently against its own dataset clone — so concurrent
// EmitSignalColumns writes never race — in a worker pool bounded by
// cfg.WorkerPoolSize (default runtime.GOMAXPROCS(0)). cancel, when
// non-nil, is the shared cancellation flag checked before each config
// launches (spec.md §5); once set, no further configs start and the
// result reports a "cancelled after N" outcome via Cancelled/CompletedN.
// log may be nil; when supplied it records the start/cancellation/
// completion of the sweep the same way the teacher's strategies log order
// submissions.
func Run(ctx context.Context, ds *bar.Dataset, configs []strategy.Spec, cfg config.SweepConfig, bcfg config.BacktestConfig, cancel *atomic.Bool, progress ProgressFunc, log logger.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("sweep: %w", err)
	}
	emit(progress, Event{Kind: SweepStarted, Symbol: ds.Symbol, Total: len(configs)})
	logInfo(log, "sweep_started", logger.String("symbol", ds.Symbol), logger.Int("configs", len(configs)))

	lb := indicator.NewLazyBuilder(ds)
	for _, spec := range configs {
		lb.Request(spec.IndicatorKeys()...)
	}
	if bcfg.Pyramid.Enabled {
		lb.Request(indicator.Key{Kind: "ATR", Window: bcfg.Pyramid.AtrPeriod(), Smoothing: indicator.ATRWilder})
	}
	if _, err := lb.Collect(); err != nil {
		return Result{}, fmt.Errorf("sweep: materializing indicator union: %w", err)
	}

	poolSize := cfg.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = runtime.GOMAXPROCS(0)
	}

	results := make([]ConfigResult, len(configs))
	var completed int64
	var inFlight int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)

	inFlightGauge := telemetry.SweepConfigsInFlight.WithLabelValues(ds.Symbol)

	cancelled := false
	for i, spec := range configs {
		if cancel != nil && cancel.Load() {
			cancelled = true
			break
		}
		i, spec := i, spec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if cancel != nil && cancel.Load() {
				return nil
			}
			inFlightGauge.Set(float64(atomic.AddInt64(&inFlight, 1)))
			defer inFlightGauge.Set(float64(atomic.AddInt64(&inFlight, -1)))

			clone, err := ds.Clone()
			if err != nil {
				return fmt.Errorf("cloning dataset for config %s: %w", spec.Fingerprint().Tag, err)
			}
			res, err := engine.Backtest(clone, spec, bcfg)
			if err != nil {
				return fmt.Errorf("backtest for config %s: %w", spec.Fingerprint().Tag, err)
			}
			m := perf.Compute(res.EquityPoints, res.Trades, bcfg)
			results[i] = ConfigResult{ConfigID: spec.Fingerprint(), Result: res, Metrics: m}

			telemetry.ConfigsEvaluated.WithLabelValues("sweep").Inc()
			for _, fill := range res.Fills {
				telemetry.FillsSimulated.WithLabelValues(string(fill.Side)).Inc()
			}

			n := atomic.AddInt64(&completed, 1)
			emit(progress, Event{Kind: ConfigCompleted, Symbol: ds.Symbol, ConfigTag: spec.Fingerprint().Tag, Completed: int(n), Total: len(configs)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("sweep: %w", err)
	}

	out := Result{Symbol: ds.Symbol, TotalN: len(configs), CompletedN: int(completed), Cancelled: cancelled}
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		out.Configs = append(out.Configs, r)
	}
	if cancelled {
		emit(progress, Event{Kind: SweepCancelled, Symbol: ds.Symbol, Completed: int(completed), Total: len(configs)})
		logWarn(log, "sweep_cancelled", logger.String("symbol", ds.Symbol), logger.Int("completed", int(completed)), logger.Int("total", len(configs)))
	} else {
		emit(progress, Event{Kind: SweepComplete, Symbol: ds.Symbol, Completed: int(completed), Total: len(configs)})
		logInfo(log, "sweep_complete", logger.String("symbol", ds.Symbol), logger.Int("completed", int(completed)), logger.Int("total", len(configs)))
	}
	return out, nil
}
