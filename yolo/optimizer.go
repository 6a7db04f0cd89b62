package yolo

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/logger"
	"trendlab/perf"
	"trendlab/strategy"
	"trendlab/sweep"
	"trendlab/telemetry"
	"trendlab/types"
	"trendlab/walkforward"
)

// EventKind tags a yolo.Event (mirrors sweep's plain-callback progress
// convention, spec.md §4.10 step 2/6).
type EventKind int

const (
	YoloStarted EventKind = iota
	IterationStarted
	IterationComplete
	YoloStopped
)

func (k EventKind) String() string {
	switch k {
	case YoloStarted:
		return "yolo_started"
	case IterationStarted:
		return "iteration_started"
	case IterationComplete:
		return "iteration_complete"
	case YoloStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is one progress notification emitted during the loop.
type Event struct {
	Kind      EventKind
	Iteration int
	Summary   string // e.g. the jitter applied this iteration, or a final counters line
}

// ProgressFunc receives Events; nil is a valid no-op subscriber.
type ProgressFunc func(Event)

func emit(fn ProgressFunc, e Event) {
	if fn != nil {
		fn(e)
	}
}

func logInfo(log logger.Logger, msg string, fields ...logger.Field) {
	if log != nil {
		log.Info(msg, fields...)
	}
}

func logWarn(log logger.Logger, msg string, fields ...logger.Field) {
	if log != nil {
		log.Warn(msg, fields...)
	}
}

// Config bundles everything one YOLO run needs: the universe of symbol
// datasets to sweep, the base strategy grid to jitter from each
// iteration, and the sweep/walk-forward/loop parameters.
type Config struct {
	Datasets     map[string]*bar.Dataset
	BaseGrid     []strategy.MACrossoverConfig
	Sweep        config.SweepConfig
	Backtest     config.BacktestConfig
	WalkForward  config.WalkForwardConfig
	Yolo         config.YoloConfig
	SnapshotPath string        // "" disables persistence
	Log          logger.Logger // nil disables logging
}

// Result is what Run returns once the loop stops: the final session
// leaderboards and a count of how many iterations ran.
type Result struct {
	SessionID        string
	Iterations       int
	SessionPerSymbol map[string][]Entry
	SessionCrossSym  []Entry
	AllTimePerSymbol map[string][]Entry
	AllTimeCrossSym  []Entry
}

// Optimizer runs the stochastic jitter loop (spec.md §4.10). It holds
// both the session leaderboards (reset per run) and the all-time
// leaderboards (loaded from SnapshotPath, merged with session results,
// and rewritten after every iteration).
type Optimizer struct {
	cfg       Config
	sessionID string
	rng       *rand.Rand

	sessionPerSymbol map[string]*Leaderboard
	sessionCross     *Leaderboard
	allTimePerSymbol map[string]*Leaderboard
	allTimeCross     *Leaderboard
}

// NewOptimizer validates cfg and loads any existing all-time snapshot.
func NewOptimizer(cfg Config, sessionID string, seed int64) (*Optimizer, error) {
	if err := cfg.Yolo.Validate(); err != nil {
		return nil, fmt.Errorf("yolo: %w", err)
	}
	if err := cfg.Sweep.Validate(); err != nil {
		return nil, fmt.Errorf("yolo: %w", err)
	}
	if err := cfg.WalkForward.Validate(); err != nil {
		return nil, fmt.Errorf("yolo: %w", err)
	}
	if len(cfg.Datasets) == 0 {
		return nil, fmt.Errorf("yolo: Datasets must not be empty")
	}
	if len(cfg.BaseGrid) == 0 {
		return nil, fmt.Errorf("yolo: BaseGrid must not be empty")
	}

	o := &Optimizer{
		cfg:              cfg,
		sessionID:        sessionID,
		rng:              rand.New(rand.NewSource(seed)),
		sessionPerSymbol: map[string]*Leaderboard{},
		sessionCross:     NewLeaderboard(cfg.Yolo.CrossSymbolCapacity),
		allTimePerSymbol: map[string]*Leaderboard{},
		allTimeCross:     NewLeaderboard(cfg.Yolo.CrossSymbolCapacity),
	}
	for symbol := range cfg.Datasets {
		o.sessionPerSymbol[symbol] = NewLeaderboard(cfg.Yolo.PerSymbolCapacity)
		o.allTimePerSymbol[symbol] = NewLeaderboard(cfg.Yolo.PerSymbolCapacity)
	}

	if cfg.SnapshotPath != "" {
		snap, err := LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("yolo: %w", err)
		}
		for symbol, entries := range snap.PerSymbol {
			lb, ok := o.allTimePerSymbol[symbol]
			if !ok {
				lb = NewLeaderboard(cfg.Yolo.PerSymbolCapacity)
				o.allTimePerSymbol[symbol] = lb
			}
			lb.Merge(entries)
		}
		o.allTimeCross.Merge(snap.CrossSymbol)
	}

	return o, nil
}

// Run executes the loop until cancel reports true, then returns the
// final session/all-time leaderboards (spec.md §4.10 step 6). cancel may
// be nil, in which case Run performs exactly one iteration — useful for
// tests and single-shot callers.
func (o *Optimizer) Run(cancel *atomic.Bool, progress ProgressFunc) (Result, error) {
	emit(progress, Event{Kind: YoloStarted, Summary: fmt.Sprintf("session %s, %d symbols, grid of %d", o.sessionID, len(o.cfg.Datasets), len(o.cfg.BaseGrid))})
	logInfo(o.cfg.Log, "yolo_started", logger.String("session_id", o.sessionID), logger.Int("symbols", len(o.cfg.Datasets)))

	iteration := 0
	for {
		iteration++
		if err := o.iterate(iteration, progress); err != nil {
			return Result{}, fmt.Errorf("yolo: iteration %d: %w", iteration, err)
		}
		telemetry.YoloIterations.Inc()
		if cancel == nil || cancel.Load() {
			break
		}
	}

	result := o.snapshotResult(iteration)
	emit(progress, Event{Kind: YoloStopped, Iteration: iteration, Summary: fmt.Sprintf("stopped after %d iterations", iteration)})
	logInfo(o.cfg.Log, "yolo_stopped", logger.String("session_id", o.sessionID), logger.Int("iterations", iteration))
	return result, nil
}

func (o *Optimizer) iterate(iteration int, progress ProgressFunc) error {
	explorationPct := o.cfg.Yolo.Exploration()
	grid, err := JitterGrid(o.cfg.BaseGrid, o.rng, explorationPct)
	if err != nil {
		return err
	}

	specs := make([]strategy.Spec, len(grid))
	configsByID := make(map[types.StrategyConfigID]strategy.Spec, len(grid))
	summaryByID := make(map[types.StrategyConfigID]string, len(grid))
	for i, gp := range grid {
		specs[i] = gp.Spec
		configsByID[gp.Spec.Fingerprint()] = gp.Spec
		summaryByID[gp.Spec.Fingerprint()] = gp.Summary
	}

	emit(progress, Event{Kind: IterationStarted, Iteration: iteration, Summary: grid[0].Summary})

	mr, err := sweep.RunMultiSymbol(context.Background(), o.cfg.Datasets, specs, o.cfg.Sweep, o.cfg.Backtest, nil, nil, o.cfg.Log)
	if err != nil {
		return err
	}

	// Merge per-symbol bests.
	for symbol, res := range mr.PerSymbol {
		lb := o.sessionPerSymbol[symbol]
		if lb == nil {
			lb = NewLeaderboard(o.cfg.Yolo.PerSymbolCapacity)
			o.sessionPerSymbol[symbol] = lb
		}
		for _, cr := range res.Configs {
			lb.Insert(Entry{
				ConfigID:     cr.ConfigID,
				ParamSummary: summaryByID[cr.ConfigID],
				Symbol:       symbol,
				Metric:       perf.Score(cr.Metrics, o.cfg.Sweep.RankMetric),
			})
		}
	}

	// Gate qualifying cross-symbol aggregates through walk-forward, then
	// merge them into the cross-symbol leaderboard (spec.md §4.10 steps
	// 3-4).
	gate := o.cfg.Yolo.SharpeGateThreshold
	if gate == 0 {
		gate = 0.5
	}
	for id, agg := range mr.CrossSymbol {
		if !agg.Eligible(o.cfg.Sweep.MinSymbols()) || agg.AvgSharpe < gate {
			continue
		}
		spec, ok := configsByID[id]
		if !ok {
			continue
		}
		pass := true
		for _, symbol := range mr.SymbolOrder {
			ds, ok := o.cfg.Datasets[symbol]
			if !ok {
				continue
			}
			wfRes, err := walkforward.Validate(ds, spec, o.cfg.WalkForward, o.cfg.Backtest)
			telemetry.ConfigsEvaluated.WithLabelValues("yolo_walkforward").Inc()
			if err != nil {
				pass = false
				continue
			}
			if !wfRes.Pass {
				pass = false
			}
		}
		o.sessionCross.Insert(Entry{
			ConfigID:        id,
			ParamSummary:    summaryByID[id],
			Metric:          perf.AggregateScore(agg, o.cfg.Sweep.RankMetric),
			WalkForwardPass: pass,
		})
	}

	telemetry.LeaderboardSize.WithLabelValues("cross_symbol").Set(float64(len(o.sessionCross.Snapshot())))

	if o.cfg.SnapshotPath != "" {
		if err := o.persist(); err != nil {
			logWarn(o.cfg.Log, "yolo_persist_failed", logger.Int("iteration", iteration), logger.Err(err))
			return err
		}
	}

	emit(progress, Event{Kind: IterationComplete, Iteration: iteration, Summary: fmt.Sprintf("%d symbols, %d configs", len(mr.PerSymbol), len(specs))})
	logInfo(o.cfg.Log, "yolo_iteration_complete", logger.Int("iteration", iteration), logger.Int("symbols", len(mr.PerSymbol)), logger.Int("configs", len(specs)))
	return nil
}

// persist folds this iteration's session leaderboards into the in-memory
// all-time leaderboards, then atomically rewrites the snapshot from the
// merged all-time state (spec.md §4.10: all-time is "loaded from disk,
// merged, and rewritten").
func (o *Optimizer) persist() error {
	o.allTimeCross.Merge(o.sessionCross.Snapshot())

	snap := Snapshot{
		SessionID:   o.sessionID,
		PerSymbol:   map[string][]Entry{},
		CrossSymbol: o.allTimeCross.Snapshot(),
	}
	for symbol, sessLB := range o.sessionPerSymbol {
		allTimeLB, ok := o.allTimePerSymbol[symbol]
		if !ok {
			allTimeLB = NewLeaderboard(o.cfg.Yolo.PerSymbolCapacity)
			o.allTimePerSymbol[symbol] = allTimeLB
		}
		allTimeLB.Merge(sessLB.Snapshot())
	}
	for symbol, lb := range o.allTimePerSymbol {
		entries := lb.Snapshot()
		snap.PerSymbol[symbol] = entries
		telemetry.LeaderboardSize.WithLabelValues("per_symbol").Set(float64(len(entries)))
	}
	return SaveAtomic(o.cfg.SnapshotPath, snap)
}

func (o *Optimizer) snapshotResult(iterations int) Result {
	r := Result{
		SessionID:        o.sessionID,
		Iterations:       iterations,
		SessionPerSymbol: map[string][]Entry{},
		AllTimePerSymbol: map[string][]Entry{},
	}
	for symbol, lb := range o.sessionPerSymbol {
		r.SessionPerSymbol[symbol] = lb.Snapshot()
	}
	for symbol, lb := range o.allTimePerSymbol {
		r.AllTimePerSymbol[symbol] = lb.Snapshot()
	}
	r.SessionCrossSym = o.sessionCross.Snapshot()
	r.AllTimeCrossSym = o.allTimeCross.Snapshot()
	return r
}
