package engine

import (
	"fmt"
	"time"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/indicator"
	"trendlab/strategy"
)

// Backtest runs the columnar path (spec.md §4.6): materialize the
// strategy's indicator keys, let it emit raw signal columns, then apply
// the position state machine in one pass over the dataset's slices.
func Backtest(ds *bar.Dataset, spec strategy.Spec, cfg config.BacktestConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	cache := indicator.NewMaterializingCache(ds)
	if err := cache.EnsureAll(spec.IndicatorKeys()); err != nil {
		return nil, fmt.Errorf("engine: materializing indicators: %w", err)
	}
	if cfg.Pyramid.Enabled {
		if err := cache.Ensure(indicator.Key{Kind: "ATR", Window: cfg.Pyramid.AtrPeriod(), Smoothing: indicator.ATRWilder}); err != nil {
			return nil, fmt.Errorf("engine: materializing pyramid ATR: %w", err)
		}
	}
	if err := spec.EmitSignalColumns(ds); err != nil {
		return nil, fmt.Errorf("engine: emitting signal columns: %w", err)
	}

	entry := ds.BoolColumn("raw_entry")
	exit := ds.BoolColumn("raw_exit")
	entryShort := ds.BoolColumn("raw_entry_short")
	exitShort := ds.BoolColumn("raw_exit_short")

	var atrCol []float64
	if cfg.Pyramid.Enabled {
		atrCol = ds.Column(fmt.Sprintf("atr_%d_wilder", cfg.Pyramid.AtrPeriod()))
	}

	sm := newStateMachine(cfg)
	n := ds.Len()
	warmup := spec.WarmupPeriod()
	for i := 0; i < n; i++ {
		ts := time.Unix(0, ds.Ts[i]).UTC()
		var atr float64
		if atrCol != nil {
			atr = atrCol[i]
		}
		sig := barSignal{
			entryLong:  boolAt(entry, i),
			exitLong:   boolAt(exit, i),
			entryShort: boolAt(entryShort, i),
			exitShort:  boolAt(exitShort, i),
		}
		if err := sm.step(i, ts, ds.Open[i], ds.Close[i], atr, sig, warmup); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	return &sm.result, nil
}

func boolAt(col []bool, i int) bool {
	if col == nil || i >= len(col) {
		return false
	}
	return col[i]
}
