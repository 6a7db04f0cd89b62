package engine

import (
	"fmt"
	"math"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/indicator"
	"trendlab/strategy"
)

// maState is the incremental moving-average update shared by SMA and EMA,
// letting SequentialBacktest drive either kind without branching per bar.
type maState interface {
	Update(v float64) float64
}

func newMAState(kind indicator.MAKind, window int) maState {
	if kind == indicator.EMAKind {
		return indicator.NewEMAState(window)
	}
	return indicator.NewSMAWindow(window)
}

// SequentialBacktest is the ground-truth oracle for Backtest (spec.md
// §4.6): rather than materializing whole indicator/signal columns across
// the dataset, it walks bars one at a time, updating a stateful fast/slow
// moving-average pair (and, when pyramiding is enabled, a stateful ATR)
// bar by bar and deriving each bar's Signal from only the bars seen so
// far — the "stateful strategy object that returns a Signal per bar"
// alternative driver spec.md §4.6 describes. Backtest and this path share
// only the bar-walking stateMachine, never the indicator materialization
// or signal-emission code, so a divergence between their equity curves
// reveals a real formula bug instead of re-running one implementation
// twice.
//
// Only MACrossover specs are supported; every other variant's signal
// logic lives solely in its EmitSignalColumns column pass.
func SequentialBacktest(bars []bar.Bar, spec strategy.Spec, cfg config.BacktestConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	ma, ok := spec.(*strategy.MACrossover)
	if !ok {
		return nil, fmt.Errorf("engine: SequentialBacktest supports MACrossover specs only, got %T", spec)
	}

	fastState := newMAState(ma.Cfg.Kind, ma.Cfg.Fast)
	slowState := newMAState(ma.Cfg.Kind, ma.Cfg.Slow)
	var atrState *indicator.ATRState
	if cfg.Pyramid.Enabled {
		atrState = indicator.NewATRState(cfg.Pyramid.AtrPeriod(), indicator.ATRWilder)
	}

	sm := newStateMachine(cfg)
	warmup := ma.WarmupPeriod()

	var prevAbove bool
	havePrev := false

	for i, b := range bars {
		fast := fastState.Update(b.Close)
		slow := slowState.Update(b.Close)

		var atr float64
		if atrState != nil {
			atr = atrState.Update(b.High, b.Low, b.Close)
		}

		var sig barSignal
		if !math.IsNaN(fast) && !math.IsNaN(slow) {
			nowAbove := fast > slow
			if havePrev {
				crossUp := !prevAbove && nowAbove
				crossDown := prevAbove && !nowAbove
				sig = maskSequentialSignal(barSignal{
					entryLong:  crossUp,
					exitLong:   crossDown,
					entryShort: crossDown,
					exitShort:  crossUp,
				}, ma.Cfg.Mode)
			}
			prevAbove = nowAbove
			havePrev = true
		}

		if err := sm.step(i, b.Ts, b.Open, b.Close, atr, sig, warmup); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	return &sm.result, nil
}

// maskSequentialSignal mirrors strategy.maskByMode's masking, applied to
// one bar's raw signal instead of a whole column.
func maskSequentialSignal(sig barSignal, mode strategy.TradingMode) barSignal {
	switch mode {
	case strategy.LongOnly:
		sig.entryShort = false
		sig.exitShort = false
	case strategy.ShortOnly:
		sig.entryLong = false
		sig.exitLong = false
	}
	return sig
}
