// Package config holds the tunable parameter surfaces for the engine:
// cost/fill models, sweep depth, walk-forward windows, and the YOLO loop.
// Every config type follows the teacher's pattern: plain struct, a
// Validate() error method, no magic defaults applied silently.
package config

import (
	"errors"
	"fmt"
)

// FillModel selects when orders execute relative to the signal bar.
// NextOpen is the only model spec.md requires.
type FillModel int

const (
	NextOpen FillModel = iota
)

// TradingMode constrains which signals the state machine honors.
type TradingMode int

const (
	LongOnly TradingMode = iota
	ShortOnly
	LongShort
)

// CostModel is the fractional-of-price fee and slippage applied to fills.
type CostModel struct {
	FeeRate      float64 // fraction of notional, e.g. 0.001 = 10bps
	SlippageRate float64 // fraction of price, worsens the trader's fill
}

func (c CostModel) Validate() error {
	if c.FeeRate < 0 {
		return errors.New("config: FeeRate must be >= 0")
	}
	if c.SlippageRate < 0 {
		return errors.New("config: SlippageRate must be >= 0")
	}
	return nil
}

// PyramidConfig enables scaling into a winning long position.
type PyramidConfig struct {
	Enabled           bool
	MaxUnits          int     // total units allowed, including the initial entry
	ThresholdMultiple float64 // add a unit every ThresholdMultiple * entry_atr of favorable move
	AtrWindow         int     // Wilder ATR window snapshotted at entry; 0 => defaults to 14
}

func (p PyramidConfig) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.MaxUnits < 2 {
		return errors.New("config: PyramidConfig.MaxUnits must be >= 2 when enabled")
	}
	if p.ThresholdMultiple <= 0 {
		return errors.New("config: PyramidConfig.ThresholdMultiple must be > 0 when enabled")
	}
	return nil
}

// AtrPeriod returns the configured pyramiding ATR window, defaulting to 14.
func (p PyramidConfig) AtrPeriod() int {
	if p.AtrWindow > 0 {
		return p.AtrWindow
	}
	return 14
}

// RiskSizingConfig sizes entry fills off account equity and a stop-loss
// distance via risk.CalcQty, instead of the flat BacktestConfig.Qty every
// fill otherwise uses. Pyramided add-on units still use the flat Qty.
type RiskSizingConfig struct {
	Enabled           bool
	MaxRiskPerTrade   float64 // fraction of equity risked if the stop is hit
	StopLossPct       float64 // fractional distance from entry to stop
	StepSize          float64 // 0 disables step rounding
	QuantityPrecision int
	MinQty            float64
}

func (r RiskSizingConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.MaxRiskPerTrade <= 0 {
		return errors.New("config: RiskSizingConfig.MaxRiskPerTrade must be > 0 when enabled")
	}
	if r.StopLossPct <= 0 {
		return errors.New("config: RiskSizingConfig.StopLossPct must be > 0 when enabled")
	}
	return nil
}

// BacktestConfig parameterizes a single backtest run (spec.md §4.6, §6).
type BacktestConfig struct {
	InitialCash         float64
	Qty                 float64
	FillModel           FillModel
	Cost                CostModel
	TradingMode         TradingMode
	Pyramid             PyramidConfig
	RiskSizing          RiskSizingConfig
	AnnualizationFactor float64 // bars/year used by perf.Sharpe; 0 => defaults to 252
}

func (c BacktestConfig) Validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("config: InitialCash (%f) must be > 0", c.InitialCash)
	}
	if c.Qty <= 0 {
		return fmt.Errorf("config: Qty (%f) must be > 0", c.Qty)
	}
	if err := c.Cost.Validate(); err != nil {
		return err
	}
	if err := c.Pyramid.Validate(); err != nil {
		return err
	}
	if err := c.RiskSizing.Validate(); err != nil {
		return err
	}
	if c.AnnualizationFactor < 0 {
		return errors.New("config: AnnualizationFactor must be >= 0")
	}
	return nil
}

// Annualization returns the configured annualization factor, defaulting to
// 252 (daily bars) per spec.md §9's open question resolution.
func (c BacktestConfig) Annualization() float64 {
	if c.AnnualizationFactor > 0 {
		return c.AnnualizationFactor
	}
	return 252
}

// SweepDepth hints at how exhaustively the sweep runner should search.
type SweepDepth int

const (
	Quick SweepDepth = iota
	Standard
	Thorough
)

// RankMetric selects the metric used to sort sweep/leaderboard results.
type RankMetric int

const (
	RankBySharpe RankMetric = iota
	RankByCAGR
	RankByNetPnL
)

// SweepConfig parameterizes one multi-config sweep (spec.md §4.8, §6).
type SweepConfig struct {
	Depth          SweepDepth
	RankMetric     RankMetric
	WorkerPoolSize int // 0 => runtime.GOMAXPROCS(0)
	MinSymbolCount int // minimum symbols for a config to be cross-symbol eligible
	HitRateFloor   float64
}

func (c SweepConfig) Validate() error {
	if c.WorkerPoolSize < 0 {
		return errors.New("config: WorkerPoolSize must be >= 0")
	}
	if c.MinSymbolCount < 0 {
		return errors.New("config: MinSymbolCount must be >= 0")
	}
	return nil
}

// MinSymbols returns the configured cross-symbol eligibility floor,
// defaulting to 2 (spec.md §4.8: "present for >= 2 symbols").
func (c SweepConfig) MinSymbols() int {
	if c.MinSymbolCount > 0 {
		return c.MinSymbolCount
	}
	return 2
}

// WalkForwardConfig parameterizes the validator (spec.md §4.9).
type WalkForwardConfig struct {
	MinTrain       int
	TestLength     int
	Step           int
	Gate           float64 // minimum OOS sharpe to pass
	MaxDegradation float64 // max allowed IS - OOS sharpe drop
}

func (c WalkForwardConfig) Validate() error {
	if c.MinTrain <= 0 {
		return errors.New("config: MinTrain must be > 0")
	}
	if c.TestLength <= 0 {
		return errors.New("config: TestLength must be > 0")
	}
	if c.Step <= 0 {
		return errors.New("config: Step must be > 0")
	}
	return nil
}

// YoloConfig parameterizes the stochastic optimizer loop (spec.md §4.10).
type YoloConfig struct {
	SessionID           string
	ExplorationPct      float64 // default 0.30, clamped to [0.02, 0.40]
	SharpeGateThreshold float64 // default range 0.5-1.0
	PerSymbolCapacity   int
	CrossSymbolCapacity int
	Seed                int64 // 0 => derive from wall clock + pid + launch counter
	InnerParallelismCap int   // 0 => computed from outer pool size
	OuterParallelismCap int   // 0 => runtime.GOMAXPROCS(0)
}

func (c YoloConfig) Validate() error {
	if c.ExplorationPct < 0 {
		return errors.New("config: ExplorationPct must be >= 0")
	}
	if c.PerSymbolCapacity <= 0 {
		return errors.New("config: PerSymbolCapacity must be > 0")
	}
	if c.CrossSymbolCapacity <= 0 {
		return errors.New("config: CrossSymbolCapacity must be > 0")
	}
	return nil
}

// Exploration returns ExplorationPct clamped to the documented domain
// [0.02, 0.40], defaulting to 0.30 when unset.
func (c YoloConfig) Exploration() float64 {
	p := c.ExplorationPct
	if p == 0 {
		p = 0.30
	}
	if p < 0.02 {
		p = 0.02
	}
	if p > 0.40 {
		p = 0.40
	}
	return p
}
