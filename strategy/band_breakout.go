package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// bandKind distinguishes the three volatility-band variants, which all
// share the same breakout-above-upper / exit-below-mid signal shape and
// differ only in how their bands are computed.
type bandKind int

const (
	bandKeltner bandKind = iota
	bandSTARC
	bandBollinger
)

func (k bandKind) tag() string {
	switch k {
	case bandKeltner:
		return "Keltner"
	case bandSTARC:
		return "STARC"
	default:
		return "Bollinger"
	}
}

// BandConfig parameterizes any of the three volatility-band breakout
// variants (spec.md §4.3: Keltner, STARC, Bollinger).
type BandConfig struct {
	Period int // SMA/EMA midline period
	AuxN   int // ATR window for Keltner/STARC; unused for Bollinger
	Mult   float64
	Mode   TradingMode
}

func (c BandConfig) Validate(kind bandKind) error {
	if c.Period < 2 {
		return fmt.Errorf("strategy: %s period must be >= 2, got %d", kind.tag(), c.Period)
	}
	if kind != bandBollinger && c.AuxN < 1 {
		return fmt.Errorf("strategy: %s atr window must be >= 1, got %d", kind.tag(), c.AuxN)
	}
	if c.Mult <= 0 {
		return fmt.Errorf("strategy: %s multiplier must be > 0, got %v", kind.tag(), c.Mult)
	}
	return nil
}

type bandStrategy struct {
	kind bandKind
	cfg  BandConfig
}

func newBandStrategy(kind bandKind, cfg BandConfig) (*bandStrategy, error) {
	if err := cfg.Validate(kind); err != nil {
		return nil, err
	}
	return &bandStrategy{kind: kind, cfg: cfg}, nil
}

// NewKeltner builds the Keltner-channel breakout variant (EMA midline,
// ATR(Wilder)-based bands).
func NewKeltner(cfg BandConfig) (Spec, error) { return newBandStrategy(bandKeltner, cfg) }

// NewSTARC builds the STARC-band breakout variant (SMA midline,
// ATR(simple)-based bands).
func NewSTARC(cfg BandConfig) (Spec, error) { return newBandStrategy(bandSTARC, cfg) }

// NewBollinger builds the Bollinger-band breakout variant (SMA midline,
// std-dev-based bands).
func NewBollinger(cfg BandConfig) (Spec, error) { return newBandStrategy(bandBollinger, cfg) }

func (s *bandStrategy) key() indicator.Key {
	m100 := indicator.Mult100(s.cfg.Mult)
	switch s.kind {
	case bandKeltner:
		return indicator.Key{Kind: "Keltner", Window: s.cfg.Period, Window2: s.cfg.AuxN, Mult100: m100}
	case bandSTARC:
		return indicator.Key{Kind: "STARC", Window: s.cfg.Period, Window2: s.cfg.AuxN, Mult100: m100}
	default:
		return indicator.Key{Kind: "Bollinger", Window: s.cfg.Period, Mult100: m100}
	}
}

func (s *bandStrategy) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *bandStrategy) EmitSignalColumns(ds *bar.Dataset) error {
	names := s.key().ColumnNames()
	mid := ds.Column(names[0])
	upper := ds.Column(names[1])
	lower := ds.Column(names[2])
	if mid == nil || upper == nil || lower == nil {
		return fmt.Errorf("strategy: %s requires its bands materialized first", s.kind.tag())
	}

	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 0; i < n; i++ {
		c := ds.Close[i]
		entry[i] = c > upper[i]
		exit[i] = c < mid[i]
		entryShort[i] = c < lower[i]
		exitShort[i] = c > mid[i]
	}
	if err := ds.SetBoolColumn(colRawEntry, entry); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExit, exit); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawEntryShort, entryShort); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExitShort, exitShort); err != nil {
		return err
	}
	return maskByMode(ds, s.cfg.Mode)
}

func (s *bandStrategy) WarmupPeriod() int {
	w := s.cfg.Period
	if s.cfg.AuxN > w {
		w = s.cfg.AuxN
	}
	return w + 1
}

func (s *bandStrategy) TradingMode() TradingMode { return s.cfg.Mode }

func (s *bandStrategy) Fingerprint() types.StrategyConfigID {
	return fingerprint(s.kind.tag(), int64(s.cfg.Period), int64(s.cfg.AuxN), int64(indicator.Mult100(s.cfg.Mult)), int64(s.cfg.Mode))
}
