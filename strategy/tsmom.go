package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// TSMOMConfig parameterizes classic time-series momentum: go long when
// trailing return over lookback bars is positive, short when negative,
// flat/exit when it crosses zero.
type TSMOMConfig struct {
	Lookback int
	Mode     TradingMode
}

func (c TSMOMConfig) Validate() error {
	if c.Lookback < 1 {
		return fmt.Errorf("strategy: TSMOM lookback must be >= 1, got %d", c.Lookback)
	}
	return nil
}

type TSMOM struct {
	Cfg TSMOMConfig
}

func NewTSMOM(cfg TSMOMConfig) (*TSMOM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TSMOM{Cfg: cfg}, nil
}

func (s *TSMOM) key() indicator.Key { return indicator.Key{Kind: "TSMOM", Window: s.Cfg.Lookback} }

func (s *TSMOM) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *TSMOM) EmitSignalColumns(ds *bar.Dataset) error {
	mom := ds.Column(s.key().Name())
	if mom == nil {
		return fmt.Errorf("strategy: TSMOM requires tsmom_%d materialized first", s.Cfg.Lookback)
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevPos := mom[i-1] > 0
		nowPos := mom[i] > 0
		prevNeg := mom[i-1] < 0
		nowNeg := mom[i] < 0
		entry[i] = !prevPos && nowPos
		exit[i] = prevPos && !nowPos
		entryShort[i] = !prevNeg && nowNeg
		exitShort[i] = prevNeg && !nowNeg
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
	return maskByMode(ds, s.Cfg.Mode)
}

func (s *TSMOM) WarmupPeriod() int { return s.Cfg.Lookback + 1 }

func (s *TSMOM) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *TSMOM) Fingerprint() types.StrategyConfigID {
	return fingerprint("TSMOM", int64(s.Cfg.Lookback), int64(s.Cfg.Mode))
}
