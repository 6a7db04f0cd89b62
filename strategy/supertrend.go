package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// SupertrendConfig parameterizes the Supertrend(atr_n, k) variant
// (spec.md §4.3/§4.4): direction flips are the entry/exit signal.
type SupertrendConfig struct {
	AtrN int
	K    float64
	Mode TradingMode
}

func (c SupertrendConfig) Validate() error {
	if c.AtrN < 1 {
		return fmt.Errorf("strategy: Supertrend atr_n must be >= 1, got %d", c.AtrN)
	}
	if c.K <= 0 {
		return fmt.Errorf("strategy: Supertrend k must be > 0, got %v", c.K)
	}
	return nil
}

type Supertrend struct {
	Cfg SupertrendConfig
}

func NewSupertrend(cfg SupertrendConfig) (*Supertrend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Supertrend{Cfg: cfg}, nil
}

func (s *Supertrend) key() indicator.Key {
	return indicator.Key{Kind: "Supertrend", Window: s.Cfg.AtrN, Mult100: indicator.Mult100(s.Cfg.K)}
}

func (s *Supertrend) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *Supertrend) EmitSignalColumns(ds *bar.Dataset) error {
	names := s.key().ColumnNames()
	dir := ds.Column(names[1])
	if dir == nil {
		return fmt.Errorf("strategy: Supertrend requires its direction column materialized first")
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevUp := dir[i-1] > 0
		nowUp := dir[i] > 0
		entry[i] = !prevUp && nowUp
		exit[i] = prevUp && !nowUp
		entryShort[i] = prevUp && !nowUp
		exitShort[i] = !prevUp && nowUp
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

func (s *Supertrend) WarmupPeriod() int { return s.Cfg.AtrN + 1 }

func (s *Supertrend) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *Supertrend) Fingerprint() types.StrategyConfigID {
	return fingerprint("Supertrend", int64(s.Cfg.AtrN), int64(indicator.Mult100(s.Cfg.K)), int64(s.Cfg.Mode))
}
