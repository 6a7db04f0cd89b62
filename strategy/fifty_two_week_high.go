package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// FiftyTwoWeekHighConfig parameterizes a classic breakout-to-new-high
// strategy: enter when close is within entry_pct of the trailing period
// high, exit when it falls back below exit_pct of that high.
type FiftyTwoWeekHighConfig struct {
	Period   int
	EntryPct float64
	ExitPct  float64
	Mode     TradingMode
}

func (c FiftyTwoWeekHighConfig) Validate() error {
	if c.Period < 2 {
		return fmt.Errorf("strategy: FiftyTwoWeekHigh period must be >= 2, got %d", c.Period)
	}
	if c.EntryPct <= 0 || c.EntryPct > 1 {
		return fmt.Errorf("strategy: FiftyTwoWeekHigh entry_pct must be in (0,1], got %v", c.EntryPct)
	}
	if c.ExitPct <= 0 || c.ExitPct > 1 {
		return fmt.Errorf("strategy: FiftyTwoWeekHigh exit_pct must be in (0,1], got %v", c.ExitPct)
	}
	if c.ExitPct > c.EntryPct {
		return fmt.Errorf("strategy: FiftyTwoWeekHigh exit_pct (%v) must be <= entry_pct (%v)", c.ExitPct, c.EntryPct)
	}
	return nil
}

type FiftyTwoWeekHigh struct {
	Cfg FiftyTwoWeekHighConfig
}

func NewFiftyTwoWeekHigh(cfg FiftyTwoWeekHighConfig) (*FiftyTwoWeekHigh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FiftyTwoWeekHigh{Cfg: cfg}, nil
}

func (s *FiftyTwoWeekHigh) key() indicator.Key {
	return indicator.Key{Kind: "RollingMaxHigh", Window: s.Cfg.Period}
}

func (s *FiftyTwoWeekHigh) IndicatorKeys() []indicator.Key {
	return []indicator.Key{s.key()}
}

func (s *FiftyTwoWeekHigh) EmitSignalColumns(ds *bar.Dataset) error {
	rollHigh := ds.Column(s.key().Name())
	if rollHigh == nil {
		return fmt.Errorf("strategy: FiftyTwoWeekHigh requires roll_max_high_%d materialized first", s.Cfg.Period)
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	for i := 0; i < n; i++ {
		if i < s.Cfg.Period {
			continue
		}
		entry[i] = ds.Close[i] >= rollHigh[i]*(1-s.Cfg.EntryPct)
		exit[i] = ds.Close[i] < rollHigh[i]*(1-s.Cfg.ExitPct)
	}
	if err := ds.SetBoolColumn(colRawEntry, entry); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExit, exit); err != nil {
		return err
	}
	if err := ensureShortColumnsExist(ds); err != nil {
		return err
	}
	return maskByMode(ds, s.Cfg.Mode)
}

func (s *FiftyTwoWeekHigh) WarmupPeriod() int { return s.Cfg.Period + 1 }

func (s *FiftyTwoWeekHigh) TradingMode() TradingMode {
	if s.Cfg.Mode == ShortOnly || s.Cfg.Mode == LongShort {
		return LongOnly
	}
	return s.Cfg.Mode
}

func (s *FiftyTwoWeekHigh) Fingerprint() types.StrategyConfigID {
	return fingerprint("FiftyTwoWeekHigh", int64(s.Cfg.Period), int64(indicator.Mult100(s.Cfg.EntryPct)), int64(indicator.Mult100(s.Cfg.ExitPct)), int64(s.Cfg.Mode))
}
