package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// DMIConfig parameterizes the directional movement / ADX trend-strength
// variant: enter in the direction +DI/-DI cross indicates once ADX
// confirms a trending regime above adxThreshold.
type DMIConfig struct {
	Period       int
	AdxThreshold float64
	Mode         TradingMode
}

func (c DMIConfig) Validate() error {
	if c.Period < 2 {
		return fmt.Errorf("strategy: DMI period must be >= 2, got %d", c.Period)
	}
	if c.AdxThreshold < 0 || c.AdxThreshold > 100 {
		return fmt.Errorf("strategy: DMI adx_threshold must be in [0,100], got %v", c.AdxThreshold)
	}
	return nil
}

type DMI struct {
	Cfg DMIConfig
}

func NewDMI(cfg DMIConfig) (*DMI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DMI{Cfg: cfg}, nil
}

func (s *DMI) key() indicator.Key { return indicator.Key{Kind: "DMI", Window: s.Cfg.Period} }

func (s *DMI) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *DMI) EmitSignalColumns(ds *bar.Dataset) error {
	names := s.key().ColumnNames()
	plus := ds.Column(names[0])
	minus := ds.Column(names[1])
	adx := ds.Column(names[2])
	if plus == nil || minus == nil || adx == nil {
		return fmt.Errorf("strategy: DMI requires +DI/-DI/ADX materialized first")
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		trending := adx[i] >= s.Cfg.AdxThreshold
		prevBull := plus[i-1] > minus[i-1]
		nowBull := plus[i] > minus[i]
		crossUp := !prevBull && nowBull
		crossDown := prevBull && !nowBull
		entry[i] = trending && crossUp
		exit[i] = crossDown
		entryShort[i] = trending && crossDown
		exitShort[i] = crossUp
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

func (s *DMI) WarmupPeriod() int { return s.Cfg.Period*2 + 1 }

func (s *DMI) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *DMI) Fingerprint() types.StrategyConfigID {
	return fingerprint("DMI", int64(s.Cfg.Period), int64(indicator.Mult100(s.Cfg.AdxThreshold)), int64(s.Cfg.Mode))
}
