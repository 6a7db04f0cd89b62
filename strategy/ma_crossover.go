package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// MACrossoverConfig parameterizes a dual moving-average crossover: enter
// long when fast crosses above slow, exit (or flip to short, in
// LongShort mode) when it crosses back below.
type MACrossoverConfig struct {
	Fast int
	Slow int
	Kind indicator.MAKind
	Mode TradingMode
}

func (c MACrossoverConfig) Validate() error {
	if c.Fast < 1 {
		return fmt.Errorf("strategy: MACrossover fast must be >= 1, got %d", c.Fast)
	}
	if c.Slow <= c.Fast {
		return fmt.Errorf("strategy: MACrossover slow (%d) must be > fast (%d)", c.Slow, c.Fast)
	}
	return nil
}

type MACrossover struct {
	Cfg MACrossoverConfig
}

func NewMACrossover(cfg MACrossoverConfig) (*MACrossover, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MACrossover{Cfg: cfg}, nil
}

func (s *MACrossover) keyFor(window int) indicator.Key {
	if s.Cfg.Kind == indicator.EMAKind {
		return indicator.Key{Kind: "EMA", Window: window}
	}
	return indicator.Key{Kind: "SMA", Window: window}
}

func (s *MACrossover) IndicatorKeys() []indicator.Key {
	return []indicator.Key{s.keyFor(s.Cfg.Fast), s.keyFor(s.Cfg.Slow)}
}

func (s *MACrossover) EmitSignalColumns(ds *bar.Dataset) error {
	fast := ds.Column(s.keyFor(s.Cfg.Fast).Name())
	slow := ds.Column(s.keyFor(s.Cfg.Slow).Name())
	if fast == nil || slow == nil {
		return fmt.Errorf("strategy: MACrossover requires fast/slow moving averages materialized first")
	}

	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevAbove := fast[i-1] > slow[i-1]
		nowAbove := fast[i] > slow[i]
		crossUp := !prevAbove && nowAbove
		crossDown := prevAbove && !nowAbove
		entry[i] = crossUp
		exit[i] = crossDown
		entryShort[i] = crossDown
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

func (s *MACrossover) WarmupPeriod() int { return s.Cfg.Slow + 1 }

func (s *MACrossover) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *MACrossover) Fingerprint() types.StrategyConfigID {
	return fingerprint("MACrossover", int64(s.Cfg.Fast), int64(s.Cfg.Slow), int64(s.Cfg.Kind), int64(s.Cfg.Mode))
}
