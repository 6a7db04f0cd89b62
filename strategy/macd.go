package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// MACDConfig parameterizes the classic MACD line/signal crossover variant.
type MACDConfig struct {
	Fast   int
	Slow   int
	Signal int
	Mode   TradingMode
}

func (c MACDConfig) Validate() error {
	if c.Fast < 1 {
		return fmt.Errorf("strategy: MACD fast must be >= 1, got %d", c.Fast)
	}
	if c.Slow <= c.Fast {
		return fmt.Errorf("strategy: MACD slow (%d) must be > fast (%d)", c.Slow, c.Fast)
	}
	if c.Signal < 1 {
		return fmt.Errorf("strategy: MACD signal must be >= 1, got %d", c.Signal)
	}
	return nil
}

type MACD struct {
	Cfg MACDConfig
}

func NewMACD(cfg MACDConfig) (*MACD, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MACD{Cfg: cfg}, nil
}

func (s *MACD) key() indicator.Key {
	return indicator.Key{Kind: "MACD", Window: s.Cfg.Fast, Window2: s.Cfg.Slow}
}

func (s *MACD) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *MACD) EmitSignalColumns(ds *bar.Dataset) error {
	names := s.key().ColumnNames()
	line := ds.Column(names[0])
	signal := ds.Column(names[1])
	if line == nil || signal == nil {
		return fmt.Errorf("strategy: MACD requires its line/signal columns materialized first")
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevAbove := line[i-1] > signal[i-1]
		nowAbove := line[i] > signal[i]
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

func (s *MACD) WarmupPeriod() int { return s.Cfg.Slow + s.Cfg.Signal + 1 }

func (s *MACD) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *MACD) Fingerprint() types.StrategyConfigID {
	return fingerprint("MACD", int64(s.Cfg.Fast), int64(s.Cfg.Slow), int64(s.Cfg.Signal), int64(s.Cfg.Mode))
}
