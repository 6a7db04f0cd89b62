package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// RSIConfig parameterizes a mean-reversion-flavored RSI threshold
// crossover: enter long when RSI crosses up through oversold, exit (or
// enter short) when it crosses down through overbought.
type RSIConfig struct {
	Period     int
	Oversold   float64
	Overbought float64
	Mode       TradingMode
}

func (c RSIConfig) Validate() error {
	if c.Period < 2 {
		return fmt.Errorf("strategy: RSI period must be >= 2, got %d", c.Period)
	}
	if c.Oversold < 0 || c.Oversold > 100 {
		return fmt.Errorf("strategy: RSI oversold must be in [0,100], got %v", c.Oversold)
	}
	if c.Overbought < 0 || c.Overbought > 100 {
		return fmt.Errorf("strategy: RSI overbought must be in [0,100], got %v", c.Overbought)
	}
	if c.Oversold >= c.Overbought {
		return fmt.Errorf("strategy: RSI oversold (%v) must be < overbought (%v)", c.Oversold, c.Overbought)
	}
	return nil
}

type RSI struct {
	Cfg RSIConfig
}

func NewRSI(cfg RSIConfig) (*RSI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RSI{Cfg: cfg}, nil
}

func (s *RSI) key() indicator.Key { return indicator.Key{Kind: "RSI", Window: s.Cfg.Period} }

func (s *RSI) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *RSI) EmitSignalColumns(ds *bar.Dataset) error {
	rsi := ds.Column(s.key().Name())
	if rsi == nil {
		return fmt.Errorf("strategy: RSI requires rsi_%d materialized first", s.Cfg.Period)
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		entry[i] = rsi[i-1] <= s.Cfg.Oversold && rsi[i] > s.Cfg.Oversold
		exit[i] = rsi[i-1] >= s.Cfg.Overbought && rsi[i] < s.Cfg.Overbought
		entryShort[i] = rsi[i-1] >= s.Cfg.Overbought && rsi[i] < s.Cfg.Overbought
		exitShort[i] = rsi[i-1] <= s.Cfg.Oversold && rsi[i] > s.Cfg.Oversold
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

func (s *RSI) WarmupPeriod() int { return s.Cfg.Period + 1 }

func (s *RSI) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *RSI) Fingerprint() types.StrategyConfigID {
	return fingerprint("RSI", int64(s.Cfg.Period), int64(indicator.Mult100(s.Cfg.Oversold)), int64(indicator.Mult100(s.Cfg.Overbought)), int64(s.Cfg.Mode))
}
