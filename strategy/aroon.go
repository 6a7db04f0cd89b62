package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// AroonConfig parameterizes the Aroon up/down crossover variant.
type AroonConfig struct {
	Period int
	Mode   TradingMode
}

func (c AroonConfig) Validate() error {
	if c.Period < 2 {
		return fmt.Errorf("strategy: Aroon period must be >= 2, got %d", c.Period)
	}
	return nil
}

type Aroon struct {
	Cfg AroonConfig
}

func NewAroon(cfg AroonConfig) (*Aroon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aroon{Cfg: cfg}, nil
}

func (s *Aroon) key() indicator.Key { return indicator.Key{Kind: "Aroon", Window: s.Cfg.Period} }

func (s *Aroon) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *Aroon) EmitSignalColumns(ds *bar.Dataset) error {
	names := s.key().ColumnNames()
	up := ds.Column(names[0])
	down := ds.Column(names[1])
	if up == nil || down == nil {
		return fmt.Errorf("strategy: Aroon requires aroon up/down materialized first")
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevUp := up[i-1] > down[i-1]
		nowUp := up[i] > down[i]
		crossUp := !prevUp && nowUp
		crossDown := prevUp && !nowUp
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

func (s *Aroon) WarmupPeriod() int { return s.Cfg.Period + 1 }

func (s *Aroon) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *Aroon) Fingerprint() types.StrategyConfigID {
	return fingerprint("Aroon", int64(s.Cfg.Period), int64(s.Cfg.Mode))
}
