package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// ParabolicSARConfig parameterizes ParabolicSAR(af_start, af_step, af_max)
// (spec.md §4.3/§4.4): a flip of the SAR's implied side is the signal.
type ParabolicSARConfig struct {
	AfStart float64
	AfStep  float64
	AfMax   float64
	Mode    TradingMode
}

func (c ParabolicSARConfig) Validate() error {
	if c.AfStart <= 0 {
		return fmt.Errorf("strategy: ParabolicSAR af_start must be > 0, got %v", c.AfStart)
	}
	if c.AfStep <= 0 {
		return fmt.Errorf("strategy: ParabolicSAR af_step must be > 0, got %v", c.AfStep)
	}
	if c.AfMax < c.AfStart {
		return fmt.Errorf("strategy: ParabolicSAR af_max (%v) must be >= af_start (%v)", c.AfMax, c.AfStart)
	}
	return nil
}

type ParabolicSAR struct {
	Cfg ParabolicSARConfig
}

func NewParabolicSAR(cfg ParabolicSARConfig) (*ParabolicSAR, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ParabolicSAR{Cfg: cfg}, nil
}

// key encodes the three real-valued AF parameters into the integer fields
// a Key can hash: af_start/af_step in thousandths (Window/Window2), af_max
// in hundredths (Mult100), matching indicator/cache.go's decoding.
func (s *ParabolicSAR) key() indicator.Key {
	return indicator.Key{
		Kind:    "ParabolicSAR",
		Window:  int(s.Cfg.AfStart*1000 + 0.5),
		Window2: int(s.Cfg.AfStep*1000 + 0.5),
		Mult100: indicator.Mult100(s.Cfg.AfMax),
	}
}

func (s *ParabolicSAR) IndicatorKeys() []indicator.Key { return []indicator.Key{s.key()} }

func (s *ParabolicSAR) EmitSignalColumns(ds *bar.Dataset) error {
	col := ds.Column(s.key().Name())
	if col == nil {
		return fmt.Errorf("strategy: ParabolicSAR requires its sar column materialized first")
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	for i := 1; i < n; i++ {
		prevLong := col[i-1] > 0
		nowLong := col[i] > 0
		entry[i] = !prevLong && nowLong
		exit[i] = prevLong && !nowLong
		entryShort[i] = prevLong && !nowLong
		exitShort[i] = !prevLong && nowLong
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

func (s *ParabolicSAR) WarmupPeriod() int { return 2 }

func (s *ParabolicSAR) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *ParabolicSAR) Fingerprint() types.StrategyConfigID {
	return fingerprint("ParabolicSAR", int64(s.Cfg.AfStart*1000), int64(s.Cfg.AfStep*1000), int64(indicator.Mult100(s.Cfg.AfMax)), int64(s.Cfg.Mode))
}
