package strategy

import (
	"fmt"

	"github.com/evdnx/goti"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// GotiConfirmationConfig parameterizes an ensemble-child variant built on
// the Hull Moving Average / Volume-Weighted Aroon Oscillator / Adaptive
// Trend Strength Oscillator triple from the goti indicator suite. Unlike
// every other variant it does not read a cached indicator.Key column: the
// suite keeps its own internal state and is driven one bar at a time, the
// same way the original live-trading breakout strategy fed it.
type GotiConfirmationConfig struct {
	AtsoEMAPeriod int
	Mode          TradingMode
}

func (c GotiConfirmationConfig) Validate() error {
	if c.AtsoEMAPeriod < 1 {
		return fmt.Errorf("strategy: GotiConfirmation atso_ema_period must be >= 1, got %d", c.AtsoEMAPeriod)
	}
	return nil
}

type GotiConfirmation struct {
	Cfg GotiConfirmationConfig
}

func NewGotiConfirmation(cfg GotiConfirmationConfig) (*GotiConfirmation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GotiConfirmation{Cfg: cfg}, nil
}

// IndicatorKeys is empty: the goti suite owns its own internal state
// rather than writing into the shared indicator cache.
func (s *GotiConfirmation) IndicatorKeys() []indicator.Key { return nil }

func (s *GotiConfirmation) EmitSignalColumns(ds *bar.Dataset) error {
	indCfg := goti.DefaultConfig()
	indCfg.ATSEMAperiod = s.Cfg.AtsoEMAPeriod
	suite, err := goti.NewIndicatorSuiteWithConfig(indCfg)
	if err != nil {
		return fmt.Errorf("strategy: GotiConfirmation suite init: %w", err)
	}

	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)

	for i := 0; i < n; i++ {
		if err := suite.Add(ds.High[i], ds.Low[i], ds.Close[i], ds.Volume[i]); err != nil {
			// The suite needs a few bars to warm up its internal
			// windows; treat a warmup error as "no signal yet" rather
			// than aborting the whole run.
			continue
		}

		hBull, _ := suite.GetHMA().IsBullishCrossover()
		hBear, _ := suite.GetHMA().IsBearishCrossover()
		vBull, _ := suite.GetVWAO().IsBullishCrossover()
		vBear, _ := suite.GetVWAO().IsBearishCrossover()
		atBull := suite.GetATSO().IsBullishCrossover()
		atBear := suite.GetATSO().IsBearishCrossover()

		longSignal := hBull && vBull && atBull
		shortSignal := hBear && vBear && atBear

		entry[i] = longSignal
		exit[i] = shortSignal
		entryShort[i] = shortSignal
		exitShort[i] = longSignal
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

func (s *GotiConfirmation) WarmupPeriod() int { return s.Cfg.AtsoEMAPeriod + 5 }

func (s *GotiConfirmation) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *GotiConfirmation) Fingerprint() types.StrategyConfigID {
	return fingerprint("GotiConfirmation", int64(s.Cfg.AtsoEMAPeriod), int64(s.Cfg.Mode))
}
