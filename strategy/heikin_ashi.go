package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// HeikinAshiConfig parameterizes a smoothed-candle trend-following
// variant: Heikin-Ashi candles are computed from raw OHLC (no indicator
// cache key — see IndicatorKeys below), and a run of consecutive bullish
// (or bearish) HA candles of minStreak length signals trend entry.
type HeikinAshiConfig struct {
	MinStreak int
	Mode      TradingMode
}

func (c HeikinAshiConfig) Validate() error {
	if c.MinStreak < 1 {
		return fmt.Errorf("strategy: HeikinAshi min_streak must be >= 1, got %d", c.MinStreak)
	}
	return nil
}

type HeikinAshi struct {
	Cfg HeikinAshiConfig
}

func NewHeikinAshi(cfg HeikinAshiConfig) (*HeikinAshi, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HeikinAshi{Cfg: cfg}, nil
}

// IndicatorKeys is empty: Heikin-Ashi candles are a pure transform of raw
// OHLC, not a cached indicator column, since no other variant would ever
// share this intermediate series.
func (s *HeikinAshi) IndicatorKeys() []indicator.Key { return nil }

func (s *HeikinAshi) EmitSignalColumns(ds *bar.Dataset) error {
	n := ds.Len()
	haClose := make([]float64, n)
	haOpen := make([]float64, n)
	for i := 0; i < n; i++ {
		haClose[i] = (ds.Open[i] + ds.High[i] + ds.Low[i] + ds.Close[i]) / 4
		if i == 0 {
			haOpen[i] = (ds.Open[i] + ds.Close[i]) / 2
		} else {
			haOpen[i] = (haOpen[i-1] + haClose[i-1]) / 2
		}
	}

	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)
	bullStreak, bearStreak := 0, 0
	for i := 0; i < n; i++ {
		if haClose[i] > haOpen[i] {
			bullStreak++
			bearStreak = 0
		} else if haClose[i] < haOpen[i] {
			bearStreak++
			bullStreak = 0
		} else {
			bullStreak, bearStreak = 0, 0
		}
		entry[i] = bullStreak == s.Cfg.MinStreak
		exit[i] = bearStreak == 1 && bullStreak == 0
		entryShort[i] = bearStreak == s.Cfg.MinStreak
		exitShort[i] = bullStreak == 1 && bearStreak == 0
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

func (s *HeikinAshi) WarmupPeriod() int { return s.Cfg.MinStreak + 1 }

func (s *HeikinAshi) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *HeikinAshi) Fingerprint() types.StrategyConfigID {
	return fingerprint("HeikinAshi", int64(s.Cfg.MinStreak), int64(s.Cfg.Mode))
}
