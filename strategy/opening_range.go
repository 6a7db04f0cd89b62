package strategy

import (
	"fmt"
	"math"
	"time"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// OpeningRangePeriod selects how often the opening range resets.
type OpeningRangePeriod int

const (
	PeriodWeekly OpeningRangePeriod = iota
	PeriodMonthly
	PeriodRolling
)

func (p OpeningRangePeriod) String() string {
	switch p {
	case PeriodWeekly:
		return "weekly"
	case PeriodMonthly:
		return "monthly"
	default:
		return "rolling"
	}
}

// OpeningRangeConfig parameterizes OpeningRange(range_bars, period): the
// high/low of the first range_bars bars of each period form a channel;
// breaking out of it signals entry, falling back inside signals exit.
type OpeningRangeConfig struct {
	RangeBars int
	Period    OpeningRangePeriod
	Mode      TradingMode
}

func (c OpeningRangeConfig) Validate() error {
	if c.RangeBars < 1 {
		return fmt.Errorf("strategy: OpeningRange range_bars must be >= 1, got %d", c.RangeBars)
	}
	return nil
}

type OpeningRange struct {
	Cfg OpeningRangeConfig
}

func NewOpeningRange(cfg OpeningRangeConfig) (*OpeningRange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OpeningRange{Cfg: cfg}, nil
}

// IndicatorKeys is empty: opening-range boundaries depend on calendar
// period alignment, not a reusable windowed formula another variant would
// ever share.
func (s *OpeningRange) IndicatorKeys() []indicator.Key { return nil }

// periodKey returns a value that changes exactly when a new period begins,
// for the given bar timestamp (unix nanos).
func (s *OpeningRange) periodKey(ts int64) (year, bucket int) {
	t := time.Unix(0, ts).UTC()
	switch s.Cfg.Period {
	case PeriodWeekly:
		y, w := t.ISOWeek()
		return y, w
	case PeriodMonthly:
		return t.Year(), int(t.Month())
	default:
		return 0, 0 // rolling handled separately by bar count
	}
}

func (s *OpeningRange) EmitSignalColumns(ds *bar.Dataset) error {
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)

	rangeHigh, rangeLow := math.NaN(), math.NaN()
	barsIntoPeriod := 0
	prevYear, prevBucket := math.MinInt32, math.MinInt32

	for i := 0; i < n; i++ {
		newPeriod := false
		if s.Cfg.Period == PeriodRolling {
			if i%s.Cfg.RangeBars == 0 {
				newPeriod = true
			}
		} else {
			y, b := s.periodKey(ds.Ts[i])
			if y != prevYear || b != prevBucket {
				newPeriod = true
				prevYear, prevBucket = y, b
			}
		}
		if newPeriod {
			barsIntoPeriod = 0
			rangeHigh, rangeLow = math.Inf(-1), math.Inf(1)
		}

		if barsIntoPeriod < s.Cfg.RangeBars {
			if ds.High[i] > rangeHigh {
				rangeHigh = ds.High[i]
			}
			if ds.Low[i] < rangeLow {
				rangeLow = ds.Low[i]
			}
		} else {
			mid := (rangeHigh + rangeLow) / 2
			c := ds.Close[i]
			entry[i] = c > rangeHigh
			exit[i] = c < mid
			entryShort[i] = c < rangeLow
			exitShort[i] = c > mid
		}
		barsIntoPeriod++
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

func (s *OpeningRange) WarmupPeriod() int { return s.Cfg.RangeBars + 1 }

func (s *OpeningRange) TradingMode() TradingMode { return s.Cfg.Mode }

func (s *OpeningRange) Fingerprint() types.StrategyConfigID {
	return fingerprint("OpeningRange", int64(s.Cfg.RangeBars), int64(s.Cfg.Period), int64(s.Cfg.Mode))
}
