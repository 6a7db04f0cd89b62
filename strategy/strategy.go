// Package strategy implements the closed sum of strategy variants
// (spec.md §4.3): each carries its own typed parameters, declares the
// indicator keys it consumes, and emits raw boolean signal columns that
// the engine's position state machine later filters by current position
// and trading mode.
package strategy

import (
	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// TradingMode restricts which side(s) of the market a strategy may signal.
type TradingMode int

const (
	LongOnly TradingMode = iota
	ShortOnly
	LongShort
)

func (m TradingMode) String() string {
	switch m {
	case LongOnly:
		return "long_only"
	case ShortOnly:
		return "short_only"
	case LongShort:
		return "long_short"
	default:
		return "unknown"
	}
}

// Spec is implemented by every strategy variant (spec.md §4.3).
type Spec interface {
	// IndicatorKeys declares which indicator columns this variant reads,
	// satisfying indicator.Requirer so the cache can dedup across an
	// entire sweep grid.
	IndicatorKeys() []indicator.Key

	// EmitSignalColumns appends raw_entry/raw_exit (and, for variants
	// that support shorting, raw_entry_short/raw_exit_short) boolean
	// columns to ds. The columns describe a condition on bar close; the
	// engine fills at the next bar's open.
	EmitSignalColumns(ds *bar.Dataset) error

	// WarmupPeriod returns the number of leading bars during which
	// signals must be forced to Hold regardless of what the indicator
	// math produces (spec.md §4.5).
	WarmupPeriod() int

	// TradingMode reports which side(s) this config is allowed to
	// signal; the engine masks disallowed raw signals.
	TradingMode() TradingMode

	// Fingerprint returns a hashable identity for this exact
	// configuration, used as a sweep-result/leaderboard key.
	Fingerprint() types.StrategyConfigID
}

var _ indicator.Requirer = Spec(nil)

const (
	colRawEntry      = "raw_entry"
	colRawExit       = "raw_exit"
	colRawEntryShort = "raw_entry_short"
	colRawExitShort  = "raw_exit_short"
)

// maskByMode zeroes out short columns for LongOnly and long columns for
// ShortOnly, leaving LongShort untouched. All four columns must already
// exist (short ones default to all-false for long-only variants).
func maskByMode(ds *bar.Dataset, mode TradingMode) error {
	n := ds.Len()
	allFalse := make([]bool, n)
	switch mode {
	case LongOnly:
		if err := ds.SetBoolColumn(colRawEntryShort, allFalse); err != nil {
			return err
		}
		return ds.SetBoolColumn(colRawExitShort, allFalse)
	case ShortOnly:
		if err := ds.SetBoolColumn(colRawEntry, allFalse); err != nil {
			return err
		}
		return ds.SetBoolColumn(colRawExit, allFalse)
	default:
		return nil
	}
}

// ensureShortColumnsExist writes all-false short columns for variants
// that never compute a short condition, so downstream code can always
// read all four columns unconditionally.
func ensureShortColumnsExist(ds *bar.Dataset) error {
	if ds.HasColumn(colRawEntryShort) && ds.HasColumn(colRawExitShort) {
		return nil
	}
	n := ds.Len()
	allFalse := make([]bool, n)
	if !ds.HasColumn(colRawEntryShort) {
		if err := ds.SetBoolColumn(colRawEntryShort, allFalse); err != nil {
			return err
		}
	}
	if !ds.HasColumn(colRawExitShort) {
		if err := ds.SetBoolColumn(colRawExitShort, allFalse); err != nil {
			return err
		}
	}
	return nil
}

// fingerprint builds a StrategyConfigID from a tag and up to 8 integer
// parameters, matching types.StrategyConfigID's fixed-size fingerprint.
func fingerprint(tag string, params ...int64) types.StrategyConfigID {
	var p [8]int64
	copy(p[:], params)
	return types.StrategyConfigID{Tag: tag, Params: p}
}
