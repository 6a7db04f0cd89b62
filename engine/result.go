// Package engine runs a strategy.Spec against a dataset (or raw bar
// sequence) through the position state machine and returns fills, trades
// and an equity curve (spec.md §4.5, §4.6).
package engine

import "trendlab/types"

// Result is everything a single backtest produces.
type Result struct {
	Fills        []types.Fill
	Trades       []types.Trade
	EquityPoints []types.EquityPoint
}

// FinalEquity returns the last mark-to-market equity value, or the
// initial cash if the dataset was empty.
func (r *Result) FinalEquity(initialCash float64) float64 {
	if len(r.EquityPoints) == 0 {
		return initialCash
	}
	return r.EquityPoints[len(r.EquityPoints)-1].Equity
}
