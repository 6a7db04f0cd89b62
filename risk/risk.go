// Package risk sizes positions and pyramiding add-ons from account equity
// and a stop-loss distance, following the teacher's CalcQty shape.
package risk

import "math"

// CalcQty returns the quantity to trade so that a stop-loss hit at
// stopLossPct loses exactly maxRisk fraction of equity, rounded down to
// stepSize and to quantityPrecision decimal places, and zeroed out if it
// falls below minQty. stepSize <= 0 disables step rounding.
func CalcQty(equity, maxRisk, stopLossPct, price, stepSize float64, quantityPrecision int, minQty float64) float64 {
	if price <= 0 || stopLossPct <= 0 {
		return 0
	}
	riskAmt := equity * maxRisk
	slDist := price * stopLossPct
	if slDist == 0 {
		return 0
	}
	qty := riskAmt / slDist

	if stepSize > 0 {
		qty = math.Floor(qty/stepSize) * stepSize
	}
	scale := math.Pow(10, float64(quantityPrecision))
	qty = math.Floor(qty*scale) / scale

	if qty < minQty || qty < 0 {
		return 0
	}
	return qty
}

// PyramidTrigger reports whether a new unit should be added to a winning
// long position: close >= lastAddPrice + thresholdMultiple * entryATR
// (spec.md §4.5). Only long positions are pyramided; see
// engine.Ledger.ShouldPyramid.
func PyramidTrigger(close, lastAddPrice, entryATR, thresholdMultiple float64) bool {
	if entryATR <= 0 || thresholdMultiple <= 0 {
		return false
	}
	return close >= lastAddPrice+thresholdMultiple*entryATR
}
