package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"trendlab/config"
	"trendlab/risk"
	"trendlab/types"
)

// Ledger is the engine's cash/position bookkeeper, adapted from the
// teacher's mutex-protected PaperExecutor: instead of routing live orders
// it records simulated fills and derives closed trades, carrying fees,
// slippage and (optional) pyramiding state the original live executor
// never needed.
type Ledger struct {
	mu sync.Mutex

	cash  float64
	state types.PositionState

	// open position bookkeeping
	qty          float64 // signed: >0 long, <0 short
	entryFills   []types.Fill
	entryATR     float64
	lastAddPrice float64
	units        int
}

// NewLedger starts a ledger with the given starting cash, flat.
func NewLedger(initialCash float64) *Ledger {
	return &Ledger{cash: initialCash, state: types.Flat}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

// Position returns the signed quantity and state of the open position.
func (l *Ledger) Position() (qty float64, state types.PositionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qty, l.state
}

// Equity computes cash + position_qty * closePrice (spec.md §4.5's
// mark-to-market identity — this formula is what makes short-sale
// proceeds-as-cash correct: a rising price reduces equity on a negative
// qty exactly as it should).
func (l *Ledger) Equity(closePrice float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash + l.qty*closePrice
}

func fillFees(qty, price float64, cost config.CostModel) float64 {
	return qty * price * cost.FeeRate
}

// EnterLong opens a new long position of qty at the slippage-adjusted
// buy price, snapshotting entryATR for the pyramiding threshold.
func (l *Ledger) EnterLong(ts time.Time, openPrice, qty, entryATR float64, cost config.CostModel) types.Fill {
	l.mu.Lock()
	defer l.mu.Unlock()

	price := openPrice * (1 + cost.SlippageRate)
	fees := fillFees(qty, price, cost)
	l.cash -= qty*price + fees
	l.qty = qty
	l.state = types.Long
	l.entryATR = entryATR
	l.lastAddPrice = price
	l.units = 1

	fill := types.Fill{Ts: ts, Side: types.Buy, Qty: qty, Price: price, RawPrice: openPrice, Fees: fees, ATRAtFill: entryATR}
	l.entryFills = []types.Fill{fill}
	return fill
}

// EnterShort opens a new short position: proceeds are added to cash and
// position_qty goes negative (spec.md §4.5 short-sale accounting).
func (l *Ledger) EnterShort(ts time.Time, openPrice, qty, entryATR float64, cost config.CostModel) types.Fill {
	l.mu.Lock()
	defer l.mu.Unlock()

	price := openPrice * (1 - cost.SlippageRate)
	fees := fillFees(qty, price, cost)
	l.cash += qty*price - fees
	l.qty = -qty
	l.state = types.Short
	l.entryATR = entryATR
	l.lastAddPrice = price
	l.units = 1

	fill := types.Fill{Ts: ts, Side: types.Sell, Qty: qty, Price: price, RawPrice: openPrice, Fees: fees, ATRAtFill: entryATR}
	l.entryFills = []types.Fill{fill}
	return fill
}

// AddLongUnit pyramids an additional unit onto an open long position at
// the slippage-adjusted buy price (spec.md's pyramiding clause).
func (l *Ledger) AddLongUnit(ts time.Time, openPrice, qty float64, cost config.CostModel) types.Fill {
	l.mu.Lock()
	defer l.mu.Unlock()

	price := openPrice * (1 + cost.SlippageRate)
	fees := fillFees(qty, price, cost)
	l.cash -= qty*price + fees
	l.qty += qty
	l.lastAddPrice = price
	l.units++

	fill := types.Fill{Ts: ts, Side: types.Buy, Qty: qty, Price: price, RawPrice: openPrice, Fees: fees, ATRAtFill: l.entryATR}
	l.entryFills = append(l.entryFills, fill)
	return fill
}

// ShouldPyramid reports whether another unit may be added: pyramiding
// enabled, under MaxUnits, and close has advanced threshold_multiple *
// entry_atr beyond the last add price.
func (l *Ledger) ShouldPyramid(close float64, pc config.PyramidConfig) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !pc.Enabled || l.state != types.Long || l.units >= pc.MaxUnits {
		return false
	}
	return risk.PyramidTrigger(close, l.lastAddPrice, l.entryATR, pc.ThresholdMultiple)
}

// ExitLong closes the entire long position (all pyramided units) at the
// slippage-adjusted sell price and returns the resulting trade. The
// average entry price and aggregate fees fold every unit into a single
// synthetic entry fill, per spec.md's pyramiding combined-trade clause.
func (l *Ledger) ExitLong(ts time.Time, openPrice float64, cost config.CostModel) (types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != types.Long {
		return types.Trade{}, fmt.Errorf("engine: exit-long invariant violation: no open long position")
	}

	qty := l.qty
	price := openPrice * (1 - cost.SlippageRate)
	fees := fillFees(qty, price, cost)
	l.cash += qty*price - fees

	entry := combineEntryFills(l.entryFills)
	exit := types.Fill{Ts: ts, Side: types.Sell, Qty: qty, Price: price, RawPrice: openPrice, Fees: fees, ATRAtFill: l.entryATR}

	gross := (exit.Price - entry.Price) * qty
	net := gross - entry.Fees - exit.Fees

	l.resetFlat()
	return types.Trade{Entry: entry, Exit: exit, Direction: types.DirLong, GrossPnL: gross, NetPnL: net}, nil
}

// ExitShort covers the entire short position at the slippage-adjusted
// buy price (spec.md §4.5 short-sale debit-by-cover-price clause).
func (l *Ledger) ExitShort(ts time.Time, openPrice float64, cost config.CostModel) (types.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != types.Short {
		return types.Trade{}, fmt.Errorf("engine: exit-short invariant violation: no open short position")
	}

	qty := math.Abs(l.qty)
	price := openPrice * (1 + cost.SlippageRate)
	fees := fillFees(qty, price, cost)
	l.cash -= qty*price + fees

	entry := combineEntryFills(l.entryFills)
	exit := types.Fill{Ts: ts, Side: types.Buy, Qty: qty, Price: price, RawPrice: openPrice, Fees: fees, ATRAtFill: l.entryATR}

	gross := (entry.Price - exit.Price) * qty
	net := gross - entry.Fees - exit.Fees

	l.resetFlat()
	return types.Trade{Entry: entry, Exit: exit, Direction: types.DirShort, GrossPnL: gross, NetPnL: net}, nil
}

func (l *Ledger) resetFlat() {
	l.qty = 0
	l.state = types.Flat
	l.entryFills = nil
	l.entryATR = 0
	l.lastAddPrice = 0
	l.units = 0
}

// combineEntryFills folds one or more pyramided entry fills into a single
// synthetic entry: volume-weighted average price, summed quantity and
// fees, earliest timestamp.
func combineEntryFills(fills []types.Fill) types.Fill {
	if len(fills) == 1 {
		return fills[0]
	}
	var qty, notional, fees float64
	ts := fills[0].Ts
	for _, f := range fills {
		qty += f.Qty
		notional += f.Qty * f.Price
		fees += f.Fees
		if f.Ts.Before(ts) {
			ts = f.Ts
		}
	}
	return types.Fill{
		Ts:    ts,
		Side:  fills[0].Side,
		Qty:   qty,
		Price: notional / qty,
		Fees:  fees,
	}
}
