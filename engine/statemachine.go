package engine

import (
	"time"

	"trendlab/config"
	"trendlab/risk"
	"trendlab/types"
)

// pendingAction is the at-most-one action queued at the end of bar i and
// executed at the open of bar i+1 (spec.md §4.5).
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingEntryLong
	pendingExitLong
	pendingEntryShort
	pendingExitShort
	pendingAddLong
)

// stateMachine runs spec.md §4.5's single left-to-right pass. It is driven
// identically by the columnar path (reading whole signal slices) and the
// sequential path (reading one Signal per call), so fill/trade/equity
// logic is implemented exactly once.
type stateMachine struct {
	ledger  *Ledger
	cfg     config.BacktestConfig
	pending pendingAction

	// pendingEntryATR carries the ATR snapshot from the bar where entry
	// was decided through to the bar where the fill actually executes,
	// since the fill happens one bar later than the signal (spec.md §4.5).
	pendingEntryATR float64

	result Result
}

func newStateMachine(cfg config.BacktestConfig) *stateMachine {
	return &stateMachine{
		ledger: NewLedger(cfg.InitialCash),
		cfg:    cfg,
	}
}

// barSignal is the already-masked-by-trading-mode raw signal state for one
// bar, computed by the caller from either the dataset's boolean columns or
// a sequential strategy's per-bar Signal.
type barSignal struct {
	entryLong  bool
	exitLong   bool
	entryShort bool
	exitShort  bool
}

// step processes one bar: executes any pending action at this bar's open,
// marks to market at this bar's close, then computes the next pending
// action from this bar's (warmup-gated) signal.
func (sm *stateMachine) step(i int, ts time.Time, open, close float64, entryATR float64, sig barSignal, warmup int) error {
	if i > 0 {
		if err := sm.execute(ts, open); err != nil {
			return err
		}
	}

	qty, _ := sm.ledger.Position()
	sm.result.EquityPoints = append(sm.result.EquityPoints, types.EquityPoint{
		Ts:          ts,
		Cash:        sm.ledger.Cash(),
		PositionQty: qty,
		Close:       close,
		Equity:      sm.ledger.Equity(close),
	})

	if i+1 < warmup {
		sm.pending = pendingNone
		return nil
	}
	sm.pending = sm.nextPending(close, entryATR, sig)
	return nil
}

// entryQty is the flat per-fill Qty, unless RiskSizing is enabled, in which
// case it sizes off current equity and the configured stop-loss distance
// via risk.CalcQty.
func (sm *stateMachine) entryQty(openPrice float64) float64 {
	rs := sm.cfg.RiskSizing
	if !rs.Enabled {
		return sm.cfg.Qty
	}
	equity := sm.ledger.Equity(openPrice)
	return risk.CalcQty(equity, rs.MaxRiskPerTrade, rs.StopLossPct, openPrice, rs.StepSize, rs.QuantityPrecision, rs.MinQty)
}

func (sm *stateMachine) execute(ts time.Time, open float64) error {
	action := sm.pending
	sm.pending = pendingNone
	_, state := sm.ledger.Position()

	switch action {
	case pendingEntryLong:
		if state != types.Flat {
			return nil
		}
		qty := sm.entryQty(open)
		if qty <= 0 {
			return nil
		}
		fill := sm.ledger.EnterLong(ts, open, qty, sm.pendingEntryATR, sm.cfg.Cost)
		sm.result.Fills = append(sm.result.Fills, fill)
	case pendingEntryShort:
		if state != types.Flat {
			return nil
		}
		qty := sm.entryQty(open)
		if qty <= 0 {
			return nil
		}
		fill := sm.ledger.EnterShort(ts, open, qty, sm.pendingEntryATR, sm.cfg.Cost)
		sm.result.Fills = append(sm.result.Fills, fill)
	case pendingAddLong:
		if state != types.Long {
			return nil
		}
		fill := sm.ledger.AddLongUnit(ts, open, sm.cfg.Qty, sm.cfg.Cost)
		sm.result.Fills = append(sm.result.Fills, fill)
	case pendingExitLong:
		if state != types.Long {
			return nil
		}
		trade, err := sm.ledger.ExitLong(ts, open, sm.cfg.Cost)
		if err != nil {
			return err
		}
		sm.result.Fills = append(sm.result.Fills, trade.Exit)
		sm.result.Trades = append(sm.result.Trades, trade)
	case pendingExitShort:
		if state != types.Short {
			return nil
		}
		trade, err := sm.ledger.ExitShort(ts, open, sm.cfg.Cost)
		if err != nil {
			return err
		}
		sm.result.Fills = append(sm.result.Fills, trade.Exit)
		sm.result.Trades = append(sm.result.Trades, trade)
	}
	return nil
}

// nextPending dispatches this bar's masked signal against the current
// position state (spec.md §4.5 step 3), then layers the pyramiding check
// in when no exit already claimed the bar.
func (sm *stateMachine) nextPending(close, entryATR float64, sig barSignal) pendingAction {
	_, state := sm.ledger.Position()
	switch state {
	case types.Flat:
		if sig.entryLong {
			sm.pendingEntryATR = entryATR
			return pendingEntryLong
		}
		if sig.entryShort {
			sm.pendingEntryATR = entryATR
			return pendingEntryShort
		}
	case types.Long:
		if sig.exitLong {
			return pendingExitLong
		}
		if sm.ledger.ShouldPyramid(close, sm.cfg.Pyramid) {
			return pendingAddLong
		}
	case types.Short:
		if sig.exitShort {
			return pendingExitShort
		}
	}
	return pendingNone
}
