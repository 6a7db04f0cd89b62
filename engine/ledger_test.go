package engine

import (
	"math"
	"testing"
	"time"

	"trendlab/config"
	"trendlab/types"
)

func closeEnough(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestLedgerLongRoundTripAppliesFeesAndSlippage(t *testing.T) {
	l := NewLedger(10_000)
	cost := config.CostModel{FeeRate: 0.001, SlippageRate: 0.01}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	fill := l.EnterLong(ts, 100, 10, 2.0, cost)
	wantBuyPrice := 100 * 1.01
	if !closeEnough(fill.Price, wantBuyPrice, 1e-9) {
		t.Fatalf("buy price: got %v want %v", fill.Price, wantBuyPrice)
	}
	qty, state := l.Position()
	if qty != 10 || state != types.Long {
		t.Fatalf("unexpected position after entry: qty=%v state=%v", qty, state)
	}

	trade, err := l.ExitLong(ts.Add(time.Hour), 110, cost)
	if err != nil {
		t.Fatalf("ExitLong: %v", err)
	}
	wantSellPrice := 110 * 0.99
	if !closeEnough(trade.Exit.Price, wantSellPrice, 1e-9) {
		t.Fatalf("sell price: got %v want %v", trade.Exit.Price, wantSellPrice)
	}
	wantGross := (wantSellPrice - wantBuyPrice) * 10
	if !closeEnough(trade.GrossPnL, wantGross, 1e-9) {
		t.Fatalf("gross pnl: got %v want %v", trade.GrossPnL, wantGross)
	}
	if trade.NetPnL >= trade.GrossPnL {
		t.Fatalf("net pnl (%v) should be below gross pnl (%v) once fees are deducted", trade.NetPnL, trade.GrossPnL)
	}
	qty, state = l.Position()
	if qty != 0 || state != types.Flat {
		t.Fatalf("expected flat position after exit, got qty=%v state=%v", qty, state)
	}
}

func TestLedgerShortRoundTripCreditsProceedsOnEntry(t *testing.T) {
	l := NewLedger(10_000)
	cost := config.CostModel{FeeRate: 0, SlippageRate: 0}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	l.EnterShort(ts, 100, 10, 2.0, cost)
	if cash := l.Cash(); !closeEnough(cash, 10_000+1000, 1e-9) {
		t.Fatalf("expected short-sale proceeds credited to cash, got %v", cash)
	}

	trade, err := l.ExitShort(ts.Add(time.Hour), 90, cost)
	if err != nil {
		t.Fatalf("ExitShort: %v", err)
	}
	if trade.GrossPnL <= 0 {
		t.Fatalf("expected positive pnl covering a short at a lower price, got %v", trade.GrossPnL)
	}
	if cash := l.Cash(); !closeEnough(cash, 10_000+100, 1e-9) {
		t.Fatalf("expected cash = initial + profit after covering, got %v", cash)
	}
}

func TestLedgerExitWithoutEntryIsInvariantViolation(t *testing.T) {
	l := NewLedger(10_000)
	cost := config.CostModel{}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := l.ExitLong(ts, 100, cost); err == nil {
		t.Fatal("expected error exiting a long position that was never entered")
	}
	if _, err := l.ExitShort(ts, 100, cost); err == nil {
		t.Fatal("expected error exiting a short position that was never entered")
	}

	l.EnterLong(ts, 100, 10, 2.0, cost)
	if _, err := l.ExitShort(ts, 100, cost); err == nil {
		t.Fatal("expected error exiting short while actually holding a long")
	}
}

func TestLedgerPyramidingCombinesEntryFillsOnExit(t *testing.T) {
	l := NewLedger(10_000)
	cost := config.CostModel{FeeRate: 0.001}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pc := config.PyramidConfig{Enabled: true, MaxUnits: 3, ThresholdMultiple: 1}

	l.EnterLong(ts, 100, 10, 2.0, cost)
	if !l.ShouldPyramid(103, pc) {
		t.Fatal("expected pyramid eligible once close has advanced threshold_multiple*entry_atr")
	}
	l.AddLongUnit(ts.Add(time.Hour), 103, 10, cost)
	if l.ShouldPyramid(103, pc) {
		t.Fatal("expected pyramid not eligible again until price advances past the new last-add price")
	}

	trade, err := l.ExitLong(ts.Add(2*time.Hour), 120, cost)
	if err != nil {
		t.Fatalf("ExitLong: %v", err)
	}
	wantAvgEntry := (10*100 + 10*103) / 20.0
	if !closeEnough(trade.Entry.Price, wantAvgEntry, 1e-9) {
		t.Fatalf("expected volume-weighted average entry price, got %v want %v", trade.Entry.Price, wantAvgEntry)
	}
	if trade.Entry.Qty != 20 {
		t.Fatalf("expected combined entry qty 20, got %v", trade.Entry.Qty)
	}
}
