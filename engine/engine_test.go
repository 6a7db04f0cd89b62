package engine

import (
	"math"
	"testing"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/strategy"
	"trendlab/testutils"
)

func defaultCfg() config.BacktestConfig {
	return config.BacktestConfig{
		InitialCash: 10_000,
		Qty:         1,
		Cost:        config.CostModel{FeeRate: 0.001, SlippageRate: 0.0005},
		TradingMode: config.LongShort,
	}
}

func TestBacktestFlatMarketNoTrades(t *testing.T) {
	bars := testutils.FlatBars("TEST", 60, 100)
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	spec, err := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: strategy.LongShort})
	if err != nil {
		t.Fatalf("NewDonchianBreakout: %v", err)
	}
	res, err := Backtest(ds, spec, defaultCfg())
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("expected zero trades on a flat market, got %d", len(res.Trades))
	}
	if math.Abs(res.FinalEquity(10_000)-10_000) > 1e-6 {
		t.Fatalf("expected equity unchanged on a flat market, got %v", res.FinalEquity(10_000))
	}
}

func TestBacktestSingleBreakoutProducesOneRoundTrip(t *testing.T) {
	bars := testutils.StepBars("TEST", 20, []float64{100, 150, 100})
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	spec, _ := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: strategy.LongShort})
	res, err := Backtest(ds, spec, defaultCfg())
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("expected exactly one round trip on a step breakout series, got %d", len(res.Trades))
	}
}

func TestColumnarSequentialParity(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 150, 42, 100, 0.01)
	spec, _ := strategy.NewMACrossover(strategy.MACrossoverConfig{Fast: 5, Slow: 20, Mode: strategy.LongShort})
	cfg := defaultCfg()

	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	columnar, err := Backtest(ds, spec, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}

	spec2, _ := strategy.NewMACrossover(strategy.MACrossoverConfig{Fast: 5, Slow: 20, Mode: strategy.LongShort})
	sequential, err := SequentialBacktest(bars, spec2, cfg)
	if err != nil {
		t.Fatalf("SequentialBacktest: %v", err)
	}

	colEq := columnar.FinalEquity(cfg.InitialCash)
	seqEq := sequential.FinalEquity(cfg.InitialCash)
	tolerance := 1e-3 * cfg.InitialCash
	if math.Abs(colEq-seqEq) > tolerance {
		t.Fatalf("equity parity violated: columnar=%v sequential=%v tolerance=%v", colEq, seqEq, tolerance)
	}
	if len(columnar.Trades) != len(sequential.Trades) {
		t.Fatalf("trade count parity violated: columnar=%d sequential=%d", len(columnar.Trades), len(sequential.Trades))
	}
}

func TestPyramidingAccumulatesUnitsAndExitsTogether(t *testing.T) {
	prices := make([]float64, 0, 40)
	for i := 0; i < 5; i++ {
		prices = append(prices, 100)
	}
	for p := 110.0; p <= 160; p += 10 {
		prices = append(prices, p)
	}
	// drop back below the 2-bar exit channel so the pyramided position closes
	prices = append(prices, 100, 100)
	bars := make([]bar.Bar, 0, len(prices))
	for i, p := range prices {
		b := testutils.FlatBars("TEST", 1, p)[0]
		b.Ts = b.Ts.AddDate(0, 0, i)
		bars = append(bars, b)
	}
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	spec, _ := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{EntryN: 4, ExitN: 2, Mode: strategy.LongShort})
	cfg := defaultCfg()
	cfg.Pyramid = config.PyramidConfig{Enabled: true, MaxUnits: 3, ThresholdMultiple: 1, AtrWindow: 3}

	res, err := Backtest(ds, spec, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("expected one combined round trip, got %d trades", len(res.Trades))
	}
	wantQty := float64(cfg.Pyramid.MaxUnits) * cfg.Qty
	if res.Trades[0].Entry.Qty != wantQty || res.Trades[0].Exit.Qty != wantQty {
		t.Fatalf("expected all %v pyramided units entered and exited together, got entry %v exit %v", wantQty, res.Trades[0].Entry.Qty, res.Trades[0].Exit.Qty)
	}
}

func TestBacktestRunsGotiConfirmation(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 150, 23, 100, 0.01)
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	spec, err := strategy.NewGotiConfirmation(strategy.GotiConfirmationConfig{AtsoEMAPeriod: 10, Mode: strategy.LongShort})
	if err != nil {
		t.Fatalf("NewGotiConfirmation: %v", err)
	}
	res, err := Backtest(ds, spec, defaultCfg())
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if len(res.EquityPoints) != len(bars) {
		t.Fatalf("expected one equity point per bar, got %d", len(res.EquityPoints))
	}
}

func TestRiskSizingScalesQtyOffEquityAndStopDistance(t *testing.T) {
	bars := testutils.StepBars("TEST", 20, []float64{100, 150, 100})
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	spec, _ := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: strategy.LongShort})
	cfg := defaultCfg()
	cfg.RiskSizing = config.RiskSizingConfig{Enabled: true, MaxRiskPerTrade: 0.01, StopLossPct: 0.02, QuantityPrecision: 2}

	res, err := Backtest(ds, spec, cfg)
	if err != nil {
		t.Fatalf("Backtest: %v", err)
	}
	if len(res.Fills) == 0 {
		t.Fatal("expected at least one fill")
	}
	// the entry fills at the open after the breakout to 150:
	// equity 10_000 * 0.01 risk / (150 * 0.02 stop distance) ≈ 33.33
	wantQty := 10_000 * 0.01 / (150 * 0.02)
	if math.Abs(res.Fills[0].Qty-wantQty) > 0.01 {
		t.Fatalf("expected risk-sized qty ~%v, got %v", wantQty, res.Fills[0].Qty)
	}
}

func TestBacktestRejectsInvalidConfig(t *testing.T) {
	bars := testutils.FlatBars("TEST", 20, 100)
	ds, _ := bar.FromBars(bars)
	spec, _ := strategy.NewDonchianBreakout(strategy.DonchianBreakoutConfig{EntryN: 5, ExitN: 3, Mode: strategy.LongShort})
	_, err := Backtest(ds, spec, config.BacktestConfig{InitialCash: 0, Qty: 1})
	if err == nil {
		t.Fatal("expected error for InitialCash <= 0")
	}
}
