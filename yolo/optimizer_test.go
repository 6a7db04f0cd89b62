package yolo

import (
	"testing"

	"trendlab/bar"
	"trendlab/config"
	"trendlab/strategy"
	"trendlab/testutils"
)

func testDatasets(t *testing.T) map[string]*bar.Dataset {
	t.Helper()
	datasets := map[string]*bar.Dataset{}
	for i, sym := range []string{"AAA", "BBB"} {
		bars := testutils.RandomWalkBars(sym, 180, int64(i+1), 100, 0.01)
		ds, err := bar.FromBars(bars)
		if err != nil {
			t.Fatalf("FromBars(%s): %v", sym, err)
		}
		datasets[sym] = ds
	}
	return datasets
}

func testOptimizerConfig(t *testing.T, snapshotPath string) Config {
	t.Helper()
	return Config{
		Datasets: testDatasets(t),
		BaseGrid: []strategy.MACrossoverConfig{
			{Fast: 5, Slow: 20, Mode: strategy.LongShort},
			{Fast: 10, Slow: 30, Mode: strategy.LongShort},
		},
		Sweep:    config.SweepConfig{MinSymbolCount: 2},
		Backtest: config.BacktestConfig{InitialCash: 10_000, Qty: 1, TradingMode: config.LongShort},
		WalkForward: config.WalkForwardConfig{
			MinTrain: 50, TestLength: 30, Step: 30, Gate: -100, MaxDegradation: 100,
		},
		Yolo: config.YoloConfig{
			SessionID:           "test",
			ExplorationPct:      0.30,
			SharpeGateThreshold: -100, // permissive: every eligible aggregate gets walk-forward gated
			PerSymbolCapacity:   5,
			CrossSymbolCapacity: 5,
		},
		SnapshotPath: snapshotPath,
	}
}

func TestRunOneIterationWithNilCancelPopulatesLeaderboards(t *testing.T) {
	cfg := testOptimizerConfig(t, "")
	opt, err := NewOptimizer(cfg, "sess-1", 42)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}

	var kinds []EventKind
	res, err := opt.Run(nil, func(e Event) { kinds = append(kinds, e.Kind) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Iterations != 1 {
		t.Fatalf("expected exactly 1 iteration with a nil cancel flag, got %d", res.Iterations)
	}
	if kinds[0] != YoloStarted || kinds[len(kinds)-1] != YoloStopped {
		t.Fatalf("expected bracketing Started/Stopped events, got %v", kinds)
	}
	for _, symbol := range []string{"AAA", "BBB"} {
		if len(res.SessionPerSymbol[symbol]) == 0 {
			t.Fatalf("expected session leaderboard entries for %s", symbol)
		}
	}
}

func TestRunPersistsASnapshotEachIteration(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/leaderboard.json"
	cfg := testOptimizerConfig(t, path)
	opt, err := NewOptimizer(cfg, "sess-2", 7)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}
	if _, err := opt.Run(nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.SessionID != "sess-2" {
		t.Fatalf("SessionID: got %q want sess-2", snap.SessionID)
	}
}

func TestRunLogsStartedAndStopped(t *testing.T) {
	cfg := testOptimizerConfig(t, "")
	log := testutils.NewMockLogger()
	cfg.Log = log
	opt, err := NewOptimizer(cfg, "sess-log", 5)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}
	if _, err := opt.Run(nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if log.Count() == 0 {
		t.Fatal("expected Run to log at least start and stop")
	}
	if log.LastMessage() != "yolo_stopped" {
		t.Fatalf("LastMessage: got %q want yolo_stopped", log.LastMessage())
	}
}

func TestNewOptimizerMergesAnExistingAllTimeSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/leaderboard.json"
	seed := Snapshot{
		SessionID:   "prior-run",
		CrossSymbol: []Entry{{ParamSummary: "prior best", Metric: 99.0}},
	}
	if err := SaveAtomic(path, seed); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}

	cfg := testOptimizerConfig(t, path)
	opt, err := NewOptimizer(cfg, "sess-3", 11)
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}
	res, err := opt.Run(nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, e := range res.AllTimeCrossSym {
		if e.ParamSummary == "prior best" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the prior all-time entry to be preserved, got %+v", res.AllTimeCrossSym)
	}
}
