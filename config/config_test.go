package config

import "testing"

func TestBacktestConfigValidate(t *testing.T) {
	cfg := BacktestConfig{InitialCash: 10_000, Qty: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := cfg
	bad.InitialCash = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero InitialCash")
	}
	bad = cfg
	bad.Qty = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative Qty")
	}
}

func TestBacktestConfigAnnualizationDefault(t *testing.T) {
	cfg := BacktestConfig{InitialCash: 1, Qty: 1}
	if got := cfg.Annualization(); got != 252 {
		t.Fatalf("expected default annualization 252, got %v", got)
	}
	cfg.AnnualizationFactor = 365
	if got := cfg.Annualization(); got != 365 {
		t.Fatalf("expected overridden annualization 365, got %v", got)
	}
}

func TestPyramidConfigValidate(t *testing.T) {
	p := PyramidConfig{Enabled: true, MaxUnits: 1, ThresholdMultiple: 1}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for MaxUnits < 2")
	}
	p.MaxUnits = 3
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid pyramid config, got %v", err)
	}
}

func TestYoloConfigExplorationClamping(t *testing.T) {
	cfg := YoloConfig{PerSymbolCapacity: 1, CrossSymbolCapacity: 1}
	if got := cfg.Exploration(); got != 0.30 {
		t.Fatalf("expected default 0.30, got %v", got)
	}
	cfg.ExplorationPct = 10
	if got := cfg.Exploration(); got != 0.40 {
		t.Fatalf("expected clamp to 0.40, got %v", got)
	}
	cfg.ExplorationPct = 0.001
	if got := cfg.Exploration(); got != 0.02 {
		t.Fatalf("expected clamp to 0.02, got %v", got)
	}
}

func TestSweepConfigMinSymbolsDefault(t *testing.T) {
	var cfg SweepConfig
	if got := cfg.MinSymbols(); got != 2 {
		t.Fatalf("expected default MinSymbols 2, got %v", got)
	}
	cfg.MinSymbolCount = 5
	if got := cfg.MinSymbols(); got != 5 {
		t.Fatalf("expected overridden MinSymbols 5, got %v", got)
	}
}
