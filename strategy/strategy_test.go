package strategy

import (
	"testing"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/testutils"
)

func datasetWith(t *testing.T, bars []bar.Bar, keys []indicator.Key) *bar.Dataset {
	t.Helper()
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	cache := indicator.NewMaterializingCache(ds)
	if err := cache.EnsureAll(keys); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return ds
}

func TestDonchianBreakoutSignalsOnStep(t *testing.T) {
	bars := testutils.StepBars("TEST", 20, []float64{100, 150, 100})
	spec, err := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: LongShort})
	if err != nil {
		t.Fatalf("NewDonchianBreakout: %v", err)
	}
	ds := datasetWith(t, bars, spec.IndicatorKeys())
	if err := spec.EmitSignalColumns(ds); err != nil {
		t.Fatalf("EmitSignalColumns: %v", err)
	}
	entry := ds.BoolColumn("raw_entry")
	var any bool
	for _, v := range entry {
		if v {
			any = true
		}
	}
	if !any {
		t.Fatal("expected at least one entry signal on a breakout step series")
	}
}

func TestMACrossoverConfigValidation(t *testing.T) {
	if _, err := NewMACrossover(MACrossoverConfig{Fast: 10, Slow: 5}); err == nil {
		t.Fatal("expected error when slow <= fast")
	}
	if _, err := NewMACrossover(MACrossoverConfig{Fast: 5, Slow: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRSIConfigValidation(t *testing.T) {
	if _, err := NewRSI(RSIConfig{Period: 14, Oversold: 70, Overbought: 30}); err == nil {
		t.Fatal("expected error when oversold >= overbought")
	}
}

func TestEnsembleMajorityRequiresStrictMajority(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 80, 7, 100, 0.01)
	donch, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: LongShort})
	ma, _ := NewMACrossover(MACrossoverConfig{Fast: 5, Slow: 15, Mode: LongShort})
	tsmom, _ := NewTSMOM(TSMOMConfig{Lookback: 10, Mode: LongShort})

	ens, err := NewEnsemble([]Spec{donch, ma, tsmom}, Majority, LongShort)
	if err != nil {
		t.Fatalf("NewEnsemble: %v", err)
	}
	ds := datasetWith(t, bars, ens.IndicatorKeys())
	if err := ens.EmitSignalColumns(ds); err != nil {
		t.Fatalf("EmitSignalColumns: %v", err)
	}
	if !ds.HasColumn("raw_entry") {
		t.Fatal("expected ensemble to write raw_entry")
	}
}

func TestEnsembleUnanimousRequiresAllChildren(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 80, 8, 100, 0.01)
	donch, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: LongShort})
	ma, _ := NewMACrossover(MACrossoverConfig{Fast: 5, Slow: 15, Mode: LongShort})

	majority, _ := NewEnsemble([]Spec{donch, ma}, Majority, LongShort)
	unanimous, _ := NewEnsemble([]Spec{donch, ma}, UnanimousEntry, LongShort)

	dsA := datasetWith(t, bars, majority.IndicatorKeys())
	dsB := datasetWith(t, bars, unanimous.IndicatorKeys())
	if err := majority.EmitSignalColumns(dsA); err != nil {
		t.Fatalf("majority EmitSignalColumns: %v", err)
	}
	if err := unanimous.EmitSignalColumns(dsB); err != nil {
		t.Fatalf("unanimous EmitSignalColumns: %v", err)
	}
	countA := countTrue(dsA.BoolColumn("raw_entry"))
	countB := countTrue(dsB.BoolColumn("raw_entry"))
	if countB > countA {
		t.Fatalf("unanimous entry (%d) should never fire more often than majority (%d)", countB, countA)
	}
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func TestTradingModeMasksShortColumns(t *testing.T) {
	bars := testutils.StepBars("TEST", 20, []float64{100, 150, 100})
	spec, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 10, ExitN: 5, Mode: LongOnly})
	ds := datasetWith(t, bars, spec.IndicatorKeys())
	if err := spec.EmitSignalColumns(ds); err != nil {
		t.Fatalf("EmitSignalColumns: %v", err)
	}
	for _, v := range ds.BoolColumn("raw_entry_short") {
		if v {
			t.Fatal("LongOnly mode must mask all short entries")
		}
	}
}

func TestGotiConfirmationEmitsSomeSignalOnARandomWalk(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 120, 21, 100, 0.01)
	spec, err := NewGotiConfirmation(GotiConfirmationConfig{AtsoEMAPeriod: 10, Mode: LongShort})
	if err != nil {
		t.Fatalf("NewGotiConfirmation: %v", err)
	}
	ds := datasetWith(t, bars, spec.IndicatorKeys())
	if err := spec.EmitSignalColumns(ds); err != nil {
		t.Fatalf("EmitSignalColumns: %v", err)
	}
	total := countTrue(ds.BoolColumn("raw_entry")) + countTrue(ds.BoolColumn("raw_exit")) +
		countTrue(ds.BoolColumn("raw_entry_short")) + countTrue(ds.BoolColumn("raw_exit_short"))
	if total == 0 {
		t.Fatal("expected at least one HMA/VWAO/ATSO-confirmed signal over 120 bars")
	}
}

func TestGotiConfirmationRejectsInvalidConfig(t *testing.T) {
	if _, err := NewGotiConfirmation(GotiConfirmationConfig{AtsoEMAPeriod: 0}); err == nil {
		t.Fatal("expected error for AtsoEMAPeriod < 1")
	}
}

func TestEnsembleAcceptsGotiConfirmationAsAChild(t *testing.T) {
	bars := testutils.RandomWalkBars("TEST", 120, 22, 100, 0.01)
	goti, err := NewGotiConfirmation(GotiConfirmationConfig{AtsoEMAPeriod: 10, Mode: LongShort})
	if err != nil {
		t.Fatalf("NewGotiConfirmation: %v", err)
	}
	ma, _ := NewMACrossover(MACrossoverConfig{Fast: 5, Slow: 15, Mode: LongShort})

	ens, err := NewEnsemble([]Spec{goti, ma}, Majority, LongShort)
	if err != nil {
		t.Fatalf("NewEnsemble: %v", err)
	}
	ds := datasetWith(t, bars, ens.IndicatorKeys())
	if err := ens.EmitSignalColumns(ds); err != nil {
		t.Fatalf("EmitSignalColumns: %v", err)
	}
	if !ds.HasColumn("raw_entry") {
		t.Fatal("expected ensemble with a GotiConfirmation child to write raw_entry")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 20, ExitN: 10, Mode: LongShort})
	b, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 20, ExitN: 10, Mode: LongShort})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("expected identical configs to produce identical fingerprints")
	}
	c, _ := NewDonchianBreakout(DonchianBreakoutConfig{EntryN: 21, ExitN: 10, Mode: LongShort})
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("expected different configs to produce different fingerprints")
	}
}
