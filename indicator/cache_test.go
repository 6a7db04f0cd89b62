package indicator

import (
	"testing"

	"trendlab/bar"
	"trendlab/testutils"
)

func datasetFromBars(t *testing.T, bars []bar.Bar) *bar.Dataset {
	t.Helper()
	ds, err := bar.FromBars(bars)
	if err != nil {
		t.Fatalf("FromBars: %v", err)
	}
	return ds
}

func TestMaterializingCacheEnsureComputesDependencies(t *testing.T) {
	ds := datasetFromBars(t, testutils.RandomWalkBars("TEST", 50, 1, 100, 0.01))
	cache := NewMaterializingCache(ds)
	key := Key{Kind: "ATR", Window: 14, Smoothing: ATRWilder}
	if err := cache.Ensure(key); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !ds.HasColumn("true_range") {
		t.Fatal("expected true_range to be materialized as a dependency of ATR")
	}
	if !ds.HasColumn(key.Name()) {
		t.Fatalf("expected %s to be materialized", key.Name())
	}
}

func TestMaterializingCacheEnsureIsIdempotent(t *testing.T) {
	ds := datasetFromBars(t, testutils.RandomWalkBars("TEST", 30, 2, 100, 0.01))
	cache := NewMaterializingCache(ds)
	key := Key{Kind: "SMA", Window: 5}
	if err := cache.Ensure(key); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	first := ds.Column(key.Name())
	if err := cache.Ensure(key); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	second := ds.Column(key.Name())
	if len(first) != len(second) {
		t.Fatalf("column length changed across repeated Ensure calls")
	}
}

func TestEnsureAllStagesSupertrendAfterATR(t *testing.T) {
	ds := datasetFromBars(t, testutils.RandomWalkBars("TEST", 60, 3, 100, 0.01))
	cache := NewMaterializingCache(ds)
	keys := []Key{
		{Kind: "Supertrend", Window: 10, Mult100: 300},
		{Kind: "ATR", Window: 10, Smoothing: ATRWilder},
	}
	if err := cache.EnsureAll(keys); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	if !ds.HasColumn("atr_10_wilder") {
		t.Fatal("expected atr_10_wilder materialized")
	}
	names := keys[0].ColumnNames()
	if !ds.HasColumn(names[0]) || !ds.HasColumn(names[1]) {
		t.Fatal("expected supertrend line+dir columns materialized")
	}
}

func TestLazyBuilderCollectsUnionOfRequests(t *testing.T) {
	ds := datasetFromBars(t, testutils.RandomWalkBars("TEST", 40, 4, 100, 0.01))
	lb := NewLazyBuilder(ds)
	lb.Request(Key{Kind: "SMA", Window: 10}, Key{Kind: "SMA", Window: 10}, Key{Kind: "EMA", Window: 20})
	out, err := lb.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !out.HasColumn("sma_10") || !out.HasColumn("ema_20") {
		t.Fatal("expected both requested columns materialized")
	}
}

func TestEnsureSkipsRecomputeOnAClonedDatasetAlreadyCarryingTheColumn(t *testing.T) {
	ds := datasetFromBars(t, testutils.RandomWalkBars("TEST", 30, 5, 100, 0.01))
	key := Key{Kind: "SMA", Window: 5}
	if err := NewMaterializingCache(ds).Ensure(key); err != nil {
		t.Fatalf("Ensure on master dataset: %v", err)
	}
	materialized := append([]float64(nil), ds.Column(key.Name())...)

	clone, err := ds.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	// A fresh cache over the clone has an empty computed map, but the
	// column is already present — Ensure must recognize this and skip
	// recomputation rather than silently overwriting it.
	if err := NewMaterializingCache(clone).Ensure(key); err != nil {
		t.Fatalf("Ensure on clone: %v", err)
	}
	got := clone.Column(key.Name())
	if len(got) != len(materialized) {
		t.Fatalf("clone column length mismatch: got %d want %d", len(got), len(materialized))
	}
	for i := range got {
		if got[i] != materialized[i] {
			t.Fatalf("clone column diverged at %d: got %v want %v", i, got[i], materialized[i])
		}
	}
}

func TestUnionDedupesPreservesOrder(t *testing.T) {
	a := []Key{{Kind: "SMA", Window: 10}, {Kind: "EMA", Window: 20}}
	b := []Key{{Kind: "EMA", Window: 20}, {Kind: "RSI", Window: 14}}
	out := Union(a, b)
	if len(out) != 3 {
		t.Fatalf("expected 3 deduped keys, got %d: %v", len(out), out)
	}
	if out[0] != a[0] || out[1] != a[1] || out[2] != b[1] {
		t.Fatalf("unexpected order: %v", out)
	}
}
