package yolo

import (
	"path/filepath"
	"testing"

	"trendlab/types"
)

func TestSaveAtomicThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaderboard.json")

	snap := Snapshot{
		SessionID: "sess-1",
		PerSymbol: map[string][]Entry{
			"AAA": {{ConfigID: types.StrategyConfigID{Tag: "x"}, Metric: 1.5}},
		},
		CrossSymbol: []Entry{{ConfigID: types.StrategyConfigID{Tag: "y"}, Metric: 2.0, WalkForwardPass: true}},
	}
	if err := SaveAtomic(path, snap); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if loaded.SessionID != "sess-1" {
		t.Fatalf("SessionID: got %q want %q", loaded.SessionID, "sess-1")
	}
	if loaded.Version != snapshotVersion {
		t.Fatalf("Version: got %d want %d", loaded.Version, snapshotVersion)
	}
	if len(loaded.PerSymbol["AAA"]) != 1 || loaded.PerSymbol["AAA"][0].Metric != 1.5 {
		t.Fatalf("PerSymbol round-trip mismatch: %+v", loaded.PerSymbol)
	}
	if len(loaded.CrossSymbol) != 1 || !loaded.CrossSymbol[0].WalkForwardPass {
		t.Fatalf("CrossSymbol round-trip mismatch: %+v", loaded.CrossSymbol)
	}
}

func TestLoadSnapshotOfMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	snap, err := LoadSnapshot(filepath.Join(dir, "does-not-exist.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.PerSymbol) != 0 || len(snap.CrossSymbol) != 0 {
		t.Fatalf("expected an empty snapshot, got %+v", snap)
	}
}

func TestSaveAtomicLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leaderboard.json")
	if err := SaveAtomic(path, Snapshot{SessionID: "s"}); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	entries, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly the final snapshot file, got %v", entries)
	}
}
