package yolo

import (
	"testing"

	"trendlab/types"
)

func cfgID(tag string) types.StrategyConfigID {
	return types.StrategyConfigID{Tag: tag}
}

func TestLeaderboardEvictsWorstEntryOnOverflow(t *testing.T) {
	lb := NewLeaderboard(2)
	lb.Insert(Entry{ConfigID: cfgID("a"), Metric: 1.0})
	lb.Insert(Entry{ConfigID: cfgID("b"), Metric: 2.0})
	survived := lb.Insert(Entry{ConfigID: cfgID("c"), Metric: 0.5})

	snap := lb.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected capacity to cap the leaderboard at 2, got %d", len(snap))
	}
	if survived {
		t.Fatal("expected the worst entry (0.5) to be evicted, not survive")
	}
	if snap[0].ConfigID != cfgID("b") || snap[1].ConfigID != cfgID("a") {
		t.Fatalf("expected descending order [b,a], got %+v", snap)
	}
}

func TestLeaderboardUnboundedWhenCapacityZero(t *testing.T) {
	lb := NewLeaderboard(0)
	for i := 0; i < 10; i++ {
		lb.Insert(Entry{ConfigID: cfgID(string(rune('a' + i))), Metric: float64(i)})
	}
	if len(lb.Snapshot()) != 10 {
		t.Fatalf("expected all 10 entries retained, got %d", len(lb.Snapshot()))
	}
}

func TestLeaderboardMergeCombinesTwoRankings(t *testing.T) {
	a := NewLeaderboard(3)
	a.Insert(Entry{ConfigID: cfgID("a"), Metric: 1.0})
	b := []Entry{{ConfigID: cfgID("b"), Metric: 5.0}, {ConfigID: cfgID("c"), Metric: 0.1}}

	a.Merge(b)
	snap := a.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 merged entries, got %d", len(snap))
	}
	if snap[0].ConfigID != cfgID("b") {
		t.Fatalf("expected the highest-metric entry first, got %+v", snap[0])
	}
}
