package yolo

import (
	"sort"
	"sync"

	"trendlab/types"
)

// Entry is one leaderboard row. ParamSummary carries a human-readable
// description of the configuration alongside its fixed-width
// StrategyConfigID — StrategyConfigID's 8 int64 slots are enough identity
// for a single strategy's parameters, but not for an Ensemble's full
// child list, so ParamSummary is the supplementary identity displayed
// for those wider configs. Insert matches on ConfigID, Symbol and
// ParamSummary together only to report whether an entry survived; it
// does not merge or drop duplicate entries.
type Entry struct {
	ConfigID        types.StrategyConfigID
	ParamSummary    string
	Symbol          string // empty for a cross-symbol entry
	Metric          float64
	WalkForwardPass bool
}

// Leaderboard is a capacity-bounded, descending-by-Metric ranked list.
// Insertion beyond capacity evicts the current worst entry (spec.md
// §4.10: "bounded by leaderboard capacity; worst entry evicted on
// overflow").
type Leaderboard struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewLeaderboard returns an empty leaderboard bounded to capacity
// entries. capacity <= 0 is treated as unbounded.
func NewLeaderboard(capacity int) *Leaderboard {
	return &Leaderboard{capacity: capacity}
}

// Insert adds e, keeping entries sorted descending by Metric, evicting
// the worst entry if capacity is exceeded. Reports whether e survived
// (false means e itself was the one evicted, i.e. it was worse than
// every entry already at capacity).
func (lb *Leaderboard) Insert(e Entry) bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries = append(lb.entries, e)
	sort.SliceStable(lb.entries, func(i, j int) bool { return lb.entries[i].Metric > lb.entries[j].Metric })

	if lb.capacity > 0 && len(lb.entries) > lb.capacity {
		lb.entries = lb.entries[:lb.capacity]
	}

	for _, kept := range lb.entries {
		if kept.ConfigID == e.ConfigID && kept.Symbol == e.Symbol && kept.ParamSummary == e.ParamSummary {
			return true
		}
	}
	return false
}

// Snapshot returns a defensive copy of the current ranking.
func (lb *Leaderboard) Snapshot() []Entry {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	out := make([]Entry, len(lb.entries))
	copy(out, lb.entries)
	return out
}

// Merge inserts every entry from other, e.g. to fold a freshly loaded
// all-time leaderboard's entries into a live session leaderboard.
func (lb *Leaderboard) Merge(other []Entry) {
	for _, e := range other {
		lb.Insert(e)
	}
}
