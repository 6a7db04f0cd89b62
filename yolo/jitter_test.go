package yolo

import (
	"math/rand"
	"testing"

	"trendlab/strategy"
)

func TestJitterMACrossoverStaysInDomainAndRespectsOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := strategy.MACrossoverConfig{Fast: 10, Slow: 30, Mode: strategy.LongShort}

	for i := 0; i < 200; i++ {
		jittered, _ := JitterMACrossover(base, rng, 0.30)
		if jittered.Fast < lookbackMin || jittered.Fast > lookbackMax {
			t.Fatalf("fast %d out of domain [%d,%d]", jittered.Fast, lookbackMin, lookbackMax)
		}
		if jittered.Slow < lookbackMin || jittered.Slow > lookbackMax {
			t.Fatalf("slow %d out of domain [%d,%d]", jittered.Slow, lookbackMin, lookbackMax)
		}
		if jittered.Fast%lookbackStep != 0 || jittered.Slow%lookbackStep != 0 {
			t.Fatalf("expected both params rounded to %d-bar steps, got fast=%d slow=%d", lookbackStep, jittered.Fast, jittered.Slow)
		}
		if jittered.Slow <= jittered.Fast {
			t.Fatalf("fast<slow constraint violated after repair: fast=%d slow=%d", jittered.Fast, jittered.Slow)
		}
		if err := jittered.Validate(); err != nil {
			t.Fatalf("jittered config %+v failed validation: %v", jittered, err)
		}
	}
}

func TestJitterGridProducesOneSpecPerBaseConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	base := []strategy.MACrossoverConfig{
		{Fast: 5, Slow: 20, Mode: strategy.LongShort},
		{Fast: 10, Slow: 40, Mode: strategy.LongShort},
	}
	grid, err := JitterGrid(base, rng, 0.30)
	if err != nil {
		t.Fatalf("JitterGrid: %v", err)
	}
	if len(grid) != len(base) {
		t.Fatalf("expected %d grid points, got %d", len(base), len(grid))
	}
	for _, gp := range grid {
		if gp.Summary == "" {
			t.Fatal("expected a non-empty jitter summary")
		}
	}
}
