package yolo

import (
	"path/filepath"
	"testing"
)

func TestNewSessionIDIsUnique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	if a == b {
		t.Fatal("expected distinct session ids")
	}
	if a == "" {
		t.Fatal("expected a non-empty session id")
	}
}

func TestDefaultSeedAdvancesTheLaunchCounter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch-counter")

	first := DefaultSeed(path)
	second := DefaultSeed(path)
	if first == second {
		t.Fatal("expected two calls a moment apart to yield different seeds (counter and/or wall clock advanced)")
	}
}

func TestDefaultSeedNeverReturnsZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch-counter")
	if DefaultSeed(path) == 0 {
		t.Fatal("seed must never be exactly zero (rand.NewSource(0) is still valid but spec treats 0 as unset)")
	}
}
