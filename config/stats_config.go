package config

import "errors"

// BootstrapConfig parameterizes percentile-method bootstrap resampling
// (spec.md §4.11), mirroring the original Rust statistics.rs defaults.
type BootstrapConfig struct {
	Iterations      int // default 10_000, must be >= 100
	ConfidenceLevel float64 // default 0.95, must be in (0, 1)
	Seed            int64
}

// QuickBootstrap returns a BootstrapConfig with fewer iterations, for
// exploratory YOLO-loop iterations where the full 10k resample would be
// wasted work.
func QuickBootstrap(seed int64) BootstrapConfig {
	return BootstrapConfig{Iterations: 1_000, ConfidenceLevel: 0.95, Seed: seed}
}

// ThoroughBootstrap returns a BootstrapConfig for a final, reported evaluation.
func ThoroughBootstrap(seed int64) BootstrapConfig {
	return BootstrapConfig{Iterations: 50_000, ConfidenceLevel: 0.95, Seed: seed}
}

func (c BootstrapConfig) Validate() error {
	if c.IterationsOrDefault() < 100 {
		return errors.New("config: BootstrapConfig.Iterations must be >= 100")
	}
	if cl := c.ConfidenceLevelOrDefault(); cl <= 0 || cl >= 1 {
		return errors.New("config: BootstrapConfig.ConfidenceLevel must be in (0, 1)")
	}
	return nil
}

// IterationsOrDefault returns Iterations, defaulting to 10_000 when unset.
func (c BootstrapConfig) IterationsOrDefault() int {
	if c.Iterations > 0 {
		return c.Iterations
	}
	return 10_000
}

// ConfidenceLevelOrDefault returns ConfidenceLevel, defaulting to 0.95.
func (c BootstrapConfig) ConfidenceLevelOrDefault() float64 {
	if c.ConfidenceLevel > 0 {
		return c.ConfidenceLevel
	}
	return 0.95
}

// MultipleComparisonMethod selects the multiple-testing correction applied
// across a family of p-values (spec.md §4.11).
type MultipleComparisonMethod int

const (
	Bonferroni MultipleComparisonMethod = iota
	Holm
	BenjaminiHochberg
)
