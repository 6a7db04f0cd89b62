// Package walkforward validates a strategy config by backtesting it
// separately on a sequence of in-sample/out-of-sample bar windows
// (spec.md §4.9).
package walkforward

import "trendlab/config"

// Split is one (train, test) window pair, expressed as half-open bar
// index ranges [Start, End) into the full dataset.
type Split struct {
	TrainStart, TrainEnd int
	TestStart, TestEnd   int
}

// RollingSplits produces the sequence of train/test windows spec.md §4.9
// requires: each split's train window is cfg.MinTrain bars immediately
// preceding a cfg.TestLength-bar test window, and the whole pair slides
// forward by cfg.Step bars each iteration (rolling, not anchored — the
// spec leaves this an open choice and documents rolling as the default).
func RollingSplits(n int, cfg config.WalkForwardConfig) []Split {
	var splits []Split
	trainStart := 0
	for trainStart+cfg.MinTrain+cfg.TestLength <= n {
		trainEnd := trainStart + cfg.MinTrain
		testEnd := trainEnd + cfg.TestLength
		splits = append(splits, Split{
			TrainStart: trainStart,
			TrainEnd:   trainEnd,
			TestStart:  trainEnd,
			TestEnd:    testEnd,
		})
		trainStart += cfg.Step
	}
	return splits
}
