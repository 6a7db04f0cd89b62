package strategy

import (
	"fmt"

	"trendlab/bar"
	"trendlab/indicator"
	"trendlab/types"
)

// VotingPolicy selects how an Ensemble combines its children's raw
// signals into one (spec.md §4.3).
type VotingPolicy int

const (
	// Majority: the action a strict majority of children agree on wins.
	Majority VotingPolicy = iota
	// WeightedByHorizon: children with a longer warmup (a proxy for
	// lookback horizon) get a larger vote weight — a monotone weighting
	// in the child's own declared horizon, documented here as the
	// implementer's choice spec.md leaves open.
	WeightedByHorizon
	// UnanimousEntry: enter only if every child agrees to enter; exit if
	// any child says exit.
	UnanimousEntry
)

// Ensemble combines multiple child Specs' raw signals under one voting
// policy (spec.md §4.3).
type Ensemble struct {
	Children []Spec
	Policy   VotingPolicy
	Mode     TradingMode
}

func NewEnsemble(children []Spec, policy VotingPolicy, mode TradingMode) (*Ensemble, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("strategy: Ensemble requires at least one child")
	}
	return &Ensemble{Children: children, Policy: policy, Mode: mode}, nil
}

func (e *Ensemble) IndicatorKeys() []indicator.Key {
	sets := make([][]indicator.Key, len(e.Children))
	for i, c := range e.Children {
		sets[i] = c.IndicatorKeys()
	}
	return indicator.Union(sets...)
}

// childColumns runs each child's EmitSignalColumns against its own scratch
// copy of the dataset's column set so children don't clobber each other's
// raw_entry/raw_exit writes, then reads back the four boolean series.
func (e *Ensemble) childColumns(ds *bar.Dataset) ([][4][]bool, error) {
	n := ds.Len()
	out := make([][4][]bool, len(e.Children))
	for i, c := range e.Children {
		scratch, err := ds.Clone()
		if err != nil {
			return nil, fmt.Errorf("strategy: ensemble child %d clone: %w", i, err)
		}
		if err := c.EmitSignalColumns(scratch); err != nil {
			return nil, fmt.Errorf("strategy: ensemble child %d: %w", i, err)
		}
		entry := scratch.BoolColumn(colRawEntry)
		exit := scratch.BoolColumn(colRawExit)
		entryShort := scratch.BoolColumn(colRawEntryShort)
		exitShort := scratch.BoolColumn(colRawExitShort)
		if len(entry) != n {
			return nil, fmt.Errorf("strategy: ensemble child %d produced mismatched column length", i)
		}
		out[i] = [4][]bool{entry, exit, entryShort, exitShort}
	}
	return out, nil
}

func (e *Ensemble) weights() []float64 {
	w := make([]float64, len(e.Children))
	for i, c := range e.Children {
		w[i] = float64(c.WarmupPeriod())
	}
	return w
}

func (e *Ensemble) EmitSignalColumns(ds *bar.Dataset) error {
	cols, err := e.childColumns(ds)
	if err != nil {
		return err
	}
	n := ds.Len()
	entry := make([]bool, n)
	exit := make([]bool, n)
	entryShort := make([]bool, n)
	exitShort := make([]bool, n)

	weights := e.weights()
	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}

	for i := 0; i < n; i++ {
		switch e.Policy {
		case UnanimousEntry:
			allEntry, allEntryShort := true, true
			anyExit, anyExitShort := false, false
			for _, c := range cols {
				if !c[0][i] {
					allEntry = false
				}
				if !c[2][i] {
					allEntryShort = false
				}
				if c[1][i] {
					anyExit = true
				}
				if c[3][i] {
					anyExitShort = true
				}
			}
			entry[i] = allEntry
			entryShort[i] = allEntryShort
			exit[i] = anyExit
			exitShort[i] = anyExitShort
		case WeightedByHorizon:
			var wEntry, wExit, wEntryShort, wExitShort float64
			for j, c := range cols {
				if c[0][i] {
					wEntry += weights[j]
				}
				if c[1][i] {
					wExit += weights[j]
				}
				if c[2][i] {
					wEntryShort += weights[j]
				}
				if c[3][i] {
					wExitShort += weights[j]
				}
			}
			half := totalWeight / 2
			entry[i] = wEntry > half
			exit[i] = wExit > half
			entryShort[i] = wEntryShort > half
			exitShort[i] = wExitShort > half
		default: // Majority
			var nEntry, nExit, nEntryShort, nExitShort int
			for _, c := range cols {
				if c[0][i] {
					nEntry++
				}
				if c[1][i] {
					nExit++
				}
				if c[2][i] {
					nEntryShort++
				}
				if c[3][i] {
					nExitShort++
				}
			}
			half := len(cols) / 2
			entry[i] = nEntry > half
			exit[i] = nExit > half
			entryShort[i] = nEntryShort > half
			exitShort[i] = nExitShort > half
		}
	}

	if err := ds.SetBoolColumn(colRawEntry, entry); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExit, exit); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawEntryShort, entryShort); err != nil {
		return err
	}
	if err := ds.SetBoolColumn(colRawExitShort, exitShort); err != nil {
		return err
	}
	return maskByMode(ds, e.Mode)
}

func (e *Ensemble) WarmupPeriod() int {
	max := 0
	for _, c := range e.Children {
		if w := c.WarmupPeriod(); w > max {
			max = w
		}
	}
	return max
}

func (e *Ensemble) TradingMode() TradingMode { return e.Mode }

func (e *Ensemble) Fingerprint() types.StrategyConfigID {
	// Ensembles fold their children's fingerprints' tags together; the
	// full per-child parameter tuples are too wide for the 8-slot fixed
	// array, so only policy/mode/child-count are encoded here; two
	// ensembles with the same policy, mode and child count share a
	// fingerprint.
	return fingerprint("Ensemble", int64(e.Policy), int64(e.Mode), int64(len(e.Children)))
}
