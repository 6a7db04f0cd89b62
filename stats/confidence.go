package stats

// ConfidenceGrade summarizes how much to trust a strategy's backtested edge,
// derived from its Sharpe bootstrap CI (and, after FDR correction, possibly
// downgraded).
type ConfidenceGrade int

const (
	Insufficient ConfidenceGrade = iota
	Low
	Medium
	High
)

func (g ConfidenceGrade) String() string {
	switch g {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	default:
		return "Insufficient"
	}
}

// GradeFromSharpeCI derives a ConfidenceGrade from a Sharpe bootstrap result
// and the number of return observations it was computed from, mirroring the
// original statistics.rs thresholds exactly: a CI lower bound above 0.5 is
// High confidence, above 0.0 is Medium, and otherwise Low once there's
// enough history (>= 252 bars, one trading year) to trust a negative
// reading, else Insufficient.
func GradeFromSharpeCI(sharpeCI BootstrapResult, nReturns int) ConfidenceGrade {
	switch {
	case sharpeCI.CILower > 0.5:
		return High
	case sharpeCI.CILower > 0.0:
		return Medium
	case nReturns >= 252:
		return Low
	default:
		return Insufficient
	}
}

// DowngradeForFDR applies the original module's downgrade rule after a
// multiple-comparison correction: if the FDR-adjusted p-value fails to
// clear alpha, a High grade drops to Medium and a Medium grade drops to
// Low. Low and Insufficient are unaffected.
func DowngradeForFDR(grade ConfidenceGrade, adjustedP, alpha float64) ConfidenceGrade {
	if adjustedP < alpha {
		return grade
	}
	switch grade {
	case High:
		return Medium
	case Medium:
		return Low
	default:
		return grade
	}
}

// StrategyStatistics bundles the bootstrap CI, sample statistics, and
// overall confidence grade for one strategy's return series (spec.md
// §4.11).
type StrategyStatistics struct {
	SharpeCI        BootstrapResult
	ReturnStats     SampleStatistics
	ConfidenceGrade ConfidenceGrade
	FDRAdjusted     bool
	FDRPValue       float64
}
