// Package indicator computes indicator columns over a bar.Dataset, both as
// whole-slice (columnar) formulas and as incremental (sequential) state
// machines sharing the same math, and deduplicates repeated computation
// across many strategy configs via a cache (spec.md §4.1, §4.2).
package indicator

import "fmt"

// MAKind selects the moving-average flavor a strategy variant uses.
type MAKind int

const (
	SMAKind MAKind = iota
	EMAKind
)

// ATRSmoothing selects the smoothing method for average true range.
type ATRSmoothing int

const (
	ATRSimple ATRSmoothing = iota
	ATRWilder
)

// Key is a canonical, hashable descriptor of an indicator and its
// parameters (spec.md §3). Multiplier-bearing keys store
// round(multiplier*100) to keep equality exact across float inputs
// (spec.md §9 design note).
type Key struct {
	Kind       string // "SMA", "EMA", "Donchian", "TrueRange", "ATR", "Bollinger", ...
	Window     int
	Window2    int          // second window, e.g. MACD slow or Keltner/STARC ATR window
	Mult100    int          // multiplier * 100, for Bollinger/Keltner/STARC/Supertrend k
	MA         MAKind       // moving-average kind, where relevant
	Smoothing  ATRSmoothing // ATR smoothing kind
}

// Name returns the canonical output column name this key produces for
// single-column indicators. Multi-column indicators (Donchian, Bollinger,
// Keltner, STARC, MACD, Supertrend, Aroon, DMI) use ColumnNames instead.
func (k Key) Name() string {
	names := k.ColumnNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// ColumnNames returns every column this key materializes, in the order the
// cache writes them.
func (k Key) ColumnNames() []string {
	switch k.Kind {
	case "SMA":
		return []string{fmt.Sprintf("sma_%d", k.Window)}
	case "EMA":
		return []string{fmt.Sprintf("ema_%d", k.Window)}
	case "TrueRange":
		return []string{"true_range"}
	case "ATR":
		return []string{fmt.Sprintf("atr_%d_%s", k.Window, smoothingSuffix(k.Smoothing))}
	case "Donchian":
		return []string{
			fmt.Sprintf("dc_%d_upper", k.Window),
			fmt.Sprintf("dc_%d_lower", k.Window),
		}
	case "RollingMaxHigh":
		return []string{fmt.Sprintf("roll_max_high_%d", k.Window)}
	case "RollingMinLow":
		return []string{fmt.Sprintf("roll_min_low_%d", k.Window)}
	case "Bollinger":
		return []string{
			fmt.Sprintf("bb_%d_%d_mid", k.Window, k.Mult100),
			fmt.Sprintf("bb_%d_%d_upper", k.Window, k.Mult100),
			fmt.Sprintf("bb_%d_%d_lower", k.Window, k.Mult100),
		}
	case "Keltner":
		return []string{
			fmt.Sprintf("kc_%d_%d_mid", k.Window, k.Mult100),
			fmt.Sprintf("kc_%d_%d_upper", k.Window, k.Mult100),
			fmt.Sprintf("kc_%d_%d_lower", k.Window, k.Mult100),
		}
	case "STARC":
		return []string{
			fmt.Sprintf("starc_%d_%d_mid", k.Window, k.Mult100),
			fmt.Sprintf("starc_%d_%d_upper", k.Window, k.Mult100),
			fmt.Sprintf("starc_%d_%d_lower", k.Window, k.Mult100),
		}
	case "Supertrend":
		return []string{
			fmt.Sprintf("st_%d_%d_line", k.Window, k.Mult100),
			fmt.Sprintf("st_%d_%d_dir", k.Window, k.Mult100),
		}
	case "ParabolicSAR":
		return []string{fmt.Sprintf("psar_%d_%d_%d", k.Window, k.Window2, k.Mult100)}
	case "RSI":
		return []string{fmt.Sprintf("rsi_%d", k.Window)}
	case "MACD":
		return []string{
			fmt.Sprintf("macd_%d_%d_line", k.Window, k.Window2),
			fmt.Sprintf("macd_%d_%d_signal", k.Window, k.Window2),
			fmt.Sprintf("macd_%d_%d_hist", k.Window, k.Window2),
		}
	case "Aroon":
		return []string{
			fmt.Sprintf("aroon_%d_up", k.Window),
			fmt.Sprintf("aroon_%d_down", k.Window),
		}
	case "DMI":
		return []string{
			fmt.Sprintf("dmi_%d_plus", k.Window),
			fmt.Sprintf("dmi_%d_minus", k.Window),
			fmt.Sprintf("dmi_%d_adx", k.Window),
		}
	case "ShiftedClose":
		return []string{fmt.Sprintf("close_shift_%d", k.Window)}
	case "TSMOM":
		return []string{fmt.Sprintf("tsmom_%d", k.Window)}
	default:
		return nil
	}
}

// Dependencies returns the keys this key requires materialized first
// (spec.md §3's indicator cache invariant (ii)).
func (k Key) Dependencies() []Key {
	switch k.Kind {
	case "ATR":
		return []Key{{Kind: "TrueRange"}}
	case "Supertrend":
		return []Key{{Kind: "ATR", Window: k.Window, Smoothing: ATRWilder}}
	default:
		return nil
	}
}

func smoothingSuffix(s ATRSmoothing) string {
	if s == ATRWilder {
		return "wilder"
	}
	return "sma"
}

// Mult100 converts a real multiplier to the hashable integer-hundredths
// representation used by cache keys (spec.md §9).
func Mult100(multiplier float64) int {
	return int(multiplier*100 + 0.5)
}
