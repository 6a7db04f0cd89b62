// Package perf computes per-backtest performance metrics and aggregates
// them across symbols (spec.md §4.7/§4.8), following the shape of the
// sawpanic-cryptorun perf calculator: a flat metrics struct filled in by a
// handful of single-purpose calculation steps rather than one monolithic
// function.
package perf

import (
	"math"

	"trendlab/config"
	"trendlab/types"
)

// Metrics is the per-backtest performance summary spec.md §4.7 requires.
type Metrics struct {
	CAGR         float64
	Sharpe       float64
	MaxDrawdown  float64 // most negative value of equity/running_max - 1; 0 or negative
	WinRate      float64
	TradeCount   int
	AverageTrade float64 // mean NetPnL across closed trades
	NetPnL       float64 // sum of NetPnL across closed trades
}

// Compute derives Metrics from an equity curve and the closed trades taken
// along it. annualization defaults to 252 via cfg.Annualization() (spec.md
// §9's open question, resolved for simple per-bar returns and sample
// (n-1) standard deviation).
func Compute(equity []types.EquityPoint, trades []types.Trade, cfg config.BacktestConfig) Metrics {
	m := Metrics{}
	m.CAGR = cagr(equity)
	m.Sharpe = sharpe(equity, cfg.Annualization())
	m.MaxDrawdown = maxDrawdown(equity)
	m.TradeCount, m.WinRate, m.NetPnL, m.AverageTrade = tradeStats(trades)
	return m
}

// cagr computes the compound annual growth rate from first-to-last equity
// over elapsed calendar years (spec.md §4.7). Returns 0 if the curve has
// fewer than two points, spans no time, or starting equity is
// non-positive; returns -1 if ending equity is non-positive.
func cagr(equity []types.EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}
	first := equity[0]
	last := equity[len(equity)-1]
	if first.Equity <= 0 {
		return 0
	}
	years := last.Ts.Sub(first.Ts).Hours() / (24 * 365.25)
	if years <= 0 {
		return 0
	}
	ratio := last.Equity / first.Equity
	if ratio <= 0 {
		return -1
	}
	return math.Pow(ratio, 1/years) - 1
}

// perBarReturns computes simple per-bar returns of the equity curve:
// (equity[i] - equity[i-1]) / equity[i-1]. This is the documented
// convention for spec.md §4.7's "daily returns" (per-bar simple returns,
// not log returns — matches the bootstrap Sharpe formula in the original
// Rust statistics.rs).
func perBarReturns(equity []types.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		out = append(out, (equity[i].Equity-prev)/prev)
	}
	return out
}

// sharpe computes mean/std * sqrt(annualization) over per-bar simple
// returns, using the sample (n-1) standard deviation. Returns 0 when the
// standard deviation is below 1e-10 (spec.md §4.7).
func sharpe(equity []types.EquityPoint, annualization float64) float64 {
	returns := perBarReturns(equity)
	if len(returns) < 2 {
		return 0
	}
	mean := meanOf(returns)
	std := sampleStdDev(returns, mean)
	if std < 1e-10 {
		return 0
	}
	return (mean / std) * math.Sqrt(annualization)
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// maxDrawdown returns the most negative value of equity/running_max - 1
// across the curve (spec.md §4.7), i.e. a value in (-1, 0].
func maxDrawdown(equity []types.EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}
	runningMax := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > runningMax {
			runningMax = p.Equity
		}
		if runningMax <= 0 {
			continue
		}
		dd := p.Equity/runningMax - 1
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

// tradeStats returns trade count, win rate, total net PnL, and average
// net PnL per trade across closed trades (spec.md §4.7).
func tradeStats(trades []types.Trade) (count int, winRate, netPnL, avgTrade float64) {
	count = len(trades)
	if count == 0 {
		return 0, 0, 0, 0
	}
	wins := 0
	for _, tr := range trades {
		netPnL += tr.NetPnL
		if tr.NetPnL > 0 {
			wins++
		}
	}
	winRate = float64(wins) / float64(count)
	avgTrade = netPnL / float64(count)
	return count, winRate, netPnL, avgTrade
}
