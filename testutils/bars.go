// Package testutils provides deterministic synthetic bar generators and a
// mock logger shared by every package's test suite.
package testutils

import (
	"math/rand"
	"time"

	"trendlab/bar"
)

const defaultStep = time.Hour

// FlatBars returns n bars all at the same OHLC price (spec.md §8 scenario
// E1: flat market).
func FlatBars(symbol string, n int, price float64) []bar.Bar {
	return constBars(symbol, n, price)
}

func constBars(symbol string, n int, price float64) []bar.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]bar.Bar, n)
	for i := 0; i < n; i++ {
		out[i] = bar.Bar{
			Ts:     start.Add(time.Duration(i) * defaultStep),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
			Symbol: symbol,
		}
	}
	return out
}

// StepBars concatenates flat segments at the given prices (spec.md §8
// scenario E2: single breakout — e.g. 20 bars@100, 20@120, 20@80).
func StepBars(symbol string, barsPerStep int, prices []float64) []bar.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]bar.Bar, 0, barsPerStep*len(prices))
	idx := 0
	for _, p := range prices {
		for j := 0; j < barsPerStep; j++ {
			out = append(out, bar.Bar{
				Ts:     start.Add(time.Duration(idx) * defaultStep),
				Open:   p,
				High:   p,
				Low:    p,
				Close:  p,
				Volume: 1000,
				Symbol: symbol,
			})
			idx++
		}
	}
	return out
}

// LinearBars produces n bars whose close moves linearly from start to end
// (spec.md §8 scenario E4: descending downtrend for a short-only test).
func LinearBars(symbol string, n int, start, end float64) []bar.Bar {
	ts0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]bar.Bar, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		c := start + (end-start)*frac
		hi, lo := c, c
		if i > 0 {
			prev := out[i-1].Close
			if prev > hi {
				hi = prev
			}
			if prev < lo {
				lo = prev
			}
		}
		out[i] = bar.Bar{
			Ts:     ts0.Add(time.Duration(i) * defaultStep),
			Open:   c,
			High:   hi,
			Low:    lo,
			Close:  c,
			Volume: 1000,
			Symbol: symbol,
		}
	}
	return out
}

// RandomWalkBars generates a seeded geometric random walk (spec.md §8
// scenario E3: columnar/sequential parity on a 150-bar random walk).
func RandomWalkBars(symbol string, n int, seed int64, startPrice, volPct float64) []bar.Bar {
	rng := rand.New(rand.NewSource(seed))
	ts0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]bar.Bar, n)
	price := startPrice
	for i := 0; i < n; i++ {
		change := 1 + (rng.Float64()*2-1)*volPct
		open := price
		price = price * change
		hi := open
		lo := open
		if price > hi {
			hi = price
		}
		if price < lo {
			lo = price
		}
		// widen the range slightly so high/low aren't degenerate
		hi *= 1 + rng.Float64()*0.002
		lo *= 1 - rng.Float64()*0.002
		out[i] = bar.Bar{
			Ts:     ts0.Add(time.Duration(i) * defaultStep),
			Open:   open,
			High:   hi,
			Low:    lo,
			Close:  price,
			Volume: 1000 + rng.Float64()*500,
			Symbol: symbol,
		}
	}
	return out
}
