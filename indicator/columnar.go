package indicator

import "math"

// SMA returns the simple moving average of values over window, with NaN for
// indices before the window fills.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// EMA returns the exponential moving average, seeded with the SMA of the
// first window values and applying the standard smoothing constant
// 2/(window+1) thereafter.
func EMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(window) + 1.0)
	var sum float64
	for i := 0; i < len(values); i++ {
		if i < window-1 {
			out[i] = math.NaN()
			sum += values[i]
			continue
		}
		if i == window-1 {
			sum += values[i]
			out[i] = sum / float64(window)
			continue
		}
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Donchian returns the rolling max-of-high and min-of-low over lookback
// bars, SHIFTED BY ONE bar so the channel at index i never includes bar i's
// own high/low (spec.md §4.1 breakout semantics: entries compare against
// the prior channel, not one including the triggering bar).
func Donchian(high, low []float64, lookback int) (upper, lower []float64) {
	n := len(high)
	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < lookback {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		hi, lo := math.Inf(-1), math.Inf(1)
		for j := i - lookback; j < i; j++ {
			if high[j] > hi {
				hi = high[j]
			}
			if low[j] < lo {
				lo = low[j]
			}
		}
		upper[i] = hi
		lower[i] = lo
	}
	return upper, lower
}

// RollingMax returns the rolling maximum of values over window, including
// the current bar.
func RollingMax(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		m := math.Inf(-1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] > m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// RollingMin returns the rolling minimum of values over window, including
// the current bar.
func RollingMin(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		m := math.Inf(1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] < m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// TrueRange computes the true range series: max(high-low, |high-prevClose|,
// |low-prevClose|), with the first bar using high-low only.
func TrueRange(high, low, close []float64) []float64 {
	n := len(high)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			out[i] = high[i] - low[i]
			continue
		}
		pc := close[i-1]
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - pc)
		lc := math.Abs(low[i] - pc)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the average true range with either simple (SMA of TR) or
// Wilder smoothing: atr_t = ((w-1)*atr_{t-1} + tr_t) / w, seeded by the SMA
// of the first w true-range values (spec.md §4.1).
func ATR(tr []float64, window int, smoothing ATRSmoothing) []float64 {
	if smoothing == ATRSimple {
		return SMA(tr, window)
	}
	n := len(tr)
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		if i < window-1 {
			out[i] = math.NaN()
			sum += tr[i]
			continue
		}
		if i == window-1 {
			sum += tr[i]
			out[i] = sum / float64(window)
			continue
		}
		out[i] = ((float64(window)-1)*out[i-1] + tr[i]) / float64(window)
	}
	return out
}

// Bollinger returns mid (SMA), upper and lower bands at mid +/- k*stddev
// over period, where stddev is the population standard deviation of the
// trailing window of closes.
func Bollinger(close []float64, period int, k float64) (mid, upper, lower []float64) {
	n := len(close)
	mid = SMA(close, period)
	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period-1 {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		var ss float64
		m := mid[i]
		for j := i - period + 1; j <= i; j++ {
			d := close[j] - m
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period))
		upper[i] = m + k*sd
		lower[i] = m - k*sd
	}
	return mid, upper, lower
}

// Keltner returns an EMA midline with upper/lower bands offset by
// k*ATR(window).
func Keltner(high, low, close []float64, emaPeriod, atrWindow int, k float64) (mid, upper, lower []float64) {
	mid = EMA(close, emaPeriod)
	tr := TrueRange(high, low, close)
	atr := ATR(tr, atrWindow, ATRWilder)
	n := len(close)
	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(mid[i]) || math.IsNaN(atr[i]) {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		upper[i] = mid[i] + k*atr[i]
		lower[i] = mid[i] - k*atr[i]
	}
	return mid, upper, lower
}

// STARC bands an SMA midline by k*ATR, distinct from Keltner only in its
// midline (SMA rather than EMA) per classical STARC band definitions.
func STARC(high, low, close []float64, smaPeriod, atrWindow int, k float64) (mid, upper, lower []float64) {
	mid = SMA(close, smaPeriod)
	tr := TrueRange(high, low, close)
	atr := ATR(tr, atrWindow, ATRSimple)
	n := len(close)
	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(mid[i]) || math.IsNaN(atr[i]) {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		upper[i] = mid[i] + k*atr[i]
		lower[i] = mid[i] - k*atr[i]
	}
	return mid, upper, lower
}

// RSI computes the Wilder-smoothed relative strength index over period.
func RSI(close []float64, period int) []float64 {
	n := len(close)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := close[i] - close[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	var avgGain, avgLoss float64
	for i := 0; i < n; i++ {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		if i < period {
			avgGain += gains[i]
			avgLoss += losses[i]
			out[i] = math.NaN()
			continue
		}
		if i == period {
			avgGain = (avgGain + gains[i]) / float64(period)
			avgLoss = (avgLoss + losses[i]) / float64(period)
		} else {
			avgGain = ((float64(period)-1)*avgGain + gains[i]) / float64(period)
			avgLoss = ((float64(period)-1)*avgLoss + losses[i]) / float64(period)
		}
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD returns the MACD line (fastEMA-slowEMA), its signal line (EMA of the
// MACD line over signalPeriod) and the histogram (line-signal).
func MACD(close []float64, fast, slow, signalPeriod int) (line, signal, hist []float64) {
	fastEMA := EMA(close, fast)
	slowEMA := EMA(close, slow)
	n := len(close)
	line = make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(fastEMA[i]) || math.IsNaN(slowEMA[i]) {
			line[i] = math.NaN()
			continue
		}
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signal = emaSkippingNaN(line, signalPeriod)
	hist = make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(line[i]) || math.IsNaN(signal[i]) {
			hist[i] = math.NaN()
			continue
		}
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}

// emaSkippingNaN computes an EMA over a series that has a leading run of
// NaN (as MACD's line does), seeding from the first non-NaN value run.
func emaSkippingNaN(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	start := 0
	for start < n && math.IsNaN(values[start]) {
		out[start] = math.NaN()
		start++
	}
	sub := values[start:]
	subEMA := EMA(sub, window)
	copy(out[start:], subEMA)
	return out
}

// Aroon returns AroonUp/AroonDown over period: 100*(period-barsSinceExtreme)/period.
func Aroon(high, low []float64, period int) (up, down []float64) {
	n := len(high)
	up = make([]float64, n)
	down = make([]float64, n)
	for i := 0; i < n; i++ {
		if i < period {
			up[i] = math.NaN()
			down[i] = math.NaN()
			continue
		}
		hiIdx, loIdx := 0, 0
		hiVal, loVal := math.Inf(-1), math.Inf(1)
		for j := i - period; j <= i; j++ {
			if high[j] >= hiVal {
				hiVal = high[j]
				hiIdx = j
			}
			if low[j] <= loVal {
				loVal = low[j]
				loIdx = j
			}
		}
		up[i] = 100 * float64(period-(i-hiIdx)) / float64(period)
		down[i] = 100 * float64(period-(i-loIdx)) / float64(period)
	}
	return up, down
}

// DMI computes +DI, -DI and ADX using Wilder smoothing of directional
// movement and true range over period.
func DMI(high, low, close []float64, period int) (plusDI, minusDI, adx []float64) {
	n := len(high)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}
	tr := TrueRange(high, low, close)
	smTR := wilderSum(tr, period)
	smPlusDM := wilderSum(plusDM, period)
	smMinusDM := wilderSum(minusDM, period)

	plusDI = make([]float64, n)
	minusDI = make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(smTR[i]) || smTR[i] == 0 {
			plusDI[i] = math.NaN()
			minusDI[i] = math.NaN()
			dx[i] = math.NaN()
			continue
		}
		plusDI[i] = 100 * smPlusDM[i] / smTR[i]
		minusDI[i] = 100 * smMinusDM[i] / smTR[i]
		denom := plusDI[i] + minusDI[i]
		if denom == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / denom
	}
	adx = ATR(dx, period, ATRWilder)
	return plusDI, minusDI, adx
}

// wilderSum computes Wilder's running sum smoothing: s_t = s_{t-1} -
// s_{t-1}/period + v_t, seeded by the plain sum of the first period values.
func wilderSum(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		if i < period {
			sum += values[i]
			out[i] = math.NaN()
			continue
		}
		if i == period {
			out[i] = sum
		} else {
			out[i] = out[i-1] - out[i-1]/float64(period) + values[i]
		}
	}
	return out
}

// TSMOM returns the time-series momentum signal: close_t / close_{t-lookback} - 1.
func TSMOM(close []float64, lookback int) []float64 {
	n := len(close)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < lookback {
			out[i] = math.NaN()
			continue
		}
		out[i] = close[i]/close[i-lookback] - 1
	}
	return out
}

// ShiftClose shifts the close series forward by n bars (close_shift_n[i] =
// close[i-n]), used by 52-week-high and opening-range variants that compare
// the current bar to a prior reference point.
func ShiftClose(close []float64, n int) []float64 {
	out := make([]float64, len(close))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
			continue
		}
		out[i] = close[i-n]
	}
	return out
}
