// Package indicators implements stateless statistics over price series.
// Every function returns a documented neutral value on degenerate input.
package indicators

import "math"

// TradingPeriods is the annualization factor used across the engine.
const TradingPeriods = 252

const (
	DefaultVolatilityWindow = 20
	DefaultClusteringWindow = 30
)

// Returns computes simple returns r_t = (C_t - C_{t-1}) / C_{t-1}.
// Steps whose prior close is zero are skipped.
func Returns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// RollingVolatility is the population standard deviation of the last window
// returns, annualized by sqrt(252). Returns 0 with fewer than 2 returns.
func RollingVolatility(closes []float64, window int) float64 {
	rets := Returns(closes)
	if len(rets) < 2 {
		return 0
	}
	return PStdDev(tail(rets, window)) * math.Sqrt(TradingPeriods)
}

// VolatilityClustering is the lag-1 Pearson correlation of absolute returns
// over the trailing window. Returns 0 with fewer than 3 points or zero variance.
func VolatilityClustering(closes []float64, window int) float64 {
	rets := Returns(closes)
	abs := make([]float64, len(rets))
	for i, r := range rets {
		abs[i] = math.Abs(r)
	}
	abs = tail(abs, window)
	if len(abs) < 3 {
		return 0
	}
	left, right := abs[:len(abs)-1], abs[1:]
	lm, rm := Mean(left), Mean(right)
	var num, lv, rv float64
	for i := range left {
		dl, dr := left[i]-lm, right[i]-rm
		num += dl * dr
		lv += dl * dl
		rv += dr * dr
	}
	den := math.Sqrt(lv * rv)
	if den == 0 {
		return 0
	}
	return num / den
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PStdDev returns the population standard deviation, or 0 with fewer than 2 values.
func PStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// tail returns the last n elements of xs (all of xs when shorter).
func tail(xs []float64, n int) []float64 {
	if n <= 0 || len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}
