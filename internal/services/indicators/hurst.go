package indicators

import "math"

const (
	DefaultHurstMaxLag = 20

	neutralHurst = 0.5
)

// Hurst estimates the Hurst exponent by regressing log(std of lagged
// differences) on log(lag) for lags 2..maxLag-1. The slope is doubled and
// clamped to [0, 1]. Returns 0.5 on short or degenerate input.
func Hurst(closes []float64, maxLag int) float64 {
	if len(closes) < maxLag+2 {
		return neutralHurst
	}

	var tau []float64
	for lag := 2; lag < maxLag; lag++ {
		diffs := make([]float64, 0, len(closes)-lag)
		for i := 0; i+lag < len(closes); i++ {
			diffs = append(diffs, closes[i+lag]-closes[i])
		}
		if len(diffs) == 0 {
			continue
		}
		if t := PStdDev(diffs); t > 0 {
			tau = append(tau, t)
		}
	}
	if len(tau) < 2 {
		return neutralHurst
	}

	// Lags are paired positionally with the surviving tau values.
	xs := make([]float64, len(tau))
	ys := make([]float64, len(tau))
	for i, t := range tau {
		xs[i] = math.Log(float64(i + 2))
		ys[i] = math.Log(t)
	}
	xm, ym := Mean(xs), Mean(ys)
	var num, den float64
	for i := range xs {
		dx := xs[i] - xm
		num += dx * (ys[i] - ym)
		den += dx * dx
	}
	if den == 0 {
		return neutralHurst
	}
	return math.Max(0, math.Min(1, num/den*2))
}
