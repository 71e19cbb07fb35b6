package indicators

import (
	"math"

	"Assemblief/internal/domain/models"
)

const (
	DefaultRSIPeriod = 14
	DefaultADXPeriod = 14

	neutralRSI = 50.0
	neutralADX = 10.0
)

// RSI computes the relative strength index from the mean gain and loss over
// the trailing period. Returns 50 without enough history and 100 when there
// were no losses.
func RSI(closes []float64, period int) float64 {
	if len(closes) <= period {
		return neutralRSI
	}
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gains = append(gains, math.Max(delta, 0))
		losses = append(losses, math.Abs(math.Min(delta, 0)))
	}
	avgGain := Mean(tail(gains, period))
	avgLoss := Mean(tail(losses, period))
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ADX computes the directional index from true range and directional movement
// summed over the trailing period. Returns 10 without enough candles or when
// the accumulated range or directional indicators are zero.
func ADX(candles []models.Candle, period int) float64 {
	if len(candles) <= period+1 {
		return neutralADX
	}
	n := len(candles) - 1
	trs := make([]float64, 0, n)
	plusDM := make([]float64, 0, n)
	minusDM := make([]float64, 0, n)
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]
		tr := math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
		up := cur.High - prev.High
		down := prev.Low - cur.Low
		pdm, mdm := 0.0, 0.0
		if up > down && up > 0 {
			pdm = up
		}
		if down > up && down > 0 {
			mdm = down
		}
		trs = append(trs, tr)
		plusDM = append(plusDM, pdm)
		minusDM = append(minusDM, mdm)
	}

	trSum := sum(tail(trs, period))
	if trSum == 0 {
		return neutralADX
	}
	plusDI := 100 * sum(tail(plusDM, period)) / trSum
	minusDI := 100 * sum(tail(minusDM, period)) / trSum
	if plusDI+minusDI == 0 {
		return neutralADX
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}
