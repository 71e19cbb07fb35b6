package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Assemblief/internal/domain/models"
)

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i%7)
	}
	return out
}

func candlesFrom(closes []float64, spread float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c + spread,
			Low:       c - spread,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func TestReturns(t *testing.T) {
	assert.Nil(t, Returns(nil))
	assert.Nil(t, Returns([]float64{100}))
	assert.Equal(t, []float64{0.1, -0.5}, Returns([]float64{100, 110, 55}))
	// zero prior closes are skipped
	assert.Equal(t, []float64{-1}, Returns([]float64{100, 0, 50}))
}

func TestRollingVolatility(t *testing.T) {
	assert.Zero(t, RollingVolatility([]float64{100, 101}, DefaultVolatilityWindow))
	assert.Zero(t, RollingVolatility(flat(50, 100), DefaultVolatilityWindow))

	closes := []float64{100, 110, 99}
	rets := Returns(closes)
	want := PStdDev(rets) * math.Sqrt(252)
	assert.InDelta(t, want, RollingVolatility(closes, DefaultVolatilityWindow), 1e-12)
	assert.Greater(t, RollingVolatility(wave(60), DefaultVolatilityWindow), 0.0)
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"insufficient history", rising(14), 50},
		{"only gains", rising(30), 100},
		{"flat series has no losses", flat(30, 100), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RSI(tt.closes, DefaultRSIPeriod))
		})
	}

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	assert.Zero(t, RSI(falling, DefaultRSIPeriod))

	v := RSI(wave(80), DefaultRSIPeriod)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestADX(t *testing.T) {
	assert.Equal(t, 10.0, ADX(candlesFrom(rising(15), 1), DefaultADXPeriod))
	// zero true range
	assert.Equal(t, 10.0, ADX(candlesFrom(flat(40, 100), 0), DefaultADXPeriod))

	// steady up-moves give +DM only
	assert.InDelta(t, 100.0, ADX(candlesFrom(rising(40), 0.5), DefaultADXPeriod), 1e-9)

	v := ADX(candlesFrom(wave(80), 1), DefaultADXPeriod)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}

func TestVolatilityClustering(t *testing.T) {
	assert.Zero(t, VolatilityClustering([]float64{100, 101, 102}, DefaultClusteringWindow))
	assert.Zero(t, VolatilityClustering(flat(60, 100), DefaultClusteringWindow))

	v := VolatilityClustering(wave(80), DefaultClusteringWindow)
	assert.GreaterOrEqual(t, v, -1.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestHurst(t *testing.T) {
	assert.Equal(t, 0.5, Hurst(rising(21), DefaultHurstMaxLag))
	// no dispersion in lagged differences
	assert.Equal(t, 0.5, Hurst(flat(60, 100), DefaultHurstMaxLag))
	assert.Equal(t, 0.5, Hurst(rising(60), DefaultHurstMaxLag))

	v := Hurst(wave(120), DefaultHurstMaxLag)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestMeanAndPStdDev(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Zero(t, PStdDev([]float64{5}))
	assert.InDelta(t, 2.0, PStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}
