package regime

import (
	"math"

	"Assemblief/internal/domain/models"
	"Assemblief/internal/services/indicators"
	"Assemblief/pkg/util"
)

// Features are the indicator readings a window is scored from.
type Features struct {
	Volatility float64
	ADX        float64
	RSI        float64
	Clustering float64
	Hurst      float64
}

// Extract computes the features of a candle window with default periods.
func Extract(candles []models.Candle) Features {
	closes := models.Closes(candles)
	return Features{
		Volatility: indicators.RollingVolatility(closes, indicators.DefaultVolatilityWindow),
		ADX:        indicators.ADX(candles, indicators.DefaultADXPeriod),
		RSI:        indicators.RSI(closes, indicators.DefaultRSIPeriod),
		Clustering: indicators.VolatilityClustering(closes, indicators.DefaultClusteringWindow),
		Hurst:      indicators.Hurst(closes, indicators.DefaultHurstMaxLag),
	}
}

// Scores returns one score per regime in canonical order.
func (f Features) Scores() []float64 {
	return []float64{
		ScoreTrending(f.ADX, f.Hurst, f.RSI),
		ScoreRanging(f.ADX, f.Hurst, f.RSI),
		ScoreHighVolatility(f.Volatility, f.Clustering),
		ScoreLowVolatility(f.Volatility, f.Clustering),
		ScoreBreakout(f.ADX, f.RSI, f.Volatility),
		ScoreMeanReversion(f.RSI, f.ADX, f.Hurst),
	}
}

func rsiDeviation(rsi float64) float64 {
	return math.Abs(rsi - 50)
}

func ScoreTrending(adx, hurst, rsi float64) float64 {
	return util.Clamp100(adx*1.5 + math.Max(0, hurst-0.5)*100 + rsiDeviation(rsi)*0.7)
}

func ScoreRanging(adx, hurst, rsi float64) float64 {
	return util.Clamp100((30-adx)*2.2 + math.Max(0, 0.55-hurst)*100 + (20 - rsiDeviation(rsi)))
}

func ScoreHighVolatility(vol, clustering float64) float64 {
	return util.Clamp100(vol*180 + math.Max(0, clustering)*35)
}

func ScoreLowVolatility(vol, clustering float64) float64 {
	return util.Clamp100((30 - vol*180) + math.Max(0, 0.2-clustering)*80)
}

func ScoreBreakout(adx, rsi, vol float64) float64 {
	boost := math.Max(0, rsiDeviation(rsi)-12) * 2.2
	return util.Clamp100(adx*1.2 + boost + vol*120)
}

// ScoreMeanReversion rewards RSI extremity past 18 points, weak trend and
// anti-persistence.
func ScoreMeanReversion(rsi, adx, hurst float64) float64 {
	extreme := math.Max(0, rsiDeviation(rsi)-18) * 2.4
	return util.Clamp100(extreme + math.Max(0, 30-adx)*1.6 + math.Max(0, 0.55-hurst)*90)
}
