package signals

import (
	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/services/indicators"
	"Assemblief/pkg/util"
)

// Trend goes long when the fast average leads the slow one and the last bar rose.
type Trend struct {
	profile
	FastWindow  int
	SlowWindow  int
	StopLossPct float64
}

func NewTrend() *Trend {
	return &Trend{
		profile: profile{
			id:         TrendV1,
			label:      "trend_following",
			regimes:    []models.Regime{models.RegimeTrending, models.RegimeMomentumBreakout, models.RegimeHighVolatility},
			timeframes: []string{"5m", "1h", "1d", "1w"},
		},
		FastWindow:  10,
		SlowWindow:  30,
		StopLossPct: 0.015,
	}
}

func (t *Trend) Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) (models.SignalCandidate, bool) {
	if !t.compatible(tf, regime) || len(candles) < t.SlowWindow+2 {
		return models.SignalCandidate{}, false
	}
	closes := models.Closes(candles)
	fast := indicators.Mean(closes[len(closes)-t.FastWindow:])
	slow := indicators.Mean(closes[len(closes)-t.SlowWindow:])
	last, prior := closes[len(closes)-1], closes[len(closes)-2]
	momentum := 0.0
	if prior != 0 {
		momentum = (last - prior) / prior
	}
	if fast <= slow || momentum <= 0 {
		return models.SignalCandidate{}, false
	}

	score := min(100, 45+momentum*1000+(fast-slow)/slow*220)
	return t.candidate(
		models.Long,
		"Fast MA above slow MA with positive short-term momentum.",
		"Exit on fast MA cross below slow MA or take-profit at 2.2R.",
		util.Round(last*(1-t.StopLossPct), 6),
		2.2,
		score,
		map[string]any{"fast_window": t.FastWindow, "slow_window": t.SlowWindow, "stop_loss_pct": t.StopLossPct},
		map[string]any{
			"fast_ma":  util.Round(fast, 6),
			"slow_ma":  util.Round(slow, 6),
			"momentum": util.Round(momentum, 6),
			"asset":    asset,
		},
	), true
}
