package signals

import (
	"fmt"
	"math"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/util"
)

// Breakout trades a close outside the prior range when volume confirms it.
type Breakout struct {
	profile
	Window           int
	VolumeMultiplier float64
	StopLossPct      float64
}

func NewBreakout() *Breakout {
	return &Breakout{
		profile: profile{
			id:         BreakoutV1,
			label:      "breakout",
			regimes:    []models.Regime{models.RegimeMomentumBreakout, models.RegimeTrending, models.RegimeHighVolatility},
			timeframes: []string{"5m", "1h", "1d", "1w"},
		},
		Window:           20,
		VolumeMultiplier: 1.15,
		StopLossPct:      0.018,
	}
}

func (b *Breakout) Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) (models.SignalCandidate, bool) {
	if !b.compatible(tf, regime) || len(candles) < b.Window+1 {
		return models.SignalCandidate{}, false
	}
	n := len(candles)
	recent := candles[n-b.Window-1 : n-1]
	last := candles[n-1]

	high, low, volume := recent[0].High, recent[0].Low, 0.0
	for _, c := range recent {
		high = max(high, c.High)
		low = min(low, c.Low)
		volume += c.Volume
	}
	avgVolume := volume / float64(len(recent))
	confirmed := last.Volume >= avgVolume*b.VolumeMultiplier

	var (
		dir   models.Direction
		stop  float64
		level float64
	)
	switch {
	case last.Close > high && confirmed:
		dir, stop, level = models.Long, last.Close*(1-b.StopLossPct), high
	case last.Close < low && confirmed:
		dir, stop, level = models.Short, last.Close*(1+b.StopLossPct), low
	default:
		return models.SignalCandidate{}, false
	}

	return b.candidate(
		dir,
		fmt.Sprintf("Enter on %d-bar breakout with volume confirmation.", b.Window),
		"Exit on failed breakout (re-entry into range) or target at 2.5R.",
		util.Round(stop, 6),
		2.5,
		min(100, 50+math.Abs((last.Close-level)/last.Close)*500),
		map[string]any{"breakout_window": b.Window, "volume_multiplier": b.VolumeMultiplier, "stop_loss_pct": b.StopLossPct},
		map[string]any{
			"prior_high":  util.Round(high, 6),
			"prior_low":   util.Round(low, 6),
			"avg_volume":  util.Round(avgVolume, 3),
			"last_volume": util.Round(last.Volume, 3),
			"asset":       asset,
		},
	), true
}
