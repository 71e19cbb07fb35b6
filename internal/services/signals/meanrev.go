package signals

import (
	"fmt"
	"math"
	"strconv"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/services/indicators"
	"Assemblief/pkg/util"
)

// MeanReversion fades closes that sit far from the trailing mean.
type MeanReversion struct {
	profile
	Lookback    int
	ZThreshold  float64
	StopLossPct float64
}

func NewMeanReversion() *MeanReversion {
	return &MeanReversion{
		profile: profile{
			id:         MeanReversionV1,
			label:      "mean_reversion",
			regimes:    []models.Regime{models.RegimeRanging, models.RegimeLowVolatility, models.RegimeMeanReversion},
			timeframes: []string{"1m", "5m", "1h", "1d"},
		},
		Lookback:    20,
		ZThreshold:  1.3,
		StopLossPct: 0.01,
	}
}

func (m *MeanReversion) Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) (models.SignalCandidate, bool) {
	if !m.compatible(tf, regime) || len(candles) < m.Lookback+2 {
		return models.SignalCandidate{}, false
	}
	closes := models.Closes(candles)
	window := closes[len(closes)-m.Lookback:]
	mu := indicators.Mean(window)
	sigma := indicators.PStdDev(window)
	if sigma == 0 {
		return models.SignalCandidate{}, false
	}
	price := closes[len(closes)-1]
	z := (price - mu) / sigma
	if math.Abs(z) < m.ZThreshold {
		return models.SignalCandidate{}, false
	}

	dir, stop := models.Long, price*(1-m.StopLossPct)
	if z > 0 {
		dir, stop = models.Short, price*(1+m.StopLossPct)
	}
	return m.candidate(
		dir,
		fmt.Sprintf("Enter %s when z-score exceeds ±%s.", dir, strconv.FormatFloat(m.ZThreshold, 'g', -1, 64)),
		"Exit at mean reversion target (moving average) or at stop-loss.",
		util.Round(stop, 6),
		1.7,
		min(100, 40+math.Abs(z)*20),
		map[string]any{"lookback": m.Lookback, "z_threshold": m.ZThreshold, "stop_loss_pct": m.StopLossPct},
		map[string]any{
			"z_score": util.Round(z, 4),
			"mean":    util.Round(mu, 6),
			"std_dev": util.Round(sigma, 6),
			"asset":   asset,
		},
	), true
}
