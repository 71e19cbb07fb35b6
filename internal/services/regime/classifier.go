// Package regime labels the statistical character of a candle series.
package regime

import (
	"Assemblief/internal/domain/models"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/pkg/util"
)

const (
	// MinCandles is the shortest series that is scored; shorter input gets the fallback.
	MinCandles = 25
	// HistoryWindow bounds the sliding window used for the historical distribution.
	HistoryWindow = 80

	fallbackConfidence = 35.0
)

// Classifier scores six regimes and builds a sliding-window distribution.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify labels the whole series and tabulates the labels of every
// trailing window of size min(80, len).
func (c *Classifier) Classify(candles []models.Candle) models.RegimeSnapshot {
	if len(candles) < MinCandles {
		return models.RegimeSnapshot{
			CurrentRegime:          models.RegimeRanging,
			ConfidenceScore:        fallbackConfidence,
			HistoricalDistribution: models.EmptyDistribution(),
		}
	}

	label, score := c.ClassifyWindow(candles)

	window := min(HistoryWindow, len(candles))
	counts := make(map[models.Regime]int, len(models.Regimes))
	total := 0
	for end := window; end <= len(candles); end++ {
		l, _ := c.ClassifyWindow(candles[end-window : end])
		counts[l]++
		total++
	}

	return models.RegimeSnapshot{
		CurrentRegime:          label,
		ConfidenceScore:        util.Round(score, 2),
		HistoricalDistribution: distribution(counts, total),
	}
}

// ClassifyWindow returns the arg-max regime of one window and its score.
// Ties go to the earliest regime in canonical order.
func (c *Classifier) ClassifyWindow(candles []models.Candle) (models.Regime, float64) {
	scores := Extract(candles).Scores()
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return models.Regimes[best], scores[best]
}

func distribution(counts map[models.Regime]int, total int) map[models.Regime]float64 {
	out := models.EmptyDistribution()
	if total == 0 {
		return out
	}
	for _, r := range models.Regimes {
		out[r] = util.Round(float64(counts[r])/float64(total)*100, 2)
	}
	return out
}

var _ domsvc.RegimeClassifier = (*Classifier)(nil)
