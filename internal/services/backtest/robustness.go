package backtest

import (
	"math"
	"math/rand/v2"

	"Assemblief/internal/domain/models"
	"Assemblief/internal/services/indicators"
	"Assemblief/pkg/util"
)

const (
	minMonteCarloTrades = 5
	monteCarloRetention = 0.6

	gateCAGR        = 0.0
	gateSharpe      = 0.25
	gateMonteCarlo  = 55.0
	gateSensitivity = 45.0
)

// MonteCarlo resamples trades with replacement and returns the percentage of
// resampled totals that keep at least 60% of the realized total.
func MonteCarlo(trades []float64, simulations int, rng *rand.Rand) float64 {
	if len(trades) < minMonteCarloTrades || simulations <= 0 {
		return 0
	}
	baseline := sum(trades) * monteCarloRetention
	hits := 0
	for range simulations {
		total := 0.0
		for range len(trades) {
			total += trades[rng.IntN(len(trades))]
		}
		if total >= baseline {
			hits++
		}
	}
	return util.Round(float64(hits)/float64(simulations)*100, 2)
}

// ParameterSensitivity scores how little a metric moves across perturbed
// runs: 100 minus the mean absolute deviation relative to the mean.
func ParameterSensitivity(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	avg := indicators.Mean(scores)
	if avg == 0 {
		return 0
	}
	dev := make([]float64, len(scores))
	for i, s := range scores {
		dev[i] = math.Abs(s - avg)
	}
	return util.Round(max(0, 100-indicators.Mean(dev)/math.Abs(avg)*100), 2)
}

// Evaluate applies the robustness gate. All four thresholds must hold.
func Evaluate(oosCAGR, oosSharpe, monteCarlo, sensitivity float64) models.RobustnessResult {
	passed := oosCAGR > gateCAGR &&
		oosSharpe > gateSharpe &&
		monteCarlo >= gateMonteCarlo &&
		sensitivity >= gateSensitivity
	score := oosCAGR*0.2 + oosSharpe*15 + monteCarlo*0.35 + sensitivity*0.3
	return models.RobustnessResult{
		Passed:           passed,
		RobustnessScore:  util.Round(util.Clamp100(score), 2),
		MonteCarloScore:  monteCarlo,
		SensitivityScore: sensitivity,
	}
}
