package usecase

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"Assemblief/internal/domain/models"
	"Assemblief/internal/services/indicators"
	"Assemblief/internal/services/scoring"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/util"
)

// TopN is the number of ranked strategies returned.
const TopN = 3

// stabilityInputs are the cross-dimension factors of one ranked entry.
type stabilityInputs struct {
	crossAsset float64
	crossTime  float64
}

// rankEntry scores one backtest against the detected regime.
func rankEntry(set *signals.Set, bt *models.BacktestResult, regime models.Regime, st stabilityInputs) models.RankedSignal {
	alignment := scoring.RegimeAlignment(set.Supports(bt.Signal, regime))
	conf := scoring.Confidence(scoring.Inputs{
		OutSamplePerformance: scoring.OutSamplePerformance(bt.OutOfSampleMetrics),
		CrossAssetStability:  st.crossAsset,
		CrossTimeStability:   st.crossTime,
		RegimeAlignment:      alignment,
		ParameterRobustness:  bt.Robustness.SensitivityScore,
		DrawdownControl:      scoring.DrawdownControl(bt.Metrics),
		InSampleCAGR:         bt.Metrics.CAGR,
		OutSampleCAGR:        bt.OutOfSampleMetrics.CAGR,
	})
	return models.RankedSignal{
		Signal:              bt.Signal,
		SuggestedDirection:  suggestedDirection(bt.Signal),
		ExpectedReturnRange: expectedReturnRange(bt.Metrics.CAGR),
		ExpectedDrawdown:    util.Round(bt.Metrics.MaxDrawdown, 2),
		ConfidenceScore:     conf,
		RegimeAlignment:     alignment,
		CrossAssetStability: st.crossAsset,
		CrossTimeStability:  st.crossTime,
		Robustness:          bt.Robustness,
	}
}

// sortRanked orders by descending confidence, keeping input order on ties.
func sortRanked(ranked []models.RankedSignal) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConfidenceScore > ranked[j].ConfidenceScore
	})
}

func suggestedDirection(id string) string {
	if id == signals.MeanReversionV1 {
		return models.CounterTrend
	}
	return models.TrendAligned
}

func expectedReturnRange(cagr float64) string {
	low := util.Round(math.Max(-30, cagr*0.5), 2)
	high := util.Round(math.Min(120, cagr*1.3+5), 2)
	return formatPercent(low) + "% to " + formatPercent(high) + "%"
}

// formatPercent prints the shortest representation, keeping one decimal
// for whole numbers (5 -> "5.0").
func formatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

// crossAssetStability rewards high average out-of-sample CAGR across
// benchmark assets and a narrow spread between them.
func crossAssetStability(cagrs []float64) float64 {
	if len(cagrs) == 0 {
		return 0
	}
	clipped := make([]float64, len(cagrs))
	for i, c := range cagrs {
		clipped[i] = math.Max(0, c)
	}
	return util.Clamp100(indicators.Mean(clipped)*2 + math.Max(0, 25-spread(clipped)))
}

// crossTimeStability does the same for out-of-sample Sharpe across timeframes.
func crossTimeStability(sharpes []float64) float64 {
	if len(sharpes) == 0 {
		return 0
	}
	return util.Clamp100(indicators.Mean(sharpes)*20 + math.Max(0, 20-spread(sharpes)*10))
}

func spread(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
