// Package scoring combines evaluation factors into a single confidence score.
package scoring

import (
	"math"

	"Assemblief/internal/domain/models"
	"Assemblief/pkg/util"
)

// Inputs are the factors of a confidence score, each on a 0-100 scale
// except the CAGR pair which are percentages.
type Inputs struct {
	OutSamplePerformance float64
	CrossAssetStability  float64
	CrossTimeStability   float64
	RegimeAlignment      float64
	ParameterRobustness  float64
	DrawdownControl      float64
	InSampleCAGR         float64
	OutSampleCAGR        float64
}

// Confidence returns the weighted factor sum minus penalties, bounded to
// [0, 100] and rounded to 2 decimals.
func Confidence(in Inputs) float64 {
	base := in.OutSamplePerformance*0.24 +
		in.CrossAssetStability*0.16 +
		in.CrossTimeStability*0.14 +
		in.RegimeAlignment*0.16 +
		in.ParameterRobustness*0.16 +
		in.DrawdownControl*0.14

	penalty := OverfittingPenalty(in.InSampleCAGR, in.OutSampleCAGR) +
		SensitivityPenalty(in.ParameterRobustness) +
		RegimeFitPenalty(in.RegimeAlignment)

	return util.Round(util.Clamp100(base-penalty), 2)
}

// OverfittingPenalty charges the gap by which in-sample CAGR beats
// out-of-sample CAGR. Non-positive in-sample CAGR is never penalized.
func OverfittingPenalty(inSampleCAGR, outSampleCAGR float64) float64 {
	if inSampleCAGR <= 0 {
		return 0
	}
	return util.Clamp100(math.Max(0, inSampleCAGR-outSampleCAGR) * 0.6)
}

func SensitivityPenalty(robustness float64) float64 {
	return util.Clamp100((100 - robustness) * 0.4)
}

func RegimeFitPenalty(alignment float64) float64 {
	return util.Clamp100((100 - alignment) * 0.35)
}

// OutSamplePerformance maps out-of-sample CAGR and Sharpe onto 0-100.
func OutSamplePerformance(oos models.Metrics) float64 {
	return util.Clamp100(oos.CAGR*0.6 + oos.Sharpe*10)
}

// DrawdownControl rewards shallow drawdowns.
func DrawdownControl(m models.Metrics) float64 {
	return math.Max(0, 100-m.MaxDrawdown)
}

// Regime alignment levels.
const (
	AlignedRegime    = 95.0
	MisalignedRegime = 40.0
)

// RegimeAlignment is binary on whether the strategy is native to the regime.
func RegimeAlignment(native bool) float64 {
	if native {
		return AlignedRegime
	}
	return MisalignedRegime
}
