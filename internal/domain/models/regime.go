package models

// Regime is a categorical label for recent price action.
type Regime string

const (
	RegimeTrending         Regime = "trending"
	RegimeRanging          Regime = "ranging"
	RegimeHighVolatility   Regime = "high_volatility"
	RegimeLowVolatility    Regime = "low_volatility"
	RegimeMomentumBreakout Regime = "momentum_breakout"
	RegimeMeanReversion    Regime = "mean_reversion"
)

// Regimes lists every regime in canonical order. Arg-max ties resolve to the
// earliest entry.
var Regimes = []Regime{
	RegimeTrending,
	RegimeRanging,
	RegimeHighVolatility,
	RegimeLowVolatility,
	RegimeMomentumBreakout,
	RegimeMeanReversion,
}

// RegimeSnapshot is the classifier output for a series.
type RegimeSnapshot struct {
	CurrentRegime          Regime             `json:"current_regime"`
	ConfidenceScore        float64            `json:"confidence_score"`
	HistoricalDistribution map[Regime]float64 `json:"historical_distribution"`
}

// EmptyDistribution returns a distribution with every regime at zero.
func EmptyDistribution() map[Regime]float64 {
	out := make(map[Regime]float64, len(Regimes))
	for _, r := range Regimes {
		out[r] = 0
	}
	return out
}

// RegimeReport is a snapshot tagged with the asset and timeframe it describes.
type RegimeReport struct {
	Asset     string `json:"asset"`
	Timeframe string `json:"timeframe"`
	RegimeSnapshot
}
