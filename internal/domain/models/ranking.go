package models

// Suggested directions for ranked signals.
const (
	TrendAligned = "trend-aligned"
	CounterTrend = "counter-trend"
)

// FullMetrics bundles every metric block of a backtest.
type FullMetrics struct {
	Metrics            Metrics          `json:"metrics"`
	OutOfSampleMetrics Metrics          `json:"out_of_sample_metrics"`
	Robustness         RobustnessResult `json:"robustness"`
}

// RankedSignal is one strategy scored by the confidence model.
type RankedSignal struct {
	Signal              string           `json:"signal"`
	SuggestedDirection  string           `json:"suggested_direction"`
	ExpectedReturnRange string           `json:"expected_return_range"`
	ExpectedDrawdown    float64          `json:"expected_drawdown"`
	ConfidenceScore     float64          `json:"confidence_score"`
	RegimeAlignment     float64          `json:"regime_alignment"`
	CrossAssetStability float64          `json:"cross_asset_stability"`
	CrossTimeStability  float64          `json:"cross_time_stability"`
	Robustness          RobustnessResult `json:"robustness"`
	FullMetrics         *FullMetrics     `json:"full_metrics,omitempty"`
}

// RankResult is the top of the ranking for an asset and timeframe.
type RankResult struct {
	Asset      string            `json:"asset"`
	Timeframe  string            `json:"timeframe"`
	Regime     Regime            `json:"regime"`
	TopSignals []RankedSignal    `json:"top_signals"`
	Skipped    map[string]string `json:"skipped,omitempty"`
}

// Trade outcome statuses.
const (
	OutcomeSimulated = "simulated"
	OutcomeNoForward = "No forward candles after selected date."
)

// TradeOutcome is the simulated forward trade of a replay.
type TradeOutcome struct {
	BarsHeld   int     `json:"bars_held"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	ReturnPct  float64 `json:"return_pct"`
	Status     string  `json:"status"`
}

// ReplayResult describes what the engine would have said on a past date.
type ReplayResult struct {
	Asset        string         `json:"asset"`
	Timeframe    string         `json:"timeframe"`
	Date         string         `json:"date"`
	Regime       RegimeSnapshot `json:"regime"`
	TopSignal    RankedSignal   `json:"top_signal"`
	TradeOutcome TradeOutcome   `json:"trade_outcome"`
	FullMetrics  FullMetrics    `json:"full_metrics"`
}
