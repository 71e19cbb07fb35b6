package models

// Direction of a trade candidate.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// SignalCandidate is a trade proposal emitted by one strategy.
type SignalCandidate struct {
	StrategyLabel        string         `json:"strategy_label"`
	Version              string         `json:"version"`
	Direction            Direction      `json:"direction"`
	EntryRule            string         `json:"entry_rule"`
	ExitRule             string         `json:"exit_rule"`
	StopLoss             float64        `json:"stop_loss"`
	RiskReward           float64        `json:"risk_reward"`
	CompatibleRegimes    []Regime       `json:"compatible_regimes"`
	CompatibleTimeframes []string       `json:"compatible_timeframes"`
	Parameters           map[string]any `json:"parameters"`
	PerformanceScore     float64        `json:"performance_score"`
	Metadata             map[string]any `json:"metadata"`
}

// SignalReport is the ordered candidate list for an asset and timeframe.
type SignalReport struct {
	Asset           string            `json:"asset"`
	Timeframe       string            `json:"timeframe"`
	Regime          Regime            `json:"regime"`
	ConfidenceScore float64           `json:"confidence_score"`
	Signals         []SignalCandidate `json:"signals"`
	SignalCount     int               `json:"signal_count"`
}
