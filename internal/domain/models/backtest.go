package models

// Metrics are performance statistics derived from an equity curve and trade list.
// CAGR, MaxDrawdown, WinRate and RiskOfRuin are percentages.
type Metrics struct {
	CAGR         float64 `json:"cagr"`
	Sharpe       float64 `json:"sharpe"`
	Sortino      float64 `json:"sortino"`
	Calmar       float64 `json:"calmar"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
	RiskOfRuin   float64 `json:"risk_of_ruin"`
	WinRate      float64 `json:"win_rate"`
}

// RobustnessResult is the outcome of the robustness gate.
type RobustnessResult struct {
	Passed           bool    `json:"passed"`
	RobustnessScore  float64 `json:"robustness_score"`
	MonteCarloScore  float64 `json:"monte_carlo_score"`
	SensitivityScore float64 `json:"sensitivity_score"`
}

// WalkForward holds the curves of a walk-forward simulation.
type WalkForward struct {
	EquityCurve   []float64 `json:"equity_curve"`
	DrawdownCurve []float64 `json:"drawdown_curve"`
	Trades        []float64 `json:"trades"`
}

// SampleSplit records the in/out-of-sample point counts.
type SampleSplit struct {
	InSamplePoints  int `json:"in_sample_points"`
	OutSamplePoints int `json:"out_sample_points"`
}

// BacktestResult is the full output of one backtest run.
type BacktestResult struct {
	Asset              string           `json:"asset"`
	Timeframe          string           `json:"timeframe"`
	Signal             string           `json:"signal"`
	WalkForward        WalkForward      `json:"walk_forward"`
	Split              SampleSplit      `json:"out_of_sample_split"`
	TransactionCost    float64          `json:"transaction_cost"`
	Slippage           float64          `json:"slippage"`
	Metrics            Metrics          `json:"metrics"`
	OutOfSampleMetrics Metrics          `json:"out_of_sample_metrics"`
	Robustness         RobustnessResult `json:"robustness"`
	EquityCurve        []float64        `json:"equity_curve"`
	DrawdownCurve      []float64        `json:"drawdown_curve"`
}
