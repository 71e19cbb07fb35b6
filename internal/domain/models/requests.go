package models

// Requests bound from HTTP path and query parameters. Timeframe and signal
// values are checked by the use cases so errors carry domain messages.

type AssetRequest struct {
	Asset     string `param:"asset" json:"asset" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h"`
}

type BacktestRequest struct {
	Asset     string `param:"asset" json:"asset" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h"`
	Signal    string `query:"signal" json:"signal" default:"trend_v1"`
}

type ReplayRequest struct {
	Asset     string `param:"asset" json:"asset" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"1h"`
	Date      string `query:"date" json:"date" validate:"required"`
}
