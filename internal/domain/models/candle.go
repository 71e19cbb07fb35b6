package models

import "time"

// Candle represents one OHLCV record.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Closes extracts closing prices in order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Series sources reported by the market data layer.
const (
	SourceProvider = "provider"
	SourceStore    = "store"
	SourceCache    = "cache"
)

// MarketSeries is an ordered candle series for a resolved asset.
type MarketSeries struct {
	Asset     string   `json:"asset"`
	Provider  string   `json:"provider"`
	Timeframe string   `json:"timeframe"`
	Source    string   `json:"source"`
	Rows      int      `json:"rows"`
	Candles   []Candle `json:"data"`
}
