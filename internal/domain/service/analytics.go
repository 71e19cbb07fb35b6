package service

import (
	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
)

// RegimeClassifier labels the market regime of a candle series.
type RegimeClassifier interface {
	Classify(candles []models.Candle) models.RegimeSnapshot
}

// SignalGenerator produces ordered trade candidates for a series.
type SignalGenerator interface {
	Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) []models.SignalCandidate
}

// Backtester runs a strategy over a candle series.
type Backtester interface {
	Run(asset string, tf domrepo.Timeframe, strategyID string, candles []models.Candle) (*models.BacktestResult, error)
}
