package repository

import (
	"context"
	"time"

	"Assemblief/internal/domain/models"
)

// MarketDataSource returns ordered candle series for an asset.
type MarketDataSource interface {
	GetSeries(ctx context.Context, asset string, tf Timeframe, limit int) (*models.MarketSeries, error)
}

// MarketProvider fetches raw candles for a symbol from one upstream.
type MarketProvider interface {
	Name() string
	FetchOHLCV(ctx context.Context, symbol string, tf Timeframe, limit int) ([]models.Candle, error)
}

// SeriesKey identifies a stored candle series.
type SeriesKey struct {
	Provider  string
	Symbol    string
	Timeframe Timeframe
}

// CandleStore persists fetched candle series.
type CandleStore interface {
	// Load returns up to limit most recent candles in ascending order and the
	// time they were fetched. An unknown key yields no candles and no error.
	Load(ctx context.Context, key SeriesKey, limit int) ([]models.Candle, time.Time, error)
	// Save replaces the stored series for key.
	Save(ctx context.Context, key SeriesKey, candles []models.Candle) error
	Close() error
}

// EvaluationPublisher ships completed evaluations to downstream consumers.
type EvaluationPublisher interface {
	PublishEvaluation(ctx context.Context, ev models.EvaluationEvent) error
	Close() error
}

type Metrics interface {
	RecordEvaluation(kind, status string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordConfidence(strategy string, score float64)
	RecordUpstream(provider, result string)
}
