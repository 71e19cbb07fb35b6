package usecase

import (
	"context"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/pkg/logger"
)

// DefaultLimit is the number of candles requested per series.
const DefaultLimit = 300

// AnalyticsUseCase serves the single-series evaluations: raw data, regime,
// signal candidates and backtests.
type AnalyticsUseCase struct {
	source     domrepo.MarketDataSource
	classifier domsvc.RegimeClassifier
	signals    domsvc.SignalGenerator
	backtester domsvc.Backtester
	limit      int
	obs        observer
}

func NewAnalyticsUseCase(
	source domrepo.MarketDataSource,
	classifier domsvc.RegimeClassifier,
	signals domsvc.SignalGenerator,
	backtester domsvc.Backtester,
	limit int,
	log *logger.Logger,
	metrics domrepo.Metrics,
	publisher domrepo.EvaluationPublisher,
) *AnalyticsUseCase {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &AnalyticsUseCase{
		source:     source,
		classifier: classifier,
		signals:    signals,
		backtester: backtester,
		limit:      limit,
		obs:        newObserver(log, metrics, publisher),
	}
}

func (uc *AnalyticsUseCase) series(ctx context.Context, asset, timeframe string) (*models.MarketSeries, domrepo.Timeframe, error) {
	tf, err := domrepo.ParseTimeframe(timeframe)
	if err != nil {
		return nil, "", err
	}
	s, err := uc.source.GetSeries(ctx, asset, tf, uc.limit)
	if err != nil {
		return nil, "", err
	}
	return s, tf, nil
}

// GetData returns the normalized candle series for asset.
func (uc *AnalyticsUseCase) GetData(ctx context.Context, asset, timeframe string) (*models.MarketSeries, error) {
	s, _, err := uc.series(ctx, asset, timeframe)
	return s, err
}

// ClassifyRegime labels the current regime of asset.
func (uc *AnalyticsUseCase) ClassifyRegime(ctx context.Context, asset, timeframe string) (*models.RegimeReport, error) {
	s, tf, err := uc.series(ctx, asset, timeframe)
	if err != nil {
		return nil, err
	}
	return &models.RegimeReport{
		Asset:          s.Asset,
		Timeframe:      string(tf),
		RegimeSnapshot: uc.classifier.Classify(s.Candles),
	}, nil
}

// GenerateSignals classifies the series and collects strategy candidates.
func (uc *AnalyticsUseCase) GenerateSignals(ctx context.Context, asset, timeframe string) (*models.SignalReport, error) {
	s, tf, err := uc.series(ctx, asset, timeframe)
	if err != nil {
		return nil, err
	}
	snap := uc.classifier.Classify(s.Candles)
	candidates := uc.signals.Generate(s.Asset, tf, s.Candles, snap.CurrentRegime)
	return &models.SignalReport{
		Asset:           s.Asset,
		Timeframe:       string(tf),
		Regime:          snap.CurrentRegime,
		ConfidenceScore: snap.ConfidenceScore,
		Signals:         candidates,
		SignalCount:     len(candidates),
	}, nil
}

// RunBacktest backtests signal over the series of asset.
func (uc *AnalyticsUseCase) RunBacktest(ctx context.Context, asset, timeframe, signal string) (res *models.BacktestResult, err error) {
	start := time.Now()
	defer func() {
		uc.obs.finish(ctx, models.EventBacktest, asset, timeframe, start, res, err)
	}()

	s, tf, err := uc.series(ctx, asset, timeframe)
	if err != nil {
		return nil, err
	}
	return uc.backtester.Run(s.Asset, tf, signal, s.Candles)
}
