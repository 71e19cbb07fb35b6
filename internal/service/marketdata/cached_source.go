package marketdata

import (
	"context"
	"errors"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/cache"
	"Assemblief/pkg/logger"
)

// CachedSource serves repeated series requests from a hot cache.
type CachedSource struct {
	next  domrepo.MarketDataSource
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSource(next domrepo.MarketDataSource, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CachedSource{next: next, cache: c, ttl: ttl, log: log}
}

// SeriesKey is the cache key of one series request.
func SeriesKey(asset string, tf domrepo.Timeframe, limit int) string {
	return cache.GenerateKeyWithParams("series", asset, tf, limit)
}

// GetSeries returns the cached series when present. Cache errors are logged
// and never fail the request.
func (s *CachedSource) GetSeries(ctx context.Context, asset string, tf domrepo.Timeframe, limit int) (*models.MarketSeries, error) {
	key := SeriesKey(asset, tf, limit)

	var cached models.MarketSeries
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		cached.Source = models.SourceCache
		return &cached, nil
	case errors.Is(err, cache.ErrCacheMiss):
	default:
		s.log.Warn("series cache read failed", logger.String("key", key), logger.Error(err))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.log.Debug("series cache delete failed", logger.String("key", key), logger.Error(delErr))
		}
	}

	series, err := s.next.GetSeries(ctx, asset, tf, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
		s.log.Warn("series cache write failed", logger.String("key", key), logger.Error(err))
	}
	return series, nil
}

var _ domrepo.MarketDataSource = (*CachedSource)(nil)
