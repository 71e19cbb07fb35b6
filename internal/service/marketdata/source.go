package marketdata

import (
	"context"
	"sort"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/logger"
)

const DefaultLimit = 300

const upstreamFailure = "Upstream provider request failed"

// Manager serves candle series: store first, then the resolved provider.
type Manager struct {
	registry *Registry
	store    domrepo.CandleStore
	maxAge   time.Duration
	log      *logger.Logger
	metrics  domrepo.Metrics
	now      func() time.Time
}

// NewManager builds a Manager. store and metrics may be nil; maxAge of zero
// never expires stored rows.
func NewManager(registry *Registry, store domrepo.CandleStore, maxAge time.Duration, log *logger.Logger, metrics domrepo.Metrics) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		registry: registry,
		store:    store,
		maxAge:   maxAge,
		log:      log,
		metrics:  metrics,
		now:      time.Now,
	}
}

// GetSeries returns up to limit ascending, de-duplicated candles for asset.
func (m *Manager) GetSeries(ctx context.Context, asset string, tf domrepo.Timeframe, limit int) (*models.MarketSeries, error) {
	if !domrepo.IsValidTimeframe(tf) {
		_, err := domrepo.ParseTimeframe(string(tf))
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	market, symbol, err := m.registry.Resolve(asset)
	if err != nil {
		return nil, err
	}
	provider, _ := m.registry.Provider(market)
	key := domrepo.SeriesKey{Provider: provider.Name(), Symbol: symbol, Timeframe: tf}
	series := &models.MarketSeries{
		Asset:     market + ":" + symbol,
		Provider:  provider.Name(),
		Timeframe: string(tf),
	}

	if candles, ok := m.fromStore(ctx, key, limit); ok {
		series.Source = models.SourceStore
		series.Candles = candles
		series.Rows = len(candles)
		return series, nil
	}

	start := time.Now()
	raw, err := provider.FetchOHLCV(ctx, symbol, tf, limit)
	if err != nil {
		m.upstream(provider.Name(), "error")
		if apperr.IsValidation(err) {
			return nil, err
		}
		m.log.Warn("provider fetch failed",
			logger.String("provider", provider.Name()),
			logger.String("symbol", symbol),
			logger.String("timeframe", string(tf)),
			logger.Error(err),
		)
		return nil, apperr.Upstream(upstreamFailure, err)
	}
	m.upstream(provider.Name(), "ok")
	if m.metrics != nil {
		m.metrics.RecordLatency("provider_fetch", time.Since(start).Seconds())
	}

	candles := Normalize(raw)
	if m.store != nil && len(candles) > 0 {
		if err := m.store.Save(ctx, key, candles); err != nil {
			m.log.Warn("candle store write failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	series.Source = models.SourceProvider
	series.Candles = candles
	series.Rows = len(candles)
	return series, nil
}

func (m *Manager) fromStore(ctx context.Context, key domrepo.SeriesKey, limit int) ([]models.Candle, bool) {
	if m.store == nil {
		return nil, false
	}
	candles, fetchedAt, err := m.store.Load(ctx, key, limit)
	if err != nil {
		m.log.Warn("candle store read failed", logger.String("symbol", key.Symbol), logger.Error(err))
		return nil, false
	}
	if len(candles) == 0 {
		return nil, false
	}
	if m.maxAge > 0 && m.now().Sub(fetchedAt) > m.maxAge {
		return nil, false
	}
	return candles, true
}

func (m *Manager) upstream(provider, result string) {
	if m.metrics != nil {
		m.metrics.RecordUpstream(provider, result)
	}
}

// Normalize sorts candles by timestamp and keeps the last row per timestamp.
func Normalize(candles []models.Candle) []models.Candle {
	out := make([]models.Candle, len(candles))
	copy(out, candles)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Timestamp.Equal(out[i].Timestamp) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}

var _ domrepo.MarketDataSource = (*Manager)(nil)
