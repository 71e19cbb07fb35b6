package marketdata

import (
	"context"
	"sync"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func candlesAt(hours ...int) []models.Candle {
	out := make([]models.Candle, len(hours))
	for i, h := range hours {
		c := 100 + float64(h)
		out[i] = models.Candle{Timestamp: t0.Add(time.Duration(h) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
	}
	return out
}

type fakeProvider struct {
	name    string
	candles []models.Candle
	err     error

	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchOHLCV(_ context.Context, _ string, _ domrepo.Timeframe, _ int) ([]models.Candle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.candles, p.err
}

type fakeStore struct {
	candles   []models.Candle
	fetchedAt time.Time
	loadErr   error
	saveErr   error
	saved     map[domrepo.SeriesKey][]models.Candle
}

func (s *fakeStore) Load(_ context.Context, _ domrepo.SeriesKey, limit int) ([]models.Candle, time.Time, error) {
	if s.loadErr != nil {
		return nil, time.Time{}, s.loadErr
	}
	c := s.candles
	if len(c) > limit {
		c = c[len(c)-limit:]
	}
	return c, s.fetchedAt, nil
}

func (s *fakeStore) Save(_ context.Context, key domrepo.SeriesKey, candles []models.Candle) error {
	if s.saved == nil {
		s.saved = make(map[domrepo.SeriesKey][]models.Candle)
	}
	s.saved[key] = candles
	return s.saveErr
}

func (s *fakeStore) Close() error { return nil }

type fakeMetrics struct {
	mu       sync.Mutex
	upstream map[string]int
}

func (m *fakeMetrics) RecordEvaluation(string, string)  {}
func (m *fakeMetrics) RecordError(string)               {}
func (m *fakeMetrics) RecordLatency(string, float64)    {}
func (m *fakeMetrics) RecordConfidence(string, float64) {}

func (m *fakeMetrics) RecordUpstream(provider, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upstream == nil {
		m.upstream = make(map[string]int)
	}
	m.upstream[provider+"/"+result]++
}
