package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
)

var errProviderDown = apperr.Upstream("Upstream provider request failed", errors.New("connection refused"))

type fakeSource struct {
	mu     sync.Mutex
	series map[string][]models.Candle
	fail   map[string]error
	calls  []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{series: map[string][]models.Candle{}, fail: map[string]error{}}
}

func key(asset string, tf domrepo.Timeframe) string { return asset + "@" + string(tf) }

func (f *fakeSource) set(asset string, tf domrepo.Timeframe, candles []models.Candle) {
	f.series[key(asset, tf)] = candles
}

func (f *fakeSource) GetSeries(ctx context.Context, asset string, tf domrepo.Timeframe, limit int) (*models.MarketSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(asset, tf)
	f.calls = append(f.calls, k)
	if err, ok := f.fail[k]; ok {
		return nil, err
	}
	candles, ok := f.series[k]
	if !ok {
		return nil, apperr.Validationf("unknown asset %s", asset)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return &models.MarketSeries{
		Asset:     asset,
		Provider:  "fake",
		Timeframe: string(tf),
		Source:    models.SourceProvider,
		Rows:      len(candles),
		Candles:   candles,
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.EvaluationEvent
	err    error
}

func (p *fakePublisher) PublishEvaluation(_ context.Context, ev models.EvaluationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	mu          sync.Mutex
	evaluations map[string]int
	confidence  map[string]float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{evaluations: map[string]int{}, confidence: map[string]float64{}}
}

func (m *fakeMetrics) RecordEvaluation(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations[kind+":"+status]++
}
func (m *fakeMetrics) RecordError(string)            {}
func (m *fakeMetrics) RecordLatency(string, float64) {}
func (m *fakeMetrics) RecordUpstream(string, string) {}
func (m *fakeMetrics) RecordConfidence(strategy string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confidence[strategy] = score
}

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// wave builds an hourly series with a deterministic oscillating close.
func wave(n int, phase float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		x := float64(i) + phase
		c := 100 + 6*math.Sin(x/5) + 2*math.Cos(x/1.3) + 0.03*float64(i)
		out[i] = models.Candle{
			Timestamp: seriesStart.Add(time.Duration(i) * time.Hour),
			Open:      c - 0.2,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + 50*math.Sin(x),
		}
	}
	return out
}

func rising(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = models.Candle{
			Timestamp: seriesStart.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 1000,
		}
	}
	return out
}
