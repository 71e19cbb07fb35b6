package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/services/backtest"
	"Assemblief/internal/services/regime"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/logger"
)

func newAnalytics(src *fakeSource, pub *fakePublisher, m *fakeMetrics) *AnalyticsUseCase {
	var publisher domrepo.EvaluationPublisher
	if pub != nil {
		publisher = pub
	}
	var metrics domrepo.Metrics
	if m != nil {
		metrics = m
	}
	return NewAnalyticsUseCase(src, regime.NewClassifier(), signals.NewSet(), backtest.NewEngine(backtest.WithSeed(1)),
		0, logger.Nop(), metrics, publisher)
}

func TestGetData(t *testing.T) {
	src := newFakeSource()
	src.set("crypto:BTCUSDT", domrepo.TF1h, wave(400, 0))
	uc := newAnalytics(src, nil, nil)

	s, err := uc.GetData(context.Background(), "crypto:BTCUSDT", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, s.Rows)
	assert.Equal(t, []string{"crypto:BTCUSDT@1h"}, src.calls)
}

func TestInvalidTimeframe(t *testing.T) {
	uc := newAnalytics(newFakeSource(), nil, nil)
	_, err := uc.ClassifyRegime(context.Background(), "crypto:BTCUSDT", "2h")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, apperr.Message(err), "Unsupported timeframe '2h'")
}

func TestClassifyRegimeFallback(t *testing.T) {
	src := newFakeSource()
	src.set("forex:EURUSD", domrepo.TF1d, wave(10, 0))
	rep, err := newAnalytics(src, nil, nil).ClassifyRegime(context.Background(), "forex:EURUSD", "1d")
	require.NoError(t, err)
	assert.Equal(t, "forex:EURUSD", rep.Asset)
	assert.Equal(t, "1d", rep.Timeframe)
	assert.Equal(t, models.RegimeRanging, rep.CurrentRegime)
	assert.Equal(t, 35.0, rep.ConfidenceScore)
}

func TestGenerateSignalsRisingSeries(t *testing.T) {
	src := newFakeSource()
	src.set("crypto:BTCUSDT", domrepo.TF1h, rising(120))
	rep, err := newAnalytics(src, nil, nil).GenerateSignals(context.Background(), "crypto:BTCUSDT", "1h")
	require.NoError(t, err)

	assert.Equal(t, models.RegimeTrending, rep.Regime)
	require.NotEmpty(t, rep.Signals)
	assert.Equal(t, len(rep.Signals), rep.SignalCount)
	assert.Equal(t, "trend_following", rep.Signals[0].StrategyLabel)
}

func TestRunBacktestPublishes(t *testing.T) {
	src := newFakeSource()
	src.set("crypto:BTCUSDT", domrepo.TF1h, rising(100))
	pub := &fakePublisher{}
	m := newFakeMetrics()

	res, err := newAnalytics(src, pub, m).RunBacktest(context.Background(), "crypto:BTCUSDT", "1h", signals.TrendV1)
	require.NoError(t, err)
	assert.Greater(t, res.Metrics.CAGR, 0.0)

	require.Len(t, pub.events, 1)
	assert.Equal(t, models.EventBacktest, pub.events[0].Kind)
	assert.Same(t, res, pub.events[0].Payload)
	assert.Equal(t, 1, m.evaluations["backtest:ok"])
}

func TestRunBacktestErrors(t *testing.T) {
	src := newFakeSource()
	src.set("crypto:BTCUSDT", domrepo.TF1h, rising(40))
	src.fail[key("crypto:ETHUSDT", domrepo.TF1h)] = errProviderDown
	pub := &fakePublisher{}
	m := newFakeMetrics()
	uc := newAnalytics(src, pub, m)

	_, err := uc.RunBacktest(context.Background(), "crypto:BTCUSDT", "1h", signals.TrendV1)
	assert.True(t, apperr.IsValidation(err))

	_, err = uc.RunBacktest(context.Background(), "crypto:BTCUSDT", "1h", "unknown")
	assert.True(t, apperr.IsValidation(err))

	_, err = uc.RunBacktest(context.Background(), "crypto:ETHUSDT", "1h", signals.TrendV1)
	assert.True(t, apperr.IsUpstream(err))

	assert.Empty(t, pub.events)
	assert.Equal(t, 2, m.evaluations["backtest:validation"])
	assert.Equal(t, 1, m.evaluations["backtest:upstream"])
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	src := newFakeSource()
	src.set("crypto:BTCUSDT", domrepo.TF1h, rising(100))
	pub := &fakePublisher{err: assert.AnError}

	_, err := newAnalytics(src, pub, nil).RunBacktest(context.Background(), "crypto:BTCUSDT", "1h", signals.BreakoutV1)
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}
