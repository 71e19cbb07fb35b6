package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func hourly(n int, from float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		c := from + float64(i)
		out[i] = models.Candle{Timestamp: base.Add(time.Duration(i) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 5}
	}
	return out
}

func setupStore(t *testing.T) *GormCandleStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err, "failed to open test database")

	s := NewGormCandleStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormCandleStoreRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	key := domrepo.SeriesKey{Provider: "binance", Symbol: "BTCUSDT", Timeframe: domrepo.TF1h}

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Save(ctx, key, hourly(5, 100)))

	got, fetchedAt, err := s.Load(ctx, key, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, hourly(5, 100)[2:], got)
	assert.True(t, fetchedAt.After(before))
}

func TestGormCandleStoreSaveReplaces(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	key := domrepo.SeriesKey{Provider: "binance", Symbol: "BTCUSDT", Timeframe: domrepo.TF1h}
	other := domrepo.SeriesKey{Provider: "binance", Symbol: "ETHUSDT", Timeframe: domrepo.TF1h}

	require.NoError(t, s.Save(ctx, key, hourly(5, 100)))
	require.NoError(t, s.Save(ctx, other, hourly(2, 50)))
	require.NoError(t, s.Save(ctx, key, hourly(2, 200)))

	got, _, err := s.Load(ctx, key, 10)
	require.NoError(t, err)
	assert.Equal(t, hourly(2, 200), got)

	got, _, err = s.Load(ctx, other, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGormCandleStoreUnknownKey(t *testing.T) {
	s := setupStore(t)

	got, fetchedAt, err := s.Load(context.Background(), domrepo.SeriesKey{Provider: "forex", Symbol: "EURUSD", Timeframe: domrepo.TF1d}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, fetchedAt.IsZero())
}
