package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/service/marketdata"
	"Assemblief/pkg/config"
	"Assemblief/pkg/logger"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestProvideRankerConfig(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.MarketData.CrossAssets = []string{"crypto:BTCUSDT"}
	cfg.MarketData.CrossTimeframes = []string{"5m", "1d"}

	rc, err := ProvideRankerConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"crypto:BTCUSDT"}, rc.CrossAssets)
	assert.Equal(t, []domrepo.Timeframe{domrepo.TF5m, domrepo.TF1d}, rc.CrossTimeframes)
	assert.Equal(t, cfg.MarketData.DefaultLimit, rc.Limit)

	cfg.MarketData.CrossTimeframes = []string{"4h"}
	_, err = ProvideRankerConfig(cfg)
	require.Error(t, err)
}

func TestProvideCandleStore(t *testing.T) {
	cfg := defaultConfig(t)

	cfg.Store.Type = "none"
	store, cleanup, err := ProvideCandleStore(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, store)
	cleanup()

	cfg.Store.Type = "sqlite"
	cfg.Store.Path = filepath.Join(t.TempDir(), "nested", "cache.db")
	store, cleanup, err = ProvideCandleStore(cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, store)
	cleanup()
	assert.FileExists(t, cfg.Store.Path)
}

func TestDisabledOptionalsAreNil(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Redis.Enabled = false
	cfg.Kafka.Enabled = false

	c, cleanup, err := ProvideCache(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, c)
	cleanup()

	pub, cleanup, err := ProvideEvaluationPublisher(cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, pub)
	cleanup()
}

func TestProvideRegistryBindsEveryMarket(t *testing.T) {
	cfg := defaultConfig(t)
	reg := ProvideRegistry(cfg, ProvideHTTPClient(cfg))

	assert.Equal(t, []string{marketdata.MarketCrypto, marketdata.MarketForex, marketdata.MarketFutures}, reg.Markets())
	p, ok := reg.Provider(marketdata.MarketCrypto)
	require.True(t, ok)
	assert.Equal(t, "binance", p.Name())
}

func TestProvideMarketDataSourceWithoutCache(t *testing.T) {
	cfg := defaultConfig(t)
	reg := ProvideRegistry(cfg, ProvideHTTPClient(cfg))
	src := ProvideMarketDataSource(cfg, reg, nil, nil, logger.Nop(), nil)
	_, ok := src.(*marketdata.Manager)
	assert.True(t, ok)
}
