package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "assemblief", c.App.Name)
	assert.Equal(t, 8000, c.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", c.Addr())
	assert.Equal(t, "sqlite", c.Store.Type)
	assert.Equal(t, 15*time.Minute, c.Store.MaxAge)
	assert.Equal(t, 300, c.MarketData.DefaultLimit)
	assert.Equal(t, uint32(3), c.Breaker.ConsecutiveFailures)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.Equal(t, 100, c.Kafka.BatchSize)
	assert.Equal(t, 50*time.Millisecond, c.Kafka.BatchTimeout)
	assert.Equal(t, 0.0005, c.Engine.TransactionCost)
	assert.Nil(t, c.Engine.Seed)
	assert.Nil(t, c.MarketData.CrossAssets)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
store:
  type: none
market_data:
  cross_assets: []
engine:
  seed: 42
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, c.Server.Port)
	assert.Equal(t, "none", c.Store.Type)
	assert.NotNil(t, c.MarketData.CrossAssets)
	assert.Empty(t, c.MarketData.CrossAssets)
	require.NotNil(t, c.Engine.Seed)
	assert.Equal(t, uint64(42), *c.Engine.Seed)
	// untouched sections keep defaults
	assert.Equal(t, "/metrics", c.Metrics.Path)
}

func TestLoadShippedConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"crypto:BTCUSDT", "crypto:ETHUSDT", "forex:EURUSD"}, c.MarketData.CrossAssets)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9200")
	t.Setenv("STORE_TYPE", "clickhouse")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDR", "cache:6379")

	c, err := LoadWithEnv("")
	require.NoError(t, err)
	assert.Equal(t, 9200, c.Server.Port)
	assert.Equal(t, "clickhouse", c.Store.Type)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, "cache:6379", c.Redis.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"bad store", "store:\n  type: mongo\n", "store.type"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"kafka without brokers", "kafka:\n  enabled: true\n", "kafka.brokers"},
		{"negative cost", "engine:\n  slippage: -0.1\n", "engine costs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.msg)
		})
	}

	_, err := Load("/does/not/exist.yaml")
	assert.ErrorContains(t, err, "read config")
}
