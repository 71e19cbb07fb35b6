package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Assemblief/pkg/apperr"
)

func testRegistry() *Registry {
	return NewRegistry().
		Register(MarketCrypto, &fakeProvider{name: "binance"}).
		Register(MarketForex, &fakeProvider{name: "forex"}).
		Register(MarketFutures, &fakeProvider{name: "futures"})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		asset  string
		market string
		symbol string
	}{
		{"crypto:BTCUSDT", "crypto", "BTCUSDT"},
		{"FOREX:EURUSD", "forex", "EURUSD"},
		{"btcusdt", "crypto", "BTCUSDT"},
		{"GC=F", "futures", "GC"},
		{"eurusd=x", "forex", "EURUSD"},
		// unknown market prefix falls through to suffix rules
		{"spot:ETHUSDT", "crypto", "SPOT:ETHUSDT"},
	}
	r := testRegistry()
	for _, tt := range tests {
		t.Run(tt.asset, func(t *testing.T) {
			market, symbol, err := r.Resolve(tt.asset)
			require.NoError(t, err)
			assert.Equal(t, tt.market, market)
			assert.Equal(t, tt.symbol, symbol)
		})
	}
}

func TestResolveRejectsUnknown(t *testing.T) {
	r := testRegistry()
	for _, asset := range []string{"AAPL", "stock:AAPL", ""} {
		_, _, err := r.Resolve(asset)
		require.Error(t, err, asset)
		assert.True(t, apperr.IsValidation(err))
	}

	// suffix match needs a registered provider
	_, _, err := NewRegistry().Resolve("BTCUSDT")
	assert.True(t, apperr.IsValidation(err))
}

func TestRegistryMarkets(t *testing.T) {
	assert.Equal(t, []string{"crypto", "forex", "futures"}, testRegistry().Markets())
	p, ok := testRegistry().Provider("CRYPTO")
	require.True(t, ok)
	assert.Equal(t, "binance", p.Name())
}
