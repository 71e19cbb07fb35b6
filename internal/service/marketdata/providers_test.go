package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/service/ratelimit"
	"Assemblief/pkg/apperr"
	xhttp "Assemblief/pkg/http"
)

func TestBinanceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1h", q.Get("interval"))
		assert.Equal(t, "1000", q.Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[1709251200000,"100.5","101","99.5","100.8","12.5",1709254799999,"0",10],
			[1709254800000,"100.8","102","100","101.9","8",1709258399999,"0",8]
		]`))
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, xhttp.NewClient(), ratelimit.New(100, 10))
	candles, err := p.FetchOHLCV(context.Background(), "btcusdt", domrepo.TF1h, 5000)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.UnixMilli(1709251200000).UTC(), candles[0].Timestamp)
	assert.Equal(t, 100.5, candles[0].Open)
	assert.Equal(t, 101.0, candles[0].High)
	assert.Equal(t, 99.5, candles[0].Low)
	assert.Equal(t, 100.8, candles[0].Close)
	assert.Equal(t, 12.5, candles[0].Volume)
	assert.Equal(t, "binance", p.Name())
}

func TestBinanceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, xhttp.NewClient(), nil)
	_, err := p.FetchOHLCV(context.Background(), "NOPEUSDT", domrepo.TF1h, 10)
	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
}

func TestBinanceMalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1709251200000,"1","2"]]`))
	}))
	defer srv.Close()

	_, err := NewBinanceProvider(srv.URL, xhttp.NewClient(), nil).FetchOHLCV(context.Background(), "BTCUSDT", domrepo.TF1h, 10)
	assert.ErrorContains(t, err, "short row")
}

func TestYahooFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/EURUSD=X", r.URL.Path)
		assert.Equal(t, "60m", r.URL.Query().Get("interval"))
		assert.Equal(t, "730d", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1709251200,1709254800,1709258400,1709262000],
			"indicators":{"quote":[{
				"open":[1.08,1.081,null,1.083],
				"high":[1.09,1.091,1.092,1.093],
				"low":[1.07,1.071,1.072,1.073],
				"close":[1.085,1.086,1.087,1.088],
				"volume":[0,null,0,0]
			}]}
		}]}}`))
	}))
	defer srv.Close()

	p := NewForexProvider(srv.URL, xhttp.NewClient(), nil)
	candles, err := p.FetchOHLCV(context.Background(), "EURUSD", domrepo.TF1h, 2)
	require.NoError(t, err)
	// null open row dropped, then the last two kept
	require.Len(t, candles, 2)
	assert.Equal(t, time.Unix(1709254800, 0).UTC(), candles[0].Timestamp)
	assert.Zero(t, candles[0].Volume)
	assert.Equal(t, 1.088, candles[1].Close)
	assert.Equal(t, "forex", p.Name())
}

func TestYahooNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/GC=F", r.URL.Path)
		_, _ = w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer srv.Close()

	_, err := NewFuturesProvider(srv.URL, xhttp.NewClient(), nil).FetchOHLCV(context.Background(), "GC=F", domrepo.TF1d, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, "No market data returned for symbol 'GC=F'", apperr.Message(err))
}

func TestProviderRejectsBadTimeframe(t *testing.T) {
	p := NewBinanceProvider("http://unused", xhttp.NewClient(), nil)
	_, err := p.FetchOHLCV(context.Background(), "BTCUSDT", domrepo.Timeframe("3h"), 10)
	assert.True(t, apperr.IsValidation(err))
}
