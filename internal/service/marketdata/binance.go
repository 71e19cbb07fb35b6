package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	xhttp "Assemblief/pkg/http"
)

const (
	DefaultBinanceURL = "https://api.binance.com"

	binanceMaxLimit = 1000
)

// Pacer throttles outbound calls per key.
type Pacer interface {
	Wait(ctx context.Context, key string) error
}

// BinanceProvider fetches crypto klines from the Binance public REST API.
type BinanceProvider struct {
	baseURL string
	client  *xhttp.Client
	pacer   Pacer
}

func NewBinanceProvider(baseURL string, client *xhttp.Client, pacer Pacer) *BinanceProvider {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	return &BinanceProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client, pacer: pacer}
}

func (p *BinanceProvider) Name() string { return "binance" }

// FetchOHLCV returns up to min(limit, 1000) klines in exchange order.
func (p *BinanceProvider) FetchOHLCV(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	if _, err := domrepo.ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx, p.Name()); err != nil {
			return nil, fmt.Errorf("binance pacing: %w", err)
		}
	}

	var rows [][]json.RawMessage
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/api/v3/klines",
		QueryParams: map[string][]string{
			"symbol":   {strings.ToUpper(symbol)},
			"interval": {string(tf)},
			"limit":    {strconv.Itoa(min(limit, binanceMaxLimit))},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", symbol, err)
	}

	out := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("binance kline %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// parseKline decodes [openTime, open, high, low, close, volume, ...] where
// prices are JSON strings.
func parseKline(row []json.RawMessage) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("short row: %d fields", len(row))
	}
	var openTime int64
	if err := json.Unmarshal(row[0], &openTime); err != nil {
		return models.Candle{}, fmt.Errorf("open time: %w", err)
	}
	vals := make([]float64, 5)
	for i := range vals {
		v, err := rawFloat(row[i+1])
		if err != nil {
			return models.Candle{}, err
		}
		vals[i] = v
	}
	return models.Candle{
		Timestamp: time.UnixMilli(openTime).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}

func rawFloat(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	return f, nil
}
