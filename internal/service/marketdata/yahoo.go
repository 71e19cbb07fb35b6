package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
	xhttp "Assemblief/pkg/http"
)

const DefaultYahooURL = "https://query1.finance.yahoo.com"

var yahooIntervals = map[domrepo.Timeframe]string{
	domrepo.TF1m: "1m",
	domrepo.TF5m: "5m",
	domrepo.TF1h: "60m",
	domrepo.TF1d: "1d",
	domrepo.TF1w: "1wk",
}

var yahooRanges = map[domrepo.Timeframe]string{
	domrepo.TF1m: "7d",
	domrepo.TF5m: "30d",
	domrepo.TF1h: "730d",
	domrepo.TF1d: "10y",
	domrepo.TF1w: "10y",
}

// YahooProvider reads the Yahoo Finance chart API. Forex and futures differ
// only in the symbol suffix.
type YahooProvider struct {
	name    string
	suffix  string
	baseURL string
	client  *xhttp.Client
	pacer   Pacer
}

func NewForexProvider(baseURL string, client *xhttp.Client, pacer Pacer) *YahooProvider {
	return newYahooProvider("forex", "=X", baseURL, client, pacer)
}

func NewFuturesProvider(baseURL string, client *xhttp.Client, pacer Pacer) *YahooProvider {
	return newYahooProvider("futures", "=F", baseURL, client, pacer)
}

func newYahooProvider(name, suffix, baseURL string, client *xhttp.Client, pacer Pacer) *YahooProvider {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	return &YahooProvider{name: name, suffix: suffix, baseURL: strings.TrimRight(baseURL, "/"), client: client, pacer: pacer}
}

func (p *YahooProvider) Name() string { return p.name }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchOHLCV returns the last limit complete bars. Bars with a missing
// price are skipped.
func (p *YahooProvider) FetchOHLCV(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	if _, err := domrepo.ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(symbol, p.suffix) {
		symbol += p.suffix
	}
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx, p.name); err != nil {
			return nil, fmt.Errorf("%s pacing: %w", p.name, err)
		}
	}

	var payload yahooChart
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol),
		QueryParams: map[string][]string{
			"interval":       {yahooIntervals[tf]},
			"range":          {yahooRanges[tf]},
			"includePrePost": {"false"},
			"events":         {"div,splits"},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, apperr.Validationf("No market data returned for symbol '%s'", symbol)
	}

	res := payload.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, nil
	}
	q := res.Indicators.Quote[0]
	out := make([]models.Candle, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		o, h, l, c := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		vol := 0.0
		if v := at(q.Volume, i); v != nil {
			vol = *v
		}
		out = append(out, models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *o,
			High:      *h,
			Low:       *l,
			Close:     *c,
			Volume:    vol,
		})
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}
