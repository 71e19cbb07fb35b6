// Package marketdata resolves assets to upstream providers and serves
// normalized candle series, backed by an optional store and cache.
package marketdata

import (
	"sort"
	"strings"

	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/pkg/apperr"
)

// Market names understood by the resolver.
const (
	MarketCrypto  = "crypto"
	MarketForex   = "forex"
	MarketFutures = "futures"
)

var errUnresolvable = apperr.Validation("Asset must include market prefix (crypto:, forex:, futures:) or a known symbol suffix")

// Registry maps market names to providers. It is built once at startup.
type Registry struct {
	providers map[string]domrepo.MarketProvider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]domrepo.MarketProvider)}
}

// Register binds market to p, replacing any previous binding.
func (r *Registry) Register(market string, p domrepo.MarketProvider) *Registry {
	r.providers[strings.ToLower(market)] = p
	return r
}

// Provider returns the provider bound to market.
func (r *Registry) Provider(market string) (domrepo.MarketProvider, bool) {
	p, ok := r.providers[strings.ToLower(market)]
	return p, ok
}

// Markets lists registered market names in sorted order.
func (r *Registry) Markets() []string {
	out := make([]string, 0, len(r.providers))
	for m := range r.providers {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Resolve splits an asset into market and symbol. A registered "market:"
// prefix wins; otherwise the upper-cased symbol suffix decides: USDT is
// crypto, =F is futures and =X is forex (the suffix is stripped).
func (r *Registry) Resolve(asset string) (market, symbol string, err error) {
	if m, s, ok := strings.Cut(asset, ":"); ok {
		m = strings.ToLower(m)
		if _, known := r.providers[m]; known {
			return m, s, nil
		}
	}
	sym := strings.ToUpper(asset)
	switch {
	case strings.HasSuffix(sym, "USDT"):
		market, symbol = MarketCrypto, sym
	case strings.HasSuffix(sym, "=F"):
		market, symbol = MarketFutures, strings.TrimSuffix(sym, "=F")
	case strings.HasSuffix(sym, "=X"):
		market, symbol = MarketForex, strings.TrimSuffix(sym, "=X")
	default:
		return "", "", errUnresolvable
	}
	if _, known := r.providers[market]; !known {
		return "", "", errUnresolvable
	}
	return market, symbol, nil
}
