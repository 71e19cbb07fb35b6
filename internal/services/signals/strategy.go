// Package signals holds the fixed set of rule-based trade strategies.
package signals

import (
	"slices"
	"sort"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/pkg/util"
)

// Strategy ids accepted by the backtester and ranker.
const (
	TrendV1         = "trend_v1"
	MeanReversionV1 = "mean_reversion_v1"
	BreakoutV1      = "breakout_v1"
)

// Strategy emits at most one candidate for a series.
type Strategy interface {
	ID() string
	Label() string
	Regimes() []models.Regime
	Timeframes() []string
	// Generate returns false when the regime or timeframe is incompatible or
	// the series is too short for the rule.
	Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) (models.SignalCandidate, bool)
}

// profile carries the static compatibility data of a strategy.
type profile struct {
	id         string
	label      string
	regimes    []models.Regime
	timeframes []string
}

func (p profile) ID() string               { return p.id }
func (p profile) Label() string            { return p.label }
func (p profile) Regimes() []models.Regime { return slices.Clone(p.regimes) }
func (p profile) Timeframes() []string     { return slices.Clone(p.timeframes) }

func (p profile) compatible(tf domrepo.Timeframe, regime models.Regime) bool {
	return slices.Contains(p.timeframes, string(tf)) && slices.Contains(p.regimes, regime)
}

func (p profile) candidate(dir models.Direction, entry, exit string, stop, rr, score float64, params, meta map[string]any) models.SignalCandidate {
	return models.SignalCandidate{
		StrategyLabel:        p.label,
		Version:              "v1",
		Direction:            dir,
		EntryRule:            entry,
		ExitRule:             exit,
		StopLoss:             stop,
		RiskReward:           rr,
		CompatibleRegimes:    p.Regimes(),
		CompatibleTimeframes: p.Timeframes(),
		Parameters:           params,
		PerformanceScore:     util.Round(max(0, score), 2),
		Metadata:             meta,
	}
}

// Set is the ordered collection of strategies.
type Set struct {
	strategies []Strategy
}

// NewSet returns the default strategies in evaluation order.
func NewSet() *Set {
	return &Set{strategies: []Strategy{NewTrend(), NewMeanReversion(), NewBreakout()}}
}

// IDs lists strategy ids in evaluation order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		out[i] = st.ID()
	}
	return out
}

// Lookup finds a strategy by id.
func (s *Set) Lookup(id string) (Strategy, bool) {
	for _, st := range s.strategies {
		if st.ID() == id {
			return st, true
		}
	}
	return nil, false
}

// Supports reports whether regime is a natural regime of the strategy id.
func (s *Set) Supports(id string, regime models.Regime) bool {
	st, ok := s.Lookup(id)
	return ok && slices.Contains(st.Regimes(), regime)
}

// Generate runs every strategy and returns candidates by descending score.
func (s *Set) Generate(asset string, tf domrepo.Timeframe, candles []models.Candle, regime models.Regime) []models.SignalCandidate {
	out := make([]models.SignalCandidate, 0, len(s.strategies))
	for _, st := range s.strategies {
		if c, ok := st.Generate(asset, tf, candles, regime); ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformanceScore > out[j].PerformanceScore
	})
	return out
}

var _ domsvc.SignalGenerator = (*Set)(nil)
