package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/logger"
)

// Benchmarks compared against when scoring cross-asset and cross-time stability.
var (
	DefaultCrossAssets     = []string{"crypto:BTCUSDT", "crypto:ETHUSDT", "forex:EURUSD"}
	DefaultCrossTimeframes = []domrepo.Timeframe{domrepo.TF5m, domrepo.TF1h, domrepo.TF1d}
)

type RankerConfig struct {
	Workers         int
	FetchTimeout    time.Duration
	Limit           int
	CrossAssets     []string
	CrossTimeframes []domrepo.Timeframe
}

func (c *RankerConfig) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.CrossAssets == nil {
		c.CrossAssets = DefaultCrossAssets
	}
	if c.CrossTimeframes == nil {
		c.CrossTimeframes = DefaultCrossTimeframes
	}
}

// Ranker scores every strategy on an asset and returns the most confident.
type Ranker struct {
	source     domrepo.MarketDataSource
	classifier domsvc.RegimeClassifier
	backtester domsvc.Backtester
	strategies *signals.Set
	cfg        RankerConfig
	obs        observer
}

func NewRanker(
	source domrepo.MarketDataSource,
	classifier domsvc.RegimeClassifier,
	backtester domsvc.Backtester,
	strategies *signals.Set,
	cfg RankerConfig,
	log *logger.Logger,
	metrics domrepo.Metrics,
	publisher domrepo.EvaluationPublisher,
) *Ranker {
	cfg.setDefaults()
	return &Ranker{
		source:     source,
		classifier: classifier,
		backtester: backtester,
		strategies: strategies,
		cfg:        cfg,
		obs:        newObserver(log, metrics, publisher),
	}
}

// crossSeries is a benchmark series fetched for one stability dimension.
type crossSeries struct {
	label  string
	series *models.MarketSeries
	tf     domrepo.Timeframe
}

// Rank evaluates all strategies on asset. Errors on the primary series fail
// the request. Benchmark fetches or backtests failing with a validation or
// upstream error are reported in Skipped and left out of the stability
// scores; other benchmark errors fail the request.
func (r *Ranker) Rank(ctx context.Context, asset, timeframe string) (res *models.RankResult, err error) {
	start := time.Now()
	defer func() {
		r.obs.finish(ctx, models.EventRank, asset, timeframe, start, res, err)
	}()

	tf, err := domrepo.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	primary, err := r.source.GetSeries(ctx, asset, tf, r.cfg.Limit)
	if err != nil {
		return nil, err
	}
	regime := r.classifier.Classify(primary.Candles).CurrentRegime

	ids := r.strategies.IDs()
	base := make([]*models.BacktestResult, len(ids))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, id := range ids {
		g.Go(func() error {
			bt, err := r.backtester.Run(primary.Asset, tf, id, primary.Candles)
			if err != nil {
				return err
			}
			base[i] = bt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	skipped := newSkipLog()
	assets, err := r.fetchCross(ctx, r.assetTargets(tf), skipped)
	if err != nil {
		return nil, err
	}
	times, err := r.fetchCross(ctx, r.timeTargets(asset), skipped)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.RankedSignal, len(ids))
	g = new(errgroup.Group)
	g.SetLimit(r.cfg.Workers)
	for i, id := range ids {
		g.Go(func() error {
			var cagrs, sharpes []float64
			for _, cs := range assets {
				m, ok, err := r.crossMetrics(cs, id, skipped)
				if err != nil {
					return err
				}
				if ok {
					cagrs = append(cagrs, m.CAGR)
				}
			}
			for _, cs := range times {
				m, ok, err := r.crossMetrics(cs, id, skipped)
				if err != nil {
					return err
				}
				if ok {
					sharpes = append(sharpes, m.Sharpe)
				}
			}
			ranked[i] = rankEntry(r.strategies, base[i], regime, stabilityInputs{
				crossAsset: crossAssetStability(cagrs),
				crossTime:  crossTimeStability(sharpes),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortRanked(ranked)
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	for _, rs := range ranked {
		r.obs.confidence(rs.Signal, rs.ConfidenceScore)
	}

	return &models.RankResult{
		Asset:      primary.Asset,
		Timeframe:  string(tf),
		Regime:     regime,
		TopSignals: ranked,
		Skipped:    skipped.snapshot(),
	}, nil
}

type crossTarget struct {
	asset string
	tf    domrepo.Timeframe
}

func (r *Ranker) assetTargets(tf domrepo.Timeframe) []crossTarget {
	out := make([]crossTarget, len(r.cfg.CrossAssets))
	for i, a := range r.cfg.CrossAssets {
		out[i] = crossTarget{asset: a, tf: tf}
	}
	return out
}

func (r *Ranker) timeTargets(asset string) []crossTarget {
	out := make([]crossTarget, len(r.cfg.CrossTimeframes))
	for i, tf := range r.cfg.CrossTimeframes {
		out[i] = crossTarget{asset: asset, tf: tf}
	}
	return out
}

// fetchCross loads benchmark series concurrently, each under its own
// timeout. Validation and upstream failures are logged to skipped and
// dropped; any other failure aborts the ranking.
func (r *Ranker) fetchCross(ctx context.Context, targets []crossTarget, skipped *skipLog) ([]crossSeries, error) {
	slots := make([]*crossSeries, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, t := range targets {
		g.Go(func() error {
			label := t.asset + "@" + string(t.tf)
			fctx, cancel := context.WithTimeout(gctx, r.cfg.FetchTimeout)
			defer cancel()
			s, err := r.source.GetSeries(fctx, t.asset, t.tf, r.cfg.Limit)
			if err != nil {
				if !skippable(err) {
					return err
				}
				skipped.add(label, err)
				r.obs.log.Debug("cross series skipped", logger.String("target", label), logger.Error(err))
				return nil
			}
			slots[i] = &crossSeries{label: label, series: s, tf: t.tf}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]crossSeries, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *Ranker) crossMetrics(cs crossSeries, id string, skipped *skipLog) (models.Metrics, bool, error) {
	bt, err := r.backtester.Run(cs.series.Asset, cs.tf, id, cs.series.Candles)
	if err != nil {
		if !skippable(err) {
			return models.Metrics{}, false, err
		}
		skipped.add(fmt.Sprintf("%s %s", id, cs.label), err)
		return models.Metrics{}, false, nil
	}
	return bt.OutOfSampleMetrics, true, nil
}

// skippable reports whether a benchmark failure may be left out of the
// stability scores.
func skippable(err error) bool {
	k := apperr.KindOf(err)
	return k == apperr.KindValidation || k == apperr.KindUpstream
}

// skipLog collects reasons for excluded benchmark evaluations.
type skipLog struct {
	mu      sync.Mutex
	reasons map[string]string
}

func newSkipLog() *skipLog {
	return &skipLog{reasons: map[string]string{}}
}

func (s *skipLog) add(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reasons[key] = err.Error()
}

func (s *skipLog) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reasons) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.reasons))
	for k, v := range s.reasons {
		out[k] = v
	}
	return out
}
