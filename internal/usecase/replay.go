package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/internal/services/backtest"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/logger"
	"Assemblief/pkg/util"
)

const (
	// MaxHoldBars caps the forward trade of a replay.
	MaxHoldBars = 10

	biasWindow = 20
)

var errReplayHistory = apperr.InsufficientData("Insufficient candles before selected date. Choose a later date.")

// Replayer reconstructs what the engine would have recommended on a past
// date and simulates the following trade.
type Replayer struct {
	source     domrepo.MarketDataSource
	classifier domsvc.RegimeClassifier
	backtester domsvc.Backtester
	strategies *signals.Set
	limit      int
	workers    int
	obs        observer
}

func NewReplayer(
	source domrepo.MarketDataSource,
	classifier domsvc.RegimeClassifier,
	backtester domsvc.Backtester,
	strategies *signals.Set,
	cfg RankerConfig,
	log *logger.Logger,
	metrics domrepo.Metrics,
	publisher domrepo.EvaluationPublisher,
) *Replayer {
	cfg.setDefaults()
	return &Replayer{
		source:     source,
		classifier: classifier,
		backtester: backtester,
		strategies: strategies,
		limit:      cfg.Limit,
		workers:    cfg.Workers,
		obs:        newObserver(log, metrics, publisher),
	}
}

// Replay fetches the series of asset and replays it at date (YYYY-MM-DD).
func (r *Replayer) Replay(ctx context.Context, asset, timeframe, date string) (res *models.ReplayResult, err error) {
	start := time.Now()
	defer func() {
		r.obs.finish(ctx, models.EventReplay, asset, timeframe, start, res, err)
	}()

	tf, err := domrepo.ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	day, err := util.ParseDate(date)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	s, err := r.source.GetSeries(ctx, asset, tf, r.limit)
	if err != nil {
		return nil, err
	}
	return r.ReplaySeries(s.Asset, tf, day, s.Candles)
}

// ReplaySeries replays candles at the end of day. Candles stamped at or
// before 23:59:59 UTC form the history; the rest are the forward bars.
func (r *Replayer) ReplaySeries(asset string, tf domrepo.Timeframe, day time.Time, candles []models.Candle) (*models.ReplayResult, error) {
	historical, forward := SplitAt(candles, util.EndOfDayUTC(day))
	if len(historical) < backtest.MinCandles {
		return nil, errReplayHistory
	}
	snap := r.classifier.Classify(historical)

	ids := r.strategies.IDs()
	ranked := make([]models.RankedSignal, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, id := range ids {
		g.Go(func() error {
			bt, err := r.backtester.Run(asset, tf, id, historical)
			if err != nil {
				return err
			}
			entry := rankEntry(r.strategies, bt, snap.CurrentRegime, stabilityInputs{
				crossAsset: util.Clamp100(bt.Robustness.MonteCarloScore),
				crossTime:  util.Clamp100(bt.Robustness.RobustnessScore),
			})
			entry.FullMetrics = &models.FullMetrics{
				Metrics:            bt.Metrics,
				OutOfSampleMetrics: bt.OutOfSampleMetrics,
				Robustness:         bt.Robustness,
			}
			ranked[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sortRanked(ranked)
	top := ranked[0]
	r.obs.confidence(top.Signal, top.ConfidenceScore)

	return &models.ReplayResult{
		Asset:        asset,
		Timeframe:    string(tf),
		Date:         day.Format(util.DateLayout),
		Regime:       snap,
		TopSignal:    top,
		TradeOutcome: SimulateOutcome(top.Signal, historical, forward),
		FullMetrics:  *top.FullMetrics,
	}, nil
}

// SplitAt partitions candles into those stamped at or before cutoff and the rest.
func SplitAt(candles []models.Candle, cutoff time.Time) (historical, forward []models.Candle) {
	for _, c := range candles {
		if c.Timestamp.After(cutoff) {
			forward = append(forward, c)
		} else {
			historical = append(historical, c)
		}
	}
	return historical, forward
}

// SimulateOutcome enters at the last historical close and exits at the close
// of the last held forward bar. Mean reversion flips the sign when recent
// closes sit at or above their trailing average.
func SimulateOutcome(strategyID string, historical, forward []models.Candle) models.TradeOutcome {
	entry := historical[len(historical)-1].Close
	if len(forward) == 0 {
		return models.TradeOutcome{
			EntryPrice: entry,
			ExitPrice:  entry,
			Status:     models.OutcomeNoForward,
		}
	}

	held := forward[:min(MaxHoldBars, len(forward))]
	exit := held[len(held)-1].Close

	bias := 1.0
	if strategyID == signals.MeanReversionV1 {
		closes := models.Closes(historical[max(0, len(historical)-biasWindow):])
		bias = backtest.Direction(closes, signals.MeanReversionV1)
	}
	raw := 0.0
	if entry != 0 {
		raw = (exit - entry) / entry * 100
	}
	return models.TradeOutcome{
		BarsHeld:   len(held),
		EntryPrice: util.Round(entry, 6),
		ExitPrice:  util.Round(exit, 6),
		ReturnPct:  util.Round(raw*bias, 4),
		Status:     models.OutcomeSimulated,
	}
}
