// Package backtest simulates the directional heuristic behind each strategy id
// and derives performance and robustness statistics from the result.
package backtest

import (
	"math/rand/v2"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	domsvc "Assemblief/internal/domain/service"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/apperr"
	"Assemblief/pkg/util"
)

const (
	// MinCandles is the shortest series a backtest accepts.
	MinCandles = 60
	// InitialCapital seeds every equity curve.
	InitialCapital = 10000.0
	// TrainWindow is the rolling window of the walk-forward pass.
	TrainWindow = 40
	// SimulationWindow is the rolling window of out-of-sample simulations.
	SimulationWindow = 20

	DefaultTransactionCost = 0.0005
	DefaultSlippage        = 0.0008
	DefaultSimulations     = 200

	inSampleRatio = 0.7
	shortWindow   = 5
	equityFloor   = 1.0
)

var sensitivityShifts = []int{10, 15, 20, 25}

var (
	errUnsupportedSignal = apperr.Validation("Unsupported signal. Use trend_v1, mean_reversion_v1, or breakout_v1.")
	errInsufficientData  = apperr.InsufficientData("Insufficient data for backtesting. Need at least 60 candles.")
)

// Engine runs walk-forward and out-of-sample simulations. It holds no
// per-run state and is safe for concurrent use.
type Engine struct {
	transactionCost float64
	slippage        float64
	simulations     int
	seed            *uint64
}

type Option func(*Engine)

// WithCosts overrides the per-trade transaction cost and slippage.
func WithCosts(transactionCost, slippage float64) Option {
	return func(e *Engine) {
		e.transactionCost = transactionCost
		e.slippage = slippage
	}
}

// WithSeed makes Monte Carlo resampling deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = &seed }
}

// WithSimulations sets the number of Monte Carlo resamples.
func WithSimulations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.simulations = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		transactionCost: DefaultTransactionCost,
		slippage:        DefaultSlippage,
		simulations:     DefaultSimulations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run backtests strategyID over candles.
func (e *Engine) Run(asset string, tf domrepo.Timeframe, strategyID string, candles []models.Candle) (*models.BacktestResult, error) {
	if !Supported(strategyID) {
		return nil, errUnsupportedSignal
	}
	if len(candles) < MinCandles {
		return nil, errInsufficientData
	}

	closes := models.Closes(candles)
	split := int(float64(len(closes)) * inSampleRatio)
	outSample := closes[split:]

	wf := e.WalkForward(closes, strategyID)
	oosEquity, oosTrades := e.Simulate(outSample, strategyID)

	overall := Calculate(wf.EquityCurve, wf.Trades)
	oos := Calculate(oosEquity, oosTrades)

	mc := MonteCarlo(oosTrades, e.simulations, e.rng())
	sens := e.sensitivity(closes, strategyID)

	return &models.BacktestResult{
		Asset:              asset,
		Timeframe:          string(tf),
		Signal:             strategyID,
		WalkForward:        wf,
		Split:              models.SampleSplit{InSamplePoints: split, OutSamplePoints: len(outSample)},
		TransactionCost:    e.transactionCost,
		Slippage:           e.slippage,
		Metrics:            overall,
		OutOfSampleMetrics: oos,
		Robustness:         Evaluate(oos.CAGR, oos.Sharpe, mc, sens),
		EquityCurve:        wf.EquityCurve,
		DrawdownCurve:      wf.DrawdownCurve,
	}, nil
}

// WalkForward steps through closes with a rolling training window and
// returns rounded equity, drawdown and trade curves.
func (e *Engine) WalkForward(closes []float64, strategyID string) models.WalkForward {
	equity, trades := e.step(closes, TrainWindow, strategyID)

	out := models.WalkForward{
		EquityCurve:   make([]float64, len(equity)),
		DrawdownCurve: make([]float64, len(equity)),
		Trades:        make([]float64, len(trades)),
	}
	peak := equity[0]
	for i, v := range equity {
		peak = max(peak, v)
		dd := 0.0
		if peak != 0 {
			dd = (v - peak) / peak * 100
		}
		out.EquityCurve[i] = util.Round(v, 4)
		out.DrawdownCurve[i] = util.Round(dd, 4)
	}
	for i, t := range trades {
		out.Trades[i] = util.Round(t, 6)
	}
	return out
}

// Simulate runs the out-of-sample mechanics over closes without rounding.
func (e *Engine) Simulate(closes []float64, strategyID string) (equity, trades []float64) {
	return e.step(closes, SimulationWindow, strategyID)
}

func (e *Engine) step(closes []float64, window int, strategyID string) ([]float64, []float64) {
	equity := []float64{InitialCapital}
	var trades []float64
	for i := window; i < len(closes); i++ {
		last := equity[len(equity)-1]
		prev := closes[i-1]
		if prev == 0 {
			equity = append(equity, last)
			continue
		}
		dir := Direction(closes[i-window:i], strategyID)
		ret := dir*(closes[i]-prev)/prev - e.transactionCost - e.slippage
		pnl := last * ret
		trades = append(trades, pnl)
		equity = append(equity, max(equityFloor, last+pnl))
	}
	return equity, trades
}

func (e *Engine) sensitivity(closes []float64, strategyID string) float64 {
	scores := make([]float64, 0, len(sensitivityShifts))
	for _, shift := range sensitivityShifts {
		subset := closes
		if n := shift + TrainWindow; len(closes) > n {
			subset = closes[len(closes)-n:]
		}
		equity, trades := e.Simulate(subset, strategyID)
		scores = append(scores, Calculate(equity, trades).Sharpe)
	}
	return ParameterSensitivity(scores)
}

func (e *Engine) rng() *rand.Rand {
	if e.seed != nil {
		return rand.New(rand.NewPCG(*e.seed, *e.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Supported reports whether id names a backtestable strategy.
func Supported(id string) bool {
	switch id {
	case signals.TrendV1, signals.MeanReversionV1, signals.BreakoutV1:
		return true
	}
	return false
}

// Direction compares the mean of the last five closes with the mean of the
// whole window: +1 (long) or -1 (short) for trend and breakout ids, inverted
// for mean reversion. Fewer than three closes, or an unknown id, yield 0.
func Direction(closes []float64, strategyID string) float64 {
	if len(closes) < 3 {
		return 0
	}
	recent := closes[max(0, len(closes)-shortWindow):]
	short := sum(recent) / float64(len(recent))
	long := sum(closes) / float64(len(closes))

	switch strategyID {
	case signals.TrendV1, signals.BreakoutV1:
		if short >= long {
			return 1
		}
		return -1
	case signals.MeanReversionV1:
		if short >= long {
			return -1
		}
		return 1
	}
	return 0
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

var _ domsvc.Backtester = (*Engine)(nil)
