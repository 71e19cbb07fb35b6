package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"Assemblief/internal/domain/models"
	domrepo "Assemblief/internal/domain/repository"
	"Assemblief/internal/services/signals"
	"Assemblief/pkg/apperr"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine(WithSeed(42))
}

func candles(closes []float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Timestamp: base.Add(time.Duration(i) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return out
}

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func noisyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/4) + 4*math.Cos(float64(i)/1.7) + float64(i)*0.05
	}
	return out
}

func (s *EngineSuite) TestRejectsUnsupportedSignal() {
	_, err := s.engine.Run("crypto:BTCUSDT", domrepo.TF1h, "momentum_v9", candles(risingCloses(100)))
	s.Require().Error(err)
	s.True(apperr.IsValidation(err))
	s.Equal("Unsupported signal. Use trend_v1, mean_reversion_v1, or breakout_v1.", apperr.Message(err))
}

func (s *EngineSuite) TestRejectsShortSeries() {
	_, err := s.engine.Run("crypto:BTCUSDT", domrepo.TF1h, signals.TrendV1, candles(risingCloses(59)))
	s.Require().Error(err)
	s.True(apperr.IsValidation(err))
	s.ErrorIs(err, apperr.ErrInsufficientData)
	s.Contains(apperr.Message(err), "Need at least 60 candles")
}

func (s *EngineSuite) TestRisingSeriesTrend() {
	res, err := s.engine.Run("crypto:BTCUSDT", domrepo.TF1h, signals.TrendV1, candles(risingCloses(100)))
	s.Require().NoError(err)

	s.Len(res.EquityCurve, 100-TrainWindow+1)
	s.Len(res.DrawdownCurve, len(res.EquityCurve))
	s.Len(res.WalkForward.Trades, 100-TrainWindow)
	s.Equal(InitialCapital, res.EquityCurve[0])
	s.Equal(models.SampleSplit{InSamplePoints: 70, OutSamplePoints: 30}, res.Split)

	s.Greater(res.Metrics.CAGR, 0.0)
	s.Greater(res.Metrics.Sharpe, 0.0)
	s.InDelta(0, res.Metrics.MaxDrawdown, 1e-9)
	s.Zero(res.Metrics.Calmar)
	s.Equal(100.0, res.Metrics.WinRate)
	s.Equal(profitFactorSentinel, res.Metrics.ProfitFactor)
	for _, dd := range res.DrawdownCurve {
		s.LessOrEqual(dd, 0.0)
	}
	s.Equal(DefaultTransactionCost, res.TransactionCost)
	s.Equal(DefaultSlippage, res.Slippage)
}

func (s *EngineSuite) TestCurvesRespectFloorAndLength() {
	for _, id := range []string{signals.TrendV1, signals.MeanReversionV1, signals.BreakoutV1} {
		for _, n := range []int{60, 61, 150, 300} {
			res, err := s.engine.Run("forex:EURUSD", domrepo.TF1d, id, candles(noisyCloses(n)))
			s.Require().NoError(err)
			s.Len(res.EquityCurve, n-TrainWindow+1, "%s n=%d", id, n)
			for _, v := range res.EquityCurve {
				s.GreaterOrEqual(v, 1.0)
			}
			for _, dd := range res.DrawdownCurve {
				s.LessOrEqual(dd, 0.0)
			}
			s.GreaterOrEqual(res.Metrics.MaxDrawdown, 0.0)
			s.LessOrEqual(res.Metrics.MaxDrawdown, 100.0)
			s.GreaterOrEqual(res.Robustness.RobustnessScore, 0.0)
			s.LessOrEqual(res.Robustness.RobustnessScore, 100.0)
		}
	}
}

func (s *EngineSuite) TestEquityFloor() {
	e := NewEngine(WithCosts(0.9, 0.9))
	equity, trades := e.Simulate(risingCloses(40), signals.TrendV1)
	s.Len(trades, 20)
	for _, v := range equity[1:] {
		s.Equal(1.0, v)
	}
}

func (s *EngineSuite) TestZeroPriorCloseRepeatsEquity() {
	closes := risingCloses(25)
	closes[21] = 0
	equity, trades := s.engine.Simulate(closes, signals.TrendV1)
	s.Len(equity, 6)
	s.Len(trades, 4)
	s.Equal(equity[2], equity[3])
}

func (s *EngineSuite) TestSeededRunsAreReproducible() {
	series := candles(noisyCloses(200))
	a, err := NewEngine(WithSeed(7)).Run("crypto:ETHUSDT", domrepo.TF1h, signals.BreakoutV1, series)
	s.Require().NoError(err)
	b, err := NewEngine(WithSeed(7)).Run("crypto:ETHUSDT", domrepo.TF1h, signals.BreakoutV1, series)
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *EngineSuite) TestDirection() {
	up := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	down := []float64{8, 7, 6, 5, 4, 3, 2, 1}

	s.Equal(1.0, Direction(up, signals.TrendV1))
	s.Equal(1.0, Direction(up, signals.BreakoutV1))
	s.Equal(-1.0, Direction(up, signals.MeanReversionV1))
	s.Equal(-1.0, Direction(down, signals.TrendV1))
	s.Equal(1.0, Direction(down, signals.MeanReversionV1))
	// equal averages count as short >= long
	s.Equal(1.0, Direction([]float64{5, 5, 5}, signals.TrendV1))
	s.Zero(Direction([]float64{1, 2}, signals.TrendV1))
	s.Zero(Direction(up, "unknown"))
}

func (s *EngineSuite) TestFlatSeriesSharpeIsCostDriven() {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100
	}
	res, err := s.engine.Run("crypto:BTCUSDT", domrepo.TF1h, signals.TrendV1, candles(closes))
	s.Require().NoError(err)

	// only costs move the curve
	s.LessOrEqual(res.Metrics.CAGR, 0.0)
	s.LessOrEqual(res.Metrics.Sharpe, 0.0)
}
