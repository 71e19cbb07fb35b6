package backtest

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Assemblief/internal/domain/models"
)

func TestCalculateNeutralOnShortCurve(t *testing.T) {
	assert.Equal(t, models.Metrics{RiskOfRuin: 100}, Calculate(nil, nil))
	assert.Equal(t, models.Metrics{RiskOfRuin: 100}, Calculate([]float64{10000}, []float64{5}))
}

func TestCalculateIncreasingCurve(t *testing.T) {
	m := Calculate([]float64{100, 110, 121, 133.1}, []float64{10, 11, 12.1})
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.Calmar)
	assert.Zero(t, m.Sortino)
	assert.Greater(t, m.CAGR, 0.0)
	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 999.0, m.ProfitFactor)
	assert.Zero(t, m.RiskOfRuin)
}

func TestCalculateFlatCurve(t *testing.T) {
	equity := make([]float64, 50)
	for i := range equity {
		equity[i] = 10000
	}
	m := Calculate(equity, make([]float64, 49))
	assert.Zero(t, m.Sharpe)
	assert.Zero(t, m.Sortino)
	assert.Zero(t, m.MaxDrawdown)
	assert.Zero(t, m.CAGR)
	assert.Zero(t, m.ProfitFactor)
	assert.Zero(t, m.WinRate)
	assert.Equal(t, 100.0, m.RiskOfRuin)
}

func TestCalculateTradeStatistics(t *testing.T) {
	m := Calculate([]float64{100, 110, 105, 105, 108}, []float64{10, -5, 0, 3})

	assert.Equal(t, 2.6, m.ProfitFactor)
	assert.Equal(t, 50.0, m.WinRate)
	// 0.5*6.5 - 0.5*2.5
	assert.Equal(t, 2.0, m.Expectancy)
	assert.Equal(t, 50.0, m.RiskOfRuin)
	assert.InDelta(t, 100*5.0/110, m.MaxDrawdown, 1e-4)
	assert.NotZero(t, m.Calmar)
}

func TestMaxDrawdown(t *testing.T) {
	assert.Zero(t, MaxDrawdown(nil))
	assert.Zero(t, MaxDrawdown([]float64{1, 2, 2, 3}))
	assert.Equal(t, 50.0, MaxDrawdown([]float64{100, 50, 100}))
	assert.InDelta(t, 99.99, MaxDrawdown([]float64{10000, 1}), 1e-9)
	assert.Greater(t, MaxDrawdown([]float64{1, 2, 1.9, 3}), 0.0)
}

func TestMonteCarlo(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	assert.Zero(t, MonteCarlo([]float64{1, 2, 3, 4}, 200, rng))
	assert.Equal(t, 100.0, MonteCarlo([]float64{1, 1, 1, 1, 1}, 200, rng))
	assert.Zero(t, MonteCarlo([]float64{-1, -1, -1, -1, -1}, 200, rng))

	trades := []float64{5, -3, 2, -1, 4, -6, 1, 3}
	a := MonteCarlo(trades, 200, rand.New(rand.NewPCG(9, 9)))
	b := MonteCarlo(trades, 200, rand.New(rand.NewPCG(9, 9)))
	require.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.LessOrEqual(t, a, 100.0)
}

func TestParameterSensitivity(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"single score", []float64{1}, 0},
		{"zero mean", []float64{1, -1}, 0},
		{"identical", []float64{1.2, 1.2, 1.2, 1.2}, 100},
		{"half deviation", []float64{1, 3}, 50},
		{"floored", []float64{0.1, -0.05, 2, -1.9}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParameterSensitivity(tt.scores))
		})
	}
}

func TestEvaluateGate(t *testing.T) {
	base := Evaluate(10, 1, 60, 50)
	require.True(t, base.Passed)
	assert.Equal(t, 53.0, base.RobustnessScore)
	assert.Equal(t, 60.0, base.MonteCarloScore)
	assert.Equal(t, 50.0, base.SensitivityScore)

	assert.False(t, Evaluate(0, 1, 60, 50).Passed)
	assert.False(t, Evaluate(10, 0.25, 60, 50).Passed)
	assert.False(t, Evaluate(10, 1, 54.99, 50).Passed)
	assert.False(t, Evaluate(10, 1, 60, 44.99).Passed)

	assert.Equal(t, 100.0, Evaluate(500, 10, 100, 100).RobustnessScore)
	assert.Equal(t, 0.0, Evaluate(-500, -10, 0, 0).RobustnessScore)
}
