package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Assemblief/internal/domain/models"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want float64
	}{
		{
			name: "all factors perfect",
			in: Inputs{
				OutSamplePerformance: 100, CrossAssetStability: 100, CrossTimeStability: 100,
				RegimeAlignment: 100, ParameterRobustness: 100, DrawdownControl: 100,
				InSampleCAGR: 10, OutSampleCAGR: 10,
			},
			want: 100,
		},
		{
			name: "penalties exceed base",
			in:   Inputs{InSampleCAGR: 500, OutSampleCAGR: -500},
			want: 0,
		},
		{
			name: "aligned strategy with mid factors",
			// base 0.24*50+0.16*50+0.14*50+0.16*95+0.16*80+0.14*90 = 67.6
			// penalties 0 + 8 + 1.75
			in: Inputs{
				OutSamplePerformance: 50, CrossAssetStability: 50, CrossTimeStability: 50,
				RegimeAlignment: 95, ParameterRobustness: 80, DrawdownControl: 90,
				InSampleCAGR: -5, OutSampleCAGR: 3,
			},
			want: 57.85,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Confidence(tt.in))
		})
	}
}

func TestConfidenceIsBounded(t *testing.T) {
	vals := []float64{0, 0.5, 25, 50, 99.99, 100}
	for _, a := range vals {
		for _, b := range vals {
			for _, c := range vals {
				got := Confidence(Inputs{
					OutSamplePerformance: a, CrossAssetStability: b, CrossTimeStability: c,
					RegimeAlignment: a, ParameterRobustness: b, DrawdownControl: c,
					InSampleCAGR: a, OutSampleCAGR: -c,
				})
				assert.GreaterOrEqual(t, got, 0.0)
				assert.LessOrEqual(t, got, 100.0)
			}
		}
	}
}

func TestPenalties(t *testing.T) {
	assert.Zero(t, OverfittingPenalty(0, -50))
	assert.Zero(t, OverfittingPenalty(10, 20))
	assert.InDelta(t, 6.0, OverfittingPenalty(20, 10), 1e-9)
	assert.Equal(t, 100.0, OverfittingPenalty(1000, 0))

	assert.Equal(t, 40.0, SensitivityPenalty(0))
	assert.Zero(t, SensitivityPenalty(100))
	assert.InDelta(t, 21.0, RegimeFitPenalty(40), 1e-9)
	assert.InDelta(t, 1.75, RegimeFitPenalty(95), 1e-9)
}

func TestFactorHelpers(t *testing.T) {
	assert.Equal(t, 100.0, OutSamplePerformance(models.Metrics{CAGR: 200, Sharpe: 3}))
	assert.Zero(t, OutSamplePerformance(models.Metrics{CAGR: -20, Sharpe: -1}))
	assert.InDelta(t, 16.0, OutSamplePerformance(models.Metrics{CAGR: 10, Sharpe: 1}), 1e-9)

	assert.Equal(t, 88.0, DrawdownControl(models.Metrics{MaxDrawdown: 12}))
	assert.Zero(t, DrawdownControl(models.Metrics{MaxDrawdown: 100}))

	assert.Equal(t, 95.0, RegimeAlignment(true))
	assert.Equal(t, 40.0, RegimeAlignment(false))
}
