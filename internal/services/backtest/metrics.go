package backtest

import (
	"math"

	"Assemblief/internal/domain/models"
	"Assemblief/internal/services/indicators"
	"Assemblief/pkg/util"
)

const (
	profitFactorSentinel = 999.0
	ruinTradeBucket      = 5
)

// Calculate derives annualized performance metrics from an equity curve and
// its trade P&L list. Curves with fewer than two points get neutral metrics
// with the worst-case risk of ruin.
func Calculate(equity, trades []float64) models.Metrics {
	if len(equity) < 2 {
		return models.Metrics{RiskOfRuin: 100}
	}
	annual := math.Sqrt(indicators.TradingPeriods)

	rets := indicators.Returns(equity)
	avg := indicators.Mean(rets)
	variance := 0.0
	var downSq []float64
	for _, r := range rets {
		variance += (r - avg) * (r - avg)
		if r < 0 {
			downSq = append(downSq, r*r)
		}
	}
	if len(rets) > 0 {
		variance /= float64(len(rets))
	}
	std := math.Sqrt(variance)
	downside := 0.0
	if len(downSq) > 0 {
		downside = math.Sqrt(indicators.Mean(downSq))
	}

	// Only an exactly zero std yields a zero Sharpe. A flat price series
	// still pays costs every step, so its returns differ only by rounding
	// noise and Sharpe comes out as a large negative number.
	sharpe, sortino := 0.0, 0.0
	if std > 0 {
		sharpe = avg / std * annual
	}
	if downside > 0 {
		sortino = avg / downside * annual
	}

	years := max(1.0/indicators.TradingPeriods, float64(len(rets))/indicators.TradingPeriods)
	cagr := 0.0
	if equity[0] > 0 {
		cagr = math.Pow(equity[len(equity)-1]/equity[0], 1/years) - 1
	}

	mdd := maxDrawdown(equity)
	calmar := 0.0
	if mdd > 0 {
		calmar = cagr / mdd
	}

	var gains, losses float64
	var wins, lossCount int
	for _, t := range trades {
		if t > 0 {
			gains += t
			wins++
		} else {
			losses += -t
			lossCount++
		}
	}
	profitFactor := 0.0
	switch {
	case losses > 0:
		profitFactor = gains / losses
	case gains > 0:
		profitFactor = profitFactorSentinel
	}

	tradeCount := max(1, len(trades))
	winRate := float64(wins) / float64(tradeCount)
	avgWin, avgLoss := 0.0, 0.0
	if wins > 0 {
		avgWin = gains / float64(wins)
	}
	if lossCount > 0 {
		avgLoss = losses / float64(lossCount)
	}
	expectancy := winRate*avgWin - (1-winRate)*avgLoss

	ruinBase := util.Clamp(1-winRate, 0, 1)
	ruin := min(100, math.Pow(ruinBase, float64(max(1, tradeCount/ruinTradeBucket)))*100)

	return models.Metrics{
		CAGR:         util.Round(cagr*100, 4),
		Sharpe:       util.Round(sharpe, 4),
		Sortino:      util.Round(sortino, 4),
		Calmar:       util.Round(calmar, 4),
		MaxDrawdown:  util.Round(mdd*100, 4),
		ProfitFactor: util.Round(profitFactor, 4),
		Expectancy:   util.Round(expectancy, 6),
		RiskOfRuin:   util.Round(ruin, 4),
		WinRate:      util.Round(winRate*100, 4),
	}
}

// MaxDrawdown returns the largest peak-to-trough decline of a curve in percent.
func MaxDrawdown(equity []float64) float64 {
	return maxDrawdown(equity) * 100
}

func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak, worst := equity[0], 0.0
	for _, v := range equity {
		peak = max(peak, v)
		if peak > 0 {
			worst = min(worst, (v-peak)/peak)
		}
	}
	return math.Abs(worst)
}
