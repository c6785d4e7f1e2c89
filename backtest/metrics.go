package backtest

import "math"

// TradingDaysPerYear annualizes Sharpe for daily bars.
const TradingDaysPerYear = 252

// Metrics summarizes an equity curve.
type Metrics struct {
	TotalReturn float64 // final/initial - 1
	MaxDrawdown float64 // largest peak-to-trough loss as a positive fraction
	SharpeRatio float64 // annualized, zero risk-free rate
}

func (r Result) Metrics() Metrics {
	return calculateMetrics(r.Equity, TradingDaysPerYear)
}

func calculateMetrics(equity []float64, periodsPerYear float64) Metrics {
	if len(equity) == 0 {
		return Metrics{}
	}

	initial := equity[0]
	final := equity[len(equity)-1]
	total := 0.0
	if initial > 0 {
		total = final/initial - 1
	}

	return Metrics{
		TotalReturn: total,
		MaxDrawdown: computeDrawdown(equity),
		SharpeRatio: computeSharpe(stepReturns(equity), periodsPerYear),
	}
}

func stepReturns(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}
		out = append(out, equity[i]/equity[i-1]-1)
	}
	return out
}

func computeDrawdown(equity []float64) float64 {
	var peak float64
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}
	return math.Abs(maxDD)
}

func computeSharpe(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}
