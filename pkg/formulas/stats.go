// Package formulas provides the shared statistical primitives used by the
// metrics calculator, the returns/covariance estimator and the simulators.
package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily statistics.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Covariance calculates the sample covariance between two equal-length series
func Covariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// DailyReturns converts a close-price series to simple daily returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
		}
	}
	return returns
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// Formula: StdDev of daily returns x sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// SharpeRatio calculates the annualized Sharpe ratio from daily returns.
// Returns 0 when volatility is 0 rather than dividing by zero.
func SharpeRatio(dailyReturns []float64, riskFreeRate float64) float64 {
	vol := AnnualizedVolatility(dailyReturns)
	if vol == 0 {
		return 0
	}
	annualized := Mean(dailyReturns) * TradingDaysPerYear
	return (annualized - riskFreeRate) / vol
}

// Percentile returns the p-th percentile (p in [0,100]) of the data using the
// empirical distribution. The input is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p/100.0, stat.Empirical, sorted, nil)
}

// Median returns the median of the data. The input is not modified.
func Median(data []float64) float64 {
	return Percentile(data, 50)
}
