// Package metrics derives return and risk statistics from price histories.
package metrics

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/domain"
	"github.com/tharwa/advisor/pkg/formulas"
)

// RiskFreeRate is the annual risk-free rate assumed in Sharpe ratios.
// Standardized at 2% across the whole engine.
const RiskFreeRate = 0.02

// Trading-day offsets for the window returns.
const (
	oneYearDays   = 252
	threeYearDays = 756
	fiveYearDays  = 1260
)

// PricePoint is the (date, close) slice of a history row needed here.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// Performance holds the derived statistics for one symbol. Window returns are
// nil when the history is shorter than the window.
type Performance struct {
	YTDReturn       *float64
	OneYearReturn   *float64
	ThreeYearReturn *float64
	FiveYearReturn  *float64
	Volatility      float64
	SharpeRatio     float64
	MaxDrawdown     float64
}

// Calculator computes performance metrics from ordered price series.
type Calculator struct {
	now func() time.Time
	log zerolog.Logger
}

// NewCalculator creates a performance metrics calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		now: time.Now,
		log: log.With().Str("component", "metrics").Logger(),
	}
}

// Calculate derives all metrics for one ordered price series (oldest first).
// An empty series is an error; window metrics degrade to nil instead.
func (c *Calculator) Calculate(points []PricePoint) (*Performance, error) {
	if len(points) == 0 {
		return nil, &domain.InsufficientDataError{Needed: 1, Got: 0}
	}

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	dailyReturns := formulas.DailyReturns(closes)
	volatility := formulas.AnnualizedVolatility(dailyReturns)

	perf := &Performance{
		YTDReturn:       c.ytdReturn(points, closes),
		OneYearReturn:   windowReturn(closes, oneYearDays),
		ThreeYearReturn: windowReturn(closes, threeYearDays),
		FiveYearReturn:  windowReturn(closes, fiveYearDays),
		Volatility:      volatility,
		SharpeRatio:     formulas.SharpeRatio(dailyReturns, RiskFreeRate),
		MaxDrawdown:     formulas.MaxDrawdown(closes),
	}

	return perf, nil
}

// ytdReturn measures the move from the first close of the current year.
// A series with no observation in the current year yields 0.
func (c *Calculator) ytdReturn(points []PricePoint, closes []float64) *float64 {
	currentYear := c.now().Year()

	for i, p := range points {
		if p.Date.Year() == currentYear {
			if i >= len(closes)-1 {
				break
			}
			if closes[i] == 0 {
				break
			}
			r := (closes[len(closes)-1] - closes[i]) / closes[i]
			return &r
		}
	}

	zero := 0.0
	return &zero
}

// windowReturn is the simple return over the trailing window, nil when the
// series is shorter than the window offset.
func windowReturn(closes []float64, offset int) *float64 {
	if len(closes) < offset {
		return nil
	}
	base := closes[len(closes)-offset]
	if base == 0 {
		return nil
	}
	r := (closes[len(closes)-1] - base) / base
	return &r
}
