package metrics

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharwa/advisor/internal/domain"
)

// series builds a daily price sequence ending at end, oldest first.
func series(end time.Time, closes []float64) []PricePoint {
	points := make([]PricePoint, len(closes))
	for i, c := range closes {
		points[i] = PricePoint{
			Date:  end.AddDate(0, 0, -(len(closes) - 1 - i)),
			Close: c,
		}
	}
	return points
}

func fixedCalculator(now time.Time) *Calculator {
	c := NewCalculator(zerolog.Nop())
	c.now = func() time.Time { return now }
	return c
}

func TestCalculateEmptySeries(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	_, err := c.Calculate(nil)
	require.Error(t, err)

	var insufficient *domain.InsufficientDataError
	assert.ErrorAs(t, err, &insufficient)
}

func TestCalculateShortSeries(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	c := fixedCalculator(now)

	perf, err := c.Calculate(series(now, []float64{100, 105, 103, 110}))
	require.NoError(t, err)

	// Not enough history for any window return.
	assert.Nil(t, perf.OneYearReturn)
	assert.Nil(t, perf.ThreeYearReturn)
	assert.Nil(t, perf.FiveYearReturn)

	assert.Greater(t, perf.Volatility, 0.0)
	assert.GreaterOrEqual(t, perf.MaxDrawdown, 0.0)
	assert.LessOrEqual(t, perf.MaxDrawdown, 1.0)
}

func TestWindowReturns(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	c := fixedCalculator(now)

	// 300 flat closes then a final move to 120: the one-year window exists,
	// longer windows do not.
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100
	}
	closes[len(closes)-1] = 120

	perf, err := c.Calculate(series(now, closes))
	require.NoError(t, err)

	require.NotNil(t, perf.OneYearReturn)
	assert.InDelta(t, 0.20, *perf.OneYearReturn, 1e-9)
	assert.Nil(t, perf.ThreeYearReturn)
	assert.Nil(t, perf.FiveYearReturn)
}

func TestYTDReturn(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := fixedCalculator(now)

	// 90 days ending 2025-03-01: the series starts in December 2024, so the
	// YTD base is the first close dated in 2025.
	closes := make([]float64, 90)
	for i := range closes {
		closes[i] = 100
	}
	closes[len(closes)-1] = 110

	points := series(now, closes)
	perf, err := c.Calculate(points)
	require.NoError(t, err)

	require.NotNil(t, perf.YTDReturn)
	assert.InDelta(t, 0.10, *perf.YTDReturn, 1e-9)
}

func TestYTDReturnNoCurrentYearData(t *testing.T) {
	// Series ends in 2024, calculator thinks it is 2025.
	end := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)
	c := fixedCalculator(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	perf, err := c.Calculate(series(end, []float64{100, 101, 102, 103}))
	require.NoError(t, err)

	require.NotNil(t, perf.YTDReturn)
	assert.Equal(t, 0.0, *perf.YTDReturn)
}

func TestMaxDrawdownMatchesFormula(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	c := fixedCalculator(now)

	perf, err := c.Calculate(series(now, []float64{100, 200, 100, 150}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, perf.MaxDrawdown, 1e-12)
}
