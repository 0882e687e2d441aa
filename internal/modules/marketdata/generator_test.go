package marketdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec(days int, seed uint64) Spec {
	return Spec{
		Category:  "ETF",
		Market:    "US",
		RiskLevel: 6,
		Days:      days,
		Seed:      seed,
	}
}

func TestSeriesReproducible(t *testing.T) {
	g := NewGenerator(zerolog.Nop())

	collect := func() []float64 {
		series := g.NewSeries(testSpec(100, 42))
		var prices []float64
		for {
			p, ok := series.Next()
			if !ok {
				break
			}
			prices = append(prices, p)
		}
		return prices
	}

	first := collect()
	second := collect()

	require.Len(t, first, 100)
	assert.Equal(t, first, second)
}

func TestSeriesSeedsDiverge(t *testing.T) {
	g := NewGenerator(zerolog.Nop())

	a := g.NewSeries(testSpec(50, 1))
	b := g.NewSeries(testSpec(50, 2))

	diverged := false
	for {
		pa, okA := a.Next()
		pb, okB := b.Next()
		require.Equal(t, okA, okB)
		if !okA {
			break
		}
		if pa != pb {
			diverged = true
		}
	}
	assert.True(t, diverged)
}

func TestSeriesStaysAboveFloor(t *testing.T) {
	g := NewGenerator(zerolog.Nop())

	// High risk keeps volatility up; even so, prices never cross the floor.
	series := g.NewSeries(Spec{Category: "Stock", Market: "US", RiskLevel: 10, Days: 2000, Seed: 7})
	for {
		p, ok := series.Next()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, p, 0.01)
	}
}

func TestGenerateHistoryBars(t *testing.T) {
	g := NewGenerator(zerolog.Nop())
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	bars := g.GenerateHistory(testSpec(365, 99), end)
	require.Len(t, bars, 365)

	// Calendar-daily, ending at the requested date.
	assert.Equal(t, end, bars[len(bars)-1].Date)
	assert.Equal(t, end.AddDate(0, 0, -364), bars[0].Date)

	first := bars[0]
	assert.Equal(t, first.Close, first.Open)
	assert.Equal(t, first.Close, first.High)
	assert.Equal(t, first.Close, first.Low)

	for i, bar := range bars {
		assert.GreaterOrEqual(t, bar.High, bar.Open, "bar %d", i)
		assert.GreaterOrEqual(t, bar.High, bar.Close, "bar %d", i)
		assert.LessOrEqual(t, bar.Low, bar.Open, "bar %d", i)
		assert.LessOrEqual(t, bar.Low, bar.Close, "bar %d", i)
		assert.Greater(t, bar.Low, 0.0, "bar %d", i)
		assert.Equal(t, bar.Close, bar.AdjustedClose, "bar %d", i)

		if i > 0 {
			// Open carries over the prior close.
			assert.Equal(t, bars[i-1].Close, bar.Open, "bar %d", i)
		}
	}
}

func TestGenerateHistoryVolumeByCategory(t *testing.T) {
	g := NewGenerator(zerolog.Nop())
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	etf := g.GenerateHistory(testSpec(10, 5), end)
	for _, bar := range etf {
		require.NotNil(t, bar.Volume)
		assert.GreaterOrEqual(t, *bar.Volume, int64(100000))
		assert.LessOrEqual(t, *bar.Volume, int64(10000000))
	}

	bond := g.GenerateHistory(Spec{Category: "Government Bond", Market: "UAE", RiskLevel: 2, Days: 10, Seed: 5}, end)
	for _, bar := range bond {
		assert.Nil(t, bar.Volume)
	}
}

func TestInitialPriceWithinRange(t *testing.T) {
	g := NewGenerator(zerolog.Nop())

	for seed := uint64(1); seed <= 20; seed++ {
		series := g.NewSeries(Spec{Category: "Banking", Market: "UAE", RiskLevel: 6, Days: 1, Seed: seed})
		p, ok := series.Next()
		require.True(t, ok)
		assert.GreaterOrEqual(t, p, 5.0)
		assert.LessOrEqual(t, p, 15.0)
	}
}

func TestExpectedAnnualReturnAdjustments(t *testing.T) {
	// Risk shifts the base return by 1.5% per level around 5.
	low := expectedAnnualReturn(1, "ETF", "US")
	high := expectedAnnualReturn(10, "ETF", "US")
	assert.InDelta(t, 0.135, high-low, 1e-9)

	// UAE returns are dampened relative to the same category in the US.
	us := expectedAnnualReturn(5, "ETF", "US")
	uae := expectedAnnualReturn(5, "ETF", "UAE")
	assert.Less(t, uae, us)

	// Floor applies at very low risk for low-return categories.
	assert.GreaterOrEqual(t, expectedAnnualReturn(1, "Government Bond", "UAE"), 0.01)
}

func TestAnnualVolatilityBounds(t *testing.T) {
	assert.GreaterOrEqual(t, annualVolatility(1, "Government Bond"), 0.05)
	assert.Greater(t, annualVolatility(10, "Technology Stock"), annualVolatility(1, "Technology Stock"))
}
