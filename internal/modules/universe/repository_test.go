package universe

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharwa/advisor/internal/database"
	"github.com/tharwa/advisor/internal/modules/marketdata"
	"github.com/tharwa/advisor/internal/modules/metrics"
)

var memDBCounter int

func testDB(t *testing.T) *database.DB {
	t.Helper()

	memDBCounter++
	db, err := database.New(database.Config{
		Path: fmt.Sprintf("file:universe_test_%d?mode=memory&cache=shared", memDBCounter),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testInstruments() []Instrument {
	return []Instrument{
		{Symbol: "AAA", Name: "Alpha ETF", Category: "ETF", Market: MarketUS, Currency: "USD", RiskLevel: 6, MinInvestment: 100, Description: "Broad market fund"},
		{Symbol: "BBB", Name: "Beta Bond", Category: "Bond ETF", Market: MarketUS, Currency: "USD", RiskLevel: 3, MinInvestment: 100, Description: "Aggregate bonds"},
		{Symbol: "CCC", Name: "Gamma Sukuk", Category: "Islamic Bond", Market: MarketUAE, Currency: "AED", RiskLevel: 3, MinInvestment: 5000, IsShariaCompliant: true, Description: "Sharia-compliant bond"},
	}
}

func TestSeedInstrumentsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.SeedInstruments(testInstruments()))
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	instruments, err := repo.ListInstruments(Filter{})
	require.NoError(t, err)
	assert.Len(t, instruments, 3)
}

func TestListInstrumentsFilters(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	uae, err := repo.ListInstruments(Filter{Market: MarketUAE})
	require.NoError(t, err)
	require.Len(t, uae, 1)
	assert.Equal(t, "CCC", uae[0].Symbol)

	sharia, err := repo.ListInstruments(Filter{ShariaOnly: true})
	require.NoError(t, err)
	require.Len(t, sharia, 1)
	assert.Equal(t, "CCC", sharia[0].Symbol)

	lowRisk, err := repo.ListInstruments(Filter{MinRiskLevel: 1, MaxRiskLevel: 4})
	require.NoError(t, err)
	assert.Len(t, lowRisk, 2)

	etf, err := repo.ListInstruments(Filter{Category: "ETF"})
	require.NoError(t, err)
	require.Len(t, etf, 1)
	assert.Equal(t, "AAA", etf[0].Symbol)
}

func TestGetInstrument(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	inst, err := repo.GetInstrument("AAA")
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Equal(t, "Alpha ETF", inst.Name)

	missing, err := repo.GetInstrument("ZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	byName, err := repo.Search("Alpha")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "AAA", byName[0].Symbol)

	byDescription, err := repo.Search("Sharia")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "CCC", byDescription[0].Symbol)

	none, err := repo.Search("nonexistent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRefreshPopulatesHistoryAndMetrics(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	generator := marketdata.NewGenerator(zerolog.Nop())
	calculator := metrics.NewCalculator(zerolog.Nop())
	refresh := NewRefreshService(db.Conn(), repo, generator, calculator, 1, 42, zerolog.Nop())

	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, refresh.RefreshAsOf(context.Background(), end))

	summary, err := repo.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalInstruments)
	assert.Equal(t, 1, summary.UAEInstruments)
	assert.Equal(t, 2, summary.USInstruments)
	assert.Equal(t, 1, summary.ShariaCompliant)
	assert.Equal(t, 3*365, summary.TotalPricePoints)
	require.NotNil(t, summary.LatestDate)
	assert.Equal(t, end, *summary.LatestDate)

	history, err := repo.History("AAA")
	require.NoError(t, err)
	require.Len(t, history, 365)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].Date.After(history[i-1].Date))
	}

	m, err := repo.GetMetrics("AAA")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Greater(t, m.Volatility, 0.0)
	require.NotNil(t, m.OneYearReturn)
	assert.Nil(t, m.FiveYearReturn)

	withMetrics, err := repo.ListWithMetrics(Filter{})
	require.NoError(t, err)
	require.Len(t, withMetrics, 3)
	for _, im := range withMetrics {
		require.NotNil(t, im.Metrics, im.Symbol)
	}
}

func TestRefreshReplacesHistory(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	generator := marketdata.NewGenerator(zerolog.Nop())
	calculator := metrics.NewCalculator(zerolog.Nop())
	refresh := NewRefreshService(db.Conn(), repo, generator, calculator, 1, 42, zerolog.Nop())

	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, refresh.RefreshAsOf(context.Background(), end))
	require.NoError(t, refresh.RefreshAsOf(context.Background(), end.AddDate(0, 1, 0)))

	// A second refresh replaces, never appends.
	summary, err := repo.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3*365, summary.TotalPricePoints)
	require.NotNil(t, summary.LatestDate)
	assert.Equal(t, end.AddDate(0, 1, 0), *summary.LatestDate)
}

func TestCloses(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.SeedInstruments(testInstruments()))

	generator := marketdata.NewGenerator(zerolog.Nop())
	calculator := metrics.NewCalculator(zerolog.Nop())
	refresh := NewRefreshService(db.Conn(), repo, generator, calculator, 1, 42, zerolog.Nop())
	require.NoError(t, refresh.RefreshAsOf(context.Background(), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))

	all, err := repo.Closes("AAA", 0)
	require.NoError(t, err)
	assert.Len(t, all, 365)

	limited, err := repo.Closes("AAA", 252)
	require.NoError(t, err)
	require.Len(t, limited, 252)

	// The limited window is the most recent slice, oldest first.
	assert.Equal(t, all[len(all)-252:], limited)
}
