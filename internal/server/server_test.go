package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharwa/advisor/internal/database"
	"github.com/tharwa/advisor/internal/modules/marketdata"
	"github.com/tharwa/advisor/internal/modules/metrics"
	"github.com/tharwa/advisor/internal/modules/optimization"
	"github.com/tharwa/advisor/internal/modules/planning"
	"github.com/tharwa/advisor/internal/modules/universe"
)

var serverDBCounter int

// newTestServer stands up the whole engine over an in-memory database with a
// small seeded universe.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	serverDBCounter++
	db, err := database.New(database.Config{
		Path: fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", serverDBCounter),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	repo := universe.NewRepository(db.Conn(), log)
	require.NoError(t, repo.SeedInstruments([]universe.Instrument{
		{Symbol: "GOV", Name: "Gov Bond", Category: "Government Bond", Market: universe.MarketUAE, Currency: "AED", RiskLevel: 2, MinInvestment: 1000, IsShariaCompliant: true, Description: "Government bond"},
		{Symbol: "AGGB", Name: "Aggregate Bonds", Category: "Bond ETF", Market: universe.MarketUS, Currency: "USD", RiskLevel: 3, MinInvestment: 100, Description: "Aggregate bond fund"},
		{Symbol: "BROAD", Name: "Broad ETF", Category: "ETF", Market: universe.MarketUS, Currency: "USD", RiskLevel: 6, MinInvestment: 100, Description: "Broad equity fund"},
		{Symbol: "TECH", Name: "Tech Stock", Category: "Technology Stock", Market: universe.MarketUS, Currency: "USD", RiskLevel: 8, MinInvestment: 50, Description: "Large cap tech"},
	}))

	refresh := universe.NewRefreshService(db.Conn(), repo,
		marketdata.NewGenerator(log), metrics.NewCalculator(log), 1, 42, log)
	require.NoError(t, refresh.RefreshAsOf(context.Background(), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))

	optimizer := optimization.NewMVOptimizer(log)
	optimizationSvc := optimization.NewService(
		repo,
		optimization.NewEstimator(repo, log),
		optimizer,
		optimization.NewFrontierGenerator(optimizer, log),
		optimization.NewFrontierCache(db.Conn(), time.Hour, log),
		log,
	)

	return New(Config{
		Log:          log,
		DB:           db,
		Universe:     repo,
		Refresh:      refresh,
		Optimization: optimizationSvc,
		Calculator:   planning.NewCalculator(log),
		Simulator:    planning.NewSimulator(log),
		Port:         0,
		DevMode:      true,
		Simulations:  200,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListAndSearchInstruments(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/instruments?market=US", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listBody struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listBody))
	assert.Equal(t, 3, listBody.Count)

	rec = doJSON(t, srv, http.MethodGet, "/api/instruments/search?q=tech", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/instruments/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInstrument(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/instruments/GOV", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body universe.InstrumentMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "GOV", body.Symbol)
	require.NotNil(t, body.Metrics)

	rec = doJSON(t, srv, http.MethodGet, "/api/instruments/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniverseSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/universe/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary universe.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 4, summary.TotalInstruments)
	assert.Equal(t, 4*365, summary.TotalPricePoints)
}

func TestOptimizeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/portfolio/optimize", map[string]interface{}{
		"mode": "min_variance",
		"constraints": map[string]interface{}{
			"min_weight":          0.0,
			"max_weight":          0.6,
			"max_single_asset":    0.6,
			"min_diversification": 2,
			"min_risk_level":      1,
			"max_risk_level":      10,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result optimization.PortfolioResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	sum := 0.0
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestOptimizeInfeasibleReturns422(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/portfolio/optimize", map[string]interface{}{
		"constraints": map[string]interface{}{
			"min_weight":          0.0,
			"max_weight":          1.0,
			"max_single_asset":    1.0,
			"min_diversification": 3,
			"min_risk_level":      8, // only TECH qualifies
			"max_risk_level":      10,
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "infeasible_constraints", body.Kind)
}

func TestOptimizeProfileMarketBoth(t *testing.T) {
	srv := newTestServer(t)

	// A profile preferring BOTH markets must see the whole universe.
	rec := doJSON(t, srv, http.MethodPost, "/api/portfolio/optimize", map[string]interface{}{
		"profile": map[string]interface{}{
			"age":              30,
			"retirement_age":   65,
			"risk_tolerance":   5,
			"preferred_market": "BOTH",
		},
		"constraints": map[string]interface{}{
			"min_weight":          0.0,
			"max_weight":          0.6,
			"max_single_asset":    0.6,
			"min_diversification": 2,
			"min_risk_level":      1,
			"max_risk_level":      10,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result optimization.PortfolioResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	sum := 0.0
	for _, w := range result.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestOptimizeTargetReturnWithoutTarget(t *testing.T) {
	srv := newTestServer(t)

	// target_return mode needs an explicit target or a profile to derive one.
	rec := doJSON(t, srv, http.MethodPost, "/api/portfolio/optimize", map[string]interface{}{
		"mode": "target_return",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestFrontierEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/portfolio/frontier", map[string]interface{}{
		"points": 10,
		"constraints": map[string]interface{}{
			"min_weight":          0.0,
			"max_weight":          1.0,
			"max_single_asset":    1.0,
			"min_diversification": 2,
			"min_risk_level":      1,
			"max_risk_level":      10,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Count    int                          `json:"count"`
		Frontier []optimization.FrontierPoint `json:"frontier"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Frontier)
	assert.Equal(t, len(body.Frontier), body.Count)
}

func TestRetirementEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/planning/retirement", map[string]interface{}{
		"plan": map[string]interface{}{
			"current_age":          30,
			"retirement_age":       65,
			"current_savings":      50000,
			"monthly_contribution": 1000,
			"expected_return":      0.08,
		},
		"annual_income": 80000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis planning.RetirementAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, 35, analysis.YearsToRetirement)
	assert.Greater(t, analysis.CorpusNeeded, 0.0)
}

func TestRetirementEndpointDegenerate(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/planning/retirement", map[string]interface{}{
		"plan": map[string]interface{}{
			"current_age":     70,
			"retirement_age":  65,
			"expected_return": 0.08,
		},
		"annual_income": 80000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMonteCarloEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/planning/montecarlo", map[string]interface{}{
		"plan": map[string]interface{}{
			"current_age":          30,
			"retirement_age":       65,
			"current_savings":      50000,
			"monthly_contribution": 1000,
			"expected_return":      0.08,
		},
		"annual_income": 80000,
		"seed":          42,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result planning.MonteCarloResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 200, result.SimulationsRun)
	assert.NotEmpty(t, result.Recommendation)
}

func TestEmergencyFundEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/planning/emergency-fund", map[string]interface{}{
		"monthly_expenses": 5000,
		"dependents":       1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var fund planning.EmergencyFund
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fund))
	assert.Equal(t, 7, fund.RecommendedMonths)
	assert.Equal(t, 35000.0, fund.TargetAmount)
}

func TestDebtPayoffEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/planning/debt-payoff", map[string]interface{}{
		"debts": []map[string]interface{}{
			{"name": "Card", "balance": 2000, "rate": 0.2, "min_payment": 100},
		},
		"extra_payment": 100,
		"strategy":      "snowball",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var payoff planning.DebtPayoff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payoff))
	assert.Equal(t, planning.StrategySnowball, payoff.Strategy)
	assert.Greater(t, payoff.MonthsToPayoff, 0)
}

func TestMalformedJSONReturns400(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/planning/retirement", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
