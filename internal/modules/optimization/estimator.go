package optimization

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tharwa/advisor/internal/domain"
	"github.com/tharwa/advisor/pkg/formulas"
)

const (
	// estimationLookback is the number of most recent closes used per asset.
	estimationLookback = 252
	// minReturnsPerAsset is the minimum daily returns an asset must have to
	// participate in estimation.
	minReturnsPerAsset = 30
)

// CloseSource supplies ordered daily closes per symbol.
type CloseSource interface {
	Closes(symbol string, limit int) ([]float64, error)
}

// Estimator derives annualized expected returns and the covariance matrix
// from stored price history.
type Estimator struct {
	source CloseSource
	log    zerolog.Logger
}

// NewEstimator creates a new statistics estimator.
func NewEstimator(source CloseSource, log zerolog.Logger) *Estimator {
	return &Estimator{
		source: source,
		log:    log.With().Str("component", "estimator").Logger(),
	}
}

// Estimate computes annualized statistics for the given symbols. Assets with
// fewer than minReturnsPerAsset daily returns are dropped; fewer than two
// surviving assets is an InsufficientDataError. Return series are truncated
// to the shortest surviving series so the covariance matrix is well defined.
func (e *Estimator) Estimate(symbols []string) (*Statistics, error) {
	kept := make([]string, 0, len(symbols))
	returns := make([][]float64, 0, len(symbols))
	shortest := -1

	for _, symbol := range symbols {
		closes, err := e.source.Closes(symbol, estimationLookback)
		if err != nil {
			return nil, fmt.Errorf("failed to load closes for %s: %w", symbol, err)
		}

		daily := formulas.DailyReturns(closes)
		if len(daily) < minReturnsPerAsset {
			e.log.Warn().
				Str("symbol", symbol).
				Int("returns", len(daily)).
				Int("needed", minReturnsPerAsset).
				Msg("Dropping asset with too little history")
			continue
		}

		kept = append(kept, symbol)
		returns = append(returns, daily)
		if shortest < 0 || len(daily) < shortest {
			shortest = len(daily)
		}
	}

	if len(kept) < 2 {
		return nil, &domain.InsufficientDataError{Needed: 2, Got: len(kept)}
	}

	// Align all series on their most recent `shortest` observations.
	for i := range returns {
		returns[i] = returns[i][len(returns[i])-shortest:]
	}

	n := len(kept)
	mean := make([]float64, n)
	for i := range returns {
		mean[i] = formulas.Mean(returns[i]) * formulas.TradingDaysPerYear
	}

	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := formulas.Covariance(returns[i], returns[j]) * formulas.TradingDaysPerYear
			cov.SetSym(i, j, c)
		}
	}

	e.log.Debug().
		Int("assets", n).
		Int("observations", shortest).
		Msg("Estimated return statistics")

	return &Statistics{Symbols: kept, Mean: mean, Cov: cov}, nil
}
