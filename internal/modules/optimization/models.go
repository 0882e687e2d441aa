// Package optimization implements constrained mean-variance portfolio
// construction: return/covariance estimation, a penalty-method solver and the
// efficient frontier sweep.
package optimization

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/tharwa/advisor/internal/modules/universe"
)

// Objective modes.
const (
	ModeMaxSharpe    = "max_sharpe"
	ModeMinVariance  = "min_variance"
	ModeTargetReturn = "target_return"
)

// RiskFreeRate is the annual risk-free rate used in Sharpe objectives.
const RiskFreeRate = 0.02

// MarketBoth selects both markets, same as leaving the preference empty.
const MarketBoth = "BOTH"

// Constraints bound an optimization request. Ephemeral, one per request.
type Constraints struct {
	MinWeight          float64 `json:"min_weight"`
	MaxWeight          float64 `json:"max_weight"`
	MaxSingleAsset     float64 `json:"max_single_asset"`
	MinDiversification int     `json:"min_diversification"`
	ShariaOnly         bool    `json:"sharia_compliant_only"`
	MarketPreference   string  `json:"market_preference,omitempty"` // "UAE", "US", "BOTH" or ""
	MinRiskLevel       int     `json:"min_risk_level"`
	MaxRiskLevel       int     `json:"max_risk_level"`
}

// DefaultConstraints mirrors the bounds applied when a request leaves them out.
func DefaultConstraints() Constraints {
	return Constraints{
		MinWeight:          0.0,
		MaxWeight:          0.4,
		MaxSingleAsset:     0.25,
		MinDiversification: 3,
		MinRiskLevel:       1,
		MaxRiskLevel:       10,
	}
}

// Validate checks internal consistency of the constraint set.
func (c Constraints) Validate() error {
	if c.MinWeight < 0 || c.MinWeight > 1 {
		return fmt.Errorf("min_weight %g outside [0, 1]", c.MinWeight)
	}
	if c.MaxWeight <= 0 || c.MaxWeight > 1 {
		return fmt.Errorf("max_weight %g outside (0, 1]", c.MaxWeight)
	}
	if c.MaxSingleAsset <= 0 || c.MaxSingleAsset > c.MaxWeight {
		return fmt.Errorf("max_single_asset %g outside (0, max_weight]", c.MaxSingleAsset)
	}
	if c.MinWeight > c.upperBound() {
		return fmt.Errorf("min_weight %g exceeds effective upper bound %g", c.MinWeight, c.upperBound())
	}
	if c.MinDiversification < 2 {
		return fmt.Errorf("min_diversification %d below 2", c.MinDiversification)
	}
	if c.MinRiskLevel < 0 || c.MaxRiskLevel > 10 || (c.MaxRiskLevel > 0 && c.MinRiskLevel > c.MaxRiskLevel) {
		return fmt.Errorf("risk_level_range (%d, %d) invalid", c.MinRiskLevel, c.MaxRiskLevel)
	}
	switch c.MarketPreference {
	case "", universe.MarketUAE, universe.MarketUS, MarketBoth:
	default:
		return fmt.Errorf("market_preference %q unknown", c.MarketPreference)
	}
	return nil
}

// marketFilter is the repository market filter for the preference: BOTH and
// the empty string both mean no filter.
func (c Constraints) marketFilter() string {
	if c.MarketPreference == MarketBoth {
		return ""
	}
	return c.MarketPreference
}

// upperBound is the effective per-asset cap: min(max_weight, max_single_asset).
func (c Constraints) upperBound() float64 {
	if c.MaxSingleAsset < c.MaxWeight {
		return c.MaxSingleAsset
	}
	return c.MaxWeight
}

// Statistics holds the estimated annualized inputs for one asset set.
type Statistics struct {
	Symbols []string
	Mean    []float64     // annualized expected returns, same order as Symbols
	Cov     *mat.SymDense // annualized covariance matrix
}

// PortfolioResult is one optimized allocation. Weights below the reporting
// threshold are omitted from the map but still satisfied the sum constraint
// during solving.
type PortfolioResult struct {
	Weights        map[string]float64 `json:"weights"`
	ExpectedReturn float64            `json:"expected_return"`
	Volatility     float64            `json:"volatility"`
	SharpeRatio    float64            `json:"sharpe_ratio"`
	AssetCount     int                `json:"asset_count"`
}

// FrontierPoint is one portfolio on the efficient frontier.
type FrontierPoint struct {
	TargetReturn   float64 `json:"target_return"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}
