package optimization

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/tharwa/advisor/internal/domain"
)

const (
	// penaltyWeight scales the quadratic penalties for equality constraints.
	penaltyWeight = 1000.0
	// reportingThreshold drops dust positions from the reported allocation.
	reportingThreshold = 0.001
	// sumTolerance is the accepted deviation of the weight sum from 1.
	sumTolerance = 1e-6
)

// MVOptimizer solves the bounded mean-variance problem with a penalty method:
// the sum and target-return equalities become quadratic penalties, and bounds
// are enforced by projection at every evaluation and on the final solution.
type MVOptimizer struct {
	log zerolog.Logger
}

// NewMVOptimizer creates a new mean-variance optimizer.
func NewMVOptimizer(log zerolog.Logger) *MVOptimizer {
	return &MVOptimizer{
		log: log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize solves for the weight vector under the given constraints.
//
// Objective by mode:
//   - max_sharpe:    minimize -(w·mu - rf) / sqrt(w'Σw)
//   - min_variance:  minimize w'Σw
//   - target_return: minimize w'Σw subject to w·mu = targetReturn
//
// All modes enforce Σw = 1 and min_weight <= w_i <= min(max_weight,
// max_single_asset). Infeasible bound combinations fail upfront with
// InfeasibleConstraintsError; solver non-convergence surfaces as
// OptimizationFailedError.
func (o *MVOptimizer) Optimize(stats *Statistics, constraints Constraints, mode string, targetReturn float64) (*PortfolioResult, error) {
	n := len(stats.Symbols)
	lower := constraints.MinWeight
	upper := constraints.upperBound()

	if n < constraints.MinDiversification {
		return nil, &domain.InfeasibleConstraintsError{Available: n, Required: constraints.MinDiversification}
	}
	if float64(n)*lower > 1+sumTolerance {
		return nil, &domain.InfeasibleConstraintsError{
			Available: n,
			Required:  constraints.MinDiversification,
			Reason:    fmt.Sprintf("minimum weights alone allocate %.2f of the portfolio", float64(n)*lower),
		}
	}
	if float64(n)*upper < 1-sumTolerance {
		return nil, &domain.InfeasibleConstraintsError{
			Available: n,
			Required:  constraints.MinDiversification,
			Reason:    fmt.Sprintf("maximum weights only allocate %.2f of the portfolio", float64(n)*upper),
		}
	}

	switch mode {
	case ModeMaxSharpe, ModeMinVariance, ModeTargetReturn:
	default:
		return nil, &domain.OptimizationFailedError{Mode: mode, Status: "unknown objective mode"}
	}

	mu := stats.Mean
	sigma := stats.Cov

	objective := func(x []float64) float64 {
		w := projectToBounds(x, lower, upper)

		ret := dot(mu, w)
		variance := quadraticForm(sigma, w)

		var obj float64
		switch mode {
		case ModeMaxSharpe:
			vol := math.Sqrt(math.Max(variance, 0))
			if vol < 1e-10 {
				vol = 1e-10
			}
			obj = -(ret - RiskFreeRate) / vol
		case ModeMinVariance:
			obj = variance
		case ModeTargetReturn:
			obj = variance
			obj += penaltyWeight * (ret - targetReturn) * (ret - targetReturn)
		}

		sum := 0.0
		for _, wi := range w {
			sum += wi
		}
		obj += penaltyWeight * (sum - 1.0) * (sum - 1.0)

		return obj
	}

	problem := optimize.Problem{
		Func: objective,
		// Gradient-based methods (the BFGS retry below) require Grad;
		// supply the finite-difference gradient of the objective.
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, objective, x, nil)
		},
	}

	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	settings := &optimize.Settings{
		MajorIterations: 2000,
		FuncEvaluations: 100000,
	}

	successStatuses := map[optimize.Status]bool{
		optimize.Success:             true,
		optimize.GradientThreshold:   true,
		optimize.FunctionConvergence: true,
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil || !successStatuses[result.Status] {
		// Retry with a quasi-Newton method on a finite-difference gradient.
		result, err = optimize.Minimize(problem, initial, settings, &optimize.BFGS{})
		if err != nil {
			return nil, &domain.OptimizationFailedError{Mode: mode, Status: err.Error()}
		}
		if !successStatuses[result.Status] {
			return nil, &domain.OptimizationFailedError{Mode: mode, Status: result.Status.String()}
		}
	}

	weights := normalizeWithBounds(projectToBounds(result.X, lower, upper), lower, upper)

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1) > 1e-4 {
		return nil, &domain.OptimizationFailedError{Mode: mode, Status: "weights could not be normalized within bounds"}
	}

	expectedReturn := dot(mu, weights)
	variance := math.Max(quadraticForm(sigma, weights), 0)
	volatility := math.Sqrt(variance)

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (expectedReturn - RiskFreeRate) / volatility
	}

	reported := make(map[string]float64, n)
	for i, symbol := range stats.Symbols {
		if weights[i] >= reportingThreshold {
			reported[symbol] = weights[i]
		}
	}

	o.log.Debug().
		Str("mode", mode).
		Int("assets", len(reported)).
		Float64("expected_return", expectedReturn).
		Float64("volatility", volatility).
		Msg("Optimization converged")

	return &PortfolioResult{
		Weights:        reported,
		ExpectedReturn: expectedReturn,
		Volatility:     volatility,
		SharpeRatio:    sharpe,
		AssetCount:     len(reported),
	}, nil
}

// projectToBounds clamps every weight into [lower, upper].
func projectToBounds(x []float64, lower, upper float64) []float64 {
	projected := make([]float64, len(x))
	for i, v := range x {
		projected[i] = math.Min(math.Max(v, lower), upper)
	}
	return projected
}

// normalizeWithBounds rescales the weights toward Σw = 1 while keeping every
// weight inside its bounds. Plain division can push weights past their caps,
// so the residual is redistributed over the unsaturated weights iteratively.
func normalizeWithBounds(weights []float64, lower, upper float64) []float64 {
	w := make([]float64, len(weights))
	copy(w, weights)

	for iter := 0; iter < 20; iter++ {
		sum := 0.0
		for _, wi := range w {
			sum += wi
		}
		residual := 1.0 - sum
		if math.Abs(residual) <= sumTolerance {
			break
		}

		// Capacity of each weight to absorb the residual without leaving
		// its bounds.
		free := 0.0
		for _, wi := range w {
			if residual > 0 {
				free += upper - wi
			} else {
				free += wi - lower
			}
		}
		if free <= 0 {
			break
		}

		for i, wi := range w {
			var capacity float64
			if residual > 0 {
				capacity = upper - wi
			} else {
				capacity = wi - lower
			}
			w[i] = math.Min(math.Max(wi+residual*capacity/free, lower), upper)
		}
	}

	return w
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func quadraticForm(sigma *mat.SymDense, w []float64) float64 {
	var total float64
	for i := range w {
		for j := range w {
			total += w[i] * w[j] * sigma.At(i, j)
		}
	}
	return total
}
