package optimization

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/domain"
)

// DefaultFrontierPoints is the portfolio count for a frontier sweep.
const DefaultFrontierPoints = 50

// FrontierGenerator sweeps target returns between the lowest and highest
// per-asset expected return and solves each as a target_return problem.
type FrontierGenerator struct {
	optimizer *MVOptimizer
	log       zerolog.Logger
}

// NewFrontierGenerator creates a new efficient frontier generator.
func NewFrontierGenerator(optimizer *MVOptimizer, log zerolog.Logger) *FrontierGenerator {
	return &FrontierGenerator{
		optimizer: optimizer,
		log:       log.With().Str("component", "frontier").Logger(),
	}
}

// Generate computes up to `points` frontier portfolios. Targets whose
// optimization fails are skipped, so the output may be shorter than requested.
// An empty frontier (every target failed) is an OptimizationFailedError.
func (g *FrontierGenerator) Generate(stats *Statistics, constraints Constraints, points int) ([]FrontierPoint, error) {
	if points <= 0 {
		points = DefaultFrontierPoints
	}

	minReturn, maxReturn := stats.Mean[0], stats.Mean[0]
	for _, r := range stats.Mean[1:] {
		if r < minReturn {
			minReturn = r
		}
		if r > maxReturn {
			maxReturn = r
		}
	}

	frontier := make([]FrontierPoint, 0, points)
	failed := 0

	for i := 0; i < points; i++ {
		target := minReturn
		if points > 1 {
			target = minReturn + (maxReturn-minReturn)*float64(i)/float64(points-1)
		}

		result, err := g.optimizer.Optimize(stats, constraints, ModeTargetReturn, target)
		if err != nil {
			// Infeasible constraint sets fail identically for every target.
			var infeasible *domain.InfeasibleConstraintsError
			if errors.As(err, &infeasible) {
				return nil, err
			}
			failed++
			continue
		}

		frontier = append(frontier, FrontierPoint{
			TargetReturn:   target,
			ExpectedReturn: result.ExpectedReturn,
			Volatility:     result.Volatility,
			SharpeRatio:    result.SharpeRatio,
		})
	}

	if len(frontier) == 0 {
		return nil, &domain.OptimizationFailedError{Mode: ModeTargetReturn, Status: "no frontier point converged"}
	}

	g.log.Debug().
		Int("points", len(frontier)).
		Int("failed", failed).
		Msg("Frontier sweep complete")

	return frontier, nil
}
