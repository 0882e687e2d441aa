package optimization

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/domain"
	"github.com/tharwa/advisor/internal/modules/universe"
)

// Service ties universe filtering, estimation, the solver and the frontier
// cache into the portfolio construction operations.
type Service struct {
	repo      *universe.Repository
	estimator *Estimator
	optimizer *MVOptimizer
	frontier  *FrontierGenerator
	cache     *FrontierCache
	log       zerolog.Logger
}

// NewService creates a new optimization service.
func NewService(
	repo *universe.Repository,
	estimator *Estimator,
	optimizer *MVOptimizer,
	frontier *FrontierGenerator,
	cache *FrontierCache,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		estimator: estimator,
		optimizer: optimizer,
		frontier:  frontier,
		cache:     cache,
		log:       log.With().Str("component", "optimization").Logger(),
	}
}

// BuildPortfolio filters the universe by the constraints, estimates the
// statistics and solves the requested objective. targetReturn is only
// consulted in target_return mode.
func (s *Service) BuildPortfolio(constraints Constraints, mode string, targetReturn float64) (*PortfolioResult, error) {
	stats, err := s.candidateStatistics(constraints)
	if err != nil {
		return nil, err
	}
	return s.optimizer.Optimize(stats, constraints, mode, targetReturn)
}

// EfficientFrontier computes (or retrieves from cache) the frontier for the
// filtered universe.
func (s *Service) EfficientFrontier(constraints Constraints, points int) ([]FrontierPoint, error) {
	if points <= 0 {
		points = DefaultFrontierPoints
	}

	stats, err := s.candidateStatistics(constraints)
	if err != nil {
		return nil, err
	}

	key := s.cache.Key(stats.Symbols, constraints, points)
	if cached, ok, err := s.cache.Get(key); err != nil {
		s.log.Warn().Err(err).Msg("Frontier cache read failed, recomputing")
	} else if ok {
		s.log.Debug().Str("key", key).Msg("Frontier cache hit")
		return cached, nil
	}

	frontier, err := s.frontier.Generate(stats, constraints, points)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(key, frontier); err != nil {
		s.log.Warn().Err(err).Msg("Frontier cache write failed")
	}

	return frontier, nil
}

// candidateStatistics filters the universe by the constraints and estimates
// return statistics for the surviving assets.
func (s *Service) candidateStatistics(constraints Constraints) (*Statistics, error) {
	if err := constraints.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}

	instruments, err := s.repo.ListInstruments(universe.Filter{
		Market:       constraints.marketFilter(),
		ShariaOnly:   constraints.ShariaOnly,
		MinRiskLevel: constraints.MinRiskLevel,
		MaxRiskLevel: constraints.MaxRiskLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter universe: %w", err)
	}

	if len(instruments) < constraints.MinDiversification {
		return nil, &domain.InfeasibleConstraintsError{
			Available: len(instruments),
			Required:  constraints.MinDiversification,
		}
	}

	symbols := make([]string, len(instruments))
	for i, inst := range instruments {
		symbols[i] = inst.Symbol
	}

	stats, err := s.estimator.Estimate(symbols)
	if err != nil {
		return nil, err
	}

	// Estimation may drop thin histories below the diversification floor.
	if len(stats.Symbols) < constraints.MinDiversification {
		return nil, &domain.InfeasibleConstraintsError{
			Available: len(stats.Symbols),
			Required:  constraints.MinDiversification,
			Reason:    "too few assets with sufficient history",
		}
	}

	return stats, nil
}

// TargetReturnFromProfile derives a target annual return from an investor's
// age and risk tolerance: an age-based equity share blended between a 10%
// equity and 4% bond assumption, shifted by risk tolerance.
func TargetReturnFromProfile(age, riskTolerance int) float64 {
	equity := (120.0 - float64(age)) / 100.0
	equity = clamp(equity, 0.3, 0.9)

	target := equity*0.10 + (1-equity)*0.04
	target += (float64(riskTolerance) - 5) * 0.01

	return clamp(target, 0.03, 0.15)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
