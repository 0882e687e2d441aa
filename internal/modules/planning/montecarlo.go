package planning

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tharwa/advisor/internal/domain"
	"github.com/tharwa/advisor/pkg/formulas"
)

// Simulator runs Monte Carlo retirement projections. Trials are independent,
// so they are sharded across a bounded worker pool; each trial owns a seeded
// PCG stream, which keeps runs reproducible regardless of scheduling.
type Simulator struct {
	workers int
	log     zerolog.Logger
}

// NewSimulator creates a Monte Carlo simulator with one worker per CPU.
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{
		workers: runtime.NumCPU(),
		log:     log.With().Str("component", "montecarlo").Logger(),
	}
}

// Simulate projects the retirement plan through `simulations` random return
// paths. Each trial accumulates with Normal(expectedReturn, volatility)
// annual returns plus contributions, then withdraws an inflation-escalating
// income through retirement, stopping early when the balance is exhausted.
// seed 0 makes the run non-deterministic.
func (s *Simulator) Simulate(ctx context.Context, plan RetirementPlan, annualIncome float64, simulations int, volatility float64, seed uint64) (*MonteCarloResult, error) {
	plan = plan.withDefaults()

	if simulations <= 0 {
		return nil, &domain.DegenerateInputError{Field: "simulations", Value: float64(simulations)}
	}
	if volatility <= 0 {
		volatility = DefaultVolatility
	}

	yearsToRetirement := plan.RetirementAge - plan.CurrentAge
	yearsInRetirement := plan.LifeExpectancy - plan.RetirementAge
	if yearsToRetirement < 0 {
		return nil, &domain.DegenerateInputError{Field: "years_to_retirement", Value: float64(yearsToRetirement)}
	}
	if yearsInRetirement < 0 {
		return nil, &domain.DegenerateInputError{Field: "years_in_retirement", Value: float64(yearsInRetirement)}
	}

	if seed == 0 {
		seed = rand.Uint64()
	}

	finalBalances := make([]float64, simulations)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	chunk := (simulations + s.workers - 1) / s.workers
	for start := 0; start < simulations; start += chunk {
		end := start + chunk
		if end > simulations {
			end = simulations
		}

		g.Go(func() error {
			for trial := start; trial < end; trial++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				finalBalances[trial] = runTrial(plan, annualIncome, volatility,
					yearsToRetirement, yearsInRetirement, seed, uint64(trial))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	successes := 0
	for _, balance := range finalBalances {
		if balance > 0 {
			successes++
		}
	}
	successRate := float64(successes) / float64(simulations)

	result := &MonteCarloResult{
		SuccessRate:        math.Round(successRate*1000) / 1000,
		MedianFinalBalance: round2(formulas.Median(finalBalances)),
		Percentile10:       round2(formulas.Percentile(finalBalances, 10)),
		Percentile90:       round2(formulas.Percentile(finalBalances, 90)),
		SimulationsRun:     simulations,
		Recommendation:     recommendation(successRate),
	}

	s.log.Debug().
		Int("simulations", simulations).
		Float64("success_rate", result.SuccessRate).
		Msg("Monte Carlo run complete")

	return result, nil
}

// runTrial simulates one accumulation-plus-withdrawal path.
func runTrial(plan RetirementPlan, annualIncome, volatility float64, yearsToRetirement, yearsInRetirement int, seed, trial uint64) float64 {
	src := rand.NewPCG(seed+trial, seed^(trial*0x9e3779b97f4a7c15))
	normal := distuv.Normal{Mu: plan.ExpectedReturn, Sigma: volatility, Src: src}

	balance := plan.CurrentSavings
	for year := 0; year < yearsToRetirement; year++ {
		balance = balance*(1+normal.Rand()) + plan.MonthlyContribution*12
	}

	withdrawal := annualIncome * plan.ReplacementRatio *
		math.Pow(1+plan.InflationRate, float64(yearsToRetirement))

	for year := 0; year < yearsInRetirement; year++ {
		balance = balance*(1+normal.Rand()) - withdrawal
		withdrawal *= 1 + plan.InflationRate

		if balance <= 0 {
			break
		}
	}

	return balance
}

// recommendation maps the success rate onto a qualitative band.
func recommendation(successRate float64) string {
	switch {
	case successRate >= 0.9:
		return "Excellent! You're on track for a comfortable retirement."
	case successRate >= 0.75:
		return "Good progress. Consider increasing contributions slightly."
	case successRate >= 0.5:
		return "Moderate risk. Increase savings or adjust expectations."
	default:
		return "High risk. Significant changes needed to retirement plan."
	}
}
