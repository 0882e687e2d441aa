package planning

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/domain"
)

// Calculator performs the closed-form financial planning math. Pure and
// deterministic, no solver involved.
type Calculator struct {
	now func() time.Time
	log zerolog.Logger
}

// NewCalculator creates a new planning calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		now: time.Now,
		log: log.With().Str("component", "planning").Logger(),
	}
}

// RetirementNeeds computes the retirement funding breakdown for a plan.
//
// The corpus is the present value at retirement of an inflation-adjusted
// income annuity over the retirement years; accumulation uses annual
// compounding for the lump sum and monthly compounding for contributions.
// Zero horizons and zero rates degrade to linear fallbacks, a negative
// horizon is a DegenerateInputError.
func (c *Calculator) RetirementNeeds(plan RetirementPlan, annualIncome float64) (*RetirementAnalysis, error) {
	plan = plan.withDefaults()

	yearsToRetirement := plan.RetirementAge - plan.CurrentAge
	yearsInRetirement := plan.LifeExpectancy - plan.RetirementAge

	if yearsToRetirement < 0 {
		return nil, &domain.DegenerateInputError{Field: "years_to_retirement", Value: float64(yearsToRetirement)}
	}
	if yearsInRetirement < 0 {
		return nil, &domain.DegenerateInputError{Field: "years_in_retirement", Value: float64(yearsInRetirement)}
	}

	requiredIncome := annualIncome * plan.ReplacementRatio
	futureRequiredIncome := requiredIncome * math.Pow(1+plan.InflationRate, float64(yearsToRetirement))

	realReturn := (plan.ExpectedReturn - plan.InflationRate) / (1 + plan.InflationRate)

	var corpus float64
	if realReturn > 0 {
		corpus = futureRequiredIncome * (1 - math.Pow(1+realReturn, -float64(yearsInRetirement))) / realReturn
	} else {
		corpus = futureRequiredIncome * float64(yearsInRetirement)
	}

	fvSavings := plan.CurrentSavings * math.Pow(1+plan.ExpectedReturn, float64(yearsToRetirement))

	monthlyRate := plan.ExpectedReturn / 12
	months := yearsToRetirement * 12

	var fvContributions float64
	if monthlyRate > 0 {
		fvContributions = plan.MonthlyContribution * annuityFactor(monthlyRate, float64(months))
	} else {
		fvContributions = plan.MonthlyContribution * float64(months)
	}

	totalAccumulated := fvSavings + fvContributions
	shortfall := math.Max(0, corpus-totalAccumulated)

	var requiredMonthly float64
	switch {
	case months == 0:
		// Already at retirement, no contribution months remain.
	case shortfall > 0 && monthlyRate > 0:
		requiredMonthly = shortfall / annuityFactor(monthlyRate, float64(months))
	default:
		requiredMonthly = shortfall / float64(months)
	}

	return &RetirementAnalysis{
		CorpusNeeded:            round2(corpus),
		FutureRequiredIncome:    round2(futureRequiredIncome),
		SavingsFutureValue:      round2(fvSavings),
		ContributionFutureValue: round2(fvContributions),
		TotalAccumulated:        round2(totalAccumulated),
		Shortfall:               round2(shortfall),
		RequiredMonthlySavings:  round2(requiredMonthly),
		YearsToRetirement:       yearsToRetirement,
		YearsInRetirement:       yearsInRetirement,
		IsOnTrack:               shortfall <= 0,
	}, nil
}

// GoalFunding computes the funding breakdown for one financial goal.
// A goal date in the past is a DegenerateInputError.
func (c *Calculator) GoalFunding(goal FinancialGoal, currentSavings, monthlyContribution, expectedReturn float64) (*GoalFunding, error) {
	yearsToGoal := goal.TargetDate.Sub(c.now()).Hours() / 24 / 365.25
	if yearsToGoal <= 0 {
		return nil, &domain.DegenerateInputError{Field: "years_to_goal", Value: yearsToGoal}
	}

	target := goal.TargetAmount
	if goal.InflationAdjusted {
		target *= math.Pow(1+DefaultInflationRate, yearsToGoal)
	}

	fvSavings := currentSavings * math.Pow(1+expectedReturn, yearsToGoal)

	monthlyRate := expectedReturn / 12
	months := yearsToGoal * 12

	var fvContributions float64
	if monthlyRate > 0 {
		fvContributions = monthlyContribution * annuityFactor(monthlyRate, months)
	} else {
		fvContributions = monthlyContribution * months
	}

	totalAccumulated := fvSavings + fvContributions
	shortfall := math.Max(0, target-totalAccumulated)

	var requiredMonthly float64
	switch {
	case shortfall > 0 && monthlyRate > 0:
		requiredMonthly = shortfall / annuityFactor(monthlyRate, months)
	case months > 0:
		requiredMonthly = shortfall / months
	}

	return &GoalFunding{
		GoalName:                goal.Name,
		TargetAmount:            round2(target),
		YearsToGoal:             math.Round(yearsToGoal*10) / 10,
		SavingsFutureValue:      round2(fvSavings),
		ContributionFutureValue: round2(fvContributions),
		TotalAccumulated:        round2(totalAccumulated),
		Shortfall:               round2(shortfall),
		RequiredMonthlySavings:  round2(requiredMonthly),
		SuccessProbability:      successProbability(target, totalAccumulated, yearsToGoal, expectedReturn),
	}, nil
}

// EmergencyFund recommends a liquid reserve sized by job stability and
// dependents.
func (c *Calculator) EmergencyFund(monthlyExpenses float64, jobStability string, dependents int) *EmergencyFund {
	baseMonths := map[string]int{
		"very_stable":   3,
		"stable":        6,
		"unstable":      9,
		"very_unstable": 12,
	}

	months, ok := baseMonths[jobStability]
	if !ok {
		months = 6
	}
	months += dependents

	return &EmergencyFund{
		RecommendedMonths: months,
		TargetAmount:      round2(monthlyExpenses * float64(months)),
		MonthlyExpenses:   monthlyExpenses,
		JobStability:      jobStability,
		Dependents:        dependents,
	}
}

// maxPayoffMonths caps the payoff schedule at 50 years.
const maxPayoffMonths = 600

// DebtPayoff walks a month-by-month payoff schedule, applying minimum
// payments to every debt and the extra payment to the priority debt for the
// chosen strategy.
func (c *Calculator) DebtPayoff(debts []Debt, extraPayment float64, strategy string) *DebtPayoff {
	sorted := make([]Debt, len(debts))
	copy(sorted, debts)

	if strategy == StrategySnowball {
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Balance < sorted[j].Balance })
	} else {
		strategy = StrategyAvalanche
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rate > sorted[j].Rate })
	}

	var totalBalance, totalMinPayment float64
	for _, d := range debts {
		totalBalance += d.Balance
		totalMinPayment += d.MinPayment
	}
	totalPayment := totalMinPayment + extraPayment

	remaining := sorted
	month := 0

	for len(remaining) > 0 {
		month++

		for i := range remaining {
			remaining[i].Balance = math.Max(0, remaining[i].Balance-remaining[i].MinPayment)
		}

		if extraPayment > 0 && len(remaining) > 0 {
			payment := math.Min(extraPayment, remaining[0].Balance)
			remaining[0].Balance -= payment
		}

		alive := remaining[:0]
		for _, d := range remaining {
			if d.Balance > 0 {
				alive = append(alive, d)
			}
		}
		remaining = alive

		if month > maxPayoffMonths {
			break
		}
	}

	totalInterest := float64(month)*totalMinPayment + extraPayment*float64(month) - totalBalance

	return &DebtPayoff{
		MonthsToPayoff:    month,
		YearsToPayoff:     math.Round(float64(month)/12*10) / 10,
		TotalInterestPaid: round2(math.Max(0, totalInterest)),
		TotalPayments:     round2(float64(month) * totalPayment),
		Strategy:          strategy,
		MonthlyPayment:    round2(totalPayment),
	}
}

// annuityFactor is the future-value factor of an ordinary annuity:
// ((1+r)^n - 1) / r.
func annuityFactor(rate, periods float64) float64 {
	return (math.Pow(1+rate, periods) - 1) / rate
}

// successProbability is a coarse likelihood of reaching a target: the gap
// between the return the path requires and the expected return, mapped onto
// [0.05, 0.95].
func successProbability(target, accumulated, years, expectedReturn float64) float64 {
	if years <= 0 {
		if accumulated >= target {
			return 1.0
		}
		return 0.0
	}
	if accumulated <= 0 {
		return 0.05
	}

	requiredReturn := math.Pow(target/accumulated, 1/years) - 1
	if requiredReturn <= expectedReturn {
		return math.Min(0.95, 0.5+(expectedReturn-requiredReturn)*2)
	}
	return math.Max(0.05, 0.5-(requiredReturn-expectedReturn)*2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
