// Package planning implements the deterministic goal/retirement calculators
// and the Monte Carlo retirement simulator.
package planning

import (
	"fmt"
	"time"
)

// Defaults applied when a plan leaves the assumption fields at zero.
const (
	DefaultInflationRate    = 0.03
	DefaultReplacementRatio = 0.8
	DefaultLifeExpectancy   = 85
	DefaultSimulations      = 1000
	DefaultVolatility       = 0.15
)

// InvestorProfile describes one investor. Constructed per request, never
// persisted.
type InvestorProfile struct {
	Age             int      `json:"age"`
	RetirementAge   int      `json:"retirement_age"`
	AnnualIncome    float64  `json:"annual_income"`
	AnnualExpenses  float64  `json:"annual_expenses"`
	CurrentSavings  float64  `json:"current_savings"`
	RiskTolerance   int      `json:"risk_tolerance"` // 1-10
	Goals           []string `json:"goals,omitempty"`
	ShariaCompliant bool     `json:"sharia_compliant"`
	PreferredMarket string   `json:"preferred_market,omitempty"` // "UAE", "US", "BOTH" or ""
}

// Validate checks the profile invariants.
func (p InvestorProfile) Validate() error {
	if p.Age <= 0 {
		return fmt.Errorf("age %d must be positive", p.Age)
	}
	if p.RetirementAge <= p.Age {
		return fmt.Errorf("retirement_age %d must exceed age %d", p.RetirementAge, p.Age)
	}
	if p.RiskTolerance < 1 || p.RiskTolerance > 10 {
		return fmt.Errorf("risk_tolerance %d outside [1, 10]", p.RiskTolerance)
	}
	if p.AnnualIncome < 0 || p.AnnualExpenses < 0 || p.CurrentSavings < 0 {
		return fmt.Errorf("income, expenses and savings must be non-negative")
	}
	return nil
}

// InvestmentHorizon is the number of years until retirement.
func (p InvestorProfile) InvestmentHorizon() int {
	return p.RetirementAge - p.Age
}

// RetirementPlan carries the planning assumptions for the calculators.
type RetirementPlan struct {
	CurrentAge          int     `json:"current_age"`
	RetirementAge       int     `json:"retirement_age"`
	CurrentSavings      float64 `json:"current_savings"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	ExpectedReturn      float64 `json:"expected_return"`
	InflationRate       float64 `json:"inflation_rate"`
	ReplacementRatio    float64 `json:"replacement_ratio"`
	LifeExpectancy      int     `json:"life_expectancy"`
}

// withDefaults fills unset assumption fields.
func (p RetirementPlan) withDefaults() RetirementPlan {
	if p.InflationRate == 0 {
		p.InflationRate = DefaultInflationRate
	}
	if p.ReplacementRatio == 0 {
		p.ReplacementRatio = DefaultReplacementRatio
	}
	if p.LifeExpectancy == 0 {
		p.LifeExpectancy = DefaultLifeExpectancy
	}
	return p
}

// RetirementAnalysis is the closed-form retirement funding breakdown.
type RetirementAnalysis struct {
	CorpusNeeded            float64 `json:"retirement_corpus_needed"`
	FutureRequiredIncome    float64 `json:"future_required_annual_income"`
	SavingsFutureValue      float64 `json:"current_savings_future_value"`
	ContributionFutureValue float64 `json:"contributions_future_value"`
	TotalAccumulated        float64 `json:"total_accumulated"`
	Shortfall               float64 `json:"shortfall"`
	RequiredMonthlySavings  float64 `json:"required_additional_monthly_savings"`
	YearsToRetirement       int     `json:"years_to_retirement"`
	YearsInRetirement       int     `json:"years_in_retirement"`
	IsOnTrack               bool    `json:"is_on_track"`
}

// MonteCarloResult summarizes a retirement simulation run.
type MonteCarloResult struct {
	SuccessRate        float64 `json:"success_rate"`
	MedianFinalBalance float64 `json:"median_final_balance"`
	Percentile10       float64 `json:"percentile_10"`
	Percentile90       float64 `json:"percentile_90"`
	SimulationsRun     int     `json:"simulations_run"`
	Recommendation     string  `json:"recommendation"`
}

// FinancialGoal is one savings target with a deadline.
type FinancialGoal struct {
	Name              string    `json:"name"`
	TargetAmount      float64   `json:"target_amount"`
	TargetDate        time.Time `json:"target_date"`
	Priority          int       `json:"priority"` // 1-5
	InflationAdjusted bool      `json:"inflation_adjusted"`
}

// GoalFunding is the funding breakdown for one goal.
type GoalFunding struct {
	GoalName                string  `json:"goal_name"`
	TargetAmount            float64 `json:"target_amount"`
	YearsToGoal             float64 `json:"years_to_goal"`
	SavingsFutureValue      float64 `json:"current_savings_future_value"`
	ContributionFutureValue float64 `json:"contributions_future_value"`
	TotalAccumulated        float64 `json:"total_accumulated"`
	Shortfall               float64 `json:"shortfall"`
	RequiredMonthlySavings  float64 `json:"required_monthly_savings"`
	SuccessProbability      float64 `json:"probability_of_success"`
}

// EmergencyFund is the recommended liquid reserve.
type EmergencyFund struct {
	RecommendedMonths int     `json:"recommended_months"`
	TargetAmount      float64 `json:"target_amount"`
	MonthlyExpenses   float64 `json:"monthly_expenses"`
	JobStability      string  `json:"job_stability"`
	Dependents        int     `json:"dependents"`
}

// Debt is one liability in a payoff plan.
type Debt struct {
	Name       string  `json:"name"`
	Balance    float64 `json:"balance"`
	Rate       float64 `json:"rate"` // annual interest rate, for ordering
	MinPayment float64 `json:"min_payment"`
}

// Debt payoff strategies.
const (
	StrategyAvalanche = "avalanche" // highest rate first
	StrategySnowball  = "snowball"  // lowest balance first
)

// DebtPayoff summarizes a payoff schedule.
type DebtPayoff struct {
	MonthsToPayoff    int     `json:"months_to_payoff"`
	YearsToPayoff     float64 `json:"years_to_payoff"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	TotalPayments     float64 `json:"total_payments"`
	Strategy          string  `json:"strategy_used"`
	MonthlyPayment    float64 `json:"monthly_payment"`
}
