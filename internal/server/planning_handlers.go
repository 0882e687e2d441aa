package server

import (
	"net/http"

	"github.com/tharwa/advisor/internal/modules/planning"
)

type retirementRequest struct {
	Plan         planning.RetirementPlan `json:"plan"`
	AnnualIncome float64                 `json:"annual_income"`
}

func (s *Server) handleRetirement(w http.ResponseWriter, r *http.Request) {
	var req retirementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	analysis, err := s.cfg.Calculator.RetirementNeeds(req.Plan, req.AnnualIncome)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

type monteCarloRequest struct {
	Plan         planning.RetirementPlan `json:"plan"`
	AnnualIncome float64                 `json:"annual_income"`
	Simulations  int                     `json:"simulations,omitempty"`
	Volatility   float64                 `json:"volatility,omitempty"`
	Seed         uint64                  `json:"seed,omitempty"`
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if req.Simulations == 0 {
		req.Simulations = s.cfg.Simulations
	}

	result, err := s.cfg.Simulator.Simulate(r.Context(), req.Plan, req.AnnualIncome,
		req.Simulations, req.Volatility, req.Seed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type goalRequest struct {
	Goal                planning.FinancialGoal `json:"goal"`
	CurrentSavings      float64                `json:"current_savings"`
	MonthlyContribution float64                `json:"monthly_contribution"`
	ExpectedReturn      float64                `json:"expected_return"`
}

func (s *Server) handleGoalFunding(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if req.ExpectedReturn == 0 {
		req.ExpectedReturn = 0.07
	}

	funding, err := s.cfg.Calculator.GoalFunding(req.Goal, req.CurrentSavings,
		req.MonthlyContribution, req.ExpectedReturn)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, funding)
}

type emergencyFundRequest struct {
	MonthlyExpenses float64 `json:"monthly_expenses"`
	JobStability    string  `json:"job_stability,omitempty"`
	Dependents      int     `json:"dependents,omitempty"`
}

func (s *Server) handleEmergencyFund(w http.ResponseWriter, r *http.Request) {
	var req emergencyFundRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if req.JobStability == "" {
		req.JobStability = "stable"
	}

	respondJSON(w, http.StatusOK,
		s.cfg.Calculator.EmergencyFund(req.MonthlyExpenses, req.JobStability, req.Dependents))
}

type debtPayoffRequest struct {
	Debts        []planning.Debt `json:"debts"`
	ExtraPayment float64         `json:"extra_payment,omitempty"`
	Strategy     string          `json:"strategy,omitempty"`
}

func (s *Server) handleDebtPayoff(w http.ResponseWriter, r *http.Request) {
	var req debtPayoffRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	respondJSON(w, http.StatusOK,
		s.cfg.Calculator.DebtPayoff(req.Debts, req.ExtraPayment, req.Strategy))
}
