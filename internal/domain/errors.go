// Package domain holds the core value types and error taxonomy shared by the
// engine's modules.
package domain

import "fmt"

// InsufficientDataError indicates too little price history for the requested
// statistic or for covariance estimation.
type InsufficientDataError struct {
	Symbol string // optional: the symbol that lacked data
	Needed int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("insufficient data for %s: need %d observations, got %d", e.Symbol, e.Needed, e.Got)
	}
	return fmt.Sprintf("insufficient data: need %d, got %d", e.Needed, e.Got)
}

// InfeasibleConstraintsError indicates the constraint set cannot be satisfied,
// typically fewer qualifying assets than the diversification minimum.
type InfeasibleConstraintsError struct {
	Available int
	Required  int
	Reason    string
}

func (e *InfeasibleConstraintsError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("infeasible constraints: %s", e.Reason)
	}
	return fmt.Sprintf("infeasible constraints: %d qualifying assets, %d required", e.Available, e.Required)
}

// OptimizationFailedError indicates the solver did not converge within its
// iteration bound.
type OptimizationFailedError struct {
	Mode   string
	Status string
}

func (e *OptimizationFailedError) Error() string {
	return fmt.Sprintf("optimization failed for mode %q: %s", e.Mode, e.Status)
}

// DegenerateInputError indicates an input outside the defined fallback
// behavior, such as a negative horizon.
type DegenerateInputError struct {
	Field string
	Value float64
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s = %g", e.Field, e.Value)
}
