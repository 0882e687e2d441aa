package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tharwa/advisor/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondBadRequest(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// respondError maps the engine's typed errors onto HTTP statuses: domain
// precondition failures are 422, solver non-convergence is 500, anything
// else is a plain internal error.
func respondError(w http.ResponseWriter, err error) {
	var (
		insufficient *domain.InsufficientDataError
		infeasible   *domain.InfeasibleConstraintsError
		degenerate   *domain.DegenerateInputError
		failed       *domain.OptimizationFailedError
	)

	switch {
	case errors.As(err, &insufficient):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "insufficient_data"})
	case errors.As(err, &infeasible):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "infeasible_constraints"})
	case errors.As(err, &degenerate):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: "degenerate_input"})
	case errors.As(err, &failed):
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Kind: "optimization_failed"})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
