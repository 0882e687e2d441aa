package server

import (
	"fmt"
	"net/http"

	"github.com/tharwa/advisor/internal/modules/optimization"
	"github.com/tharwa/advisor/internal/modules/planning"
)

type optimizeRequest struct {
	Profile      *planning.InvestorProfile `json:"profile,omitempty"`
	Constraints  *optimization.Constraints `json:"constraints,omitempty"`
	Mode         string                    `json:"mode,omitempty"`
	TargetReturn *float64                  `json:"target_return,omitempty"`
}

// resolve merges the request with defaults: constraints fall back to the
// default set, the mode to max_sharpe, and a missing target return is derived
// from the profile. Target-return mode with neither a target nor a profile to
// derive one from is a request error.
func (req optimizeRequest) resolve() (optimization.Constraints, string, float64, error) {
	constraints := optimization.DefaultConstraints()
	if req.Constraints != nil {
		constraints = *req.Constraints
	}

	if req.Profile != nil {
		if req.Profile.ShariaCompliant {
			constraints.ShariaOnly = true
		}
		if req.Profile.PreferredMarket != "" && constraints.MarketPreference == "" {
			constraints.MarketPreference = req.Profile.PreferredMarket
		}
	}

	mode := req.Mode
	if mode == "" {
		mode = optimization.ModeMaxSharpe
	}

	target := 0.0
	if req.TargetReturn != nil {
		target = *req.TargetReturn
	} else if mode == optimization.ModeTargetReturn {
		if req.Profile == nil {
			return constraints, mode, 0, fmt.Errorf("target_return mode requires target_return or profile")
		}
		target = optimization.TargetReturnFromProfile(req.Profile.Age, req.Profile.RiskTolerance)
	}

	return constraints, mode, target, nil
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	if req.Profile != nil {
		if err := req.Profile.Validate(); err != nil {
			respondBadRequest(w, err)
			return
		}
	}

	constraints, mode, target, err := req.resolve()
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	result, err := s.cfg.Optimization.BuildPortfolio(constraints, mode, target)
	if err != nil {
		s.log.Error().Err(err).Str("mode", mode).Msg("Optimization failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type frontierRequest struct {
	Profile     *planning.InvestorProfile `json:"profile,omitempty"`
	Constraints *optimization.Constraints `json:"constraints,omitempty"`
	Points      int                       `json:"points,omitempty"`
}

func (s *Server) handleFrontier(w http.ResponseWriter, r *http.Request) {
	var req frontierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	resolved := optimizeRequest{Profile: req.Profile, Constraints: req.Constraints}
	constraints, _, _, err := resolved.resolve()
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	frontier, err := s.cfg.Optimization.EfficientFrontier(constraints, req.Points)
	if err != nil {
		s.log.Error().Err(err).Msg("Frontier generation failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"frontier": frontier,
		"count":    len(frontier),
	})
}
