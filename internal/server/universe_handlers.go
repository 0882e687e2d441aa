package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tharwa/advisor/internal/modules/universe"
)

func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	instruments, err := s.cfg.Universe.ListWithMetrics(filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list instruments")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"instruments": instruments,
		"count":       len(instruments),
	})
}

func (s *Server) handleSearchInstruments(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		respondBadRequest(w, fmt.Errorf("missing search term q"))
		return
	}

	instruments, err := s.cfg.Universe.Search(term)
	if err != nil {
		s.log.Error().Err(err).Str("term", term).Msg("Search failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"instruments": instruments,
		"count":       len(instruments),
	})
}

func (s *Server) handleGetInstrument(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	instrument, err := s.cfg.Universe.GetInstrument(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get instrument")
		respondError(w, err)
		return
	}
	if instrument == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown symbol %s", symbol)})
		return
	}

	metrics, err := s.cfg.Universe.GetMetrics(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get metrics")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, universe.InstrumentMetrics{
		Instrument: *instrument,
		Metrics:    metrics,
	})
}

func (s *Server) handleInstrumentHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	instrument, err := s.cfg.Universe.GetInstrument(symbol)
	if err != nil {
		respondError(w, err)
		return
	}
	if instrument == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown symbol %s", symbol)})
		return
	}

	history, err := s.cfg.Universe.History(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load history")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":  symbol,
		"history": history,
		"count":   len(history),
	})
}

func (s *Server) handleUniverseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.cfg.Universe.Summary()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to summarize universe")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Refresh.Refresh(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Universe refresh failed")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func filterFromQuery(r *http.Request) (universe.Filter, error) {
	q := r.URL.Query()
	filter := universe.Filter{
		Market:   q.Get("market"),
		Category: q.Get("category"),
	}

	if v := q.Get("sharia_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid sharia_only %q", v)
		}
		filter.ShariaOnly = b
	}
	if v := q.Get("min_risk"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid min_risk %q", v)
		}
		filter.MinRiskLevel = n
	}
	if v := q.Get("max_risk"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("invalid max_risk %q", v)
		}
		filter.MaxRiskLevel = n
	}

	return filter, nil
}
