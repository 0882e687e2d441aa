// Package server provides the HTTP surface of the advisor engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/database"
	"github.com/tharwa/advisor/internal/modules/optimization"
	"github.com/tharwa/advisor/internal/modules/planning"
	"github.com/tharwa/advisor/internal/modules/universe"
)

// Config holds the server dependencies.
type Config struct {
	Log          zerolog.Logger
	DB           *database.DB
	Universe     *universe.Repository
	Refresh      *universe.RefreshService
	Optimization *optimization.Service
	Calculator   *planning.Calculator
	Simulator    *planning.Simulator
	Port         int
	DevMode      bool
	Simulations  int
}

// Server is the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server with all routes registered.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", s.handleListInstruments)
			r.Get("/search", s.handleSearchInstruments)
			r.Get("/{symbol}", s.handleGetInstrument)
			r.Get("/{symbol}/history", s.handleInstrumentHistory)
		})

		r.Route("/universe", func(r chi.Router) {
			r.Get("/summary", s.handleUniverseSummary)
			r.Post("/refresh", s.handleRefresh)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/optimize", s.handleOptimize)
			r.Post("/frontier", s.handleFrontier)
		})

		r.Route("/planning", func(r chi.Router) {
			r.Post("/retirement", s.handleRetirement)
			r.Post("/montecarlo", s.handleMonteCarlo)
			r.Post("/goal", s.handleGoalFunding)
			r.Post("/emergency-fund", s.handleEmergencyFund)
			r.Post("/debt-payoff", s.handleDebtPayoff)
		})
	})
}

// Start begins serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK

	if err := s.cfg.DB.HealthCheck(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]string{"status": status})
}
