// Command server runs the portfolio construction and financial projection
// engine: it seeds the asset universe, keeps the synthetic price history
// fresh and serves the optimization and planning API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/config"
	"github.com/tharwa/advisor/internal/database"
	"github.com/tharwa/advisor/internal/modules/marketdata"
	"github.com/tharwa/advisor/internal/modules/metrics"
	"github.com/tharwa/advisor/internal/modules/optimization"
	"github.com/tharwa/advisor/internal/modules/planning"
	"github.com/tharwa/advisor/internal/modules/universe"
	"github.com/tharwa/advisor/internal/server"
	"github.com/tharwa/advisor/pkg/logger"
)

// frontierCacheTTL bounds how long a computed frontier is reused.
const frontierCacheTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting advisor engine")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Engine exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	db, err := database.New(database.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	repo := universe.NewRepository(db.Conn(), log)
	generator := marketdata.NewGenerator(log)
	calculator := metrics.NewCalculator(log)
	refresh := universe.NewRefreshService(db.Conn(), repo, generator, calculator,
		cfg.HistoryYears, uint64(cfg.MarketDataSeed), log)

	estimator := optimization.NewEstimator(repo, log)
	optimizer := optimization.NewMVOptimizer(log)
	frontierGen := optimization.NewFrontierGenerator(optimizer, log)
	frontierCache := optimization.NewFrontierCache(db.Conn(), frontierCacheTTL, log)
	optimizationSvc := optimization.NewService(repo, estimator, optimizer, frontierGen, frontierCache, log)

	planningCalc := planning.NewCalculator(log)
	simulator := planning.NewSimulator(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := repo.SeedInstruments(universe.DefaultInstruments()); err != nil {
		return err
	}

	// Generate history on first start so the optimizer has data immediately.
	summary, err := repo.Summary()
	if err != nil {
		return err
	}
	if summary.TotalPricePoints == 0 {
		log.Info().Msg("Empty price history, running initial refresh")
		if err := refresh.Refresh(ctx); err != nil {
			return err
		}
	}

	var scheduler *cron.Cron
	if cfg.RefreshSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
			if err := refresh.Refresh(context.Background()); err != nil {
				log.Error().Err(err).Msg("Scheduled refresh failed")
			}
			if err := frontierCache.Purge(); err != nil {
				log.Error().Err(err).Msg("Frontier cache purge failed")
			}
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.RefreshSchedule).Msg("Refresh scheduler started")
	}

	srv := server.New(server.Config{
		Log:          log,
		DB:           db,
		Universe:     repo,
		Refresh:      refresh,
		Optimization: optimizationSvc,
		Calculator:   planningCalc,
		Simulator:    simulator,
		Port:         cfg.Port,
		DevMode:      cfg.DevMode,
		Simulations:  cfg.Simulations,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
	return nil
}
