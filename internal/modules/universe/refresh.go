package universe

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tharwa/advisor/internal/database"
	"github.com/tharwa/advisor/internal/modules/marketdata"
	"github.com/tharwa/advisor/internal/modules/metrics"
)

// RefreshService regenerates the synthetic price history and the derived
// performance metrics for every instrument. The swap is performed in a single
// transaction, so readers observe either the previous history or the new one,
// never a mix.
type RefreshService struct {
	db         *sql.DB
	repo       *Repository
	generator  *marketdata.Generator
	calculator *metrics.Calculator
	log        zerolog.Logger

	historyYears int
	seed         uint64 // 0 = non-deterministic histories
}

// NewRefreshService creates a new refresh service.
func NewRefreshService(
	db *sql.DB,
	repo *Repository,
	generator *marketdata.Generator,
	calculator *metrics.Calculator,
	historyYears int,
	seed uint64,
	log zerolog.Logger,
) *RefreshService {
	return &RefreshService{
		db:           db,
		repo:         repo,
		generator:    generator,
		calculator:   calculator,
		historyYears: historyYears,
		seed:         seed,
		log:          log.With().Str("component", "refresh").Logger(),
	}
}

// Refresh regenerates the full universe history as of now.
func (s *RefreshService) Refresh(ctx context.Context) error {
	return s.RefreshAsOf(ctx, time.Now())
}

// RefreshAsOf regenerates the full universe history ending at the given date.
func (s *RefreshService) RefreshAsOf(ctx context.Context, endDate time.Time) error {
	started := time.Now()

	instruments, err := s.repo.ListInstruments(Filter{})
	if err != nil {
		return fmt.Errorf("failed to list instruments for refresh: %w", err)
	}
	if len(instruments) == 0 {
		s.log.Warn().Msg("No instruments to refresh")
		return nil
	}

	days := s.historyYears * 365
	history := make(map[string][]PricePoint, len(instruments))
	allMetrics := make(map[string]PerformanceMetrics, len(instruments))

	for _, inst := range instruments {
		if err := ctx.Err(); err != nil {
			return err
		}

		bars := s.generator.GenerateHistory(marketdata.Spec{
			Category:  inst.Category,
			Market:    inst.Market,
			RiskLevel: inst.RiskLevel,
			Days:      days,
			Seed:      s.symbolSeed(inst.Symbol),
		}, endDate)

		points := make([]PricePoint, len(bars))
		closes := make([]metrics.PricePoint, len(bars))
		for i, b := range bars {
			points[i] = PricePoint{
				Symbol:        inst.Symbol,
				Date:          b.Date,
				Open:          b.Open,
				High:          b.High,
				Low:           b.Low,
				Close:         b.Close,
				Volume:        b.Volume,
				AdjustedClose: b.AdjustedClose,
			}
			closes[i] = metrics.PricePoint{Date: b.Date, Close: b.Close}
		}
		history[inst.Symbol] = points

		perf, err := s.calculator.Calculate(closes)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Skipping metrics")
			continue
		}
		allMetrics[inst.Symbol] = PerformanceMetrics{
			Symbol:          inst.Symbol,
			YTDReturn:       perf.YTDReturn,
			OneYearReturn:   perf.OneYearReturn,
			ThreeYearReturn: perf.ThreeYearReturn,
			FiveYearReturn:  perf.FiveYearReturn,
			Volatility:      perf.Volatility,
			SharpeRatio:     perf.SharpeRatio,
			MaxDrawdown:     perf.MaxDrawdown,
		}
	}

	err = database.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.replaceHistory(tx, history, allMetrics)
	})
	if err != nil {
		return fmt.Errorf("failed to swap universe history: %w", err)
	}

	s.log.Info().
		Int("instruments", len(instruments)).
		Int("days", days).
		Dur("elapsed", time.Since(started)).
		Msg("Universe refresh complete")

	return nil
}

// symbolSeed derives a per-symbol stream from the base seed, so every
// instrument gets an independent but reproducible history.
func (s *RefreshService) symbolSeed(symbol string) uint64 {
	if s.seed == 0 {
		return 0
	}
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return s.seed ^ h.Sum64()
}
