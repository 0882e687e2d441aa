// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for the universe database (always absolute)
	LogLevel        string
	Port            int
	DevMode         bool
	HistoryYears    int    // Years of synthetic price history generated on refresh
	MarketDataSeed  int64  // Seed for the market data generator (0 = non-deterministic)
	RefreshSchedule string // Cron expression for the periodic universe refresh ("" = disabled)
	Simulations     int    // Default Monte Carlo trial count
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("ADVISOR_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory to absolute path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	port, err := strconv.Atoi(getEnv("ADVISOR_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_PORT: %w", err)
	}

	historyYears, err := strconv.Atoi(getEnv("ADVISOR_HISTORY_YEARS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_HISTORY_YEARS: %w", err)
	}

	seed, err := strconv.ParseInt(getEnv("ADVISOR_MARKET_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_MARKET_SEED: %w", err)
	}

	simulations, err := strconv.Atoi(getEnv("ADVISOR_SIMULATIONS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADVISOR_SIMULATIONS: %w", err)
	}

	return &Config{
		DataDir:         absDataDir,
		LogLevel:        getEnv("ADVISOR_LOG_LEVEL", "info"),
		Port:            port,
		DevMode:         getEnv("ADVISOR_DEV_MODE", "false") == "true",
		HistoryYears:    historyYears,
		MarketDataSeed:  seed,
		RefreshSchedule: getEnv("ADVISOR_REFRESH_SCHEDULE", ""),
		Simulations:     simulations,
	}, nil
}

// DatabasePath returns the path of the universe database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "universe.db")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
