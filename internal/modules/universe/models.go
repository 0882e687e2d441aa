// Package universe provides the asset universe store: instrument metadata,
// synthetic price history and derived performance metrics.
package universe

import "time"

// Markets supported by the universe.
const (
	MarketUAE = "UAE"
	MarketUS  = "US"
)

// Instrument is one investable asset. Immutable after seeding.
type Instrument struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Market            string   `json:"market"`
	Currency          string   `json:"currency"`
	RiskLevel         int      `json:"risk_level"`
	MinInvestment     float64  `json:"min_investment"`
	ExpenseRatio      *float64 `json:"expense_ratio,omitempty"`
	DividendYield     *float64 `json:"dividend_yield,omitempty"`
	IsShariaCompliant bool     `json:"is_sharia_compliant"`
	Description       string   `json:"description"`
}

// PricePoint is one daily OHLC row. (symbol, date) is unique and dates are
// strictly increasing per symbol.
type PricePoint struct {
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        *int64    `json:"volume,omitempty"`
	AdjustedClose float64   `json:"adjusted_close"`
}

// PerformanceMetrics is the derived statistics row for one symbol.
// Window returns are nil when the history is shorter than the window.
type PerformanceMetrics struct {
	Symbol          string   `json:"symbol"`
	YTDReturn       *float64 `json:"ytd_return,omitempty"`
	OneYearReturn   *float64 `json:"one_year_return,omitempty"`
	ThreeYearReturn *float64 `json:"three_year_return,omitempty"`
	FiveYearReturn  *float64 `json:"five_year_return,omitempty"`
	Volatility      float64  `json:"volatility"`
	SharpeRatio     float64  `json:"sharpe_ratio"`
	MaxDrawdown     float64  `json:"max_drawdown"`
}

// InstrumentMetrics joins an instrument with its performance metrics.
// Metrics is nil for instruments that have not been refreshed yet.
type InstrumentMetrics struct {
	Instrument
	Metrics *PerformanceMetrics `json:"metrics,omitempty"`
}

// Filter narrows instrument retrieval. Zero values mean "no filter".
type Filter struct {
	Market       string // "UAE", "US" or "" for both
	Category     string
	ShariaOnly   bool
	MinRiskLevel int // inclusive; 0 = unbounded
	MaxRiskLevel int // inclusive; 0 = unbounded
}

// Summary describes the store contents.
type Summary struct {
	TotalInstruments int        `json:"total_instruments"`
	UAEInstruments   int        `json:"uae_instruments"`
	USInstruments    int        `json:"us_instruments"`
	ShariaCompliant  int        `json:"sharia_compliant"`
	TotalPricePoints int        `json:"total_price_points"`
	EarliestDate     *time.Time `json:"earliest_date,omitempty"`
	LatestDate       *time.Time `json:"latest_date,omitempty"`
}
