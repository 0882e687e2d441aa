package universe

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

// Repository provides access to the asset universe store.
// All read paths are safe for concurrent use; the only writer is the refresh
// job, which swaps history atomically inside a transaction.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new universe repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "universe").Logger(),
	}
}

// SeedInstruments inserts instrument metadata. Existing symbols are left
// untouched, so seeding is idempotent across restarts.
func (r *Repository) SeedInstruments(instruments []Instrument) error {
	stmt, err := r.db.Prepare(`
		INSERT OR IGNORE INTO instruments
		(symbol, name, category, market, currency, risk_level, min_investment,
		 expense_ratio, dividend_yield, is_sharia_compliant, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare instrument insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range instruments {
		_, err := stmt.Exec(
			inst.Symbol,
			inst.Name,
			inst.Category,
			inst.Market,
			inst.Currency,
			inst.RiskLevel,
			inst.MinInvestment,
			nullFloat(inst.ExpenseRatio),
			nullFloat(inst.DividendYield),
			inst.IsShariaCompliant,
			inst.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert instrument %s: %w", inst.Symbol, err)
		}
	}

	r.log.Info().Int("count", len(instruments)).Msg("Seeded instruments")
	return nil
}

// ListInstruments returns instruments matching the filter.
func (r *Repository) ListInstruments(filter Filter) ([]Instrument, error) {
	query := `
		SELECT symbol, name, category, market, currency, risk_level, min_investment,
		       expense_ratio, dividend_yield, is_sharia_compliant, description
		FROM instruments
		WHERE 1=1
	`
	query, params := applyFilter(query, filter)
	query += " ORDER BY symbol"

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var instruments []Instrument
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instruments: %w", err)
	}

	return instruments, nil
}

// GetInstrument fetches one instrument by symbol, nil when not found.
func (r *Repository) GetInstrument(symbol string) (*Instrument, error) {
	row := r.db.QueryRow(`
		SELECT symbol, name, category, market, currency, risk_level, min_investment,
		       expense_ratio, dividend_yield, is_sharia_compliant, description
		FROM instruments
		WHERE symbol = ?
	`, symbol)

	inst, err := scanInstrument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// ListWithMetrics joins instruments with their performance metrics.
// Instruments without a metrics row carry a nil Metrics field.
func (r *Repository) ListWithMetrics(filter Filter) ([]InstrumentMetrics, error) {
	query := `
		SELECT i.symbol, i.name, i.category, i.market, i.currency, i.risk_level,
		       i.min_investment, i.expense_ratio, i.dividend_yield,
		       i.is_sharia_compliant, i.description,
		       p.ytd_return, p.one_year_return, p.three_year_return,
		       p.five_year_return, p.volatility, p.sharpe_ratio, p.max_drawdown
		FROM instruments i
		LEFT JOIN performance_metrics p ON i.symbol = p.symbol
		WHERE 1=1
	`
	query, params := applyFilter(query, filter)
	query += " ORDER BY i.symbol"

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments with metrics: %w", err)
	}
	defer rows.Close()

	var result []InstrumentMetrics
	for rows.Next() {
		var im InstrumentMetrics
		var expense, dividend sql.NullFloat64
		var ytd, oneYear, threeYear, fiveYear sql.NullFloat64
		var volatility, sharpe, maxDD sql.NullFloat64

		err := rows.Scan(
			&im.Symbol, &im.Name, &im.Category, &im.Market, &im.Currency,
			&im.RiskLevel, &im.MinInvestment, &expense, &dividend,
			&im.IsShariaCompliant, &im.Description,
			&ytd, &oneYear, &threeYear, &fiveYear,
			&volatility, &sharpe, &maxDD,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument metrics: %w", err)
		}

		im.ExpenseRatio = floatPtr(expense)
		im.DividendYield = floatPtr(dividend)

		if volatility.Valid {
			im.Metrics = &PerformanceMetrics{
				Symbol:          im.Symbol,
				YTDReturn:       floatPtr(ytd),
				OneYearReturn:   floatPtr(oneYear),
				ThreeYearReturn: floatPtr(threeYear),
				FiveYearReturn:  floatPtr(fiveYear),
				Volatility:      volatility.Float64,
				SharpeRatio:     sharpe.Float64,
				MaxDrawdown:     maxDD.Float64,
			}
		}

		result = append(result, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument metrics: %w", err)
	}

	return result, nil
}

// Search finds instruments by symbol, name or description substring.
func (r *Repository) Search(term string) ([]Instrument, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.Query(`
		SELECT symbol, name, category, market, currency, risk_level, min_investment,
		       expense_ratio, dividend_yield, is_sharia_compliant, description
		FROM instruments
		WHERE symbol LIKE ? OR name LIKE ? OR description LIKE ?
		ORDER BY symbol
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search instruments: %w", err)
	}
	defer rows.Close()

	var instruments []Instrument
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return instruments, nil
}

// Closes returns up to limit most recent daily closes for a symbol, ordered
// oldest first. limit <= 0 returns the full history.
func (r *Repository) Closes(symbol string, limit int) ([]float64, error) {
	query := `
		SELECT close FROM (
			SELECT close, date FROM historical_data
			WHERE symbol = ?
			ORDER BY date DESC
	`
	params := []interface{}{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		params = append(params, limit)
	}
	query += ") ORDER BY date ASC"

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query closes for %s: %w", symbol, err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan close: %w", err)
		}
		closes = append(closes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closes: %w", err)
	}

	return closes, nil
}

// History returns the full ordered price history for a symbol.
func (r *Repository) History(symbol string) ([]PricePoint, error) {
	rows, err := r.db.Query(`
		SELECT symbol, date, open, high, low, close, volume, adjusted_close
		FROM historical_data
		WHERE symbol = ?
		ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var p PricePoint
		var dateStr string
		var volume sql.NullInt64
		var adjusted sql.NullFloat64

		err := rows.Scan(&p.Symbol, &dateStr, &p.Open, &p.High, &p.Low, &p.Close, &volume, &adjusted)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}

		p.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %s: %w", dateStr, err)
		}
		if volume.Valid {
			p.Volume = &volume.Int64
		}
		if adjusted.Valid {
			p.AdjustedClose = adjusted.Float64
		}

		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return points, nil
}

// GetMetrics fetches the performance metrics row for a symbol, nil when the
// symbol has not been refreshed.
func (r *Repository) GetMetrics(symbol string) (*PerformanceMetrics, error) {
	row := r.db.QueryRow(`
		SELECT symbol, ytd_return, one_year_return, three_year_return,
		       five_year_return, volatility, sharpe_ratio, max_drawdown
		FROM performance_metrics
		WHERE symbol = ?
	`, symbol)

	var m PerformanceMetrics
	var ytd, oneYear, threeYear, fiveYear sql.NullFloat64

	err := row.Scan(&m.Symbol, &ytd, &oneYear, &threeYear, &fiveYear,
		&m.Volatility, &m.SharpeRatio, &m.MaxDrawdown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics for %s: %w", symbol, err)
	}

	m.YTDReturn = floatPtr(ytd)
	m.OneYearReturn = floatPtr(oneYear)
	m.ThreeYearReturn = floatPtr(threeYear)
	m.FiveYearReturn = floatPtr(fiveYear)
	return &m, nil
}

// Summary reports store-wide counts and the covered date range.
func (r *Repository) Summary() (*Summary, error) {
	var s Summary

	row := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN market = 'UAE' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN market = 'US' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_sharia_compliant = 1 THEN 1 ELSE 0 END), 0)
		FROM instruments
	`)
	if err := row.Scan(&s.TotalInstruments, &s.UAEInstruments, &s.USInstruments, &s.ShariaCompliant); err != nil {
		return nil, fmt.Errorf("failed to summarize instruments: %w", err)
	}

	var minDate, maxDate sql.NullString
	row = r.db.QueryRow(`SELECT COUNT(*), MIN(date), MAX(date) FROM historical_data`)
	if err := row.Scan(&s.TotalPricePoints, &minDate, &maxDate); err != nil {
		return nil, fmt.Errorf("failed to summarize history: %w", err)
	}

	if minDate.Valid {
		if t, err := time.Parse(dateLayout, minDate.String); err == nil {
			s.EarliestDate = &t
		}
	}
	if maxDate.Valid {
		if t, err := time.Parse(dateLayout, maxDate.String); err == nil {
			s.LatestDate = &t
		}
	}

	return &s, nil
}

// replaceHistory deletes and reinserts the full price history and metrics of
// all instruments within the supplied transaction. Callers own atomicity.
func (r *Repository) replaceHistory(tx *sql.Tx, history map[string][]PricePoint, metrics map[string]PerformanceMetrics) error {
	if _, err := tx.Exec(`DELETE FROM historical_data`); err != nil {
		return fmt.Errorf("failed to clear historical data: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM performance_metrics`); err != nil {
		return fmt.Errorf("failed to clear performance metrics: %w", err)
	}

	priceStmt, err := tx.Prepare(`
		INSERT INTO historical_data
		(symbol, date, open, high, low, close, volume, adjusted_close)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer priceStmt.Close()

	for symbol, points := range history {
		for _, p := range points {
			volume := sql.NullInt64{}
			if p.Volume != nil {
				volume.Int64 = *p.Volume
				volume.Valid = true
			}

			_, err := priceStmt.Exec(
				symbol,
				p.Date.Format(dateLayout),
				p.Open, p.High, p.Low, p.Close,
				volume,
				p.AdjustedClose,
			)
			if err != nil {
				return fmt.Errorf("failed to insert price for %s at %s: %w",
					symbol, p.Date.Format(dateLayout), err)
			}
		}
	}

	metricsStmt, err := tx.Prepare(`
		INSERT INTO performance_metrics
		(symbol, ytd_return, one_year_return, three_year_return, five_year_return,
		 volatility, sharpe_ratio, max_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metrics insert: %w", err)
	}
	defer metricsStmt.Close()

	for symbol, m := range metrics {
		_, err := metricsStmt.Exec(
			symbol,
			nullFloat(m.YTDReturn),
			nullFloat(m.OneYearReturn),
			nullFloat(m.ThreeYearReturn),
			nullFloat(m.FiveYearReturn),
			m.Volatility,
			m.SharpeRatio,
			m.MaxDrawdown,
		)
		if err != nil {
			return fmt.Errorf("failed to insert metrics for %s: %w", symbol, err)
		}
	}

	return nil
}

// applyFilter appends filter predicates to a query ending in "WHERE 1=1".
func applyFilter(query string, filter Filter) (string, []interface{}) {
	var params []interface{}
	var sb strings.Builder
	sb.WriteString(query)

	if filter.Market != "" {
		sb.WriteString(" AND market = ?")
		params = append(params, filter.Market)
	}
	if filter.Category != "" {
		sb.WriteString(" AND category = ?")
		params = append(params, filter.Category)
	}
	if filter.ShariaOnly {
		sb.WriteString(" AND is_sharia_compliant = 1")
	}
	if filter.MinRiskLevel > 0 {
		sb.WriteString(" AND risk_level >= ?")
		params = append(params, filter.MinRiskLevel)
	}
	if filter.MaxRiskLevel > 0 {
		sb.WriteString(" AND risk_level <= ?")
		params = append(params, filter.MaxRiskLevel)
	}

	return sb.String(), params
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstrument(row rowScanner) (Instrument, error) {
	var inst Instrument
	var expense, dividend sql.NullFloat64

	err := row.Scan(
		&inst.Symbol, &inst.Name, &inst.Category, &inst.Market, &inst.Currency,
		&inst.RiskLevel, &inst.MinInvestment, &expense, &dividend,
		&inst.IsShariaCompliant, &inst.Description,
	)
	if err == sql.ErrNoRows {
		return inst, err
	}
	if err != nil {
		return inst, fmt.Errorf("failed to scan instrument: %w", err)
	}

	inst.ExpenseRatio = floatPtr(expense)
	inst.DividendYield = floatPtr(dividend)
	return inst, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
