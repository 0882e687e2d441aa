package database

// universeSchema is the single source of truth for the asset universe store.
//
// instruments is seeded once at startup and immutable afterwards.
// historical_data and performance_metrics are replaced wholesale by the
// refresh job; they are never mutated incrementally.
const universeSchema = `
CREATE TABLE IF NOT EXISTS instruments (
    symbol              TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    category            TEXT NOT NULL,
    market              TEXT NOT NULL,
    currency            TEXT NOT NULL,
    risk_level          INTEGER NOT NULL,
    min_investment      REAL NOT NULL,
    expense_ratio       REAL,
    dividend_yield      REAL,
    is_sharia_compliant INTEGER NOT NULL,
    description         TEXT
);

CREATE TABLE IF NOT EXISTS historical_data (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol         TEXT NOT NULL,
    date           TEXT NOT NULL,
    open           REAL NOT NULL,
    high           REAL NOT NULL,
    low            REAL NOT NULL,
    close          REAL NOT NULL,
    volume         INTEGER,
    adjusted_close REAL,
    FOREIGN KEY (symbol) REFERENCES instruments (symbol),
    UNIQUE (symbol, date)
);

CREATE INDEX IF NOT EXISTS idx_historical_symbol_date ON historical_data (symbol, date);

CREATE TABLE IF NOT EXISTS performance_metrics (
    symbol            TEXT PRIMARY KEY,
    ytd_return        REAL,
    one_year_return   REAL,
    three_year_return REAL,
    five_year_return  REAL,
    volatility        REAL,
    sharpe_ratio      REAL,
    max_drawdown      REAL,
    FOREIGN KEY (symbol) REFERENCES instruments (symbol)
);

CREATE TABLE IF NOT EXISTS frontier_cache (
    cache_key  TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    created_at INTEGER NOT NULL
);
`
