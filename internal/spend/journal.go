package spend

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	day    TEXT NOT NULL,
	at     TEXT NOT NULL,
	tool   TEXT NOT NULL,
	symbol TEXT NOT NULL DEFAULT '',
	value  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_day ON trades(day);
`

// Journal persists confirmed trades so the daily total survives restarts.
// Values are stored as decimal strings, never floats.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (or creates) the sqlite journal at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("spend: open journal: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("spend: init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Append records one confirmed trade under the given UTC day.
func (j *Journal) Append(day string, tr Trade) error {
	_, err := j.db.Exec(
		`INSERT INTO trades (day, at, tool, symbol, value) VALUES (?, ?, ?, ?, ?)`,
		day, tr.At.UTC().Format(time.RFC3339Nano), tr.Tool, tr.Symbol, tr.Value.String(),
	)
	if err != nil {
		return fmt.Errorf("spend: journal append: %w", err)
	}
	return nil
}

// ReplayDay loads the confirmed trades for one UTC day in insertion order.
func (j *Journal) ReplayDay(day string) ([]Trade, error) {
	rows, err := j.db.Query(
		`SELECT at, tool, symbol, value FROM trades WHERE day = ? ORDER BY id`, day,
	)
	if err != nil {
		return nil, fmt.Errorf("spend: journal replay: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var at, tool, symbol, value string
		if err := rows.Scan(&at, &tool, &symbol, &value); err != nil {
			return nil, fmt.Errorf("spend: journal scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("spend: journal timestamp %q: %w", at, err)
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("spend: journal value %q: %w", value, err)
		}
		trades = append(trades, Trade{At: ts, Tool: tool, Symbol: symbol, Value: v})
	}
	return trades, rows.Err()
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
