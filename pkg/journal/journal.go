// Package journal keeps an append-only SQLite record of submitted orders and
// realized trades. It is an operator audit trail: nothing in it feeds back
// into trading decisions, and losing it never affects the engine.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    exchange_id TEXT,
    pair TEXT NOT NULL,
    side TEXT NOT NULL,
    amount REAL NOT NULL,
    status TEXT NOT NULL,
    note TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS trades (
    id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    pair TEXT NOT NULL,
    qty REAL NOT NULL,
    entry_price REAL NOT NULL,
    exit_price REAL,
    pnl REAL,
    reason TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Journal wraps the SQLite handle.
type Journal struct {
	db *sql.DB
}

// Open creates the database file (and its directory) when missing and
// applies the schema.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite prefers a single writer.
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the underlying handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// OrderRecord is one submitted (or rejected) order.
type OrderRecord struct {
	ID         string    `json:"id"`
	ExchangeID string    `json:"exchange_id"`
	Pair       string    `json:"pair"`
	Side       string    `json:"side"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TradeRecord is one realized round trip (entry to exit).
type TradeRecord struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	Pair       string    `json:"pair"`
	Qty        float64   `json:"qty"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	PnL        float64   `json:"pnl"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordOrder appends an order row.
func (j *Journal) RecordOrder(ctx context.Context, o OrderRecord) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO orders (id, exchange_id, pair, side, amount, status, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.ExchangeID, o.Pair, o.Side, o.Amount, o.Status, o.Note, o.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}

// RecordTrade appends a trade row.
func (j *Journal) RecordTrade(ctx context.Context, t TradeRecord) error {
	if j == nil {
		return nil
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades (id, order_id, pair, qty, entry_price, exit_price, pnl, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.OrderID, t.Pair, t.Qty, t.EntryPrice, t.ExitPrice, t.PnL, t.Reason, t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	return nil
}

// RecentOrders returns up to limit orders, newest first.
func (j *Journal) RecentOrders(ctx context.Context, limit int) ([]OrderRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, COALESCE(exchange_id, ''), pair, side, amount, status, COALESCE(note, ''), created_at
		FROM orders ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.ID, &o.ExchangeID, &o.Pair, &o.Side, &o.Amount, &o.Status, &o.Note, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// RecentTrades returns up to limit trades, newest first.
func (j *Journal) RecentTrades(ctx context.Context, limit int) ([]TradeRecord, error) {
	if j == nil {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, order_id, pair, qty, entry_price, COALESCE(exit_price, 0), COALESCE(pnl, 0), COALESCE(reason, ''), created_at
		FROM trades ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.ID, &t.OrderID, &t.Pair, &t.Qty, &t.EntryPrice, &t.ExitPrice, &t.PnL, &t.Reason, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
