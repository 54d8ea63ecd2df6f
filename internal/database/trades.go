package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

const tradeColumns = `id, symbol, trade_type, quantity, price, trade_date, notes, created_at`

// CreateTrade inserts a trade and fills in its id and creation time
func (db *DB) CreateTrade(ctx context.Context, t *models.Trade) error {
	query := `
		INSERT INTO trades (symbol, trade_type, quantity, price, trade_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	now := time.Now().UTC()
	if !t.CreatedAt.IsZero() {
		now = t.CreatedAt
	}

	err := db.conn.QueryRowContext(ctx, query,
		t.Symbol, string(t.TradeType), t.Quantity, t.Price, t.TradeDate, nullString(t.Notes), now,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	t.CreatedAt = now
	return nil
}

// ListTrades returns trades matching the filter, newest trade date first
func (db *DB) ListTrades(ctx context.Context, f store.TradeFilter) ([]models.Trade, error) {
	var where []string
	var args []interface{}
	if f.Symbol != "" {
		args = append(args, f.Symbol)
		where = append(where, fmt.Sprintf("symbol = $%d", len(args)))
	}
	if !f.StartDate.IsZero() {
		args = append(args, f.StartDate)
		where = append(where, fmt.Sprintf("trade_date >= $%d", len(args)))
	}
	if !f.EndDate.IsZero() {
		args = append(args, f.EndDate)
		where = append(where, fmt.Sprintf("trade_date <= $%d", len(args)))
	}

	query := `SELECT ` + tradeColumns + ` FROM trades`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY trade_date DESC, seq DESC"

	return db.scanTrades(db.conn.QueryContext(ctx, query, args...))
}

// AllTrades returns the full ledger in trade date order, ties in arrival order
func (db *DB) AllTrades(ctx context.Context) ([]models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY trade_date ASC, seq ASC`
	return db.scanTrades(db.conn.QueryContext(ctx, query))
}

// DeleteTrade removes a trade and returns what was deleted
func (db *DB) DeleteTrade(ctx context.Context, id string) (*models.Trade, error) {
	query := `DELETE FROM trades WHERE id = $1 RETURNING ` + tradeColumns

	t, err := scanTrade(db.conn.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		// malformed ids are reported as missing rather than as a server fault
		if strings.Contains(err.Error(), "invalid input syntax for type uuid") {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete trade: %w", err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var notes sql.NullString
	err := row.Scan(&t.ID, &t.Symbol, &t.TradeType, &t.Quantity, &t.Price, &t.TradeDate, &notes, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		t.Notes = notes.String
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func (db *DB) scanTrades(rows *sql.Rows, err error) ([]models.Trade, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}
	return trades, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
