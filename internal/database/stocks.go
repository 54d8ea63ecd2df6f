package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

const stockColumns = `id, symbol, payouts, financials, ratios`

// UpsertStock returns the metadata record for symbol, creating an empty one
// if none exists
func (db *DB) UpsertStock(ctx context.Context, symbol string) (*models.Stock, error) {
	query := `
		INSERT INTO stocks (symbol) VALUES ($1)
		ON CONFLICT (symbol) DO UPDATE SET updated_at = NOW()
		RETURNING ` + stockColumns
	s, err := scanStock(db.conn.QueryRowContext(ctx, query, symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert stock: %w", err)
	}
	return s, nil
}

// SaveStock writes a complete metadata record, replacing any existing one
func (db *DB) SaveStock(ctx context.Context, s *models.Stock) error {
	payouts, err := json.Marshal(s.Payouts)
	if err != nil {
		return fmt.Errorf("failed to encode payouts: %w", err)
	}
	financials, err := json.Marshal(s.Financials)
	if err != nil {
		return fmt.Errorf("failed to encode financials: %w", err)
	}
	ratios, err := json.Marshal(s.Ratios)
	if err != nil {
		return fmt.Errorf("failed to encode ratios: %w", err)
	}

	query := `
		INSERT INTO stocks (symbol, payouts, financials, ratios)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			payouts = EXCLUDED.payouts,
			financials = EXCLUDED.financials,
			ratios = EXCLUDED.ratios,
			updated_at = NOW()
		RETURNING id
	`
	if err := db.conn.QueryRowContext(ctx, query, s.Symbol, payouts, financials, ratios).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	return nil
}

// ListStocks returns all metadata records ordered by symbol
func (db *DB) ListStocks(ctx context.Context) ([]models.Stock, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	stocks := []models.Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stocks: %w", err)
	}
	return stocks, nil
}

// ListStockSymbols returns only the symbols, ordered
func (db *DB) ListStockSymbols(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT symbol FROM stocks ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan stock symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// GetStock retrieves the metadata record for symbol
func (db *DB) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE symbol = $1`
	s, err := scanStock(db.conn.QueryRowContext(ctx, query, symbol))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return s, nil
}

// DeleteStock removes the metadata record for symbol
func (db *DB) DeleteStock(ctx context.Context, symbol string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM stocks WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete stock: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanStock(row rowScanner) (*models.Stock, error) {
	var payouts, financials, ratios []byte
	s := models.NewStock("")
	if err := row.Scan(&s.ID, &s.Symbol, &payouts, &financials, &ratios); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payouts, &s.Payouts); err != nil {
		return nil, fmt.Errorf("failed to decode payouts: %w", err)
	}
	if err := json.Unmarshal(financials, &s.Financials); err != nil {
		return nil, fmt.Errorf("failed to decode financials: %w", err)
	}
	if err := json.Unmarshal(ratios, &s.Ratios); err != nil {
		return nil, fmt.Errorf("failed to decode ratios: %w", err)
	}
	return s, nil
}
