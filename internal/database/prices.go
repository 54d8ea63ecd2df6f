package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

const priceColumns = `id, symbol, price, change_value, percentage, direction, fetched_at`

// CreatePrice appends a price snapshot
func (db *DB) CreatePrice(ctx context.Context, p *models.Price) error {
	query := `
		INSERT INTO prices (symbol, price, change_value, percentage, direction, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var percentage sql.NullString
	if p.Percentage != nil {
		percentage = sql.NullString{String: *p.Percentage, Valid: true}
	}

	err := db.conn.QueryRowContext(ctx, query,
		p.Symbol, p.Price, p.ChangeValue, percentage, p.Direction, p.FetchedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create price: %w", err)
	}
	return nil
}

// ListPrices returns price history, newest first
func (db *DB) ListPrices(ctx context.Context, f store.PriceFilter) ([]models.Price, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = store.DefaultPriceHistoryLimit
	}

	if len(f.Symbols) == 0 {
		query := `SELECT ` + priceColumns + ` FROM prices ORDER BY fetched_at DESC LIMIT $1`
		return scanPrices(db.conn.QueryContext(ctx, query, limit))
	}

	query := `
		SELECT ` + priceColumns + `
		FROM prices
		WHERE symbol = ANY($1)
		ORDER BY fetched_at DESC
		LIMIT $2
	`
	return scanPrices(db.conn.QueryContext(ctx, query, pq.Array(f.Symbols), limit))
}

// LatestPrices returns the newest snapshot per symbol. An empty symbol list
// means every symbol.
func (db *DB) LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error) {
	var rows *sql.Rows
	var err error
	if len(symbols) == 0 {
		rows, err = db.conn.QueryContext(ctx, `
			SELECT DISTINCT ON (symbol) `+priceColumns+`
			FROM prices
			ORDER BY symbol, fetched_at DESC
		`)
	} else {
		rows, err = db.conn.QueryContext(ctx, `
			SELECT DISTINCT ON (symbol) `+priceColumns+`
			FROM prices
			WHERE symbol = ANY($1)
			ORDER BY symbol, fetched_at DESC
		`, pq.Array(symbols))
	}

	prices, err := scanPrices(rows, err)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]models.Price, len(prices))
	for _, p := range prices {
		latest[p.Symbol] = p
	}
	return latest, nil
}

// PriceExists reports whether a snapshot for symbol at fetchedAt is stored
func (db *DB) PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM prices WHERE symbol = $1 AND fetched_at = $2)`,
		symbol, fetchedAt,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check price: %w", err)
	}
	return exists, nil
}

func scanPrices(rows *sql.Rows, err error) ([]models.Price, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	prices := []models.Price{}
	for rows.Next() {
		var p models.Price
		var percentage sql.NullString
		if err := rows.Scan(&p.ID, &p.Symbol, &p.Price, &p.ChangeValue, &percentage, &p.Direction, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if percentage.Valid {
			pct := percentage.String
			p.Percentage = &pct
		}
		p.FetchedAt = p.FetchedAt.UTC()
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}
	return prices, nil
}
