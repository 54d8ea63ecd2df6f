package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

const alertColumns = `id, symbol, min_price, max_price, enabled, triggered, trade_type, quantity, notes`

// firstAlertByKey selects the oldest alert with a given natural key. Keys are
// not unique, so updates and deletes address only the first match.
const firstAlertByKey = `
	SELECT id FROM alerts
	WHERE symbol = $1 AND min_price = $2 AND max_price = $3
	ORDER BY created_at
	LIMIT 1
`

// CreateAlert inserts a new alert
func (db *DB) CreateAlert(ctx context.Context, a *models.Alert) error {
	query := `
		INSERT INTO alerts (symbol, min_price, max_price, enabled, triggered, trade_type, quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := db.conn.QueryRowContext(ctx, query,
		a.Symbol, a.MinPrice, a.MaxPrice, a.Enabled, a.Trigger,
		nullString(string(a.TradeType)), a.Quantity, nullString(a.Notes),
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListAlerts returns every alert in creation order
func (db *DB) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts ORDER BY created_at`
	return scanAlerts(db.conn.QueryContext(ctx, query))
}

// EnabledAlertsBySymbol returns the enabled alerts on a symbol
func (db *DB) EnabledAlertsBySymbol(ctx context.Context, symbol string) ([]models.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE symbol = $1 AND enabled = TRUE
		ORDER BY created_at
	`
	return scanAlerts(db.conn.QueryContext(ctx, query, symbol))
}

// SetAlertEnabled toggles an alert on or off
func (db *DB) SetAlertEnabled(ctx context.Context, key models.AlertKey, enabled bool) error {
	query := `UPDATE alerts SET enabled = $4 WHERE id = (` + firstAlertByKey + `)`
	return db.execByKey(ctx, "update alert", query, key, enabled)
}

// SetAlertTrigger sets or clears the triggered flag of an alert
func (db *DB) SetAlertTrigger(ctx context.Context, key models.AlertKey, trigger bool) error {
	query := `UPDATE alerts SET triggered = $4 WHERE id = (` + firstAlertByKey + `)`
	return db.execByKey(ctx, "update alert", query, key, trigger)
}

// DeleteAlert removes an alert by natural key
func (db *DB) DeleteAlert(ctx context.Context, key models.AlertKey) error {
	query := `DELETE FROM alerts WHERE id = (` + firstAlertByKey + `)`
	return db.execByKey(ctx, "delete alert", query, key)
}

func (db *DB) execByKey(ctx context.Context, op, query string, key models.AlertKey, extra ...interface{}) error {
	args := append([]interface{}{key.Symbol, key.MinPrice, key.MaxPrice}, extra...)
	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanAlerts(rows *sql.Rows, err error) ([]models.Alert, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		var a models.Alert
		var tradeType, notes sql.NullString
		err := rows.Scan(
			&a.ID, &a.Symbol, &a.MinPrice, &a.MaxPrice, &a.Enabled, &a.Trigger,
			&tradeType, &a.Quantity, &notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if tradeType.Valid {
			a.TradeType = models.TradeType(tradeType.String)
		}
		if notes.Valid {
			a.Notes = notes.String
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}
