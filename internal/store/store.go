// Package store defines the persistence contract shared by the MongoDB and
// PostgreSQL backends.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// ErrNotFound is returned when a record addressed by id or natural key does
// not exist.
var ErrNotFound = errors.New("not found")

// DefaultPriceHistoryLimit caps unfiltered price history reads.
const DefaultPriceHistoryLimit = 1000

// TradeFilter narrows a trade listing for display. Zero values mean "no filter".
type TradeFilter struct {
	Symbol    string
	StartDate models.Date
	EndDate   models.Date
}

// PriceFilter narrows a price history listing.
type PriceFilter struct {
	Symbols []string
	Limit   int
}

// TradeStore persists the trade ledger.
type TradeStore interface {
	CreateTrade(ctx context.Context, t *models.Trade) error
	ListTrades(ctx context.Context, f TradeFilter) ([]models.Trade, error)
	AllTrades(ctx context.Context) ([]models.Trade, error)
	DeleteTrade(ctx context.Context, id string) (*models.Trade, error)
}

// PriceStore persists price snapshots.
type PriceStore interface {
	CreatePrice(ctx context.Context, p *models.Price) error
	ListPrices(ctx context.Context, f PriceFilter) ([]models.Price, error)
	LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error)
	PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error)
}

// AlertStore persists price alerts.
type AlertStore interface {
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	EnabledAlertsBySymbol(ctx context.Context, symbol string) ([]models.Alert, error)
	SetAlertEnabled(ctx context.Context, key models.AlertKey, enabled bool) error
	SetAlertTrigger(ctx context.Context, key models.AlertKey, trigger bool) error
	DeleteAlert(ctx context.Context, key models.AlertKey) error
}

// StockStore persists stock metadata.
type StockStore interface {
	UpsertStock(ctx context.Context, symbol string) (*models.Stock, error)
	ListStocks(ctx context.Context) ([]models.Stock, error)
	ListStockSymbols(ctx context.Context) ([]string, error)
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)
	DeleteStock(ctx context.Context, symbol string) error
}

// Store is implemented by every backend.
type Store interface {
	TradeStore
	PriceStore
	AlertStore
	StockStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
