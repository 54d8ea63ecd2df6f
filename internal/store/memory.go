package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// Memory is an in-process Store. It backs local development and tests.
type Memory struct {
	mu     sync.RWMutex
	trades []models.Trade
	prices []models.Price
	alerts []models.Alert
	stocks map[string]models.Stock
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{stocks: make(map[string]models.Stock)}
}

func (m *Memory) Ping(ctx context.Context) error  { return nil }
func (m *Memory) Close(ctx context.Context) error { return nil }

/* ---- trades ---- */

func (m *Memory) CreateTrade(ctx context.Context, t *models.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.trades = append(m.trades, *t)
	return nil
}

func (m *Memory) ListTrades(ctx context.Context, f TradeFilter) ([]models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Trade{}
	for _, t := range m.trades {
		if f.Symbol != "" && t.Symbol != f.Symbol {
			continue
		}
		if !f.StartDate.IsZero() && t.TradeDate.Before(f.StartDate) {
			continue
		}
		if !f.EndDate.IsZero() && t.TradeDate.After(f.EndDate) {
			continue
		}
		out = append(out, t)
	}
	// newest first; later arrivals first within a day
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.After(out[j].TradeDate) })
	return out, nil
}

func (m *Memory) AllTrades(ctx context.Context) ([]models.Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Trade, len(m.trades))
	copy(out, m.trades)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.Before(out[j].TradeDate) })
	return out, nil
}

func (m *Memory) DeleteTrade(ctx context.Context, id string) (*models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.trades {
		if t.ID == id {
			m.trades = append(m.trades[:i], m.trades[i+1:]...)
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

/* ---- prices ---- */

func (m *Memory) CreatePrice(ctx context.Context, p *models.Price) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.prices = append(m.prices, *p)
	return nil
}

func (m *Memory) ListPrices(ctx context.Context, f PriceFilter) ([]models.Price, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := toSet(f.Symbols)
	out := []models.Price{}
	for _, p := range m.prices {
		if len(wanted) > 0 && !wanted[p.Symbol] {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FetchedAt.After(out[j].FetchedAt) })
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultPriceHistoryLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := toSet(symbols)
	latest := make(map[string]models.Price)
	for _, p := range m.prices {
		if len(wanted) > 0 && !wanted[p.Symbol] {
			continue
		}
		if cur, ok := latest[p.Symbol]; !ok || p.FetchedAt.After(cur.FetchedAt) {
			latest[p.Symbol] = p
		}
	}
	return latest, nil
}

func (m *Memory) PriceExists(ctx context.Context, symbol string, fetchedAt time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.prices {
		if p.Symbol == symbol && p.FetchedAt.Equal(fetchedAt) {
			return true, nil
		}
	}
	return false, nil
}

/* ---- alerts ---- */

func (m *Memory) CreateAlert(ctx context.Context, a *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *Memory) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out, nil
}

func (m *Memory) EnabledAlertsBySymbol(ctx context.Context, symbol string) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Alert{}
	for _, a := range m.alerts {
		if a.Symbol == symbol && a.Enabled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) SetAlertEnabled(ctx context.Context, key models.AlertKey, enabled bool) error {
	return m.updateAlert(key, func(a *models.Alert) { a.Enabled = enabled })
}

func (m *Memory) SetAlertTrigger(ctx context.Context, key models.AlertKey, trigger bool) error {
	return m.updateAlert(key, func(a *models.Alert) { a.Trigger = trigger })
}

func (m *Memory) DeleteAlert(ctx context.Context, key models.AlertKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findAlert(key)
	if i < 0 {
		return ErrNotFound
	}
	m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
	return nil
}

func (m *Memory) updateAlert(key models.AlertKey, apply func(*models.Alert)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.findAlert(key)
	if i < 0 {
		return ErrNotFound
	}
	apply(&m.alerts[i])
	return nil
}

func (m *Memory) findAlert(key models.AlertKey) int {
	for i := range m.alerts {
		a := &m.alerts[i]
		if a.Symbol == key.Symbol && a.MinPrice.Equal(key.MinPrice) && a.MaxPrice.Equal(key.MaxPrice) {
			return i
		}
	}
	return -1
}

/* ---- stocks ---- */

func (m *Memory) UpsertStock(ctx context.Context, symbol string) (*models.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stocks[symbol]; ok {
		return &s, nil
	}
	s := models.NewStock(symbol)
	s.ID = uuid.NewString()
	m.stocks[symbol] = *s
	return s, nil
}

// PutStock stores a complete metadata record, replacing any existing one.
func (m *Memory) PutStock(s models.Stock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.stocks[s.Symbol] = s
}

func (m *Memory) ListStocks(ctx context.Context) ([]models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (m *Memory) ListStockSymbols(ctx context.Context) ([]string, error) {
	stocks, _ := m.ListStocks(ctx)
	symbols := make([]string, len(stocks))
	for i, s := range stocks {
		symbols[i] = s.Symbol
	}
	return symbols, nil
}

func (m *Memory) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stocks[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) DeleteStock(ctx context.Context, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stocks[symbol]; !ok {
		return ErrNotFound
	}
	delete(m.stocks, symbol)
	return nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
