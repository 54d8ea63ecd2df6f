package portfolio

import (
	"context"
	"fmt"

	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// TradeSource returns the complete trade ledger.
type TradeSource interface {
	AllTrades(ctx context.Context) ([]models.Trade, error)
}

// PriceSource returns the most recent snapshot per symbol. Symbols without
// any snapshot are absent from the result.
type PriceSource interface {
	LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error)
}

// Service loads the ledger and prices and runs the engine on them.
type Service struct {
	trades TradeSource
	prices PriceSource
	engine Engine
}

// NewService creates a new Service
func NewService(trades TradeSource, prices PriceSource, engine Engine) *Service {
	return &Service{
		trades: trades,
		prices: prices,
		engine: engine,
	}
}

// Portfolio returns the current holdings and summary.
func (s *Service) Portfolio(ctx context.Context) (*models.Portfolio, error) {
	trades, err := s.trades.AllTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	latest := map[string]models.Price{}
	if held := HeldSymbols(trades); len(held) > 0 {
		latest, err = s.prices.LatestPrices(ctx, held)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest prices: %w", err)
		}
	}

	return s.engine.Evaluate(trades, latest)
}

// OpenLots returns the open FIFO lots per symbol.
func (s *Service) OpenLots(ctx context.Context) (map[string][]models.Lot, error) {
	trades, err := s.trades.AllTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return s.engine.Lots(trades)
}
