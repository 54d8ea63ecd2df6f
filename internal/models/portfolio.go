package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the derived, non-persisted position in one symbol.
type Holding struct {
	Symbol           string              `json:"symbol"`
	SharesHeld       decimal.Decimal     `json:"shares_held"`
	AvgBuyPrice      decimal.Decimal     `json:"avg_buy_price"`
	LatestPrice      decimal.NullDecimal `json:"latest_price"`
	ChangePercentage *string             `json:"change_percentage"`
	MarketValue      decimal.Decimal     `json:"market_value"`
	Investment       decimal.Decimal     `json:"investment"`
	PercentUpDown    decimal.Decimal     `json:"percent_updown"`
	UnrealizedPL     decimal.Decimal     `json:"unrealized_pl"`
	LastUpdate       *time.Time          `json:"last_update"`
}

// PortfolioSummary aggregates all holdings plus realized profit.
type PortfolioSummary struct {
	TotalInvestment    decimal.Decimal `json:"total_investment"`
	TotalMarketValue   decimal.Decimal `json:"total_market_value"`
	TotalUnrealizedPL  decimal.Decimal `json:"total_unrealized_pl"`
	TotalPercentUpDown decimal.Decimal `json:"total_percent_updown"`
	RealizedProfit     decimal.Decimal `json:"realized_profit"`
}

// Portfolio is the response of a portfolio valuation.
type Portfolio struct {
	Holdings []Holding       `json:"portfolio"`
	Summary  PortfolioSummary `json:"summary"`
}

// Lot is an open FIFO buy lot.
type Lot struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TradeDate Date            `json:"trade_date"`
}
