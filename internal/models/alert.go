package models

import (
	"github.com/shopspring/decimal"
)

// Alert is a price band on a symbol. It triggers when the price leaves
// [MinPrice, MaxPrice]. The (Symbol, MinPrice, MaxPrice) triple identifies it.
type Alert struct {
	ID        string              `json:"_id,omitempty" bson:"_id,omitempty"`
	Symbol    string              `json:"symbol" bson:"symbol"`
	MinPrice  decimal.Decimal     `json:"min_price" bson:"min_price"`
	MaxPrice  decimal.Decimal     `json:"max_price" bson:"max_price"`
	Enabled   bool                `json:"enabled" bson:"enabled"`
	Trigger   bool                `json:"trigger" bson:"trigger"`
	TradeType TradeType           `json:"trade_type,omitempty" bson:"trade_type,omitempty"`
	Quantity  decimal.NullDecimal `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Notes     string              `json:"notes,omitempty" bson:"notes,omitempty"`
}

// AlertKey is the natural key used by update and delete operations.
type AlertKey struct {
	Symbol   string          `json:"symbol"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
}

// Key returns the natural key of the alert.
func (a *Alert) Key() AlertKey {
	return AlertKey{Symbol: a.Symbol, MinPrice: a.MinPrice, MaxPrice: a.MaxPrice}
}

// Breached reports whether price is outside the alert band.
func (a *Alert) Breached(price decimal.Decimal) bool {
	return price.LessThan(a.MinPrice) || price.GreaterThan(a.MaxPrice)
}
