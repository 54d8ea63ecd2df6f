package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel over the API and the event bus as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// TradeType is the side of a trade.
type TradeType string

// Trade type constants
const (
	TradeTypeBuy  TradeType = "Buy"
	TradeTypeSell TradeType = "Sell"
)

// ParseTradeType accepts any casing of "buy" or "sell".
func ParseTradeType(s string) (TradeType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return TradeTypeBuy, true
	case "SELL":
		return TradeTypeSell, true
	}
	return "", false
}

// Trade is one entry of the ledger. Trades are immutable once created.
type Trade struct {
	ID        string          `json:"_id,omitempty" bson:"_id,omitempty"`
	Symbol    string          `json:"symbol" bson:"symbol"`
	TradeType TradeType       `json:"trade_type" bson:"trade_type"`
	Quantity  decimal.Decimal `json:"quantity" bson:"quantity"`
	Price     decimal.Decimal `json:"price" bson:"price"`
	TradeDate Date            `json:"trade_date" bson:"trade_date"`
	Notes     string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Total returns quantity × price.
func (t Trade) Total() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}
