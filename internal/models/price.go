package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is a point-in-time price snapshot for a symbol. Snapshots are
// append-only; the latest one per symbol is the one with the greatest FetchedAt.
type Price struct {
	ID          string              `json:"_id,omitempty" bson:"_id,omitempty"`
	Symbol      string              `json:"symbol" bson:"symbol"`
	Price       decimal.Decimal     `json:"price" bson:"price"`
	ChangeValue decimal.NullDecimal `json:"change_value" bson:"change_value"`
	Percentage  *string             `json:"percentage" bson:"percentage"`
	Direction   string              `json:"direction" bson:"direction"`
	FetchedAt   time.Time           `json:"fetched_at" bson:"fetched_at"`
}
