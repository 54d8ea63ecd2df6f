package models

import "time"

// Ledger event types published to Kafka
const (
	EventTradeCreated   = "TRADE_CREATED"
	EventTradeDeleted   = "TRADE_DELETED"
	EventPriceRecorded  = "PRICE_RECORDED"
	EventAlertTriggered = "ALERT_TRIGGERED"
)

// EventPriceFetched is the event type emitted by the external price fetcher.
const EventPriceFetched = "PRICE_FETCHED"

// LedgerEvent is published whenever the ledger, the price history or an
// alert changes.
type LedgerEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Trade     *Trade    `json:"trade,omitempty"`
	TradeID   string    `json:"trade_id,omitempty"`
	Price     *Price    `json:"price,omitempty"`
	Alert     *Alert    `json:"alert,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceEvent is consumed from the prices topic.
type PriceEvent struct {
	EventType string         `json:"event_type"`
	Source    string         `json:"source"`
	Data      PriceEventData `json:"data"`
}

// PriceEventData carries the scraped quote. Numbers arrive as strings.
type PriceEventData struct {
	Symbol      string  `json:"symbol"`
	Price       string  `json:"price"`
	ChangeValue string  `json:"change_value,omitempty"`
	Percentage  string  `json:"percentage,omitempty"`
	Direction   string  `json:"direction,omitempty"`
	FetchedAt   *string `json:"fetched_at,omitempty"`
}
