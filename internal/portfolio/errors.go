package portfolio

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

var (
	// ErrInvalidTrade is returned when a trade fails the engine preconditions.
	ErrInvalidTrade = errors.New("invalid trade")
	// ErrOversell is returned in strict mode when a sell exceeds the open lots.
	ErrOversell = errors.New("sell exceeds open lots")
)

// ValidationError describes the first malformed trade of a ledger.
type ValidationError struct {
	TradeID string
	Symbol  string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.TradeID != "" {
		return fmt.Sprintf("invalid trade %s (%s): %s", e.TradeID, e.Symbol, e.Reason)
	}
	return fmt.Sprintf("invalid trade (%s): %s", e.Symbol, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTrade }

// OversellError reports the quantity of a sell that no open lot could match.
type OversellError struct {
	Symbol    string
	TradeID   string
	TradeDate models.Date
	Unmatched decimal.Decimal
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("sell of %s on %s leaves %s shares unmatched", e.Symbol, e.TradeDate, e.Unmatched)
}

func (e *OversellError) Unwrap() error { return ErrOversell }

// ValidateTrade checks the preconditions the engine relies on.
func ValidateTrade(t models.Trade) error {
	invalid := func(reason string) error {
		return &ValidationError{TradeID: t.ID, Symbol: t.Symbol, Reason: reason}
	}
	if t.Symbol == "" {
		return invalid("symbol is required")
	}
	if t.TradeType != models.TradeTypeBuy && t.TradeType != models.TradeTypeSell {
		return invalid(fmt.Sprintf("unknown trade type %q", t.TradeType))
	}
	if !t.Quantity.IsPositive() {
		return invalid("quantity must be positive")
	}
	if !t.Price.IsPositive() {
		return invalid("price must be positive")
	}
	return nil
}

// ValidateLedger returns the error of the first invalid trade, if any.
func ValidateLedger(trades []models.Trade) error {
	for _, t := range trades {
		if err := ValidateTrade(t); err != nil {
			return err
		}
	}
	return nil
}
