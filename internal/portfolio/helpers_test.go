package portfolio

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

var tradeSeq int

// trade builds a ledger entry; qty and price are decimal strings.
func trade(symbol string, side models.TradeType, qty, price, date string) models.Trade {
	tradeSeq++
	return models.Trade{
		ID:        fmt.Sprintf("t-%d", tradeSeq),
		Symbol:    symbol,
		TradeType: side,
		Quantity:  decimal.RequireFromString(qty),
		Price:     decimal.RequireFromString(price),
		TradeDate: models.MustParseDate(date),
	}
}

func buy(symbol, qty, price, date string) models.Trade {
	return trade(symbol, models.TradeTypeBuy, qty, price, date)
}

func sell(symbol, qty, price, date string) models.Trade {
	return trade(symbol, models.TradeTypeSell, qty, price, date)
}

func snapshot(symbol, price string, fetchedAt time.Time) models.Price {
	pct := "1.25%"
	return models.Price{
		Symbol:     symbol,
		Price:      decimal.RequireFromString(price),
		Percentage: &pct,
		Direction:  "up",
		FetchedAt:  fetchedAt,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
