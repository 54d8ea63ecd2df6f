package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// lotQueue is the FIFO queue of open buy lots of one symbol.
type lotQueue []models.Lot

// sell matches qty against the oldest lots first and returns the realized
// profit of the matched part together with the quantity left unmatched.
func (q *lotQueue) sell(qty, price decimal.Decimal) (realized, unmatched decimal.Decimal) {
	lots := *q
	for qty.IsPositive() && len(lots) > 0 {
		front := &lots[0]
		matched := decimal.Min(qty, front.Quantity)

		realized = realized.Add(price.Sub(front.Price).Mul(matched))
		front.Quantity = front.Quantity.Sub(matched)
		qty = qty.Sub(matched)

		if front.Quantity.IsZero() {
			lots = lots[1:]
		}
	}
	*q = lots
	return realized, qty
}

// chronological returns a copy of trades stably sorted by trade date, so
// trades on the same day keep their ledger order.
func chronological(trades []models.Trade) []models.Trade {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TradeDate.Before(sorted[j].TradeDate)
	})
	return sorted
}

// settle walks one symbol's trades in date order. onOversell, when not nil,
// is called for every sell that could not be fully matched.
func settle(trades []models.Trade, onOversell func(models.Trade, decimal.Decimal) error) (decimal.Decimal, lotQueue, error) {
	var (
		realized decimal.Decimal
		queue    lotQueue
	)
	for _, t := range chronological(trades) {
		switch t.TradeType {
		case models.TradeTypeBuy:
			queue = append(queue, models.Lot{Quantity: t.Quantity, Price: t.Price, TradeDate: t.TradeDate})
		case models.TradeTypeSell:
			profit, unmatched := queue.sell(t.Quantity, t.Price)
			realized = realized.Add(profit)
			if unmatched.IsPositive() && onOversell != nil {
				if err := onOversell(t, unmatched); err != nil {
					return decimal.Zero, nil, err
				}
			}
		}
	}
	return realized, queue, nil
}

// RealizedProfit returns the total profit locked in by sells across all
// symbols, matching each sell against the oldest open buy lots. Sold shares
// that exceed the open lots contribute nothing.
func RealizedProfit(trades []models.Trade) decimal.Decimal {
	total, _ := realizedProfit(trades, false)
	return total
}

// RealizedProfitStrict is like RealizedProfit but fails with an
// *OversellError on the first sell that exceeds the open lots.
func RealizedProfitStrict(trades []models.Trade) (decimal.Decimal, error) {
	return realizedProfit(trades, true)
}

func realizedProfit(trades []models.Trade, strict bool) (decimal.Decimal, error) {
	var onOversell func(models.Trade, decimal.Decimal) error
	if strict {
		onOversell = func(t models.Trade, unmatched decimal.Decimal) error {
			return &OversellError{Symbol: t.Symbol, TradeID: t.ID, TradeDate: t.TradeDate, Unmatched: unmatched}
		}
	}

	groups := GroupBySymbol(trades)
	total := decimal.Zero
	for _, symbol := range symbols(groups) {
		realized, _, err := settle(groups[symbol], onOversell)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(realized)
	}
	return total, nil
}

// OpenLots returns the FIFO lots still open per symbol after every sell has
// been matched. Symbols without open lots are omitted.
func OpenLots(trades []models.Trade) map[string][]models.Lot {
	open := make(map[string][]models.Lot)
	for symbol, symbolTrades := range GroupBySymbol(trades) {
		_, queue, _ := settle(symbolTrades, nil)
		if len(queue) > 0 {
			open[symbol] = queue
		}
	}
	return open
}
