package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// Engine values a trade ledger against the latest prices. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	// StrictOversell turns a sell that exceeds the open lots into an error
	// instead of ignoring the excess.
	StrictOversell bool
}

// Evaluate validates the ledger, then derives holdings, summary and realized
// profit from it. The full, unfiltered ledger must be passed.
func (e Engine) Evaluate(trades []models.Trade, latest map[string]models.Price) (*models.Portfolio, error) {
	if err := ValidateLedger(trades); err != nil {
		return nil, err
	}

	holdings, summary := Aggregate(trades, latest)

	realized, err := e.realized(trades)
	if err != nil {
		return nil, err
	}
	summary.RealizedProfit = realized

	return &models.Portfolio{Holdings: holdings, Summary: summary}, nil
}

// Lots validates the ledger and returns the open FIFO lots per symbol.
func (e Engine) Lots(trades []models.Trade) (map[string][]models.Lot, error) {
	if err := ValidateLedger(trades); err != nil {
		return nil, err
	}
	if e.StrictOversell {
		if _, err := RealizedProfitStrict(trades); err != nil {
			return nil, err
		}
	}
	return OpenLots(trades), nil
}

func (e Engine) realized(trades []models.Trade) (decimal.Decimal, error) {
	if e.StrictOversell {
		return RealizedProfitStrict(trades)
	}
	return RealizedProfit(trades), nil
}

// HeldSymbols returns the symbols with a positive net quantity, in order.
// Callers use it to restrict the latest-price lookup.
func HeldSymbols(trades []models.Trade) []string {
	groups := GroupBySymbol(trades)
	var held []string
	for _, symbol := range symbols(groups) {
		if foldPosition(groups[symbol]).net.IsPositive() {
			held = append(held, symbol)
		}
	}
	return held
}
