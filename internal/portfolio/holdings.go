package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

var hundred = decimal.NewFromInt(100)

// position is the per-symbol fold of the ledger.
type position struct {
	net     decimal.Decimal
	buyQty  decimal.Decimal
	buyCost decimal.Decimal
}

func foldPosition(trades []models.Trade) position {
	var p position
	for _, t := range trades {
		switch t.TradeType {
		case models.TradeTypeBuy:
			p.net = p.net.Add(t.Quantity)
			p.buyQty = p.buyQty.Add(t.Quantity)
			p.buyCost = p.buyCost.Add(t.Total())
		case models.TradeTypeSell:
			// average cost only ever comes from buy lots
			p.net = p.net.Sub(t.Quantity)
		}
	}
	return p
}

func (p position) avgBuyPrice() decimal.Decimal {
	if p.buyQty.IsZero() {
		return decimal.Zero
	}
	return p.buyCost.Div(p.buyQty)
}

// investment is the cost basis of the net quantity. It scales the total buy
// cost directly so a repeating average does not leak into the amount.
func (p position) investment() decimal.Decimal {
	if p.buyQty.IsZero() {
		return decimal.Zero
	}
	return p.buyCost.Mul(p.net).Div(p.buyQty)
}

// Aggregate computes the current holdings and the unrealized part of the
// summary. Only symbols with a strictly positive net quantity are returned,
// ordered by symbol. latest maps a symbol to its most recent snapshot; a
// missing entry leaves the market fields of the holding empty.
func Aggregate(trades []models.Trade, latest map[string]models.Price) ([]models.Holding, models.PortfolioSummary) {
	groups := GroupBySymbol(trades)

	holdings := make([]models.Holding, 0, len(groups))
	var summary models.PortfolioSummary
	for _, symbol := range symbols(groups) {
		pos := foldPosition(groups[symbol])
		if !pos.net.IsPositive() {
			continue
		}

		h := newHolding(symbol, pos, latest)
		summary.TotalInvestment = summary.TotalInvestment.Add(h.Investment)
		summary.TotalMarketValue = summary.TotalMarketValue.Add(h.MarketValue)
		summary.TotalUnrealizedPL = summary.TotalUnrealizedPL.Add(h.UnrealizedPL)
		holdings = append(holdings, h)
	}

	summary.TotalPercentUpDown = percentChange(summary.TotalInvestment, summary.TotalMarketValue)
	return holdings, summary
}

func newHolding(symbol string, pos position, latest map[string]models.Price) models.Holding {
	avg := pos.avgBuyPrice()
	h := models.Holding{
		Symbol:        symbol,
		SharesHeld:    pos.net.Round(0),
		AvgBuyPrice:   avg,
		MarketValue:   decimal.Zero,
		Investment:    pos.investment(),
		PercentUpDown: decimal.Zero,
		UnrealizedPL:  decimal.Zero,
	}

	price, ok := latest[symbol]
	if !ok {
		return h
	}
	h.LatestPrice = decimal.NewNullDecimal(price.Price)
	h.ChangePercentage = price.Percentage
	fetchedAt := price.FetchedAt
	h.LastUpdate = &fetchedAt
	h.MarketValue = price.Price.Mul(pos.net)
	h.UnrealizedPL = price.Price.Sub(avg).Mul(pos.net)
	h.PercentUpDown = percentChange(avg, price.Price)
	return h
}

// percentChange returns (to - from) / from * 100, or zero when from is not positive.
func percentChange(from, to decimal.Decimal) decimal.Decimal {
	if !from.IsPositive() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred)
}
