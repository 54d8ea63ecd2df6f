// Package performance builds the per-symbol daily percentage change table.
package performance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
	"github.com/trogers1052/portfolio-tracker/internal/store"
)

// DefaultDays is the window used when the caller gives none.
const DefaultDays = 7

// HistorySource reads price history.
type HistorySource interface {
	ListPrices(ctx context.Context, f store.PriceFilter) ([]models.Price, error)
}

// Day is the closing percentage change of one trading day.
type Day struct {
	Date       models.Date         `json:"date"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

// Row is the performance of one symbol over the window. NetChange is the
// sum of the daily percentages and is null when there is no data.
type Row struct {
	Symbol    string              `json:"symbol"`
	Days      []Day               `json:"days"`
	NetChange decimal.NullDecimal `json:"net_change"`
}

// Table builds one row per symbol, in the order given.
func Table(ctx context.Context, source HistorySource, symbols []string, days int) ([]Row, error) {
	if days <= 0 {
		days = DefaultDays
	}
	rows := make([]Row, 0, len(symbols))
	for _, symbol := range symbols {
		history, err := source.ListPrices(ctx, store.PriceFilter{
			Symbols: []string{symbol},
			Limit:   store.DefaultPriceHistoryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load price history for %s: %w", symbol, err)
		}
		rows = append(rows, BuildRow(symbol, history, days))
	}
	return rows, nil
}

// BuildRow keeps the last snapshot of each weekday (UTC), takes the most
// recent days of them and orders them oldest first.
func BuildRow(symbol string, history []models.Price, days int) Row {
	row := Row{Symbol: symbol, Days: []Day{}}

	closing := make(map[models.Date]models.Price)
	for _, p := range history {
		at := p.FetchedAt.UTC()
		if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		date := models.DateOf(at)
		if cur, ok := closing[date]; !ok || at.After(cur.FetchedAt) {
			closing[date] = p
		}
	}

	dates := make([]models.Date, 0, len(closing))
	for d := range closing {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	var sum decimal.Decimal
	var counted int
	for _, d := range dates {
		pct := parsePercentage(closing[d].Percentage)
		row.Days = append(row.Days, Day{Date: d, Percentage: pct})
		if pct.Valid {
			sum = sum.Add(pct.Decimal)
			counted++
		}
	}
	if counted > 0 {
		row.NetChange = decimal.NewNullDecimal(sum)
	}
	return row
}

// parsePercentage reads values like "+1.25%". A missing value is 0%.
func parsePercentage(raw *string) decimal.NullDecimal {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.NewNullDecimal(decimal.Zero)
	}
	s := strings.TrimSpace(strings.Replace(*raw, "%", "", 1))
	s = strings.TrimPrefix(s, "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
