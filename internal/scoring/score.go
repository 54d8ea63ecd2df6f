// Package scoring rates a stock from its scraped fundamentals.
package scoring

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

// MaxScore caps the result.
const MaxScore = 10

// Reason explains one component of the score.
type Reason struct {
	Positive bool   `json:"positive"`
	Text     string `json:"text"`
}

// Result is a stock's score with the reasons behind it.
type Result struct {
	Symbol  string   `json:"symbol"`
	Score   int      `json:"score"`
	Max     int      `json:"max"`
	Reasons []Reason `json:"reasons"`
}

var (
	nonNumeric    = regexp.MustCompile(`[^\d.-]`)
	leadingNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	one           = decimal.NewFromInt(1)
	two           = decimal.NewFromInt(2)
	five          = decimal.NewFromInt(5)
	eight         = decimal.NewFromInt(8)
	fifteen       = decimal.NewFromInt(15)
	twenty        = decimal.NewFromInt(20)
)

// parseValue reads the number in a scraped cell such as "12.5%" or
// "(1,234.5)". An empty cell counts as zero; a cell with no number is skipped.
func parseValue(raw string) (decimal.Decimal, bool) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero, true
	}
	m := leadingNumber.FindString(cleaned)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m)
	return d, err == nil
}

func values(cells []string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, c := range cells {
		if v, ok := parseValue(c); ok {
			out = append(out, v)
		}
	}
	return out
}

func average(vals []decimal.Decimal) (decimal.Decimal, bool) {
	if len(vals) == 0 {
		return decimal.Zero, false
	}
	return decimal.Sum(decimal.Zero, vals...).Div(decimal.NewFromInt(int64(len(vals)))), true
}

func ratioColumn(ratios []models.Ratio, pick func(models.Ratio) string) []decimal.Decimal {
	cells := make([]string, len(ratios))
	for i, r := range ratios {
		cells[i] = pick(r)
	}
	return values(cells)
}

// Score rates stock out of MaxScore from EPS growth, profit margin, PEG,
// dividend history and the latest annual EPS trend.
func Score(stock *models.Stock) Result {
	res := Result{Symbol: stock.Symbol, Max: MaxScore, Reasons: []Reason{}}
	add := func(points int, positive bool, text string) {
		res.Score += points
		res.Reasons = append(res.Reasons, Reason{Positive: positive, Text: text})
	}

	if avg, ok := average(ratioColumn(stock.Ratios, func(r models.Ratio) string { return r.EPSGrowth })); ok {
		switch {
		case avg.GreaterThan(twenty):
			add(2, true, "Strong EPS growth")
		case avg.GreaterThan(five):
			add(1, true, "Moderate EPS growth")
		default:
			add(0, false, "Low EPS growth")
		}
	}

	if avg, ok := average(ratioColumn(stock.Ratios, func(r models.Ratio) string { return r.NetProfitMargin })); ok {
		switch {
		case avg.GreaterThan(fifteen):
			add(2, true, "High profit margin")
		case avg.GreaterThan(eight):
			add(1, true, "Moderate profit margin")
		default:
			add(0, false, "Low profit margin")
		}
	}

	if avg, ok := average(ratioColumn(stock.Ratios, func(r models.Ratio) string { return r.PEG })); ok {
		switch {
		case avg.LessThan(one):
			add(2, true, "Attractive PEG ratio (<1)")
		case avg.LessThan(two):
			add(1, true, "Fair PEG ratio (<2)")
		default:
			add(0, false, "High PEG ratio")
		}
	}

	switch n := len(stock.Payouts); {
	case n >= 4:
		add(2, true, "Consistent dividend payouts")
	case n >= 2:
		add(1, true, "Some dividend payouts")
	case n == 1:
		add(0, false, "Few or no dividends")
	}

	if annual := stock.Financials.Annual; len(annual) >= 2 {
		cells := make([]string, len(annual))
		for i, f := range annual {
			cells[i] = f.EPS
		}
		eps := values(cells)
		if n := len(eps); n >= 2 && eps[n-1].GreaterThan(eps[n-2]) {
			add(1, true, "Recent EPS growth")
		}
	}

	if res.Score > MaxScore {
		res.Score = MaxScore
	}
	return res
}
