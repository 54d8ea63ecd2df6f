package models

// Stock holds scraped fundamentals for a symbol. The values are kept as the
// strings the scraper produced; only the scoring heuristic interprets them.
type Stock struct {
	ID         string     `json:"_id,omitempty" bson:"_id,omitempty"`
	Symbol     string     `json:"symbol" bson:"symbol"`
	Payouts    []Payout   `json:"payouts" bson:"payouts"`
	Financials Financials `json:"financials" bson:"financials"`
	Ratios     []Ratio    `json:"ratios" bson:"ratios"`
}

// NewStock returns an empty metadata record for symbol.
func NewStock(symbol string) *Stock {
	return &Stock{
		Symbol:     symbol,
		Payouts:    []Payout{},
		Financials: Financials{Annual: []FinancialData{}, Quarterly: []FinancialData{}},
		Ratios:     []Ratio{},
	}
}

// Payout is one dividend/bonus announcement.
type Payout struct {
	FinancialResults string `json:"Financial Results" bson:"Financial Results"`
	Details          string `json:"Details" bson:"Details"`
	EntitlementDate  string `json:"Entitlement Date" bson:"Entitlement Date"`
	PaymentDate      string `json:"Payment Date" bson:"Payment Date"`
}

// Financials groups annual and quarterly statements.
type Financials struct {
	Annual    []FinancialData `json:"annual" bson:"annual"`
	Quarterly []FinancialData `json:"quarterly" bson:"quarterly"`
}

// FinancialData is one period of an income statement.
type FinancialData struct {
	Period              string `json:"period" bson:"period"`
	MarkupEarned        string `json:"Mark-up Earned" bson:"Mark-up Earned"`
	TotalIncome         string `json:"Total Income" bson:"Total Income"`
	ProfitAfterTaxation string `json:"Profit after Taxation" bson:"Profit after Taxation"`
	EPS                 string `json:"EPS" bson:"EPS"`
}

// Ratio is one period of derived ratios.
type Ratio struct {
	Period          string `json:"period" bson:"period"`
	EPSGrowth       string `json:"EPS Growth (%)" bson:"EPS Growth (%)"`
	NetProfitMargin string `json:"Net Profit Margin (%)" bson:"Net Profit Margin (%)"`
	PEG             string `json:"PEG" bson:"PEG"`
}
