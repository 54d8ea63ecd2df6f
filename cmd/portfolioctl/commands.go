package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/alerts"
	"github.com/trogers1052/portfolio-tracker/internal/app"
	"github.com/trogers1052/portfolio-tracker/internal/config"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

func loadConfig() (*config.Config, *logrus.Logger) {
	cfg := config.Load()
	log := cfg.Log.NewLogger()
	log.SetOutput(os.Stderr)
	return cfg, log
}

// migrateCmd applies the PostgreSQL schema.
type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending PostgreSQL migrations" }
func (*migrateCmd) Usage() string {
	return `migrate

  Applies the embedded schema migrations to the database configured by the
  DB_* environment variables.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _ := loadConfig()

	db, err := app.OpenPostgres(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close(ctx)

	if err := db.Migrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error migrating database: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Schema is up to date.")
	return subcommands.ExitSuccess
}

// reportCmd prints holdings and the portfolio summary.
type reportCmd struct {
	json bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display holdings and the portfolio summary" }
func (*reportCmd) Usage() string {
	return `report [-json]

  Values the trade ledger of the configured store against the latest prices.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the report as JSON")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log := loadConfig()

	st, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close(ctx)

	p, err := app.PortfolioService(cfg, st, nil).Portfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		return printJSON(p)
	}
	writeReport(os.Stdout, p, cfg.Portfolio.Currency)
	return subcommands.ExitSuccess
}

// lotsCmd prints the open FIFO lots.
type lotsCmd struct {
	json bool
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the open buy lots per symbol" }
func (*lotsCmd) Usage() string {
	return `lots [-json]

  Lists the buy lots that remain after matching sells first in, first out.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the lots as JSON")
}

func (c *lotsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log := loadConfig()

	st, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close(ctx)

	lots, err := app.PortfolioService(cfg, st, nil).OpenLots(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating lots: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		return printJSON(lots)
	}
	writeLots(os.Stdout, lots, cfg.Portfolio.Currency)
	return subcommands.ExitSuccess
}

func printJSON(v interface{}) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeReport(out io.Writer, p *models.Portfolio, currency string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Symbol\tShares\tAvg Price\tLatest\tMarket Value\tUnrealized P/L\t%\t")
	for _, h := range p.Holdings {
		latest := "-"
		if h.LatestPrice.Valid {
			latest = alerts.FormatMoney(h.LatestPrice.Decimal, currency)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			h.Symbol,
			h.SharesHeld.String(),
			alerts.FormatMoney(h.AvgBuyPrice, currency),
			latest,
			alerts.FormatMoney(h.MarketValue, currency),
			alerts.FormatMoney(h.UnrealizedPL, currency),
			h.PercentUpDown.StringFixed(2),
		)
	}
	w.Flush()

	s := p.Summary
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Investment:      %s\n", alerts.FormatMoney(s.TotalInvestment, currency))
	fmt.Fprintf(out, "Market value:    %s\n", alerts.FormatMoney(s.TotalMarketValue, currency))
	fmt.Fprintf(out, "Unrealized P/L:  %s (%s%%)\n", alerts.FormatMoney(s.TotalUnrealizedPL, currency), s.TotalPercentUpDown.StringFixed(2))
	fmt.Fprintf(out, "Realized profit: %s\n", alerts.FormatMoney(s.RealizedProfit, currency))
}

func writeLots(out io.Writer, lots map[string][]models.Lot, currency string) {
	symbols := make([]string, 0, len(lots))
	for s := range lots {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Symbol\tDate\tQuantity\tPrice\t")
	for _, s := range symbols {
		for _, lot := range lots[s] {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", s, lot.TradeDate, lot.Quantity.String(), alerts.FormatMoney(lot.Price, currency))
		}
	}
	w.Flush()
}
