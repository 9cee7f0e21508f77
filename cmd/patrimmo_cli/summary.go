package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/core/services"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	fixtureFile string
	year        int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio-wide fiscal and debt summary" }
func (*summaryCmd) Usage() string {
	return `patrimmo_cli summary -f <fixture> -year <year>

  Computes every entity's fiscal result for the year plus portfolio-level
  debt, value, LTV, DSCR and threshold alerts.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fixtureFile, "f", "demo_portfolio.yaml", "Fixture file to load")
	f.IntVar(&c.year, "year", 0, "Fiscal year, e.g. 2024")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.year == 0 {
		return usageError("summary: -year is required")
	}

	portfolio, err := loadPortfolio(c.fixtureFile)
	if err != nil {
		return fail("summary: %v", err)
	}

	readers := portfolio.Readers()
	fiscal := services.NewFiscalService(readers, readers, readers, readers, readers)
	svc := services.NewSummaryService(readers, readers, readers, readers, fiscal)

	summary, err := svc.GetPortfolioSummary(ctx, portfolio.Portfolio.PortfolioID, c.year, "")
	if err != nil {
		return fail("summary: %v", err)
	}

	fmt.Printf("%s — fiscal year %d\n\n", portfolio.Portfolio.Name, summary.Year)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "entity\tkind\ttaxable\ttax due\tdeficit carried\t")
	for _, r := range summary.EntityResults {
		if r.Err != "" {
			fmt.Fprintf(w, "%s\t%s\tfailed: %s\t\t\t\n", r.EntityName, r.Kind, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			r.EntityName, r.Kind, eur(r.TaxableResult), eur(r.TaxDue), eur(r.CarriedForwardDeficit))
	}
	w.Flush()

	fmt.Printf("\nrental income %s, expenses %s, depreciation %s, tax due %s\n",
		eur(summary.TotalRentalIncome), eur(summary.TotalExpenses),
		eur(summary.TotalDepreciation), eur(summary.TotalTaxDue))
	fmt.Printf("debt %s on value %s, debt service %s\n",
		eur(summary.TotalDebt), eur(summary.TotalValue), eur(summary.TotalDebtService))
	fmt.Printf("LTV %s, DSCR %s\n", ratio(summary.LTV), ratio(summary.DSCR))

	if len(summary.Alerts) > 0 {
		fmt.Printf("ALERTS: %s\n", strings.Join(summary.Alerts, ", "))
	}
	return subcommands.ExitSuccess
}

func ratio(r domain.Ratio) string {
	if !r.Valid {
		return "n/a"
	}
	return r.Value.StringFixed(2)
}
