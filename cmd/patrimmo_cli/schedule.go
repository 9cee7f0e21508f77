package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
)

// scheduleCmd holds the flags for the 'schedule' subcommand.
type scheduleCmd struct {
	fixtureFile string
	property    string
	at          string
	maxRows     int
}

func (*scheduleCmd) Name() string { return "schedule" }
func (*scheduleCmd) Synopsis() string {
	return "print the amortization schedule of a property's loans"
}
func (*scheduleCmd) Usage() string {
	return `patrimmo_cli schedule -f <fixture> -property <name> [-at <date>] [-n <rows>]

  Prints the payment schedule of every active loan on the property. With -at,
  also quotes the outstanding balance and the early-repayment penalty at that
  date.
`
}

func (c *scheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fixtureFile, "f", "demo_portfolio.yaml", "Fixture file to load")
	f.StringVar(&c.property, "property", "", "Property name, as in the fixture")
	f.StringVar(&c.at, "at", "", "Date (YYYY-MM-DD) for a balance and payoff quote")
	f.IntVar(&c.maxRows, "n", 12, "Schedule rows to print per loan, 0 for the full table")
}

func (c *scheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.property == "" {
		return usageError("schedule: -property is required")
	}

	portfolio, err := loadPortfolio(c.fixtureFile)
	if err != nil {
		return fail("schedule: %v", err)
	}
	property, _, err := portfolio.PropertyByName(c.property)
	if err != nil {
		return fail("schedule: %v", err)
	}
	if len(property.Loans) == 0 {
		return fail("schedule: property %q carries no loan", c.property)
	}

	var at time.Time
	if c.at != "" {
		at, err = time.Parse("2006-01-02", c.at)
		if err != nil {
			return usageError("schedule: invalid -at date %q, want YYYY-MM-DD", c.at)
		}
	}

	for _, loan := range property.Loans {
		schedule, err := amortization.FromLoan(loan)
		if err != nil {
			return fail("schedule: loan %s: %v", loan.Lender, err)
		}

		fmt.Printf("%s — %s over %d months at %s%%, from %s\n",
			loan.Lender, eur(loan.Principal), loan.TermMonths,
			loan.AnnualRate.Mul(hundred).String(), loan.StartDate.Format("2006-01-02"))
		fmt.Printf("monthly payment %s, maturity %s\n",
			eur(schedule.Payment()), schedule.MaturityDate().Format("2006-01-02"))

		if !at.IsZero() {
			balance, err := schedule.BalanceAt(at)
			if err != nil {
				return fail("schedule: %v", err)
			}
			penalty, err := schedule.EarlyRepaymentPenalty(at, nil)
			if err != nil {
				return fail("schedule: %v", err)
			}
			fmt.Printf("at %s: balance %s, early-repayment penalty %s, payoff %s\n",
				at.Format("2006-01-02"), eur(balance), eur(penalty), eur(balance.Add(penalty)))
		}

		printLines(schedule.Lines(), c.maxRows)
		fmt.Println()
	}
	return subcommands.ExitSuccess
}

func printLines(lines []amortization.Line, maxRows int) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tdue\tpayment\tinterest\tprincipal\tbalance\t")
	truncated := false
	for _, line := range lines {
		if maxRows > 0 && line.Period > maxRows {
			truncated = true
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			line.Period, line.DueDate.Format("2006-01-02"),
			eur(line.Payment), eur(line.Interest), eur(line.Principal), eur(line.Balance))
	}
	w.Flush()
	if truncated {
		fmt.Printf("... %d more periods (-n 0 for all)\n", len(lines)-maxRows)
	}
}
