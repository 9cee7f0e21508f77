// The patrimmo CLI runs the calculation engine against a YAML fixture file,
// no server or database required. Useful to sanity-check a deal before it
// ever reaches the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/patrimmo/patrimmo_backend/internal/platform/fixtures"
	"github.com/patrimmo/patrimmo_backend/internal/utils"
	"github.com/shopspring/decimal"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&scheduleCmd{}, "engine")
	subcommands.Register(&fiscalCmd{}, "engine")
	subcommands.Register(&summaryCmd{}, "engine")
	subcommands.Register(&analyzeCmd{}, "engine")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// loadPortfolio reads and materializes a fixture file.
func loadPortfolio(path string) (*fixtures.Portfolio, error) {
	f, err := fixtures.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Materialize()
}

var hundred = decimal.NewFromInt(100)

// eur renders an amount in the fixture's base currency.
func eur(amount decimal.Decimal) string {
	return utils.FormatMoney(amount, "EUR")
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}

// parseAmount converts a decimal flag value, complaining with the flag name.
func parseAmount(raw, flagName string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid -%s value %q", flagName, raw)
	}
	return d, nil
}
