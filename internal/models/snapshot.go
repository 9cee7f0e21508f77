package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot represents a row of the portfolio_snapshots history
// table. LTV and DSCR are NULL when the year had no value or no debt service
// to divide by; alerts is a text array of threshold flags.
type PortfolioSnapshot struct {
	SnapshotID        string              `db:"snapshot_id"`
	PortfolioID       string              `db:"portfolio_id"`
	Year              int                 `db:"year"`
	TotalRentalIncome decimal.Decimal     `db:"total_rental_income"`
	TotalExpenses     decimal.Decimal     `db:"total_expenses"`
	TotalTaxDue       decimal.Decimal     `db:"total_tax_due"`
	TotalDebt         decimal.Decimal     `db:"total_debt"`
	TotalValue        decimal.Decimal     `db:"total_value"`
	TotalDebtService  decimal.Decimal     `db:"total_debt_service"`
	LTV               decimal.NullDecimal `db:"ltv"`
	DSCR              decimal.NullDecimal `db:"dscr"`
	Alerts            []string            `db:"alerts"`
	CreatedAt         time.Time           `db:"created_at"`
}
