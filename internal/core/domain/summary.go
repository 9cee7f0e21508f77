package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary aggregates one fiscal year across every entity of a
// portfolio. Derived on demand, never stored as the source of truth;
// snapshots of it may be persisted for history (see PortfolioSnapshot).
type PortfolioSummary struct {
	PortfolioID string `json:"portfolioID"`
	Year        int    `json:"year"`

	EntityResults []EntityFiscalResult `json:"entityResults"`

	// Aggregates cover successful entities only; FailedEntityIDs says which
	// entities are missing from them.
	TotalRentalIncome decimal.Decimal `json:"totalRentalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalDepreciation decimal.Decimal `json:"totalDepreciation"`
	TotalTaxDue       decimal.Decimal `json:"totalTaxDue"`
	FailedEntityIDs   []string        `json:"failedEntityIDs,omitempty"`

	TotalDebt        decimal.Decimal `json:"totalDebt"`        // Outstanding balances at Dec 31 of the year
	TotalValue       decimal.Decimal `json:"totalValue"`       // Sum of retained property values
	TotalDebtService decimal.Decimal `json:"totalDebtService"` // Payments due during the year

	LTV    Ratio    `json:"ltv"`
	DSCR   Ratio    `json:"dscr"`
	Alerts []string `json:"alerts,omitempty"` // Advisory threshold flags, e.g. "LTV_HIGH"

	GeneratedAt time.Time `json:"generatedAt"`
}

// PortfolioSnapshot is a persisted point-in-time copy of a summary's headline
// figures, written by the scheduled snapshot job. Write-only history: no
// calculation ever reads one back.
type PortfolioSnapshot struct {
	SnapshotID        string          `json:"snapshotID"`  // Primary Key (e.g., UUID)
	PortfolioID       string          `json:"portfolioID"` // FK -> portfolios.portfolio_id
	Year              int             `json:"year"`
	TotalRentalIncome decimal.Decimal `json:"totalRentalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalTaxDue       decimal.Decimal `json:"totalTaxDue"`
	TotalDebt         decimal.Decimal `json:"totalDebt"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalDebtService  decimal.Decimal `json:"totalDebtService"`
	LTV               Ratio           `json:"ltv"`
	DSCR              Ratio           `json:"dscr"`
	Alerts            []string        `json:"alerts,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}
