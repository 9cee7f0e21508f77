package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a row of the loans table. Only the contract parameters are
// stored; schedules and balances are recomputed from them on demand.
type Loan struct {
	LoanID        string          `db:"loan_id"`
	PropertyID    string          `db:"property_id"`
	Lender        string          `db:"lender"`
	Principal     decimal.Decimal `db:"principal"`
	AnnualRate    decimal.Decimal `db:"annual_rate"`
	TermMonths    int             `db:"term_months"`
	StartDate     time.Time       `db:"start_date"`
	InsuranceRate decimal.Decimal `db:"insurance_rate"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
