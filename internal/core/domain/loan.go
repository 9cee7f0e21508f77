package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a fixed-rate annuity loan financing a property. All derived
// figures (payment, balances, payoff penalty) are recomputed on demand from
// these parameters; none are stored.
type Loan struct {
	LoanID     string          `json:"loanID"`     // Primary Key (e.g., UUID)
	PropertyID string          `json:"propertyID"` // FK -> properties.property_id
	Lender     string          `json:"lender"`
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annualRate"` // Nominal annual rate as a fraction, e.g. 0.035
	TermMonths int             `json:"termMonths"`
	StartDate  time.Time       `json:"startDate"` // Release of funds; first payment falls one month later

	// InsuranceRate is the annual borrower-insurance rate applied to the
	// initial principal. It rides on top of the annuity payment in reporting
	// but takes no part in the amortization math.
	InsuranceRate decimal.Decimal `json:"insuranceRate"`

	IsActive bool `json:"isActive"`
	AuditFields
}

// MaturityDate is the due date of the final payment.
func (l Loan) MaturityDate() time.Time {
	return l.StartDate.AddDate(0, l.TermMonths, 0)
}

// MonthlyInsurance is the fixed monthly insurance premium, rounded to the cent.
func (l Loan) MonthlyInsurance() decimal.Decimal {
	return l.Principal.Mul(l.InsuranceRate).Div(decimal.NewFromInt(12)).Round(2)
}
