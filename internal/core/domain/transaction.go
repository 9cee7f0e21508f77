package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is money coming in or going out.
type TransactionType string

const (
	RentalIncome     TransactionType = "RENTAL_INCOME"
	OperatingExpense TransactionType = "OPERATING_EXPENSE"
)

// Transaction represents a dated cash event on a property: a rent collection
// or a deductible operating expense (charges, insurance, repairs, taxe
// foncière, management fees, ...).
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (e.g., UUID)
	PropertyID    string          `json:"propertyID"`    // FK -> properties.property_id (Not Null)
	Type          TransactionType `json:"type"`          // RENTAL_INCOME or OPERATING_EXPENSE (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Positive value; the type carries the sign
	Date          time.Time       `json:"date"`          // Cash date, day granularity
	Label         string          `json:"label"`         // Free text, e.g. "Loyer juillet"
	AuditFields
}

// Signed returns the amount with its cash-flow sign: positive for income,
// negative for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == OperatingExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// YearCashTotals is one fiscal year's transaction totals for an entity,
// aggregated across its properties.
type YearCashTotals struct {
	Year              int             `json:"year"`
	RentalIncome      decimal.Decimal `json:"rentalIncome"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
}
