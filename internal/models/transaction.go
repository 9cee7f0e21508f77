package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a row of the transactions table: one dated cash
// event on a property. The type column carries the sign; amount is positive.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	PropertyID    string          `db:"property_id"`
	Type          string          `db:"type"` // RENTAL_INCOME or OPERATING_EXPENSE
	Amount        decimal.Decimal `db:"amount"`
	Date          time.Time       `db:"transaction_date"`
	Label         string          `db:"label"`
	AuditFields
}
