package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a row of the properties table. Monetary columns are
// NUMERIC; current_value stores zero when no market value has been retained.
type Property struct {
	PropertyID       string          `db:"property_id"`
	EntityID         string          `db:"entity_id"`
	Name             string          `db:"name"`
	Address          string          `db:"address"`
	AcquisitionDate  time.Time       `db:"acquisition_date"`
	AcquisitionPrice decimal.Decimal `db:"acquisition_price"`
	AcquisitionCosts decimal.Decimal `db:"acquisition_costs"`
	CurrentValue     decimal.Decimal `db:"current_value"`
	LandValue        decimal.Decimal `db:"land_value"`
	AuditFields
}
