package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationComponent represents a row of the depreciation_components
// table: one straight-line depreciation line of a property.
type DepreciationComponent struct {
	ComponentID     string          `db:"component_id"`
	PropertyID      string          `db:"property_id"`
	Label           string          `db:"label"`
	Base            decimal.Decimal `db:"base"`
	UsefulLifeYears int             `db:"useful_life_years"`
	InServiceDate   time.Time       `db:"in_service_date"`
	AuditFields
}
