package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a real-estate asset owned by an entity.
type Property struct {
	PropertyID       string          `json:"propertyID"` // Primary Key (e.g., UUID)
	EntityID         string          `json:"entityID"`   // FK -> entities.entity_id
	Name             string          `json:"name"`       // User-defined label, e.g. "T2 rue Gambetta"
	Address          string          `json:"address"`
	AcquisitionDate  time.Time       `json:"acquisitionDate"`
	AcquisitionPrice decimal.Decimal `json:"acquisitionPrice"` // Purchase price excluding costs
	AcquisitionCosts decimal.Decimal `json:"acquisitionCosts"` // Notary, agency and file costs paid at purchase
	CurrentValue     decimal.Decimal `json:"currentValue"`     // Latest retained market value; zero when none is retained
	LandValue        decimal.Decimal `json:"landValue"`        // Land share of the price; land does not depreciate
	AuditFields
}
