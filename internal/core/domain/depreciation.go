package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationComponent is one straight-line depreciation line of a property
// under the component approach (par composants): structure, roof/façade,
// fixtures, furniture, each with its own base and useful life.
type DepreciationComponent struct {
	ComponentID     string          `json:"componentID"` // Primary Key (e.g., UUID)
	PropertyID      string          `json:"propertyID"`  // FK -> properties.property_id
	Label           string          `json:"label"`       // e.g. "Gros œuvre", "Mobilier"
	Base            decimal.Decimal `json:"base"`        // Depreciable base; excludes land
	UsefulLifeYears int             `json:"usefulLifeYears"`
	InServiceDate   time.Time       `json:"inServiceDate"` // Depreciation starts here, pro-rated by days that year
	AuditFields
}
