package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/depreciation"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDepreciationComponentRequest defines data for adding a component.
type CreateDepreciationComponentRequest struct {
	PropertyID      string          `json:"propertyID" binding:"required"`
	Label           string          `json:"label" binding:"required"`
	Base            decimal.Decimal `json:"base" binding:"required"`
	UsefulLifeYears int             `json:"usefulLifeYears" binding:"required,min=1"`
	InServiceDate   time.Time       `json:"inServiceDate" binding:"required"`
}

// DepreciationComponentResponse defines the data returned for a component.
type DepreciationComponentResponse struct {
	ComponentID     string          `json:"componentID"`
	PropertyID      string          `json:"propertyID"`
	Label           string          `json:"label"`
	Base            decimal.Decimal `json:"base"`
	UsefulLifeYears int             `json:"usefulLifeYears"`
	InServiceDate   time.Time       `json:"inServiceDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ToDepreciationComponentResponse converts a domain component to DTO.
func ToDepreciationComponentResponse(c *domain.DepreciationComponent) DepreciationComponentResponse {
	return DepreciationComponentResponse{
		ComponentID:     c.ComponentID,
		PropertyID:      c.PropertyID,
		Label:           c.Label,
		Base:            c.Base,
		UsefulLifeYears: c.UsefulLifeYears,
		InServiceDate:   c.InServiceDate,
		CreatedAt:       c.CreatedAt,
		CreatedBy:       c.CreatedBy,
	}
}

// ListDepreciationComponentsResponse wraps the components of a property.
type ListDepreciationComponentsResponse struct {
	Components []DepreciationComponentResponse `json:"components"`
}

// ToListDepreciationComponentsResponse converts a slice of components to DTO.
func ToListDepreciationComponentsResponse(comps []domain.DepreciationComponent) ListDepreciationComponentsResponse {
	list := make([]DepreciationComponentResponse, len(comps))
	for i, c := range comps {
		list[i] = ToDepreciationComponentResponse(&c)
	}
	return ListDepreciationComponentsResponse{Components: list}
}

// ComponentYearResponse defines one component's charge for a year.
type ComponentYearResponse struct {
	ComponentID string          `json:"componentID"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
}

// DepreciationYearResponse defines a property's depreciation for one year,
// broken down per component.
type DepreciationYearResponse struct {
	PropertyID string                  `json:"propertyID"`
	Year       int                     `json:"year"`
	Items      []ComponentYearResponse `json:"items"`
	Total      decimal.Decimal         `json:"total"`
}

// ToDepreciationYearResponse converts a computed breakdown to DTO.
func ToDepreciationYearResponse(propertyID string, b *depreciation.Breakdown) DepreciationYearResponse {
	items := make([]ComponentYearResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = ComponentYearResponse{
			ComponentID: item.ComponentID,
			Label:       item.Label,
			Amount:      item.Amount,
		}
	}
	return DepreciationYearResponse{
		PropertyID: propertyID,
		Year:       b.Year,
		Items:      items,
		Total:      b.Total,
	}
}
