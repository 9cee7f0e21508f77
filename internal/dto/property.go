package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest defines data for creating a new property.
type CreatePropertyRequest struct {
	EntityID         string          `json:"entityID" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Address          string          `json:"address"`
	AcquisitionDate  time.Time       `json:"acquisitionDate" binding:"required"`
	AcquisitionPrice decimal.Decimal `json:"acquisitionPrice" binding:"required"`
	AcquisitionCosts decimal.Decimal `json:"acquisitionCosts"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	LandValue        decimal.Decimal `json:"landValue"`
}

// UpdatePropertyRequest defines the data allowed for updating a property.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdatePropertyRequest struct {
	Name         *string          `json:"name"`
	Address      *string          `json:"address"`
	CurrentValue *decimal.Decimal `json:"currentValue"`
	LandValue    *decimal.Decimal `json:"landValue"`
}

// PropertyResponse defines the data returned for a property.
type PropertyResponse struct {
	PropertyID       string          `json:"propertyID"`
	EntityID         string          `json:"entityID"`
	Name             string          `json:"name"`
	Address          string          `json:"address"`
	AcquisitionDate  time.Time       `json:"acquisitionDate"`
	AcquisitionPrice decimal.Decimal `json:"acquisitionPrice"`
	AcquisitionCosts decimal.Decimal `json:"acquisitionCosts"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	LandValue        decimal.Decimal `json:"landValue"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// ToPropertyResponse converts a domain.Property to PropertyResponse DTO
func ToPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		PropertyID:       p.PropertyID,
		EntityID:         p.EntityID,
		Name:             p.Name,
		Address:          p.Address,
		AcquisitionDate:  p.AcquisitionDate,
		AcquisitionPrice: p.AcquisitionPrice,
		AcquisitionCosts: p.AcquisitionCosts,
		CurrentValue:     p.CurrentValue,
		LandValue:        p.LandValue,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
		LastUpdatedAt:    p.LastUpdatedAt,
		LastUpdatedBy:    p.LastUpdatedBy,
	}
}

// ListPropertiesResponse wraps the list of properties.
type ListPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
}

// ToListPropertiesResponse converts a slice of domain.Property to DTO.
func ToListPropertiesResponse(props []domain.Property) ListPropertiesResponse {
	list := make([]PropertyResponse, len(props))
	for i, p := range props {
		list[i] = ToPropertyResponse(&p)
	}
	return ListPropertiesResponse{Properties: list}
}
