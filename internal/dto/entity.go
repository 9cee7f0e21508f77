package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntityRequest defines data for creating a new fiscal entity.
type CreateEntityRequest struct {
	PortfolioID string `json:"portfolioID" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=personal lmnp sci_is"`

	IncomeTaxRateOverride     *decimal.Decimal `json:"incomeTaxRateOverride"`     // Optional, fraction in [0,1]
	SocialChargesRateOverride *decimal.Decimal `json:"socialChargesRateOverride"` // Optional, fraction in [0,1]
}

// UpdateEntityRequest defines the data allowed for updating an entity.
// Use pointers to distinguish between zero-value updates and fields not provided.
// The kind is immutable once set: changing it would silently rewrite tax history.
type UpdateEntityRequest struct {
	Name                      *string          `json:"name"`
	IncomeTaxRateOverride     *decimal.Decimal `json:"incomeTaxRateOverride"`
	SocialChargesRateOverride *decimal.Decimal `json:"socialChargesRateOverride"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID    string `json:"entityID"`
	PortfolioID string `json:"portfolioID"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`

	IncomeTaxRateOverride     *decimal.Decimal `json:"incomeTaxRateOverride,omitempty"`
	SocialChargesRateOverride *decimal.Decimal `json:"socialChargesRateOverride,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToEntityResponse converts a domain.Entity to EntityResponse DTO
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:                  e.EntityID,
		PortfolioID:               e.PortfolioID,
		Name:                      e.Name,
		Kind:                      string(e.Kind),
		IncomeTaxRateOverride:     e.IncomeTaxRateOverride,
		SocialChargesRateOverride: e.SocialChargesRateOverride,
		CreatedAt:                 e.CreatedAt,
		CreatedBy:                 e.CreatedBy,
		LastUpdatedAt:             e.LastUpdatedAt,
		LastUpdatedBy:             e.LastUpdatedBy,
	}
}

// ListEntitiesResponse wraps the list of entities.
type ListEntitiesResponse struct {
	Entities []EntityResponse `json:"entities"`
}

// ToListEntitiesResponse converts a slice of domain.Entity to DTO.
func ToListEntitiesResponse(entities []domain.Entity) ListEntitiesResponse {
	list := make([]EntityResponse, len(entities))
	for i, e := range entities {
		list[i] = ToEntityResponse(&e)
	}
	return ListEntitiesResponse{Entities: list}
}
