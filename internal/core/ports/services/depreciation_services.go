package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// DepreciationReaderSvc defines read operations for depreciation components
type DepreciationReaderSvc interface {
	// FindComponentByID retrieves a specific component, checking portfolio membership.
	FindComponentByID(ctx context.Context, componentID string, requestingUserID string) (*domain.DepreciationComponent, error)

	// ListComponentsByPropertyID retrieves the components of a property.
	ListComponentsByPropertyID(ctx context.Context, propertyID string, requestingUserID string) ([]domain.DepreciationComponent, error)

	// GetYearBreakdown computes the depreciation charge of a property for a
	// calendar year, broken down per component.
	GetYearBreakdown(ctx context.Context, propertyID string, year int, requestingUserID string) (*dto.DepreciationYearResponse, error)
}

// DepreciationWriterSvc defines write operations for depreciation components
type DepreciationWriterSvc interface {
	// CreateComponent persists a new component on a property. Requires the member role.
	CreateComponent(ctx context.Context, req dto.CreateDepreciationComponentRequest, requestingUserID string) (*domain.DepreciationComponent, error)

	// DeleteComponent removes a component. Requires the member role.
	DeleteComponent(ctx context.Context, componentID string, requestingUserID string) error
}

// DepreciationSvcFacade combines all depreciation-related service interfaces
type DepreciationSvcFacade interface {
	DepreciationReaderSvc
	DepreciationWriterSvc
}
