package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// DepreciationComponentReader defines read operations for depreciation components
type DepreciationComponentReader interface {
	// FindComponentByID retrieves a specific component by its ID.
	FindComponentByID(ctx context.Context, componentID string) (*domain.DepreciationComponent, error)

	// ListComponentsByPropertyID retrieves a property's components.
	ListComponentsByPropertyID(ctx context.Context, propertyID string) ([]domain.DepreciationComponent, error)

	// ListComponentsByEntityID retrieves every component across an entity's
	// properties.
	ListComponentsByEntityID(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error)
}

// DepreciationComponentWriter defines write operations for depreciation components
type DepreciationComponentWriter interface {
	// SaveComponent persists a new component.
	SaveComponent(ctx context.Context, component domain.DepreciationComponent) error

	// DeleteComponent removes a component.
	DeleteComponent(ctx context.Context, componentID string) error
}

// DepreciationRepositoryFacade combines the component repository interfaces
type DepreciationRepositoryFacade interface {
	DepreciationComponentReader
	DepreciationComponentWriter
}
