package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// PropertyReader defines read operations for property data
type PropertyReader interface {
	// FindPropertyByID retrieves a specific property by its ID.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListPropertiesByEntityID retrieves all properties held by an entity.
	ListPropertiesByEntityID(ctx context.Context, entityID string) ([]domain.Property, error)

	// ListPropertiesByPortfolioID retrieves all properties across a
	// portfolio's entities.
	ListPropertiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Property, error)
}

// PropertyWriter defines write operations for property data
type PropertyWriter interface {
	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error

	// UpdateProperty persists changes to an existing property.
	UpdateProperty(ctx context.Context, property domain.Property) error

	// DeleteProperty removes a property along with its loans, transactions
	// and depreciation components.
	DeleteProperty(ctx context.Context, propertyID string) error
}

// PropertyRepositoryFacade combines all property-related repository interfaces
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
}
