package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// PropertyReaderSvc defines read operations for properties
type PropertyReaderSvc interface {
	// FindPropertyByID retrieves a specific property, checking portfolio membership.
	FindPropertyByID(ctx context.Context, propertyID string, requestingUserID string) (*domain.Property, error)

	// ListPropertiesByEntityID retrieves the properties held by an entity.
	ListPropertiesByEntityID(ctx context.Context, entityID string, requestingUserID string) ([]domain.Property, error)

	// ListPropertiesByPortfolioID retrieves all properties in a portfolio.
	ListPropertiesByPortfolioID(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.Property, error)
}

// PropertyWriterSvc defines write operations for properties
type PropertyWriterSvc interface {
	// CreateProperty persists a new property under an entity. Requires the member role.
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, requestingUserID string) (*domain.Property, error)

	// UpdateProperty updates property attributes. Requires the member role.
	UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, requestingUserID string) (*domain.Property, error)

	// DeleteProperty removes a property along with its loans, transactions and
	// depreciation components. Requires the admin role.
	DeleteProperty(ctx context.Context, propertyID string, requestingUserID string) error
}

// PropertySvcFacade combines all property-related service interfaces
type PropertySvcFacade interface {
	PropertyReaderSvc
	PropertyWriterSvc
}
