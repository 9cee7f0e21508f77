package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// EntityReaderSvc defines read operations for fiscal entities
type EntityReaderSvc interface {
	// FindEntityByID retrieves a specific entity, checking portfolio membership.
	FindEntityByID(ctx context.Context, entityID string, requestingUserID string) (*domain.Entity, error)

	// ListEntitiesByPortfolioID retrieves all entities in a portfolio.
	ListEntitiesByPortfolioID(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.Entity, error)
}

// EntityWriterSvc defines write operations for fiscal entities
type EntityWriterSvc interface {
	// CreateEntity persists a new entity in a portfolio. Requires the member role.
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest, requestingUserID string) (*domain.Entity, error)

	// UpdateEntity updates entity attributes. Requires the member role.
	UpdateEntity(ctx context.Context, entityID string, req dto.UpdateEntityRequest, requestingUserID string) (*domain.Entity, error)

	// DeleteEntity removes an entity and is rejected while properties reference it.
	DeleteEntity(ctx context.Context, entityID string, requestingUserID string) error
}

// EntitySvcFacade combines all entity-related service interfaces
type EntitySvcFacade interface {
	EntityReaderSvc
	EntityWriterSvc
}
