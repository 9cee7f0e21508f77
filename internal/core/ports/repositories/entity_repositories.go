package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// EntityReader defines read operations for holding-structure data
type EntityReader interface {
	// FindEntityByID retrieves a specific entity by its ID.
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)

	// ListEntitiesByPortfolioID retrieves all entities of a portfolio.
	ListEntitiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Entity, error)
}

// EntityWriter defines write operations for holding-structure data
type EntityWriter interface {
	// SaveEntity persists a new entity.
	SaveEntity(ctx context.Context, entity domain.Entity) error

	// UpdateEntity persists changes to an existing entity.
	UpdateEntity(ctx context.Context, entity domain.Entity) error

	// DeleteEntity removes an entity. Fails while properties still reference it.
	DeleteEntity(ctx context.Context, entityID string) error
}

// EntityRepositoryFacade combines all entity-related repository interfaces
type EntityRepositoryFacade interface {
	EntityReader
	EntityWriter
}
