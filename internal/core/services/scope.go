package services

import (
	"context"

	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
)

// scopeResolver walks ownership chains (component -> property -> entity ->
// portfolio) so services can authorize against the owning portfolio when a
// request only names a nested resource.
type scopeResolver struct {
	entityRepo   portsrepo.EntityReader
	propertyRepo portsrepo.PropertyReader
}

// portfolioForEntity returns the ID of the portfolio owning an entity.
func (r scopeResolver) portfolioForEntity(ctx context.Context, entityID string) (string, error) {
	entity, err := r.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return "", err
	}
	return entity.PortfolioID, nil
}

// portfolioForProperty returns the ID of the portfolio owning a property.
func (r scopeResolver) portfolioForProperty(ctx context.Context, propertyID string) (string, error) {
	property, err := r.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return "", err
	}
	return r.portfolioForEntity(ctx, property.EntityID)
}
