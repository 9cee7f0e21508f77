package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// entityService implements the EntitySvcFacade interface
type entityService struct {
	BaseService
	entityRepo   portsrepo.EntityRepositoryFacade
	propertyRepo portsrepo.PropertyReader
}

// EntityServiceOption is a functional option for configuring the entity service
type EntityServiceOption func(*entityService)

// WithEntityAuthorizer adds the portfolio authorizer dependency
func WithEntityAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) EntityServiceOption {
	return func(s *entityService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewEntityService creates a new entity service with the provided options
func NewEntityService(entityRepo portsrepo.EntityRepositoryFacade, propertyRepo portsrepo.PropertyReader, options ...EntityServiceOption) portssvc.EntitySvcFacade {
	svc := &entityService{
		entityRepo:   entityRepo,
		propertyRepo: propertyRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure entityService implements the EntitySvcFacade interface
var _ portssvc.EntitySvcFacade = (*entityService)(nil)

// FindEntityByID retrieves an entity, checking portfolio membership
func (s *entityService) FindEntityByID(ctx context.Context, entityID string, requestingUserID string) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entity by ID",
				slog.String("entity_id", entityID))
		}
		return nil, err
	}

	if err := s.AuthorizeUser(ctx, requestingUserID, entity.PortfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return entity, nil
}

// ListEntitiesByPortfolioID retrieves all entities in a portfolio
func (s *entityService) ListEntitiesByPortfolioID(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.Entity, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entities, err := s.entityRepo.ListEntitiesByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entities",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	if entities == nil {
		return []domain.Entity{}, nil
	}
	return entities, nil
}

// CreateEntity persists a new entity in a portfolio
func (s *entityService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest, requestingUserID string) (*domain.Entity, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, req.PortfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	kind, err := domain.ParseEntityKind(req.Kind)
	if err != nil {
		return nil, err
	}

	if err := validateRateOverride(req.IncomeTaxRateOverride, "incomeTaxRateOverride"); err != nil {
		return nil, err
	}
	if err := validateRateOverride(req.SocialChargesRateOverride, "socialChargesRateOverride"); err != nil {
		return nil, err
	}

	now := time.Now()
	entity := domain.Entity{
		EntityID:                  uuid.NewString(),
		PortfolioID:               req.PortfolioID,
		Name:                      req.Name,
		Kind:                      kind,
		IncomeTaxRateOverride:     req.IncomeTaxRateOverride,
		SocialChargesRateOverride: req.SocialChargesRateOverride,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
		s.LogError(ctx, err, "Failed to save entity",
			slog.String("entity_id", entity.EntityID))
		return nil, err
	}

	s.LogInfo(ctx, "Entity created successfully",
		slog.String("entity_id", entity.EntityID),
		slog.String("portfolio_id", entity.PortfolioID),
		slog.String("kind", string(entity.Kind)))
	return &entity, nil
}

// UpdateEntity updates entity attributes. The kind is immutable.
func (s *entityService) UpdateEntity(ctx context.Context, entityID string, req dto.UpdateEntityRequest, requestingUserID string) (*domain.Entity, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	if err := s.AuthorizeUser(ctx, requestingUserID, entity.PortfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.IncomeTaxRateOverride != nil {
		if err := validateRateOverride(req.IncomeTaxRateOverride, "incomeTaxRateOverride"); err != nil {
			return nil, err
		}
		entity.IncomeTaxRateOverride = req.IncomeTaxRateOverride
	}
	if req.SocialChargesRateOverride != nil {
		if err := validateRateOverride(req.SocialChargesRateOverride, "socialChargesRateOverride"); err != nil {
			return nil, err
		}
		entity.SocialChargesRateOverride = req.SocialChargesRateOverride
	}
	entity.LastUpdatedAt = time.Now()
	entity.LastUpdatedBy = requestingUserID

	if err := s.entityRepo.UpdateEntity(ctx, *entity); err != nil {
		s.LogError(ctx, err, "Failed to update entity",
			slog.String("entity_id", entityID))
		return nil, err
	}
	return entity, nil
}

// DeleteEntity removes an entity. Rejected while properties reference it.
func (s *entityService) DeleteEntity(ctx context.Context, entityID string, requestingUserID string) error {
	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return err
	}

	if err := s.AuthorizeUser(ctx, requestingUserID, entity.PortfolioID, domain.RoleAdmin); err != nil {
		return err
	}

	properties, err := s.propertyRepo.ListPropertiesByEntityID(ctx, entityID)
	if err != nil {
		return err
	}
	if len(properties) > 0 {
		return fmt.Errorf("%w: entity still holds %d properties", apperrors.ErrConflict, len(properties))
	}

	if err := s.entityRepo.DeleteEntity(ctx, entityID); err != nil {
		s.LogError(ctx, err, "Failed to delete entity",
			slog.String("entity_id", entityID))
		return err
	}

	s.LogInfo(ctx, "Entity deleted",
		slog.String("entity_id", entityID),
		slog.String("portfolio_id", entity.PortfolioID))
	return nil
}

// validateRateOverride checks that an optional rate override is a fraction in [0,1].
func validateRateOverride(rate *decimal.Decimal, field string) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s must be a fraction between 0 and 1, got %s",
			apperrors.ErrValidation, field, rate)
	}
	return nil
}
