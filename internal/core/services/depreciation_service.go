package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/depreciation"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// depreciationService implements the DepreciationSvcFacade interface
type depreciationService struct {
	BaseService
	scope            scopeResolver
	depreciationRepo portsrepo.DepreciationRepositoryFacade
}

// DepreciationServiceOption is a functional option for configuring the depreciation service
type DepreciationServiceOption func(*depreciationService)

// WithDepreciationAuthorizer adds the portfolio authorizer dependency
func WithDepreciationAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) DepreciationServiceOption {
	return func(s *depreciationService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewDepreciationService creates a new depreciation service with the provided options
func NewDepreciationService(depreciationRepo portsrepo.DepreciationRepositoryFacade, propertyRepo portsrepo.PropertyReader, entityRepo portsrepo.EntityReader, options ...DepreciationServiceOption) portssvc.DepreciationSvcFacade {
	svc := &depreciationService{
		scope:            scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		depreciationRepo: depreciationRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure depreciationService implements the DepreciationSvcFacade interface
var _ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)

// FindComponentByID retrieves a component, checking portfolio membership
func (s *depreciationService) FindComponentByID(ctx context.Context, componentID string, requestingUserID string) (*domain.DepreciationComponent, error) {
	component, err := s.depreciationRepo.FindComponentByID(ctx, componentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find depreciation component",
				slog.String("component_id", componentID))
		}
		return nil, err
	}

	portfolioID, err := s.scope.portfolioForProperty(ctx, component.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return component, nil
}

// ListComponentsByPropertyID retrieves the components of a property
func (s *depreciationService) ListComponentsByPropertyID(ctx context.Context, propertyID string, requestingUserID string) ([]domain.DepreciationComponent, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	components, err := s.depreciationRepo.ListComponentsByPropertyID(ctx, propertyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list depreciation components",
			slog.String("property_id", propertyID))
		return nil, err
	}

	if components == nil {
		return []domain.DepreciationComponent{}, nil
	}
	return components, nil
}

// GetYearBreakdown computes a property's depreciation charge for one year
func (s *depreciationService) GetYearBreakdown(ctx context.Context, propertyID string, year int, requestingUserID string) (*dto.DepreciationYearResponse, error) {
	components, err := s.ListComponentsByPropertyID(ctx, propertyID, requestingUserID)
	if err != nil {
		return nil, err
	}

	breakdown, err := depreciation.YearTotal(components, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute depreciation breakdown",
			slog.String("property_id", propertyID),
			slog.Int("year", year))
		return nil, err
	}

	resp := dto.ToDepreciationYearResponse(propertyID, &breakdown)
	return &resp, nil
}

// CreateComponent persists a new component on a property
func (s *depreciationService) CreateComponent(ctx context.Context, req dto.CreateDepreciationComponentRequest, requestingUserID string) (*domain.DepreciationComponent, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	component := domain.DepreciationComponent{
		ComponentID:     uuid.NewString(),
		PropertyID:      req.PropertyID,
		Label:           req.Label,
		Base:            req.Base,
		UsefulLifeYears: req.UsefulLifeYears,
		InServiceDate:   req.InServiceDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	// Computing one year validates base, life and in-service date; a
	// component the engine rejects is never stored.
	if _, err := depreciation.YearAmount(component, component.InServiceDate.Year()); err != nil {
		return nil, err
	}

	if err := s.depreciationRepo.SaveComponent(ctx, component); err != nil {
		s.LogError(ctx, err, "Failed to save depreciation component",
			slog.String("component_id", component.ComponentID))
		return nil, err
	}

	s.LogInfo(ctx, "Depreciation component created",
		slog.String("component_id", component.ComponentID),
		slog.String("property_id", component.PropertyID),
		slog.String("label", component.Label))
	return &component, nil
}

// DeleteComponent removes a component
func (s *depreciationService) DeleteComponent(ctx context.Context, componentID string, requestingUserID string) error {
	component, err := s.depreciationRepo.FindComponentByID(ctx, componentID)
	if err != nil {
		return err
	}

	portfolioID, err := s.scope.portfolioForProperty(ctx, component.PropertyID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.depreciationRepo.DeleteComponent(ctx, componentID); err != nil {
		s.LogError(ctx, err, "Failed to delete depreciation component",
			slog.String("component_id", componentID))
		return err
	}
	return nil
}
