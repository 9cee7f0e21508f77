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
)

// propertyService implements the PropertySvcFacade interface
type propertyService struct {
	BaseService
	scope        scopeResolver
	propertyRepo portsrepo.PropertyRepositoryFacade
	entityRepo   portsrepo.EntityReader
}

// PropertyServiceOption is a functional option for configuring the property service
type PropertyServiceOption func(*propertyService)

// WithPropertyAuthorizer adds the portfolio authorizer dependency
func WithPropertyAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) PropertyServiceOption {
	return func(s *propertyService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewPropertyService creates a new property service with the provided options
func NewPropertyService(propertyRepo portsrepo.PropertyRepositoryFacade, entityRepo portsrepo.EntityReader, options ...PropertyServiceOption) portssvc.PropertySvcFacade {
	svc := &propertyService{
		scope:        scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		propertyRepo: propertyRepo,
		entityRepo:   entityRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure propertyService implements the PropertySvcFacade interface
var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

// FindPropertyByID retrieves a property, checking portfolio membership
func (s *propertyService) FindPropertyByID(ctx context.Context, propertyID string, requestingUserID string) (*domain.Property, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find property by ID",
				slog.String("property_id", propertyID))
		}
		return nil, err
	}

	portfolioID, err := s.scope.portfolioForEntity(ctx, property.EntityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return property, nil
}

// ListPropertiesByEntityID retrieves the properties held by an entity
func (s *propertyService) ListPropertiesByEntityID(ctx context.Context, entityID string, requestingUserID string) ([]domain.Property, error) {
	portfolioID, err := s.scope.portfolioForEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	properties, err := s.propertyRepo.ListPropertiesByEntityID(ctx, entityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list properties",
			slog.String("entity_id", entityID))
		return nil, err
	}

	if properties == nil {
		return []domain.Property{}, nil
	}
	return properties, nil
}

// ListPropertiesByPortfolioID retrieves all properties in a portfolio
func (s *propertyService) ListPropertiesByPortfolioID(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.Property, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	properties, err := s.propertyRepo.ListPropertiesByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list portfolio properties",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	if properties == nil {
		return []domain.Property{}, nil
	}
	return properties, nil
}

// CreateProperty persists a new property under an entity
func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, requestingUserID string) (*domain.Property, error) {
	portfolioID, err := s.scope.portfolioForEntity(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	if err := validateProperty(req); err != nil {
		return nil, err
	}

	now := time.Now()
	property := domain.Property{
		PropertyID:       uuid.NewString(),
		EntityID:         req.EntityID,
		Name:             req.Name,
		Address:          req.Address,
		AcquisitionDate:  req.AcquisitionDate,
		AcquisitionPrice: req.AcquisitionPrice,
		AcquisitionCosts: req.AcquisitionCosts,
		CurrentValue:     req.CurrentValue,
		LandValue:        req.LandValue,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		s.LogError(ctx, err, "Failed to save property",
			slog.String("property_id", property.PropertyID))
		return nil, err
	}

	s.LogInfo(ctx, "Property created successfully",
		slog.String("property_id", property.PropertyID),
		slog.String("entity_id", property.EntityID))
	return &property, nil
}

// UpdateProperty updates property attributes
func (s *propertyService) UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, requestingUserID string) (*domain.Property, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	portfolioID, err := s.scope.portfolioForEntity(ctx, property.EntityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.CurrentValue != nil {
		if req.CurrentValue.IsNegative() {
			return nil, fmt.Errorf("%w: current value must not be negative", apperrors.ErrValidation)
		}
		property.CurrentValue = *req.CurrentValue
	}
	if req.LandValue != nil {
		if req.LandValue.IsNegative() {
			return nil, fmt.Errorf("%w: land value must not be negative", apperrors.ErrValidation)
		}
		property.LandValue = *req.LandValue
	}
	property.LastUpdatedAt = time.Now()
	property.LastUpdatedBy = requestingUserID

	if err := s.propertyRepo.UpdateProperty(ctx, *property); err != nil {
		s.LogError(ctx, err, "Failed to update property",
			slog.String("property_id", propertyID))
		return nil, err
	}
	return property, nil
}

// DeleteProperty removes a property and everything attached to it
func (s *propertyService) DeleteProperty(ctx context.Context, propertyID string, requestingUserID string) error {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return err
	}

	portfolioID, err := s.scope.portfolioForEntity(ctx, property.EntityID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.propertyRepo.DeleteProperty(ctx, propertyID); err != nil {
		s.LogError(ctx, err, "Failed to delete property",
			slog.String("property_id", propertyID))
		return err
	}

	s.LogInfo(ctx, "Property deleted",
		slog.String("property_id", propertyID),
		slog.String("entity_id", property.EntityID))
	return nil
}

// validateProperty checks the money fields of a creation request.
func validateProperty(req dto.CreatePropertyRequest) error {
	if req.AcquisitionPrice.IsNegative() {
		return fmt.Errorf("%w: acquisition price must not be negative", apperrors.ErrValidation)
	}
	if req.AcquisitionCosts.IsNegative() {
		return fmt.Errorf("%w: acquisition costs must not be negative", apperrors.ErrValidation)
	}
	if req.CurrentValue.IsNegative() {
		return fmt.Errorf("%w: current value must not be negative", apperrors.ErrValidation)
	}
	if req.LandValue.IsNegative() {
		return fmt.Errorf("%w: land value must not be negative", apperrors.ErrValidation)
	}
	if req.LandValue.GreaterThan(req.AcquisitionPrice) {
		return fmt.Errorf("%w: land value cannot exceed the acquisition price", apperrors.ErrValidation)
	}
	return nil
}
