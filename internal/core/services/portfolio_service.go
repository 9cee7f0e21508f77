package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

const defaultBaseCurrency = "EUR"

// portfolioService implements the PortfolioSvcFacade interface
type portfolioService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioRepositoryFacade
}

// NewPortfolioService creates a new portfolio service with the provided dependencies
func NewPortfolioService(portfolioRepo portsrepo.PortfolioRepositoryFacade) portssvc.PortfolioSvcFacade {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
	}
}

// Ensure portfolioService implements the PortfolioSvcFacade interface
var _ portssvc.PortfolioSvcFacade = (*portfolioService)(nil)

// FindPortfolioByID retrieves a portfolio by its ID
func (s *portfolioService) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find portfolio by ID",
				slog.String("portfolio_id", portfolioID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Portfolio retrieved successfully",
		slog.String("portfolio_id", portfolio.PortfolioID))
	return portfolio, nil
}

// ListUserPortfolios retrieves all portfolios a user belongs to
func (s *portfolioService) ListUserPortfolios(ctx context.Context, userID string) ([]domain.Portfolio, error) {
	portfolios, err := s.portfolioRepo.ListPortfoliosByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list portfolios for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if portfolios == nil {
		return []domain.Portfolio{}, nil
	}

	s.LogDebug(ctx, "Portfolios listed successfully",
		slog.Int("count", len(portfolios)),
		slog.String("user_id", userID))
	return portfolios, nil
}

// ListPortfolioUsers retrieves all users and their roles for a portfolio
func (s *portfolioService) ListPortfolioUsers(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.UserPortfolio, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	memberships, err := s.portfolioRepo.ListPortfolioUsers(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list portfolio users",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	if memberships == nil {
		return []domain.UserPortfolio{}, nil
	}
	return memberships, nil
}

// CreatePortfolio creates a new portfolio with the creator as admin
func (s *portfolioService) CreatePortfolio(ctx context.Context, req dto.CreatePortfolioRequest, creatorUserID string) (*domain.Portfolio, error) {
	now := time.Now()
	portfolioID := uuid.NewString()

	baseCurrency := req.BaseCurrencyCode
	if baseCurrency == "" {
		baseCurrency = defaultBaseCurrency
	}

	portfolio := domain.Portfolio{
		PortfolioID:      portfolioID,
		Name:             req.Name,
		Description:      req.Description,
		BaseCurrencyCode: baseCurrency,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, portfolio); err != nil {
		s.LogError(ctx, err, "Failed to save portfolio",
			slog.String("portfolio_id", portfolio.PortfolioID))
		return nil, err
	}

	// Add creator as an admin to the new portfolio
	membershipErr := s.AddUserToPortfolio(ctx, creatorUserID, creatorUserID, portfolioID, domain.RoleAdmin)
	if membershipErr != nil {
		s.LogError(ctx, membershipErr, "Failed to add creator as admin to new portfolio",
			slog.String("portfolio_id", portfolio.PortfolioID),
			slog.String("user_id", creatorUserID))
		// The portfolio exists but is orphaned; surface the failure rather
		// than hand back a portfolio the creator cannot access.
		return nil, membershipErr
	}

	s.LogInfo(ctx, "Portfolio created successfully",
		slog.String("portfolio_id", portfolio.PortfolioID),
		slog.String("creator_id", creatorUserID))
	return &portfolio, nil
}

// UpdatePortfolio updates the name and description of a portfolio
func (s *portfolioService) UpdatePortfolio(ctx context.Context, portfolioID string, req dto.UpdatePortfolioRequest, requestingUserID string) (*domain.Portfolio, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, portfolioID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	portfolio, err := s.portfolioRepo.FindPortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		portfolio.Name = *req.Name
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}
	portfolio.LastUpdatedAt = time.Now()
	portfolio.LastUpdatedBy = requestingUserID

	if err := s.portfolioRepo.UpdatePortfolio(ctx, *portfolio); err != nil {
		s.LogError(ctx, err, "Failed to update portfolio",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	s.LogInfo(ctx, "Portfolio updated successfully",
		slog.String("portfolio_id", portfolioID))
	return portfolio, nil
}

// DeactivatePortfolio marks a portfolio as inactive
func (s *portfolioService) DeactivatePortfolio(ctx context.Context, portfolioID string, requestingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, portfolioID, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.portfolioRepo.DeactivatePortfolio(ctx, portfolioID, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate portfolio",
			slog.String("portfolio_id", portfolioID))
		return err
	}

	s.LogInfo(ctx, "Portfolio deactivated",
		slog.String("portfolio_id", portfolioID),
		slog.String("requested_by", requestingUserID))
	return nil
}

// AddUserToPortfolio adds a user to a portfolio with a specific role
func (s *portfolioService) AddUserToPortfolio(ctx context.Context, addingUserID, targetUserID, portfolioID string, role domain.UserPortfolioRole) error {
	// Self-assignment is permitted (e.g., creator adding self as admin)
	if addingUserID != targetUserID {
		err := s.AuthorizeUserAction(ctx, addingUserID, portfolioID, domain.RoleAdmin)
		if err != nil {
			s.LogError(ctx, err, "User not authorized to add members to portfolio",
				slog.String("adding_user_id", addingUserID),
				slog.String("portfolio_id", portfolioID))
			return err
		}
	}

	membership := domain.UserPortfolio{
		UserID:      targetUserID,
		PortfolioID: portfolioID,
		Role:        role,
		JoinedAt:    time.Now(),
	}

	err := s.portfolioRepo.AddUserToPortfolio(ctx, membership)
	if err != nil {
		s.LogError(ctx, err, "Failed to add user to portfolio",
			slog.String("target_user_id", targetUserID),
			slog.String("portfolio_id", portfolioID))
		return err
	}

	s.LogInfo(ctx, "User added to portfolio successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("portfolio_id", portfolioID),
		slog.String("role", string(role)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a portfolio
func (s *portfolioService) AuthorizeUserAction(ctx context.Context, userID, portfolioID string, requiredRole domain.UserPortfolioRole) error {
	membership, err := s.portfolioRepo.FindUserPortfolioRole(ctx, userID, portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of portfolio",
				slog.String("user_id", userID),
				slog.String("portfolio_id", portfolioID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user portfolio role",
			slog.String("user_id", userID),
			slog.String("portfolio_id", portfolioID))
		return err
	}

	if !hasRequiredRole(membership.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("portfolio_id", portfolioID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role.
// REMOVED members never qualify.
func hasRequiredRole(userRole, requiredRole domain.UserPortfolioRole) bool {
	switch requiredRole {
	case domain.RoleReadOnly:
		return userRole == domain.RoleReadOnly || userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleMember:
		return userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleAdmin:
		return userRole == domain.RoleAdmin
	default:
		return false
	}
}
