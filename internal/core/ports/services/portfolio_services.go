package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// PortfolioReaderSvc defines read operations for portfolio data
type PortfolioReaderSvc interface {
	// FindPortfolioByID retrieves a specific portfolio by its ID.
	FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error)

	// ListUserPortfolios retrieves the portfolios a user belongs to.
	ListUserPortfolios(ctx context.Context, userID string) ([]domain.Portfolio, error)

	// ListPortfolioUsers retrieves all users and their roles for a portfolio.
	// Only members of the portfolio can access this data.
	ListPortfolioUsers(ctx context.Context, portfolioID string, requestingUserID string) ([]domain.UserPortfolio, error)
}

// PortfolioWriterSvc defines write operations for portfolio data
type PortfolioWriterSvc interface {
	// CreatePortfolio persists a new portfolio with the creator as admin.
	CreatePortfolio(ctx context.Context, req dto.CreatePortfolioRequest, creatorUserID string) (*domain.Portfolio, error)

	// UpdatePortfolio updates name/description. Requires the admin role.
	UpdatePortfolio(ctx context.Context, portfolioID string, req dto.UpdatePortfolioRequest, requestingUserID string) (*domain.Portfolio, error)

	// DeactivatePortfolio marks a portfolio as inactive. Requires the admin role.
	DeactivatePortfolio(ctx context.Context, portfolioID string, requestingUserID string) error
}

// PortfolioMembershipSvc defines operations for managing portfolio membership
type PortfolioMembershipSvc interface {
	// AddUserToPortfolio adds a user to a portfolio with a specific role.
	// Requires the admin role.
	AddUserToPortfolio(ctx context.Context, addingUserID, targetUserID, portfolioID string, role domain.UserPortfolioRole) error
}

// PortfolioAuthorizerSvc defines operations for portfolio authorization
type PortfolioAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for a portfolio.
	AuthorizeUserAction(ctx context.Context, userID, portfolioID string, requiredRole domain.UserPortfolioRole) error
}

// PortfolioSvcFacade combines all portfolio-related service interfaces
// This is a facade for clients that need access to all operations
type PortfolioSvcFacade interface {
	PortfolioReaderSvc
	PortfolioWriterSvc
	PortfolioMembershipSvc
	PortfolioAuthorizerSvc
}
