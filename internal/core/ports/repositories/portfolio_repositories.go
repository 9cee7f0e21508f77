package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio data
type PortfolioReader interface {
	// FindPortfolioByID retrieves a specific portfolio by its ID.
	FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error)

	// ListPortfoliosByUserID retrieves all portfolios a user belongs to.
	ListPortfoliosByUserID(ctx context.Context, userID string) ([]domain.Portfolio, error)

	// ListActivePortfolios retrieves every active portfolio. Used by the
	// snapshot job, which runs outside any user scope.
	ListActivePortfolios(ctx context.Context) ([]domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio data
type PortfolioWriter interface {
	// SavePortfolio persists a new portfolio.
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error

	// UpdatePortfolio persists changes to an existing portfolio.
	UpdatePortfolio(ctx context.Context, portfolio domain.Portfolio) error

	// DeactivatePortfolio marks a portfolio as inactive.
	DeactivatePortfolio(ctx context.Context, portfolioID string, updatedByUserID string) error
}

// PortfolioMembershipManager defines operations for managing portfolio memberships
type PortfolioMembershipManager interface {
	// AddUserToPortfolio adds a user to a portfolio with a specific role.
	AddUserToPortfolio(ctx context.Context, membership domain.UserPortfolio) error

	// FindUserPortfolioRole retrieves the role of a user in a portfolio.
	FindUserPortfolioRole(ctx context.Context, userID, portfolioID string) (*domain.UserPortfolio, error)

	// ListPortfolioUsers retrieves all memberships of a portfolio.
	ListPortfolioUsers(ctx context.Context, portfolioID string) ([]domain.UserPortfolio, error)
}

// PortfolioRepositoryFacade combines all portfolio-related repository interfaces
// This is a facade for clients that need access to all operations
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioWriter
	PortfolioMembershipManager
}
