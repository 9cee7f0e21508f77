package domain

import "time"

// Portfolio represents an isolated investment workspace containing entities,
// properties, loans, etc. A couple investing together shares one portfolio.
type Portfolio struct {
	PortfolioID      string `json:"portfolioID"`      // Primary Key (e.g., UUID)
	Name             string `json:"name"`             // User-defined name for the portfolio
	Description      string `json:"description"`      // Optional description
	BaseCurrencyCode string `json:"baseCurrencyCode"` // ISO 4217 code, "EUR" unless configured otherwise
	IsActive         bool   `json:"isActive"`         // Indicates whether the portfolio is active or disabled
	AuditFields             // Embed common audit fields
}

// UserPortfolioRole defines the possible roles a user can have within a portfolio.
type UserPortfolioRole string

const (
	RoleAdmin    UserPortfolioRole = "ADMIN"
	RoleMember   UserPortfolioRole = "MEMBER"
	RoleReadOnly UserPortfolioRole = "READONLY" // Users with read-only access to portfolio data
	RoleRemoved  UserPortfolioRole = "REMOVED"  // For users who have been removed from the portfolio
)

// UserPortfolio represents the membership of a User in a Portfolio.
type UserPortfolio struct {
	UserID      string            `json:"userID"`      // FK -> users.user_id
	UserName    string            `json:"userName"`    // Name of the user
	PortfolioID string            `json:"portfolioID"` // FK -> portfolios.portfolio_id
	Role        UserPortfolioRole `json:"role"`        // Role of the user in this specific portfolio
	JoinedAt    time.Time         `json:"joinedAt"`    // Timestamp when the user joined the portfolio
}
