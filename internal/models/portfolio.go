package models

import "time"

// Portfolio represents a row of the portfolios table.
type Portfolio struct {
	PortfolioID      string `db:"portfolio_id"`
	Name             string `db:"name"`
	Description      string `db:"description"`
	BaseCurrencyCode string `db:"base_currency_code"` // ISO 4217
	IsActive         bool   `db:"is_active"`
	AuditFields
}

// UserPortfolio represents a row of the user_portfolio_roles membership
// table. Role changes (including removal) rewrite the row in place.
type UserPortfolio struct {
	UserID      string    `db:"user_id"`
	PortfolioID string    `db:"portfolio_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
