package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// --- Portfolio DTOs ---

// CreatePortfolioRequest defines data for creating a new portfolio.
type CreatePortfolioRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	BaseCurrencyCode string `json:"baseCurrencyCode" binding:"omitempty,iso4217"` // Defaults to EUR
}

// UpdatePortfolioRequest defines the data allowed for updating a portfolio.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdatePortfolioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PortfolioResponse defines data returned for a portfolio.
type PortfolioResponse struct {
	PortfolioID      string    `json:"portfolioID"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	BaseCurrencyCode string    `json:"baseCurrencyCode"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"` // UserID
	LastUpdatedAt    time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy    string    `json:"lastUpdatedBy"` // UserID
}

// ToPortfolioResponse converts domain.Portfolio to DTO.
func ToPortfolioResponse(p *domain.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		PortfolioID:      p.PortfolioID,
		Name:             p.Name,
		Description:      p.Description,
		BaseCurrencyCode: p.BaseCurrencyCode,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		CreatedBy:        p.CreatedBy,
		LastUpdatedAt:    p.LastUpdatedAt,
		LastUpdatedBy:    p.LastUpdatedBy,
	}
}

// ListPortfoliosResponse wraps a list of portfolios.
type ListPortfoliosResponse struct {
	Portfolios []PortfolioResponse `json:"portfolios"`
}

// ToListPortfoliosResponse converts a slice of domain.Portfolio to DTO.
func ToListPortfoliosResponse(ps []domain.Portfolio) ListPortfoliosResponse {
	list := make([]PortfolioResponse, len(ps))
	for i, p := range ps {
		list[i] = ToPortfolioResponse(&p)
	}
	return ListPortfoliosResponse{Portfolios: list}
}

// --- User Portfolio Membership DTOs ---

// AddUserToPortfolioRequest defines data for adding a user to a portfolio.
type AddUserToPortfolioRequest struct {
	UserID string                   `json:"userID" binding:"required"`
	Role   domain.UserPortfolioRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UserPortfolioResponse defines data returned about a user's membership.
type UserPortfolioResponse struct {
	UserID      string                   `json:"userID"`
	PortfolioID string                   `json:"portfolioID"`
	Role        domain.UserPortfolioRole `json:"role"`
	JoinedAt    time.Time                `json:"joinedAt"`
}

// ToUserPortfolioResponse converts domain.UserPortfolio to DTO.
func ToUserPortfolioResponse(up *domain.UserPortfolio) UserPortfolioResponse {
	return UserPortfolioResponse{
		UserID:      up.UserID,
		PortfolioID: up.PortfolioID,
		Role:        up.Role,
		JoinedAt:    up.JoinedAt,
	}
}

// ListPortfolioUsersResponse wraps the memberships of a portfolio.
type ListPortfolioUsersResponse struct {
	Users []UserPortfolioResponse `json:"users"`
}

// ToListPortfolioUsersResponse converts a slice of domain.UserPortfolio to DTO.
func ToListPortfolioUsersResponse(ups []domain.UserPortfolio) ListPortfolioUsersResponse {
	list := make([]UserPortfolioResponse, len(ups))
	for i, up := range ups {
		list[i] = ToUserPortfolioResponse(&up)
	}
	return ListPortfolioUsersResponse{Users: list}
}
