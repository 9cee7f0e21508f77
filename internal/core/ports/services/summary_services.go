package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// SummarySvc aggregates fiscal results and financial ratios portfolio-wide.
type SummarySvc interface {
	// GetPortfolioSummary computes the fiscal results of every entity in the
	// portfolio for a year, plus portfolio-level debt, value, LTV, DSCR and
	// threshold alerts. Entities that fail to compute are reported in the
	// summary rather than failing the whole call. Requires the read-only role.
	GetPortfolioSummary(ctx context.Context, portfolioID string, year int, requestingUserID string) (*domain.PortfolioSummary, error)
}
