package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// FiscalSvc computes yearly taxation results for entities.
//
// Results are derived on demand from stored transactions, loans and
// depreciation components. Nothing is persisted: two calls with the same
// stored data return the same result.
type FiscalSvc interface {
	// GetFiscalYear computes the fiscal result of an entity for a calendar
	// year. The carried-forward deficit is threaded from the entity's first
	// year of activity up to the requested year. Settings resolution order is
	// configuration defaults, then entity overrides, then the request
	// override when present.
	GetFiscalYear(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error)

	// SimulateDividendTax computes the flat-tax cost of distributing an
	// amount from a corporate entity.
	SimulateDividendTax(ctx context.Context, req dto.DividendTaxRequest, requestingUserID string) (*dto.DividendTaxResponse, error)
}
