package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntityFiscalResultResponse defines one entity's outcome inside a summary.
// When Error is set the figures are zero and the entity is excluded from the
// portfolio aggregates.
type EntityFiscalResultResponse struct {
	EntityID   string `json:"entityID"`
	EntityName string `json:"entityName"`
	Kind       string `json:"kind"`

	RentalIncome          decimal.Decimal `json:"rentalIncome"`
	DeductibleExpenses    decimal.Decimal `json:"deductibleExpenses"`
	Depreciation          decimal.Decimal `json:"depreciation"`
	TaxableResult         decimal.Decimal `json:"taxableResult"`
	TaxableAfterOffset    decimal.Decimal `json:"taxableAfterOffset"`
	TaxDue                decimal.Decimal `json:"taxDue"`
	CarriedForwardDeficit decimal.Decimal `json:"carriedForwardDeficit"`

	Error string `json:"error,omitempty"`
}

// PortfolioSummaryResponse defines the portfolio-wide fiscal and financial
// picture for one year.
type PortfolioSummaryResponse struct {
	PortfolioID string `json:"portfolioID"`
	Year        int    `json:"year"`

	EntityResults []EntityFiscalResultResponse `json:"entityResults"`

	TotalRentalIncome decimal.Decimal `json:"totalRentalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalDepreciation decimal.Decimal `json:"totalDepreciation"`
	TotalTaxDue       decimal.Decimal `json:"totalTaxDue"`
	FailedEntityIDs   []string        `json:"failedEntityIDs,omitempty"`

	TotalDebt        decimal.Decimal `json:"totalDebt"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	TotalDebtService decimal.Decimal `json:"totalDebtService"`

	LTV    domain.Ratio `json:"ltv"`  // null when the portfolio has no retained value
	DSCR   domain.Ratio `json:"dscr"` // null when no debt service is due
	Alerts []string     `json:"alerts,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// ToPortfolioSummaryResponse converts a domain summary to DTO.
func ToPortfolioSummaryResponse(s *domain.PortfolioSummary) PortfolioSummaryResponse {
	results := make([]EntityFiscalResultResponse, len(s.EntityResults))
	for i, er := range s.EntityResults {
		results[i] = EntityFiscalResultResponse{
			EntityID:              er.EntityID,
			EntityName:            er.EntityName,
			Kind:                  string(er.Kind),
			RentalIncome:          er.RentalIncome,
			DeductibleExpenses:    er.DeductibleExpenses,
			Depreciation:          er.Depreciation,
			TaxableResult:         er.TaxableResult,
			TaxableAfterOffset:    er.TaxableAfterOffset,
			TaxDue:                er.TaxDue,
			CarriedForwardDeficit: er.CarriedForwardDeficit,
			Error:                 er.Err,
		}
	}
	return PortfolioSummaryResponse{
		PortfolioID:       s.PortfolioID,
		Year:              s.Year,
		EntityResults:     results,
		TotalRentalIncome: s.TotalRentalIncome,
		TotalExpenses:     s.TotalExpenses,
		TotalDepreciation: s.TotalDepreciation,
		TotalTaxDue:       s.TotalTaxDue,
		FailedEntityIDs:   s.FailedEntityIDs,
		TotalDebt:         s.TotalDebt,
		TotalValue:        s.TotalValue,
		TotalDebtService:  s.TotalDebtService,
		LTV:               s.LTV,
		DSCR:              s.DSCR,
		Alerts:            s.Alerts,
		GeneratedAt:       s.GeneratedAt,
	}
}

// PortfolioSnapshotResponse defines one stored metrics snapshot.
type PortfolioSnapshotResponse struct {
	SnapshotID        string          `json:"snapshotID"`
	PortfolioID       string          `json:"portfolioID"`
	Year              int             `json:"year"`
	TotalRentalIncome decimal.Decimal `json:"totalRentalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalTaxDue       decimal.Decimal `json:"totalTaxDue"`
	TotalDebt         decimal.Decimal `json:"totalDebt"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalDebtService  decimal.Decimal `json:"totalDebtService"`
	LTV               domain.Ratio    `json:"ltv"`
	DSCR              domain.Ratio    `json:"dscr"`
	Alerts            []string        `json:"alerts,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ToPortfolioSnapshotResponse converts a domain snapshot to DTO.
func ToPortfolioSnapshotResponse(snap *domain.PortfolioSnapshot) PortfolioSnapshotResponse {
	return PortfolioSnapshotResponse{
		SnapshotID:        snap.SnapshotID,
		PortfolioID:       snap.PortfolioID,
		Year:              snap.Year,
		TotalRentalIncome: snap.TotalRentalIncome,
		TotalExpenses:     snap.TotalExpenses,
		TotalTaxDue:       snap.TotalTaxDue,
		TotalDebt:         snap.TotalDebt,
		TotalValue:        snap.TotalValue,
		TotalDebtService:  snap.TotalDebtService,
		LTV:               snap.LTV,
		DSCR:              snap.DSCR,
		Alerts:            snap.Alerts,
		CreatedAt:         snap.CreatedAt,
	}
}

// ListPortfolioSnapshotsResponse wraps the snapshot history of a portfolio.
type ListPortfolioSnapshotsResponse struct {
	Snapshots []PortfolioSnapshotResponse `json:"snapshots"`
}

// ToListPortfolioSnapshotsResponse converts a slice of snapshots to DTO.
func ToListPortfolioSnapshotsResponse(snaps []domain.PortfolioSnapshot) ListPortfolioSnapshotsResponse {
	list := make([]PortfolioSnapshotResponse, len(snaps))
	for i, snap := range snaps {
		list[i] = ToPortfolioSnapshotResponse(&snap)
	}
	return ListPortfolioSnapshotsResponse{Snapshots: list}
}
