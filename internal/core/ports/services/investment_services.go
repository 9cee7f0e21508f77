package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// InvestmentSvc runs discounted cash flow computations.
//
// SimulateNPV, SimulateIRR and SimulateSale operate on caller-supplied
// figures and need no stored data. AnalyzeProperty builds the cash flow
// series from a stored property and its loans and components.
type InvestmentSvc interface {
	// SimulateNPV computes the net present value of a cash flow series.
	SimulateNPV(ctx context.Context, req dto.NPVRequest) (*dto.NPVResponse, error)

	// SimulateIRR computes the internal rate of return of a cash flow series.
	SimulateIRR(ctx context.Context, req dto.IRRRequest) (*dto.IRRResponse, error)

	// SimulateSale computes net seller proceeds after agency fees, loan
	// payoff, early repayment penalty and capital gains tax.
	SimulateSale(ctx context.Context, req dto.SaleSimulationRequest) (*dto.SaleSimulationResponse, error)

	// AnalyzeProperty projects a stored property over a holding horizon and
	// returns the cash flow series, NPV and IRR. Requires the read-only role.
	AnalyzeProperty(ctx context.Context, propertyID string, req dto.PropertyAnalysisRequest, requestingUserID string) (*dto.PropertyAnalysisResponse, error)
}
