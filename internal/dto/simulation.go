package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NPVRequest defines a net-present-value computation over a cash flow series.
// CashFlows[0] is the initial outlay at t=0, usually negative.
type NPVRequest struct {
	DiscountRate float64           `json:"discountRate" binding:"min=-0.99"`
	CashFlows    []decimal.Decimal `json:"cashFlows" binding:"required,min=1"`
}

// NPVResponse defines the computed net present value.
type NPVResponse struct {
	DiscountRate float64         `json:"discountRate"`
	NPV          decimal.Decimal `json:"npv"`
}

// IRRRequest defines an internal-rate-of-return computation.
type IRRRequest struct {
	CashFlows []decimal.Decimal `json:"cashFlows" binding:"required,min=2"`
}

// IRRResponse defines the computed internal rate of return. IRR is nil when
// the series admits no rate in the searched range.
type IRRResponse struct {
	IRR *float64 `json:"irr"`
}

// SaleSimulationRequest defines data for a net-seller-proceeds simulation.
// LoanID is optional; when set, the outstanding balance and early-repayment
// penalty at the sale date are computed from the stored loan.
type SaleSimulationRequest struct {
	SalePrice       decimal.Decimal `json:"salePrice" binding:"required"`
	AgencyFeeRate   decimal.Decimal `json:"agencyFeeRate"` // Fraction of price, in [0,1]
	CapitalGainsTax decimal.Decimal `json:"capitalGainsTax"`
	LoanID          *string         `json:"loanID"`
	SaleDate        *time.Time      `json:"saleDate"` // Required when LoanID is set
}

// SaleSimulationResponse defines the outcome of a sale simulation. Net can be
// negative when the sale does not cover the remaining debt.
type SaleSimulationResponse struct {
	SalePrice       decimal.Decimal `json:"salePrice"`
	AgencyFees      decimal.Decimal `json:"agencyFees"`
	LoanBalance     decimal.Decimal `json:"loanBalance"`
	Penalty         decimal.Decimal `json:"penalty"`
	CapitalGainsTax decimal.Decimal `json:"capitalGainsTax"`
	Net             decimal.Decimal `json:"net"`
}

// PropertyAnalysisRequest defines the projection assumptions for analyzing a
// stored property as an investment.
type PropertyAnalysisRequest struct {
	AnnualRent      decimal.Decimal `json:"annualRent" binding:"required"`
	AnnualExpenses  decimal.Decimal `json:"annualExpenses"`
	HorizonYears    int             `json:"horizonYears" binding:"required,min=1,max=50"`
	ResalePrice     decimal.Decimal `json:"resalePrice" binding:"required"`
	AgencyFeeRate   decimal.Decimal `json:"agencyFeeRate"`
	CapitalGainsTax decimal.Decimal `json:"capitalGainsTax"`
	DiscountRate    float64         `json:"discountRate" binding:"min=-0.99"`
}

// PropertyAnalysisResponse defines the projected cash flows and their
// discounted metrics. CashFlows[0] is the initial equity outlay; the final
// element includes the net sale proceeds. IRR is nil when no rate solves the
// series.
type PropertyAnalysisResponse struct {
	PropertyID string            `json:"propertyID"`
	CashFlows  []decimal.Decimal `json:"cashFlows"`
	NPV        decimal.Decimal   `json:"npv"`
	IRR        *float64          `json:"irr"`
}
