package dto

import (
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FiscalSettingsOverride defines optional per-request rate overrides for a
// fiscal computation. Omitted fields fall back to entity overrides, then to
// configured defaults. Values are fractions (0.30 means 30%).
type FiscalSettingsOverride struct {
	IncomeTaxRate             *decimal.Decimal `json:"incomeTaxRate"`
	SocialChargesRate         *decimal.Decimal `json:"socialChargesRate"`
	CorporateReducedRate      *decimal.Decimal `json:"corporateReducedRate"`
	CorporateStandardRate     *decimal.Decimal `json:"corporateStandardRate"`
	CorporateReducedThreshold *decimal.Decimal `json:"corporateReducedThreshold"`
	DividendFlatRate          *decimal.Decimal `json:"dividendFlatRate"`
	DividendSocialRate        *decimal.Decimal `json:"dividendSocialRate"`
}

// Apply overlays the non-nil override fields onto base and returns the result.
func (o *FiscalSettingsOverride) Apply(base domain.FiscalSettings) domain.FiscalSettings {
	if o == nil {
		return base
	}
	if o.IncomeTaxRate != nil {
		base.IncomeTaxRate = *o.IncomeTaxRate
	}
	if o.SocialChargesRate != nil {
		base.SocialChargesRate = *o.SocialChargesRate
	}
	if o.CorporateReducedRate != nil {
		base.CorporateReducedRate = *o.CorporateReducedRate
	}
	if o.CorporateStandardRate != nil {
		base.CorporateStandardRate = *o.CorporateStandardRate
	}
	if o.CorporateReducedThreshold != nil {
		base.CorporateReducedThreshold = *o.CorporateReducedThreshold
	}
	if o.DividendFlatRate != nil {
		base.DividendFlatRate = *o.DividendFlatRate
	}
	if o.DividendSocialRate != nil {
		base.DividendSocialRate = *o.DividendSocialRate
	}
	return base
}

// FiscalYearRequest defines the optional body of a fiscal-year query.
type FiscalYearRequest struct {
	Settings *FiscalSettingsOverride `json:"settings"`
}

// FiscalYearResponse defines the taxation outcome of an entity for one year.
type FiscalYearResponse struct {
	EntityID              string          `json:"entityID"`
	Year                  int             `json:"year"`
	RentalIncome          decimal.Decimal `json:"rentalIncome"`
	DeductibleExpenses    decimal.Decimal `json:"deductibleExpenses"`
	Depreciation          decimal.Decimal `json:"depreciation"`
	TaxableResult         decimal.Decimal `json:"taxableResult"`
	TaxableAfterOffset    decimal.Decimal `json:"taxableAfterOffset"`
	TaxDue                decimal.Decimal `json:"taxDue"`
	CarriedForwardDeficit decimal.Decimal `json:"carriedForwardDeficit"`
}

// ToFiscalYearResponse converts a domain result to DTO.
func ToFiscalYearResponse(entityID string, r *domain.FiscalYearResult) FiscalYearResponse {
	return FiscalYearResponse{
		EntityID:              entityID,
		Year:                  r.Year,
		RentalIncome:          r.RentalIncome,
		DeductibleExpenses:    r.DeductibleExpenses,
		Depreciation:          r.Depreciation,
		TaxableResult:         r.TaxableResult,
		TaxableAfterOffset:    r.TaxableAfterOffset,
		TaxDue:                r.TaxDue,
		CarriedForwardDeficit: r.CarriedForwardDeficit,
	}
}

// DividendTaxRequest defines data for a dividend flat-tax simulation.
type DividendTaxRequest struct {
	EntityID          string                  `json:"entityID" binding:"required"`
	DistributedAmount decimal.Decimal         `json:"distributedAmount" binding:"required"`
	Settings          *FiscalSettingsOverride `json:"settings"`
}

// DividendTaxResponse defines the outcome of a dividend tax simulation.
type DividendTaxResponse struct {
	EntityID          string          `json:"entityID"`
	DistributedAmount decimal.Decimal `json:"distributedAmount"`
	TaxDue            decimal.Decimal `json:"taxDue"`
	NetReceived       decimal.Decimal `json:"netReceived"`
}
