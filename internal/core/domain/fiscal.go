package domain

import "github.com/shopspring/decimal"

// FiscalSettings carries every rate a fiscal-year calculation needs. Values
// are fractions (0.30 means 30%). A settings value is immutable for the year
// it is applied to; callers resolve one per calculation from configured
// defaults, entity overrides and request overrides.
type FiscalSettings struct {
	IncomeTaxRate     decimal.Decimal `json:"incomeTaxRate"`     // Investor's marginal rate (TMI)
	SocialChargesRate decimal.Decimal `json:"socialChargesRate"` // Prélèvements sociaux

	CorporateReducedRate      decimal.Decimal `json:"corporateReducedRate"`      // IS reduced rate
	CorporateStandardRate     decimal.Decimal `json:"corporateStandardRate"`     // IS standard rate
	CorporateReducedThreshold decimal.Decimal `json:"corporateReducedThreshold"` // Profit slice taxed at the reduced rate

	DividendFlatRate   decimal.Decimal `json:"dividendFlatRate"`   // PFU income-tax part
	DividendSocialRate decimal.Decimal `json:"dividendSocialRate"` // PFU social part
}

// DefaultFiscalSettings returns the statutory 2024 French rates. These seed
// the configuration defaults; deployments override them per environment.
func DefaultFiscalSettings() FiscalSettings {
	return FiscalSettings{
		IncomeTaxRate:             decimal.NewFromFloat(0.30),
		SocialChargesRate:         decimal.NewFromFloat(0.172),
		CorporateReducedRate:      decimal.NewFromFloat(0.15),
		CorporateStandardRate:     decimal.NewFromFloat(0.25),
		CorporateReducedThreshold: decimal.NewFromInt(42500),
		DividendFlatRate:          decimal.NewFromFloat(0.128),
		DividendSocialRate:        decimal.NewFromFloat(0.172),
	}
}

// FiscalYearResult is the outcome of taxing one entity for one fiscal year.
// Produced fresh by each calculation and never mutated afterwards.
type FiscalYearResult struct {
	Year               int             `json:"year"`
	RentalIncome       decimal.Decimal `json:"rentalIncome"`
	DeductibleExpenses decimal.Decimal `json:"deductibleExpenses"`
	Depreciation       decimal.Decimal `json:"depreciation"` // Deducted amount; zero for personal ownership

	// TaxableResult is income minus whatever the regime deducts, before any
	// carried-forward deficit is applied. Negative when the year is a loss.
	TaxableResult decimal.Decimal `json:"taxableResult"`
	// TaxableAfterOffset is the positive remainder actually taxed, after the
	// prior deficit has been consumed. Zero for loss years.
	TaxableAfterOffset decimal.Decimal `json:"taxableAfterOffset"`

	TaxDue decimal.Decimal `json:"taxDue"`
	// CarriedForwardDeficit is the updated deficit after this year, to feed
	// into the following year's calculation. Never negative.
	CarriedForwardDeficit decimal.Decimal `json:"carriedForwardDeficit"`
}

// EntityFiscalResult pairs an entity with its fiscal-year outcome inside a
// portfolio summary. When the calculation for this entity failed, Err holds
// the reason and the embedded result is zero-valued; other entities are
// unaffected.
type EntityFiscalResult struct {
	EntityID   string     `json:"entityID"`
	EntityName string     `json:"entityName"`
	Kind       EntityKind `json:"kind"`
	FiscalYearResult
	Err string `json:"error,omitempty"`
}
