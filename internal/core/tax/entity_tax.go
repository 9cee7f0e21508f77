// Package tax computes the yearly tax outcome of a holding structure. Three
// regimes are supported: direct personal ownership (location nue au réel),
// LMNP au réel and SCI à l'IS. Each year is a pure function of the entity
// kind, the fiscal settings and the year's figures; the carried-forward
// deficit travels in and out explicitly so the caller owns the threading.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// YearInput gathers one fiscal year's figures for one entity. All amounts are
// non-negative; PriorDeficit is the carried-forward deficit produced by the
// previous year's calculation (zero for the first year).
type YearInput struct {
	Year               int
	RentalIncome       decimal.Decimal
	DeductibleExpenses decimal.Decimal
	Depreciation       decimal.Decimal
	PriorDeficit       decimal.Decimal
}

var one = decimal.NewFromInt(1)

// ValidateSettings checks every rate is a fraction in [0, 1] and the
// corporate threshold is non-negative.
func ValidateSettings(s domain.FiscalSettings) error {
	rates := []struct {
		name string
		v    decimal.Decimal
	}{
		{"incomeTaxRate", s.IncomeTaxRate},
		{"socialChargesRate", s.SocialChargesRate},
		{"corporateReducedRate", s.CorporateReducedRate},
		{"corporateStandardRate", s.CorporateStandardRate},
		{"dividendFlatRate", s.DividendFlatRate},
		{"dividendSocialRate", s.DividendSocialRate},
	}
	for _, r := range rates {
		if r.v.IsNegative() || r.v.GreaterThan(one) {
			return fmt.Errorf("%w: %s must be within [0,1], got %s", apperrors.ErrInvalidFiscalSettings, r.name, r.v)
		}
	}
	if s.CorporateReducedThreshold.IsNegative() {
		return fmt.Errorf("%w: corporateReducedThreshold must not be negative, got %s",
			apperrors.ErrInvalidFiscalSettings, s.CorporateReducedThreshold)
	}
	return nil
}

func validateInput(in YearInput) error {
	if in.Year <= 0 {
		return fmt.Errorf("%w: year must be positive, got %d", apperrors.ErrInvalidInput, in.Year)
	}
	amounts := []struct {
		name string
		v    decimal.Decimal
	}{
		{"rentalIncome", in.RentalIncome},
		{"deductibleExpenses", in.DeductibleExpenses},
		{"depreciation", in.Depreciation},
		{"priorDeficit", in.PriorDeficit},
	}
	for _, a := range amounts {
		if a.v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrInvalidInput, a.name, a.v)
		}
	}
	return nil
}

// ComputeYear taxes one entity for one year.
//
// The regimes differ in what they deduct and how the positive remainder is
// taxed; the deficit mechanics are shared. A negative result is never taxed:
// it joins the carried-forward deficit, usable only against this entity's
// future profits. A positive result first consumes the carried deficit,
// oldest euros first (with no expiry a running total behaves identically),
// and only the remainder is taxed.
func ComputeYear(kind domain.EntityKind, s domain.FiscalSettings, in YearInput) (domain.FiscalYearResult, error) {
	if err := ValidateSettings(s); err != nil {
		return domain.FiscalYearResult{}, err
	}
	if err := validateInput(in); err != nil {
		return domain.FiscalYearResult{}, err
	}

	var taxable decimal.Decimal
	deducted := decimal.Zero
	switch kind {
	case domain.EntityPersonal:
		// Location nue: depreciation exists in the books but is not
		// deductible from rental results.
		taxable = in.RentalIncome.Sub(in.DeductibleExpenses)
	case domain.EntityLMNP, domain.EntitySCIIS:
		taxable = in.RentalIncome.Sub(in.DeductibleExpenses).Sub(in.Depreciation)
		deducted = in.Depreciation
	default:
		return domain.FiscalYearResult{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownEntityType, kind)
	}

	result := domain.FiscalYearResult{
		Year:               in.Year,
		RentalIncome:       in.RentalIncome,
		DeductibleExpenses: in.DeductibleExpenses,
		Depreciation:       deducted,
		TaxableResult:      taxable,
		TaxDue:             decimal.Zero,
	}

	if taxable.IsNegative() {
		result.TaxableAfterOffset = decimal.Zero
		result.CarriedForwardDeficit = in.PriorDeficit.Add(taxable.Neg())
		return result, nil
	}

	offset := decimal.Min(taxable, in.PriorDeficit)
	afterOffset := taxable.Sub(offset)
	result.TaxableAfterOffset = afterOffset
	result.CarriedForwardDeficit = in.PriorDeficit.Sub(offset)

	switch kind {
	case domain.EntitySCIIS:
		result.TaxDue = corporateTax(afterOffset, s).Round(2)
	default:
		result.TaxDue = afterOffset.Mul(s.IncomeTaxRate.Add(s.SocialChargesRate)).Round(2)
	}
	return result, nil
}

// corporateTax applies the two-bracket IS scale to a non-negative profit.
func corporateTax(profit decimal.Decimal, s domain.FiscalSettings) decimal.Decimal {
	reducedSlice := decimal.Min(profit, s.CorporateReducedThreshold)
	standardSlice := decimal.Max(decimal.Zero, profit.Sub(s.CorporateReducedThreshold))
	return reducedSlice.Mul(s.CorporateReducedRate).
		Add(standardSlice.Mul(s.CorporateStandardRate))
}

// DividendTax computes the flat-tax (PFU) due on a distributed amount. This
// is a separate pass on top of corporate tax for sci_is entities; it never
// feeds back into ComputeYear.
func DividendTax(distributed decimal.Decimal, s domain.FiscalSettings) (decimal.Decimal, error) {
	if err := ValidateSettings(s); err != nil {
		return decimal.Decimal{}, err
	}
	if distributed.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: distributed amount must not be negative, got %s",
			apperrors.ErrInvalidInput, distributed)
	}
	return distributed.Mul(s.DividendFlatRate.Add(s.DividendSocialRate)).Round(2), nil
}
