package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/depreciation"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/core/tax"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// fiscalService implements the FiscalSvc interface. It assembles each year's
// taxable inputs from stored transactions, loan schedules and depreciation
// components, then delegates the taxation itself to the tax package.
type fiscalService struct {
	BaseService
	scope            scopeResolver
	entityRepo       portsrepo.EntityReader
	propertyRepo     portsrepo.PropertyReader
	loanRepo         portsrepo.LoanReader
	transactionRepo  portsrepo.TransactionReader
	depreciationRepo portsrepo.DepreciationComponentReader
	defaults         domain.FiscalSettings
}

// FiscalServiceOption is a functional option for configuring the fiscal service
type FiscalServiceOption func(*fiscalService)

// WithFiscalAuthorizer adds the portfolio authorizer dependency
func WithFiscalAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) FiscalServiceOption {
	return func(s *fiscalService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// WithFiscalDefaults overrides the configured default fiscal settings
func WithFiscalDefaults(defaults domain.FiscalSettings) FiscalServiceOption {
	return func(s *fiscalService) {
		s.defaults = defaults
	}
}

// NewFiscalService creates a new fiscal service with the provided options
func NewFiscalService(
	entityRepo portsrepo.EntityReader,
	propertyRepo portsrepo.PropertyReader,
	loanRepo portsrepo.LoanReader,
	transactionRepo portsrepo.TransactionReader,
	depreciationRepo portsrepo.DepreciationComponentReader,
	options ...FiscalServiceOption,
) portssvc.FiscalSvc {
	svc := &fiscalService{
		scope:            scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		entityRepo:       entityRepo,
		propertyRepo:     propertyRepo,
		loanRepo:         loanRepo,
		transactionRepo:  transactionRepo,
		depreciationRepo: depreciationRepo,
		defaults:         domain.DefaultFiscalSettings(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure fiscalService implements the FiscalSvc interface
var _ portssvc.FiscalSvc = (*fiscalService)(nil)

// GetFiscalYear computes the fiscal result of an entity for a calendar year.
// The deficit chain is replayed from the entity's first year of activity so
// the requested year sees the correct carried-forward deficit.
func (s *fiscalService) GetFiscalYear(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error) {
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive, got %d", apperrors.ErrInvalidInput, year)
	}

	entity, err := s.entityRepo.FindEntityByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, entity.PortfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	settings := s.resolveSettings(entity, override)
	if err := tax.ValidateSettings(settings); err != nil {
		return nil, err
	}

	inputs, err := s.loadYearInputs(ctx, entity)
	if err != nil {
		return nil, err
	}

	result, err := s.computeThrough(entity.Kind, settings, inputs, year)
	if err != nil {
		s.LogError(ctx, err, "Fiscal year computation failed",
			slog.String("entity_id", entityID),
			slog.Int("year", year))
		return nil, err
	}

	s.LogDebug(ctx, "Fiscal year computed",
		slog.String("entity_id", entityID),
		slog.Int("year", year),
		slog.String("tax_due", result.TaxDue.String()))
	return result, nil
}

// SimulateDividendTax computes the flat-tax cost of a distribution
func (s *fiscalService) SimulateDividendTax(ctx context.Context, req dto.DividendTaxRequest, requestingUserID string) (*dto.DividendTaxResponse, error) {
	entity, err := s.entityRepo.FindEntityByID(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, entity.PortfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if entity.Kind != domain.EntitySCIIS {
		return nil, fmt.Errorf("%w: dividends only apply to corporate entities, got %s",
			apperrors.ErrValidation, entity.Kind)
	}

	settings := s.resolveSettings(entity, req.Settings)
	taxDue, err := tax.DividendTax(req.DistributedAmount, settings)
	if err != nil {
		return nil, err
	}

	return &dto.DividendTaxResponse{
		EntityID:          entity.EntityID,
		DistributedAmount: req.DistributedAmount,
		TaxDue:            taxDue,
		NetReceived:       req.DistributedAmount.Sub(taxDue),
	}, nil
}

// resolveSettings layers entity overrides and then the request override on
// top of the configured defaults.
func (s *fiscalService) resolveSettings(entity *domain.Entity, override *dto.FiscalSettingsOverride) domain.FiscalSettings {
	settings := s.defaults
	if entity.IncomeTaxRateOverride != nil {
		settings.IncomeTaxRate = *entity.IncomeTaxRateOverride
	}
	if entity.SocialChargesRateOverride != nil {
		settings.SocialChargesRate = *entity.SocialChargesRateOverride
	}
	return override.Apply(settings)
}

// yearInputs carries everything needed to assemble tax.YearInput values for
// any year of an entity's life.
type yearInputs struct {
	totalsByYear map[int]domain.YearCashTotals
	components   []domain.DepreciationComponent
	schedules    []*amortization.Schedule
	firstYear    int // Zero when the entity has no activity at all
}

// loadYearInputs gathers the entity's transactions, components and active
// loan schedules, and derives the first year of activity.
func (s *fiscalService) loadYearInputs(ctx context.Context, entity *domain.Entity) (*yearInputs, error) {
	totals, err := s.transactionRepo.ListYearTotalsByEntityID(ctx, entity.EntityID)
	if err != nil {
		return nil, err
	}
	components, err := s.depreciationRepo.ListComponentsByEntityID(ctx, entity.EntityID)
	if err != nil {
		return nil, err
	}
	properties, err := s.propertyRepo.ListPropertiesByEntityID(ctx, entity.EntityID)
	if err != nil {
		return nil, err
	}

	in := &yearInputs{
		totalsByYear: make(map[int]domain.YearCashTotals, len(totals)),
		components:   components,
	}

	for _, t := range totals {
		in.totalsByYear[t.Year] = t
		in.noteYear(t.Year)
	}
	for _, c := range components {
		in.noteYear(c.InServiceDate.Year())
	}

	// Interest is deductible only while a loan runs; early-repaid loans are
	// deactivated and drop out of the deduction.
	for _, property := range properties {
		loans, err := s.loanRepo.ListLoansByPropertyID(ctx, property.PropertyID)
		if err != nil {
			return nil, err
		}
		for _, loan := range loans {
			if !loan.IsActive {
				continue
			}
			schedule, err := amortization.FromLoan(loan)
			if err != nil {
				return nil, fmt.Errorf("loan %s: %w", loan.LoanID, err)
			}
			in.schedules = append(in.schedules, schedule)
			in.noteYear(schedule.Lines()[0].DueDate.Year())
		}
	}

	return in, nil
}

func (in *yearInputs) noteYear(year int) {
	if in.firstYear == 0 || year < in.firstYear {
		in.firstYear = year
	}
}

// inputFor assembles the tax inputs of one calendar year. Deductible expenses
// are the recorded operating expenses plus the loan interest due that year.
func (in *yearInputs) inputFor(year int, priorDeficit decimal.Decimal) (tax.YearInput, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)

	interest := decimal.Zero
	for _, schedule := range in.schedules {
		interest = interest.Add(schedule.InterestBetween(from, to))
	}

	breakdown, err := depreciation.YearTotal(in.components, year)
	if err != nil {
		return tax.YearInput{}, err
	}

	totals := in.totalsByYear[year]
	return tax.YearInput{
		Year:               year,
		RentalIncome:       totals.RentalIncome,
		DeductibleExpenses: totals.OperatingExpenses.Add(interest),
		Depreciation:       breakdown.Total,
		PriorDeficit:       priorDeficit,
	}, nil
}

// computeThrough replays the deficit chain from the first activity year and
// returns the requested year's result.
func (s *fiscalService) computeThrough(kind domain.EntityKind, settings domain.FiscalSettings, in *yearInputs, year int) (*domain.FiscalYearResult, error) {
	startYear := in.firstYear
	if startYear == 0 || startYear > year {
		startYear = year
	}

	deficit := decimal.Zero
	for y := startYear; y <= year; y++ {
		input, err := in.inputFor(y, deficit)
		if err != nil {
			return nil, err
		}
		result, err := tax.ComputeYear(kind, settings, input)
		if err != nil {
			return nil, err
		}
		deficit = result.CarriedForwardDeficit
		if y == year {
			return &result, nil
		}
	}
	// Unreachable: the loop always covers the requested year.
	return nil, fmt.Errorf("%w: year %d precedes entity activity", apperrors.ErrInvalidInput, year)
}
