package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/core/metrics"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// summaryService implements the SummarySvc interface. It fans the fiscal
// computation out across a portfolio's entities and layers debt and value
// metrics on top.
type summaryService struct {
	BaseService
	entityRepo      portsrepo.EntityReader
	propertyRepo    portsrepo.PropertyReader
	loanRepo        portsrepo.LoanReader
	transactionRepo portsrepo.TransactionReader
	fiscal          portssvc.FiscalSvc
}

// SummaryServiceOption is a functional option for configuring the summary service
type SummaryServiceOption func(*summaryService)

// WithSummaryAuthorizer adds the portfolio authorizer dependency
func WithSummaryAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) SummaryServiceOption {
	return func(s *summaryService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewSummaryService creates a new summary service with the provided options
func NewSummaryService(
	entityRepo portsrepo.EntityReader,
	propertyRepo portsrepo.PropertyReader,
	loanRepo portsrepo.LoanReader,
	transactionRepo portsrepo.TransactionReader,
	fiscal portssvc.FiscalSvc,
	options ...SummaryServiceOption,
) portssvc.SummarySvc {
	svc := &summaryService{
		entityRepo:      entityRepo,
		propertyRepo:    propertyRepo,
		loanRepo:        loanRepo,
		transactionRepo: transactionRepo,
		fiscal:          fiscal,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure summaryService implements the SummarySvc interface
var _ portssvc.SummarySvc = (*summaryService)(nil)

// entityOutcome is one worker's result in the fan-out.
type entityOutcome struct {
	result domain.EntityFiscalResult
	// Raw cash totals of the requested year, for the NOI behind DSCR.
	// Operating expenses here exclude loan interest, unlike the result's
	// DeductibleExpenses.
	rawIncome decimal.Decimal
	rawOpex   decimal.Decimal
}

// GetPortfolioSummary computes every entity's fiscal result for the year plus
// portfolio-level debt, value and ratio metrics. A failing entity contributes
// its error string and leaves the rest intact.
func (s *summaryService) GetPortfolioSummary(ctx context.Context, portfolioID string, year int, requestingUserID string) (*domain.PortfolioSummary, error) {
	if year <= 0 {
		return nil, apperrors.NewAppError(400, "year must be positive", apperrors.ErrInvalidInput)
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entities, err := s.entityRepo.ListEntitiesByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entities for summary",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	// Entities are independent; compute them in parallel with an indexed
	// result slice so the output order matches the entity order.
	outcomes := make([]entityOutcome, len(entities))
	var wg sync.WaitGroup
	for i, entity := range entities {
		wg.Add(1)
		go func(i int, entity domain.Entity) {
			defer wg.Done()
			outcomes[i] = s.computeEntity(ctx, entity, year, requestingUserID)
		}(i, entity)
	}
	wg.Wait()

	summary := &domain.PortfolioSummary{
		PortfolioID:   portfolioID,
		Year:          year,
		EntityResults: make([]domain.EntityFiscalResult, len(outcomes)),
		GeneratedAt:   time.Now(),
	}

	noi := decimal.Zero
	for i, outcome := range outcomes {
		summary.EntityResults[i] = outcome.result
		if outcome.result.Err != "" {
			summary.FailedEntityIDs = append(summary.FailedEntityIDs, outcome.result.EntityID)
			continue
		}
		summary.TotalRentalIncome = summary.TotalRentalIncome.Add(outcome.result.RentalIncome)
		summary.TotalExpenses = summary.TotalExpenses.Add(outcome.result.DeductibleExpenses)
		summary.TotalDepreciation = summary.TotalDepreciation.Add(outcome.result.Depreciation)
		summary.TotalTaxDue = summary.TotalTaxDue.Add(outcome.result.TaxDue)
		noi = noi.Add(outcome.rawIncome).Sub(outcome.rawOpex)
	}
	noi = noi.Sub(summary.TotalTaxDue)

	if err := s.addFinancials(ctx, portfolioID, year, summary); err != nil {
		return nil, err
	}

	summary.LTV = metrics.LTV(summary.TotalDebt, summary.TotalValue)
	summary.DSCR = metrics.DSCR(noi, summary.TotalDebtService)
	summary.Alerts = metrics.Alerts(summary.LTV, summary.DSCR)

	s.LogInfo(ctx, "Portfolio summary generated",
		slog.String("portfolio_id", portfolioID),
		slog.Int("year", year),
		slog.Int("entities", len(entities)),
		slog.Int("failed", len(summary.FailedEntityIDs)))
	return summary, nil
}

// computeEntity runs one entity's fiscal year and collects its raw cash
// totals. Any failure marks this entity only.
func (s *summaryService) computeEntity(ctx context.Context, entity domain.Entity, year int, requestingUserID string) entityOutcome {
	outcome := entityOutcome{
		result: domain.EntityFiscalResult{
			EntityID:   entity.EntityID,
			EntityName: entity.Name,
			Kind:       entity.Kind,
		},
	}

	result, err := s.fiscal.GetFiscalYear(ctx, entity.EntityID, year, nil, requestingUserID)
	if err != nil {
		outcome.result.Err = err.Error()
		return outcome
	}
	outcome.result.FiscalYearResult = *result

	totals, err := s.transactionRepo.ListYearTotalsByEntityID(ctx, entity.EntityID)
	if err != nil {
		outcome.result.Err = err.Error()
		return outcome
	}
	for _, t := range totals {
		if t.Year == year {
			outcome.rawIncome = t.RentalIncome
			outcome.rawOpex = t.OperatingExpenses
			break
		}
	}
	return outcome
}

// addFinancials fills in debt, value and debt service from the portfolio's
// active loans and property records.
func (s *summaryService) addFinancials(ctx context.Context, portfolioID string, year int, summary *domain.PortfolioSummary) error {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)

	loans, err := s.loanRepo.ListActiveLoansByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active loans for summary",
			slog.String("portfolio_id", portfolioID))
		return err
	}

	for _, loan := range loans {
		schedule, err := amortization.FromLoan(loan)
		if err != nil {
			return err
		}

		balance, err := schedule.BalanceAt(to)
		switch {
		case err == nil:
			summary.TotalDebt = summary.TotalDebt.Add(balance)
		case errors.Is(err, apperrors.ErrDateOutOfRange):
			// Funds released after this year: no debt yet.
		default:
			return err
		}

		payments := schedule.PaymentsBetween(from, to)
		if payments.IsZero() {
			continue
		}
		dueCount := 0
		for _, line := range schedule.Lines() {
			if !line.DueDate.Before(from) && !line.DueDate.After(to) {
				dueCount++
			}
		}
		insurance := loan.MonthlyInsurance().Mul(decimal.NewFromInt(int64(dueCount)))
		summary.TotalDebtService = summary.TotalDebtService.Add(payments).Add(insurance)
	}

	properties, err := s.propertyRepo.ListPropertiesByPortfolioID(ctx, portfolioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list properties for summary",
			slog.String("portfolio_id", portfolioID))
		return err
	}
	for _, property := range properties {
		value := property.CurrentValue
		if !value.IsPositive() {
			// No retained valuation yet; the cost basis stands in.
			value = property.AcquisitionPrice
		}
		summary.TotalValue = summary.TotalValue.Add(value)
	}

	return nil
}
