package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/core/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockFiscalService stands in for the fiscal pipeline in summary tests.
type MockFiscalService struct {
	mock.Mock
	GetFiscalYearFn func(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error)
}

func (m *MockFiscalService) GetFiscalYear(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error) {
	if m.GetFiscalYearFn != nil {
		return m.GetFiscalYearFn(ctx, entityID, year, override, requestingUserID)
	}
	args := m.Called(ctx, entityID, year, override, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYearResult), args.Error(1)
}

func (m *MockFiscalService) SimulateDividendTax(ctx context.Context, req dto.DividendTaxRequest, requestingUserID string) (*dto.DividendTaxResponse, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DividendTaxResponse), args.Error(1)
}

type SummaryServiceTestSuite struct {
	suite.Suite
	mockEntityRepo      *MockEntityRepository
	mockPropertyRepo    *MockPropertyRepository
	mockLoanRepo        *MockLoanRepository
	mockTransactionRepo *MockTransactionRepository
	mockFiscal          *MockFiscalService
	mockAuthorizer      *MockPortfolioAuthorizer
	service             portssvc.SummarySvc

	portfolioID string
	userID      string
}

func (suite *SummaryServiceTestSuite) SetupTest() {
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockFiscal = new(MockFiscalService)
	suite.mockAuthorizer = new(MockPortfolioAuthorizer)
	suite.service = services.NewSummaryService(
		suite.mockEntityRepo, suite.mockPropertyRepo, suite.mockLoanRepo,
		suite.mockTransactionRepo, suite.mockFiscal,
		services.WithSummaryAuthorizer(suite.mockAuthorizer),
	)

	suite.portfolioID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func (suite *SummaryServiceTestSuite) TestGetPortfolioSummary_AggregatesAndRatios() {
	ctx := context.Background()
	okEntity := domain.Entity{EntityID: uuid.NewString(), PortfolioID: suite.portfolioID, Name: "LMNP Nantes", Kind: domain.EntityLMNP}
	badEntity := domain.Entity{EntityID: uuid.NewString(), PortfolioID: suite.portfolioID, Name: "SCI cassée", Kind: domain.EntitySCIIS}

	suite.mockEntityRepo.On("ListEntitiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Entity{okEntity, badEntity}, nil).Once()

	// One entity computes, the other fails; the failure must not sink the call.
	suite.mockFiscal.GetFiscalYearFn = func(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error) {
		if entityID == badEntity.EntityID {
			return nil, assert.AnError
		}
		return &domain.FiscalYearResult{
			Year:               year,
			RentalIncome:       decimal.NewFromInt(12000),
			DeductibleExpenses: decimal.NewFromInt(2500),
			Depreciation:       decimal.NewFromInt(8000),
			TaxableResult:      decimal.NewFromInt(1500),
			TaxableAfterOffset: decimal.NewFromInt(1500),
			TaxDue:             decimal.NewFromInt(708),
		}, nil
	}
	suite.mockTransactionRepo.ListYearTotalsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
		return []domain.YearCashTotals{{
			Year:              2024,
			RentalIncome:      decimal.NewFromInt(12000),
			OperatingExpenses: decimal.NewFromInt(2500),
		}}, nil
	}

	// Zero-rate loan: 120000 over 120 months from December 2023 means twelve
	// 1000 payments during 2024 and 108000 still owed at year end.
	suite.mockLoanRepo.On("ListActiveLoansByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Loan{{
			LoanID:        uuid.NewString(),
			Principal:     decimal.NewFromInt(120000),
			AnnualRate:    decimal.Zero,
			TermMonths:    120,
			StartDate:     time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
			InsuranceRate: decimal.NewFromFloat(0.001),
			IsActive:      true,
		}}, nil).Once()
	suite.mockPropertyRepo.On("ListPropertiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Property{
			{PropertyID: uuid.NewString(), CurrentValue: decimal.NewFromInt(250000), AcquisitionPrice: decimal.NewFromInt(220000)},
			{PropertyID: uuid.NewString(), AcquisitionPrice: decimal.NewFromInt(150000)}, // no retained value
		}, nil).Once()

	summary, err := suite.service.GetPortfolioSummary(ctx, suite.portfolioID, 2024, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	suite.Equal(suite.portfolioID, summary.PortfolioID)
	suite.Equal(2024, summary.Year)
	suite.Len(summary.EntityResults, 2)

	// Aggregates cover the successful entity only.
	suite.Equal("12000", summary.TotalRentalIncome.String())
	suite.Equal("2500", summary.TotalExpenses.String())
	suite.Equal("8000", summary.TotalDepreciation.String())
	suite.Equal("708", summary.TotalTaxDue.String())
	suite.Equal([]string{badEntity.EntityID}, summary.FailedEntityIDs)
	suite.NotEmpty(summary.EntityResults[1].Err)

	suite.Equal("108000", summary.TotalDebt.String())
	suite.Equal("400000", summary.TotalValue.String())
	// 12 payments of 1000 plus 12 insurance premiums of 10.
	suite.Equal("12120", summary.TotalDebtService.String())

	// LTV 108000/400000; DSCR (12000-2500-708)/12120.
	suite.Require().True(summary.LTV.Valid)
	suite.Equal("0.27", summary.LTV.Value.String())
	suite.Require().True(summary.DSCR.Valid)
	suite.Equal("0.72533", summary.DSCR.Value.String())
	suite.Equal([]string{"DSCR_LOW"}, summary.Alerts)
}

func (suite *SummaryServiceTestSuite) TestGetPortfolioSummary_DebtFreePortfolio() {
	ctx := context.Background()
	entity := domain.Entity{EntityID: uuid.NewString(), PortfolioID: suite.portfolioID, Kind: domain.EntityPersonal}

	suite.mockEntityRepo.On("ListEntitiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Entity{entity}, nil).Once()
	suite.mockFiscal.GetFiscalYearFn = func(ctx context.Context, entityID string, year int, override *dto.FiscalSettingsOverride, requestingUserID string) (*domain.FiscalYearResult, error) {
		return &domain.FiscalYearResult{Year: year, RentalIncome: decimal.NewFromInt(9000)}, nil
	}
	suite.mockTransactionRepo.ListYearTotalsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
		return nil, nil
	}
	suite.mockLoanRepo.On("ListActiveLoansByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Loan{}, nil).Once()
	suite.mockPropertyRepo.On("ListPropertiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Property{}, nil).Once()

	summary, err := suite.service.GetPortfolioSummary(ctx, suite.portfolioID, 2024, suite.userID)

	suite.Require().NoError(err)
	// No value and no debt service: both ratios are null, nothing alerts.
	suite.False(summary.LTV.Valid)
	suite.False(summary.DSCR.Valid)
	suite.Empty(summary.Alerts)
	suite.True(summary.TotalDebt.IsZero())
}

func (suite *SummaryServiceTestSuite) TestGetPortfolioSummary_LoanStartingAfterYear() {
	ctx := context.Background()

	suite.mockEntityRepo.On("ListEntitiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Entity{}, nil).Once()
	// Funds released in 2026: the 2024 summary carries no debt for it.
	suite.mockLoanRepo.On("ListActiveLoansByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Loan{{
			LoanID:     uuid.NewString(),
			Principal:  decimal.NewFromInt(200000),
			AnnualRate: decimal.NewFromFloat(0.03),
			TermMonths: 240,
			StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		}}, nil).Once()
	suite.mockPropertyRepo.On("ListPropertiesByPortfolioID", ctx, suite.portfolioID).
		Return([]domain.Property{}, nil).Once()

	summary, err := suite.service.GetPortfolioSummary(ctx, suite.portfolioID, 2024, suite.userID)

	suite.Require().NoError(err)
	suite.True(summary.TotalDebt.IsZero())
	suite.True(summary.TotalDebtService.IsZero())
}

func (suite *SummaryServiceTestSuite) TestGetPortfolioSummary_YearMustBePositive() {
	ctx := context.Background()

	summary, err := suite.service.GetPortfolioSummary(ctx, suite.portfolioID, -1, suite.userID)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *SummaryServiceTestSuite) TestGetPortfolioSummary_Forbidden() {
	ctx := context.Background()

	authorizer := new(MockPortfolioAuthorizer)
	authorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).
		Return(apperrors.ErrForbidden).Once()
	service := services.NewSummaryService(
		suite.mockEntityRepo, suite.mockPropertyRepo, suite.mockLoanRepo,
		suite.mockTransactionRepo, suite.mockFiscal,
		services.WithSummaryAuthorizer(authorizer),
	)

	summary, err := service.GetPortfolioSummary(ctx, suite.portfolioID, 2024, suite.userID)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	authorizer.AssertExpectations(suite.T())
}

func TestSummaryService(t *testing.T) {
	suite.Run(t, new(SummaryServiceTestSuite))
}
