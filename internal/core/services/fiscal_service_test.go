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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FiscalServiceTestSuite struct {
	suite.Suite
	mockEntityRepo       *MockEntityRepository
	mockPropertyRepo     *MockPropertyRepository
	mockLoanRepo         *MockLoanRepository
	mockTransactionRepo  *MockTransactionRepository
	mockDepreciationRepo *MockDepreciationRepository
	mockAuthorizer       *MockPortfolioAuthorizer
	service              portssvc.FiscalSvc

	portfolioID string
	entityID    string
	userID      string
}

func (suite *FiscalServiceTestSuite) SetupTest() {
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockDepreciationRepo = new(MockDepreciationRepository)
	suite.mockAuthorizer = new(MockPortfolioAuthorizer)
	suite.service = services.NewFiscalService(
		suite.mockEntityRepo, suite.mockPropertyRepo, suite.mockLoanRepo,
		suite.mockTransactionRepo, suite.mockDepreciationRepo,
		services.WithFiscalAuthorizer(suite.mockAuthorizer),
	)

	suite.portfolioID = uuid.NewString()
	suite.entityID = uuid.NewString()
	suite.userID = uuid.NewString()

	// Everything is empty unless a test says otherwise.
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.mockTransactionRepo.ListYearTotalsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
		return nil, nil
	}
	suite.mockDepreciationRepo.ListComponentsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
		return nil, nil
	}
	suite.mockPropertyRepo.ListPropertiesByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.Property, error) {
		return nil, nil
	}
	suite.mockLoanRepo.ListLoansByPropertyIDFn = func(ctx context.Context, propertyID string) ([]domain.Loan, error) {
		return nil, nil
	}
}

func (suite *FiscalServiceTestSuite) storeEntity(kind domain.EntityKind) *domain.Entity {
	entity := &domain.Entity{
		EntityID:    suite.entityID,
		PortfolioID: suite.portfolioID,
		Name:        "Test Entity",
		Kind:        kind,
	}
	suite.mockEntityRepo.FindEntityByIDFn = func(ctx context.Context, entityID string) (*domain.Entity, error) {
		if entityID != suite.entityID {
			return nil, apperrors.ErrNotFound
		}
		return entity, nil
	}
	return entity
}

func (suite *FiscalServiceTestSuite) storeTotals(totals ...domain.YearCashTotals) {
	suite.mockTransactionRepo.ListYearTotalsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
		return totals, nil
	}
}

// --- GetFiscalYear Tests ---

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_LMNPDeductsDepreciation() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityLMNP)
	// 12000 rent, 2500 expenses, one component writing off 8000/year from
	// January 1st so the first year is not pro-rated.
	suite.storeTotals(domain.YearCashTotals{
		Year:              2024,
		RentalIncome:      decimal.NewFromInt(12000),
		OperatingExpenses: decimal.NewFromInt(2500),
	})
	suite.mockDepreciationRepo.ListComponentsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
		return []domain.DepreciationComponent{{
			ComponentID:     uuid.NewString(),
			Label:           "Gros œuvre",
			Base:            decimal.NewFromInt(200000),
			UsefulLifeYears: 25,
			InServiceDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}}, nil
	}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2024, result.Year)
	suite.Equal("12000", result.RentalIncome.String())
	suite.Equal("2500", result.DeductibleExpenses.String())
	suite.Equal("8000", result.Depreciation.String())
	// 12000 - 2500 - 8000 = 1500, taxed at 30% TMI + 17.2% social.
	suite.Equal("1500", result.TaxableResult.String())
	suite.Equal("1500", result.TaxableAfterOffset.String())
	suite.Equal("708", result.TaxDue.String())
	suite.True(result.CarriedForwardDeficit.IsZero())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_PersonalIgnoresDepreciation() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityPersonal)
	suite.storeTotals(domain.YearCashTotals{
		Year:              2024,
		RentalIncome:      decimal.NewFromInt(12000),
		OperatingExpenses: decimal.NewFromInt(2500),
	})
	suite.mockDepreciationRepo.ListComponentsByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
		return []domain.DepreciationComponent{{
			ComponentID:     uuid.NewString(),
			Base:            decimal.NewFromInt(200000),
			UsefulLifeYears: 25,
			InServiceDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}}, nil
	}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	// Location nue: the books depreciate, the tax base does not.
	suite.True(result.Depreciation.IsZero())
	suite.Equal("9500", result.TaxableResult.String())
	suite.Equal("4484", result.TaxDue.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_LoanInterestDeductible() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityPersonal)
	propertyID := uuid.NewString()
	suite.storeTotals(domain.YearCashTotals{
		Year:         2024,
		RentalIncome: decimal.NewFromInt(12000),
	})
	suite.mockPropertyRepo.ListPropertiesByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.Property, error) {
		return []domain.Property{{PropertyID: propertyID, EntityID: suite.entityID}}, nil
	}
	// One-period loan: a single payment in April 2024 carrying 100 interest
	// (10000 at 1% monthly).
	suite.mockLoanRepo.ListLoansByPropertyIDFn = func(ctx context.Context, propertyID string) ([]domain.Loan, error) {
		return []domain.Loan{{
			LoanID:     uuid.NewString(),
			PropertyID: propertyID,
			Principal:  decimal.NewFromInt(10000),
			AnnualRate: decimal.NewFromFloat(0.12),
			TermMonths: 1,
			StartDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			IsActive:   true,
		}}, nil
	}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("100", result.DeductibleExpenses.String())
	suite.Equal("11900", result.TaxableResult.String())
	suite.Equal("5616.8", result.TaxDue.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_InactiveLoanExcluded() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityPersonal)
	propertyID := uuid.NewString()
	suite.storeTotals(domain.YearCashTotals{
		Year:         2024,
		RentalIncome: decimal.NewFromInt(12000),
	})
	suite.mockPropertyRepo.ListPropertiesByEntityIDFn = func(ctx context.Context, entityID string) ([]domain.Property, error) {
		return []domain.Property{{PropertyID: propertyID, EntityID: suite.entityID}}, nil
	}
	suite.mockLoanRepo.ListLoansByPropertyIDFn = func(ctx context.Context, propertyID string) ([]domain.Loan, error) {
		return []domain.Loan{{
			LoanID:     uuid.NewString(),
			PropertyID: propertyID,
			Principal:  decimal.NewFromInt(10000),
			AnnualRate: decimal.NewFromFloat(0.12),
			TermMonths: 1,
			StartDate:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			IsActive:   false, // repaid early; its interest no longer deducts
		}}, nil
	}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(result.DeductibleExpenses.IsZero())
	suite.Equal("12000", result.TaxableResult.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_DeficitCarriesAcrossYears() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityPersonal)
	// 2023 loses 4000; 2024 makes 10000. Only 6000 is taxed in 2024.
	suite.storeTotals(
		domain.YearCashTotals{
			Year:              2023,
			RentalIncome:      decimal.NewFromInt(5000),
			OperatingExpenses: decimal.NewFromInt(9000),
		},
		domain.YearCashTotals{
			Year:              2024,
			RentalIncome:      decimal.NewFromInt(12000),
			OperatingExpenses: decimal.NewFromInt(2000),
		},
	)

	lossYear, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2023, nil, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("-4000", lossYear.TaxableResult.String())
	suite.True(lossYear.TaxDue.IsZero())
	suite.Equal("4000", lossYear.CarriedForwardDeficit.String())

	profitYear, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)
	suite.Require().NoError(err)
	suite.Equal("10000", profitYear.TaxableResult.String())
	suite.Equal("6000", profitYear.TaxableAfterOffset.String())
	suite.Equal("2832", profitYear.TaxDue.String())
	suite.True(profitYear.CarriedForwardDeficit.IsZero())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_CorporateBrackets() {
	ctx := context.Background()
	suite.storeEntity(domain.EntitySCIIS)
	suite.storeTotals(domain.YearCashTotals{
		Year:              2024,
		RentalIncome:      decimal.NewFromInt(100000),
		OperatingExpenses: decimal.NewFromInt(20000),
	})

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	// 42500 at 15% plus 37500 at 25%.
	suite.Equal("80000", result.TaxableResult.String())
	suite.Equal("15750", result.TaxDue.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_EntityOverrideApplies() {
	ctx := context.Background()
	entity := suite.storeEntity(domain.EntityPersonal)
	tmi := decimal.NewFromFloat(0.41)
	entity.IncomeTaxRateOverride = &tmi
	suite.storeTotals(domain.YearCashTotals{
		Year:         2024,
		RentalIncome: decimal.NewFromInt(10000),
	})

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().NoError(err)
	// 10000 * (0.41 + 0.172)
	suite.Equal("5820", result.TaxDue.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_RequestOverrideWins() {
	ctx := context.Background()
	entity := suite.storeEntity(domain.EntityPersonal)
	tmi := decimal.NewFromFloat(0.41)
	entity.IncomeTaxRateOverride = &tmi
	suite.storeTotals(domain.YearCashTotals{
		Year:         2024,
		RentalIncome: decimal.NewFromInt(10000),
	})
	requestTMI := decimal.NewFromFloat(0.11)
	override := &dto.FiscalSettingsOverride{IncomeTaxRate: &requestTMI}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, override, suite.userID)

	suite.Require().NoError(err)
	// 10000 * (0.11 + 0.172)
	suite.Equal("2820", result.TaxDue.String())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_InvalidOverrideRejected() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityPersonal)
	bad := decimal.NewFromFloat(1.5)
	override := &dto.FiscalSettingsOverride{IncomeTaxRate: &bad}

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2024, override, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidFiscalSettings)
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_YearMustBePositive() {
	ctx := context.Background()

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 0, nil, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_NoActivityYieldsZeroes() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityLMNP)

	result, err := suite.service.GetFiscalYear(ctx, suite.entityID, 2030, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(result.RentalIncome.IsZero())
	suite.True(result.TaxDue.IsZero())
	suite.True(result.CarriedForwardDeficit.IsZero())
}

func (suite *FiscalServiceTestSuite) TestGetFiscalYear_Forbidden() {
	ctx := context.Background()

	authorizer := new(MockPortfolioAuthorizer)
	authorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).
		Return(apperrors.ErrForbidden).Once()
	service := services.NewFiscalService(
		suite.mockEntityRepo, suite.mockPropertyRepo, suite.mockLoanRepo,
		suite.mockTransactionRepo, suite.mockDepreciationRepo,
		services.WithFiscalAuthorizer(authorizer),
	)
	suite.storeEntity(domain.EntityLMNP)

	result, err := service.GetFiscalYear(ctx, suite.entityID, 2024, nil, suite.userID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	authorizer.AssertExpectations(suite.T())
}

// --- SimulateDividendTax Tests ---

func (suite *FiscalServiceTestSuite) TestSimulateDividendTax_FlatTax() {
	ctx := context.Background()
	suite.storeEntity(domain.EntitySCIIS)
	req := dto.DividendTaxRequest{
		EntityID:          suite.entityID,
		DistributedAmount: decimal.NewFromInt(10000),
	}

	resp, err := suite.service.SimulateDividendTax(ctx, req, suite.userID)

	suite.Require().NoError(err)
	// PFU: 12.8% income tax + 17.2% social charges.
	suite.Equal("3000", resp.TaxDue.String())
	suite.Equal("7000", resp.NetReceived.String())
}

func (suite *FiscalServiceTestSuite) TestSimulateDividendTax_NonCorporateRejected() {
	ctx := context.Background()
	suite.storeEntity(domain.EntityLMNP)
	req := dto.DividendTaxRequest{
		EntityID:          suite.entityID,
		DistributedAmount: decimal.NewFromInt(10000),
	}

	resp, err := suite.service.SimulateDividendTax(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestFiscalService(t *testing.T) {
	suite.Run(t, new(FiscalServiceTestSuite))
}
