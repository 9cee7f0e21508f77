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

type InvestmentServiceTestSuite struct {
	suite.Suite
	mockPropertyRepo *MockPropertyRepository
	mockEntityRepo   *MockEntityRepository
	mockLoanRepo     *MockLoanRepository
	mockAuthorizer   *MockPortfolioAuthorizer
	service          portssvc.InvestmentSvc

	portfolioID string
	entityID    string
	propertyID  string
	userID      string
}

func (suite *InvestmentServiceTestSuite) SetupTest() {
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockAuthorizer = new(MockPortfolioAuthorizer)
	suite.service = services.NewInvestmentService(
		suite.mockPropertyRepo, suite.mockEntityRepo, suite.mockLoanRepo,
		services.WithInvestmentAuthorizer(suite.mockAuthorizer),
	)

	suite.portfolioID = uuid.NewString()
	suite.entityID = uuid.NewString()
	suite.propertyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockEntityRepo.FindEntityByIDFn = func(ctx context.Context, entityID string) (*domain.Entity, error) {
		if entityID != suite.entityID {
			return nil, apperrors.ErrNotFound
		}
		return &domain.Entity{EntityID: suite.entityID, PortfolioID: suite.portfolioID, Kind: domain.EntityLMNP}, nil
	}
}

// storedProperty is a 200k purchase with 15k costs, bought 2024-01-10.
func (suite *InvestmentServiceTestSuite) storedProperty() *domain.Property {
	property := &domain.Property{
		PropertyID:       suite.propertyID,
		EntityID:         suite.entityID,
		Name:             "T3 quai de la Fosse",
		AcquisitionDate:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		AcquisitionPrice: decimal.NewFromInt(200000),
		AcquisitionCosts: decimal.NewFromInt(15000),
	}
	suite.mockPropertyRepo.FindPropertyByIDFn = func(ctx context.Context, propertyID string) (*domain.Property, error) {
		if propertyID != suite.propertyID {
			return nil, apperrors.ErrNotFound
		}
		return property, nil
	}
	return property
}

func (suite *InvestmentServiceTestSuite) TestSimulateNPV_ZeroRateIsPlainSum() {
	req := dto.NPVRequest{
		DiscountRate: 0,
		CashFlows: []decimal.Decimal{
			decimal.NewFromInt(-1000),
			decimal.NewFromInt(600),
			decimal.NewFromInt(600),
		},
	}

	resp, err := suite.service.SimulateNPV(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal("200", resp.NPV.String())
}

func (suite *InvestmentServiceTestSuite) TestSimulateNPV_DiscountsAtRate() {
	// 1100 a year from now is worth exactly 1000 at 10%.
	req := dto.NPVRequest{
		DiscountRate: 0.10,
		CashFlows: []decimal.Decimal{
			decimal.NewFromInt(-1000),
			decimal.NewFromInt(1100),
		},
	}

	resp, err := suite.service.SimulateNPV(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal("0", resp.NPV.String())
}

func (suite *InvestmentServiceTestSuite) TestSimulateNPV_EmptyFlowsRejected() {
	resp, err := suite.service.SimulateNPV(context.Background(), dto.NPVRequest{DiscountRate: 0.05})

	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.Nil(resp)
}

func (suite *InvestmentServiceTestSuite) TestSimulateIRR_TwoFlowSeries() {
	req := dto.IRRRequest{
		CashFlows: []decimal.Decimal{
			decimal.NewFromInt(-1000),
			decimal.NewFromInt(1100),
		},
	}

	resp, err := suite.service.SimulateIRR(context.Background(), req)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp.IRR)
	suite.InDelta(0.10, *resp.IRR, 1e-6)
}

func (suite *InvestmentServiceTestSuite) TestSimulateIRR_NoSignChange() {
	// Only inflows: no discount rate zeroes this out, and that is an
	// answer, not an error.
	req := dto.IRRRequest{
		CashFlows: []decimal.Decimal{
			decimal.NewFromInt(1000),
			decimal.NewFromInt(1100),
		},
	}

	resp, err := suite.service.SimulateIRR(context.Background(), req)

	suite.Require().NoError(err)
	suite.Nil(resp.IRR)
}

func (suite *InvestmentServiceTestSuite) TestSimulateSale_WithoutLoan() {
	req := dto.SaleSimulationRequest{
		SalePrice:       decimal.NewFromInt(300000),
		AgencyFeeRate:   decimal.NewFromFloat(0.05),
		CapitalGainsTax: decimal.NewFromInt(2000),
	}

	resp, err := suite.service.SimulateSale(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal("15000", resp.AgencyFees.String())
	suite.Equal("0", resp.LoanBalance.String())
	suite.Equal("0", resp.Penalty.String())
	suite.Equal("283000", resp.Net.String())
}

func (suite *InvestmentServiceTestSuite) TestSimulateSale_WithLoanPayoff() {
	// Zero-rate loan: 120000 over 120 months from December 2023. Twelve
	// 1000 payments fall before the sale date, leaving 108000 owed.
	loan := domain.Loan{
		LoanID:     uuid.NewString(),
		PropertyID: suite.propertyID,
		Principal:  decimal.NewFromInt(120000),
		AnnualRate: decimal.Zero,
		TermMonths: 120,
		StartDate:  time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
	}
	suite.mockLoanRepo.On("FindLoanByID", mock.Anything, loan.LoanID).Return(&loan, nil)

	saleDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.SaleSimulationRequest{
		SalePrice:     decimal.NewFromInt(200000),
		AgencyFeeRate: decimal.NewFromFloat(0.05),
		LoanID:        &loan.LoanID,
		SaleDate:      &saleDate,
	}

	resp, err := suite.service.SimulateSale(context.Background(), req)

	suite.Require().NoError(err)
	suite.Equal("108000", resp.LoanBalance.String())
	// Six months of interest on a free loan costs nothing.
	suite.Equal("0", resp.Penalty.String())
	suite.Equal("10000", resp.AgencyFees.String())
	suite.Equal("82000", resp.Net.String())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *InvestmentServiceTestSuite) TestSimulateSale_LoanWithoutDateRejected() {
	loanID := uuid.NewString()
	req := dto.SaleSimulationRequest{
		SalePrice: decimal.NewFromInt(250000),
		LoanID:    &loanID,
	}

	resp, err := suite.service.SimulateSale(context.Background(), req)

	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.Nil(resp)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "FindLoanByID", mock.Anything, mock.Anything)
}

func (suite *InvestmentServiceTestSuite) TestAnalyzeProperty_ProjectsFlows() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).Return(nil)
	suite.storedProperty()

	// Zero-rate financing: 180000 over 180 months is 1000 a month, plus a
	// 30 insurance premium (180000 at 0.2% a year).
	loan := domain.Loan{
		LoanID:        uuid.NewString(),
		PropertyID:    suite.propertyID,
		Principal:     decimal.NewFromInt(180000),
		AnnualRate:    decimal.Zero,
		TermMonths:    180,
		StartDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		InsuranceRate: decimal.NewFromFloat(0.002),
		IsActive:      true,
	}
	suite.mockLoanRepo.ListLoansByPropertyIDFn = func(ctx context.Context, propertyID string) ([]domain.Loan, error) {
		return []domain.Loan{loan}, nil
	}

	req := dto.PropertyAnalysisRequest{
		AnnualRent:     decimal.NewFromInt(12000),
		AnnualExpenses: decimal.NewFromInt(2000),
		HorizonYears:   2,
		ResalePrice:    decimal.NewFromInt(210000),
		DiscountRate:   0,
	}

	resp, err := suite.service.AnalyzeProperty(context.Background(), suite.propertyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(resp.CashFlows, 3)
	// Equity out: 200000 price + 15000 costs - 180000 borrowed.
	suite.Equal("-35000", resp.CashFlows[0].String())
	// Each held year: 12000 rent - 2000 expenses - 12000 debt - 360 insurance.
	suite.Equal("-2360", resp.CashFlows[1].String())
	// Final year adds the sale: 210000 less the 156000 still owed after 24 payments.
	suite.Equal("51640", resp.CashFlows[2].String())
	suite.Equal("14280", resp.NPV.String())
	suite.Require().NotNil(resp.IRR)
	suite.InDelta(0.181426, *resp.IRR, 1e-4)
}

func (suite *InvestmentServiceTestSuite) TestAnalyzeProperty_DebtFree() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).Return(nil)
	suite.storedProperty()
	suite.mockLoanRepo.ListLoansByPropertyIDFn = func(ctx context.Context, propertyID string) ([]domain.Loan, error) {
		return nil, nil
	}

	req := dto.PropertyAnalysisRequest{
		AnnualRent:     decimal.NewFromInt(12000),
		AnnualExpenses: decimal.NewFromInt(2000),
		HorizonYears:   1,
		ResalePrice:    decimal.NewFromInt(220000),
		DiscountRate:   0,
	}

	resp, err := suite.service.AnalyzeProperty(context.Background(), suite.propertyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(resp.CashFlows, 2)
	suite.Equal("-215000", resp.CashFlows[0].String())
	suite.Equal("230000", resp.CashFlows[1].String())
	suite.Equal("15000", resp.NPV.String())
}

func (suite *InvestmentServiceTestSuite) TestAnalyzeProperty_NegativeRentRejected() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).Return(nil)
	suite.storedProperty()

	req := dto.PropertyAnalysisRequest{
		AnnualRent:   decimal.NewFromInt(-100),
		HorizonYears: 5,
		ResalePrice:  decimal.NewFromInt(210000),
	}

	resp, err := suite.service.AnalyzeProperty(context.Background(), suite.propertyID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.Nil(resp)
}

func (suite *InvestmentServiceTestSuite) TestAnalyzeProperty_Forbidden() {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, domain.RoleReadOnly).Return(apperrors.ErrForbidden)
	suite.storedProperty()

	resp, err := suite.service.AnalyzeProperty(context.Background(), suite.propertyID, dto.PropertyAnalysisRequest{
		AnnualRent:   decimal.NewFromInt(12000),
		HorizonYears: 3,
		ResalePrice:  decimal.NewFromInt(210000),
	}, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(resp)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ListLoansByPropertyID", mock.Anything, mock.Anything)
}

func TestInvestmentService(t *testing.T) {
	suite.Run(t, new(InvestmentServiceTestSuite))
}
