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

type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockPropertyRepo *MockPropertyRepository
	mockEntityRepo   *MockEntityRepository
	mockAuthorizer   *MockPortfolioAuthorizer
	service          portssvc.LoanSvcFacade

	portfolioID string
	entityID    string
	propertyID  string
	userID      string
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockPropertyRepo = new(MockPropertyRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockAuthorizer = new(MockPortfolioAuthorizer)
	suite.service = services.NewLoanService(
		suite.mockLoanRepo, suite.mockPropertyRepo, suite.mockEntityRepo,
		services.WithLoanAuthorizer(suite.mockAuthorizer),
	)

	suite.portfolioID = uuid.NewString()
	suite.entityID = uuid.NewString()
	suite.propertyID = uuid.NewString()
	suite.userID = uuid.NewString()

	// Ownership chain: property -> entity -> portfolio.
	suite.mockPropertyRepo.FindPropertyByIDFn = func(ctx context.Context, propertyID string) (*domain.Property, error) {
		if propertyID != suite.propertyID {
			return nil, apperrors.ErrNotFound
		}
		return &domain.Property{PropertyID: suite.propertyID, EntityID: suite.entityID}, nil
	}
	suite.mockEntityRepo.FindEntityByIDFn = func(ctx context.Context, entityID string) (*domain.Entity, error) {
		if entityID != suite.entityID {
			return nil, apperrors.ErrNotFound
		}
		return &domain.Entity{EntityID: suite.entityID, PortfolioID: suite.portfolioID, Kind: domain.EntityLMNP}, nil
	}
}

// referenceLoan is 400k at 3.5% over 20 years, started mid-June 2023.
func (suite *LoanServiceTestSuite) referenceLoan() *domain.Loan {
	return &domain.Loan{
		LoanID:        uuid.NewString(),
		PropertyID:    suite.propertyID,
		Lender:        "Crédit Foncier",
		Principal:     decimal.NewFromInt(400000),
		AnnualRate:    decimal.NewFromFloat(0.035),
		TermMonths:    240,
		StartDate:     time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		InsuranceRate: decimal.NewFromFloat(0.0036),
		IsActive:      true,
	}
}

func (suite *LoanServiceTestSuite) allow(role domain.UserPortfolioRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, role).Return(nil)
}

func (suite *LoanServiceTestSuite) deny(role domain.UserPortfolioRole) {
	suite.mockAuthorizer.On("AuthorizeUserAction", mock.Anything, suite.userID, suite.portfolioID, role).Return(apperrors.ErrForbidden)
}

// --- CreateLoan Tests ---

func (suite *LoanServiceTestSuite) TestCreateLoan_Success() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		PropertyID:    suite.propertyID,
		Lender:        "Crédit Foncier",
		Principal:     decimal.NewFromInt(400000),
		AnnualRate:    decimal.NewFromFloat(0.035),
		TermMonths:    240,
		StartDate:     time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		InsuranceRate: decimal.NewFromFloat(0.0036),
	}

	suite.allow(domain.RoleMember)
	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.PropertyID == suite.propertyID && l.IsActive && l.CreatedBy == suite.userID
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.NotEmpty(loan.LoanID)
	suite.True(loan.IsActive)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_InvalidTermRejected() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		PropertyID: suite.propertyID,
		Principal:  decimal.NewFromInt(100000),
		AnnualRate: decimal.NewFromFloat(0.03),
		TermMonths: 0,
		StartDate:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.allow(domain.RoleMember)

	loan, err := suite.service.CreateLoan(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NegativeInsuranceRejected() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		PropertyID:    suite.propertyID,
		Principal:     decimal.NewFromInt(100000),
		AnnualRate:    decimal.NewFromFloat(0.03),
		TermMonths:    120,
		StartDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		InsuranceRate: decimal.NewFromFloat(-0.001),
	}

	suite.allow(domain.RoleMember)

	loan, err := suite.service.CreateLoan(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrInvalidInput)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_ReadonlyForbidden() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		PropertyID: suite.propertyID,
		Principal:  decimal.NewFromInt(100000),
		AnnualRate: decimal.NewFromFloat(0.03),
		TermMonths: 120,
		StartDate:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.deny(domain.RoleMember)

	loan, err := suite.service.CreateLoan(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

// --- GetSchedule Tests ---

func (suite *LoanServiceTestSuite) TestGetSchedule_ReferenceLoan() {
	ctx := context.Background()
	loan := suite.referenceLoan()

	suite.allow(domain.RoleReadOnly)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	schedule, err := suite.service.GetSchedule(ctx, loan.LoanID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(schedule)
	suite.Equal(loan.LoanID, schedule.LoanID)
	suite.Equal("2319.84", schedule.MonthlyPayment.String())
	suite.Equal("120", schedule.MonthlyInsurance.String())
	suite.Len(schedule.Lines, 240)
	suite.Equal(time.Date(2043, 6, 15, 0, 0, 0, 0, time.UTC), schedule.MaturityDate)

	// First period: interest on the full principal at the monthly rate.
	first := schedule.Lines[0]
	suite.Equal(1, first.Period)
	suite.Equal(time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), first.DueDate)
	suite.Equal("1166.67", first.Interest.String())

	// Last period absorbs the rounding drift and clears the balance.
	last := schedule.Lines[239]
	suite.True(last.Balance.IsZero())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestGetSchedule_Forbidden() {
	ctx := context.Background()
	loan := suite.referenceLoan()

	suite.deny(domain.RoleReadOnly)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	schedule, err := suite.service.GetSchedule(ctx, loan.LoanID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(schedule)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- GetBalanceAt Tests ---

func (suite *LoanServiceTestSuite) TestGetBalanceAt_BeforeFirstPayment() {
	ctx := context.Background()
	loan := suite.referenceLoan()

	suite.allow(domain.RoleReadOnly)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	balance, err := suite.service.GetBalanceAt(ctx, loan.LoanID, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), suite.userID)

	suite.Require().NoError(err)
	suite.Equal("400000", balance.String())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestGetBalanceAt_BeforeRelease() {
	ctx := context.Background()
	loan := suite.referenceLoan()

	suite.allow(domain.RoleReadOnly)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	_, err := suite.service.GetBalanceAt(ctx, loan.LoanID, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDateOutOfRange)
}

// --- QuoteEarlyRepayment Tests ---

func (suite *LoanServiceTestSuite) TestQuoteEarlyRepayment_PenaltyCapped() {
	ctx := context.Background()
	loan := suite.referenceLoan()
	at := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	suite.allow(domain.RoleReadOnly)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	quote, err := suite.service.QuoteEarlyRepayment(ctx, loan.LoanID, at, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(quote)
	suite.Equal(loan.LoanID, quote.LoanID)
	suite.True(quote.Balance.IsPositive())
	suite.True(quote.Balance.LessThan(decimal.NewFromInt(400000)))
	// Six months of interest beats 3% of the balance at this rate.
	sixMonths := quote.Balance.Mul(decimal.NewFromFloat(0.035)).Div(decimal.NewFromInt(2)).Round(2)
	suite.True(quote.Penalty.Equal(sixMonths))
	suite.True(quote.Total.Equal(quote.Balance.Add(quote.Penalty)))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// --- DeactivateLoan Tests ---

func (suite *LoanServiceTestSuite) TestDeactivateLoan_Success() {
	ctx := context.Background()
	loan := suite.referenceLoan()

	suite.allow(domain.RoleMember)
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("DeactivateLoan", ctx, loan.LoanID, suite.userID).Return(nil).Once()

	err := suite.service.DeactivateLoan(ctx, loan.LoanID, suite.userID)

	suite.Require().NoError(err)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// --- ListLoansByPropertyID Tests ---

func (suite *LoanServiceTestSuite) TestListLoansByPropertyID_Success() {
	ctx := context.Background()
	loans := []domain.Loan{*suite.referenceLoan()}

	suite.allow(domain.RoleReadOnly)
	suite.mockLoanRepo.On("ListLoansByPropertyID", ctx, suite.propertyID).Return(loans, nil).Once()

	listed, err := suite.service.ListLoansByPropertyID(ctx, suite.propertyID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(listed, 1)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestListLoansByPropertyID_UnknownProperty() {
	ctx := context.Background()
	unknownID := uuid.NewString()

	listed, err := suite.service.ListLoansByPropertyID(ctx, unknownID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(listed)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "ListLoansByPropertyID", mock.Anything, mock.Anything)
}

func TestLoanService(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
