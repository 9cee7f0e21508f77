package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/patrimmo/patrimmo_backend/internal/handlers"
	"github.com/patrimmo/patrimmo_backend/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) FindLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ListLoansByPropertyID(ctx context.Context, propertyID string, requestingUserID string) ([]domain.Loan, error) {
	args := m.Called(ctx, propertyID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, requestingUserID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) DeactivateLoan(ctx context.Context, loanID string, requestingUserID string) error {
	args := m.Called(ctx, loanID, requestingUserID)
	return args.Error(0)
}

func (m *MockLoanService) GetSchedule(ctx context.Context, loanID string, requestingUserID string) (*dto.LoanScheduleResponse, error) {
	args := m.Called(ctx, loanID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoanScheduleResponse), args.Error(1)
}

func (m *MockLoanService) GetBalanceAt(ctx context.Context, loanID string, at time.Time, requestingUserID string) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID, at, requestingUserID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLoanService) QuoteEarlyRepayment(ctx context.Context, loanID string, at time.Time, requestingUserID string) (*dto.EarlyRepaymentQuoteResponse, error) {
	args := m.Called(ctx, loanID, at, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EarlyRepaymentQuoteResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	jwtSecret       string
}

// generateTestToken creates a signed JWT for the given user.
func (suite *LoanHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "patrimmo-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockLoanService = new(MockLoanService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // Skip swagger registration in tests
	}
	services := &portssvc.ServiceContainer{Loan: suite.mockLoanService}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *LoanHandlerTestSuite) get(url, userID string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LoanHandlerTestSuite) TestGetSchedule_Success() {
	loanID := uuid.NewString()
	userID := uuid.NewString()

	expected := &dto.LoanScheduleResponse{
		LoanID:           loanID,
		MonthlyPayment:   decimal.RequireFromString("926.23"),
		MonthlyInsurance: decimal.RequireFromString("60"),
		MaturityDate:     time.Date(2043, 6, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.ScheduleLineResponse{
			{Period: 1, Payment: decimal.RequireFromString("926.23")},
			{Period: 2, Payment: decimal.RequireFromString("926.23")},
		},
	}

	suite.mockLoanService.On("GetSchedule", mock.Anything, loanID, userID).
		Return(expected, nil).Once()

	w := suite.get(fmt.Sprintf("/api/v1/loans/%s/schedule", loanID), userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoanScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(loanID, resp.LoanID)
	suite.Len(resp.Lines, 2)
	suite.True(resp.MonthlyPayment.Equal(expected.MonthlyPayment))

	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetBalanceAt_ExplicitDate() {
	loanID := uuid.NewString()
	userID := uuid.NewString()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockLoanService.On("GetBalanceAt", mock.Anything, loanID, at, userID).
		Return(decimal.RequireFromString("312456.78"), nil).Once()

	w := suite.get(fmt.Sprintf("/api/v1/loans/%s/balance?at=2026-03-01", loanID), userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LoanBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(loanID, resp.LoanID)
	suite.True(resp.Balance.Equal(decimal.RequireFromString("312456.78")))

	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetBalanceAt_DefaultsToToday() {
	loanID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLoanService.On("GetBalanceAt", mock.Anything, loanID,
		mock.MatchedBy(func(at time.Time) bool {
			return time.Since(at) < time.Minute
		}), userID).
		Return(decimal.NewFromInt(100000), nil).Once()

	w := suite.get(fmt.Sprintf("/api/v1/loans/%s/balance", loanID), userID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestGetBalanceAt_MalformedDate() {
	loanID := uuid.NewString()
	userID := uuid.NewString()

	w := suite.get(fmt.Sprintf("/api/v1/loans/%s/balance?at=notadate", loanID), userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "GetBalanceAt")
}

func (suite *LoanHandlerTestSuite) TestGetBalanceAt_DateOutOfRange() {
	loanID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLoanService.On("GetBalanceAt", mock.Anything, loanID, mock.Anything, userID).
		Return(decimal.Decimal{}, apperrors.ErrDateOutOfRange).Once()

	w := suite.get(fmt.Sprintf("/api/v1/loans/%s/balance?at=2010-01-01", loanID), userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LoanHandlerTestSuite) TestGetLoan_NotFound() {
	loanID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLoanService.On("FindLoanByID", mock.Anything, loanID, userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.get("/api/v1/loans/"+loanID, userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LoanHandlerTestSuite) TestGetLoan_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/loans/"+uuid.NewString(), nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLoanService.AssertNotCalled(suite.T(), "FindLoanByID")
}

// --- Run Test Suite ---
func TestLoanHandler(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
