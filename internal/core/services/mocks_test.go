package services_test

import (
	"context"
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// Shared repository mocks for the service tests. Methods with a Fn field can
// be stubbed with a plain function when testify expectations would be noise;
// otherwise they fall back to mock.Called.

// --- Mock PortfolioRepository ---

type MockPortfolioRepository struct {
	mock.Mock
	FindUserPortfolioRoleFn func(ctx context.Context, userID, portfolioID string) (*domain.UserPortfolio, error)
}

func (m *MockPortfolioRepository) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListPortfoliosByUserID(ctx context.Context, userID string) ([]domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListActivePortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) UpdatePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) DeactivatePortfolio(ctx context.Context, portfolioID string, updatedByUserID string) error {
	args := m.Called(ctx, portfolioID, updatedByUserID)
	return args.Error(0)
}

func (m *MockPortfolioRepository) AddUserToPortfolio(ctx context.Context, membership domain.UserPortfolio) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockPortfolioRepository) FindUserPortfolioRole(ctx context.Context, userID, portfolioID string) (*domain.UserPortfolio, error) {
	if m.FindUserPortfolioRoleFn != nil {
		return m.FindUserPortfolioRoleFn(ctx, userID, portfolioID)
	}
	args := m.Called(ctx, userID, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserPortfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListPortfolioUsers(ctx context.Context, portfolioID string) ([]domain.UserPortfolio, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPortfolio), args.Error(1)
}

// --- Mock EntityRepository ---

type MockEntityRepository struct {
	mock.Mock
	FindEntityByIDFn func(ctx context.Context, entityID string) (*domain.Entity, error)
}

func (m *MockEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	if m.FindEntityByIDFn != nil {
		return m.FindEntityByIDFn(ctx, entityID)
	}
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) ListEntitiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Entity, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}

func (m *MockEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepository) DeleteEntity(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

// --- Mock PropertyRepository ---

type MockPropertyRepository struct {
	mock.Mock
	FindPropertyByIDFn         func(ctx context.Context, propertyID string) (*domain.Property, error)
	ListPropertiesByEntityIDFn func(ctx context.Context, entityID string) ([]domain.Property, error)
}

func (m *MockPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	if m.FindPropertyByIDFn != nil {
		return m.FindPropertyByIDFn(ctx, propertyID)
	}
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListPropertiesByEntityID(ctx context.Context, entityID string) ([]domain.Property, error) {
	if m.ListPropertiesByEntityIDFn != nil {
		return m.ListPropertiesByEntityIDFn(ctx, entityID)
	}
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListPropertiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Property, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) UpdateProperty(ctx context.Context, property domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) DeleteProperty(ctx context.Context, propertyID string) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

// --- Mock LoanRepository ---

type MockLoanRepository struct {
	mock.Mock
	ListLoansByPropertyIDFn func(ctx context.Context, propertyID string) ([]domain.Loan, error)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByPropertyID(ctx context.Context, propertyID string) ([]domain.Loan, error) {
	if m.ListLoansByPropertyIDFn != nil {
		return m.ListLoansByPropertyIDFn(ctx, propertyID)
	}
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListActiveLoansByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Loan, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) DeactivateLoan(ctx context.Context, loanID string, updatedByUserID string) error {
	args := m.Called(ctx, loanID, updatedByUserID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
	ListYearTotalsByEntityIDFn func(ctx context.Context, entityID string) ([]domain.YearCashTotals, error)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters portsrepo.TransactionListFilters, limit int, nextToken string) ([]domain.Transaction, string, error) {
	args := m.Called(ctx, propertyID, filters, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.String(1), args.Error(2)
}

func (m *MockTransactionRepository) ListYearTotalsByEntityID(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
	if m.ListYearTotalsByEntityIDFn != nil {
		return m.ListYearTotalsByEntityIDFn(ctx, entityID)
	}
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YearCashTotals), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock DepreciationRepository ---

type MockDepreciationRepository struct {
	mock.Mock
	ListComponentsByEntityIDFn func(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error)
}

func (m *MockDepreciationRepository) FindComponentByID(ctx context.Context, componentID string) (*domain.DepreciationComponent, error) {
	args := m.Called(ctx, componentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepreciationComponent), args.Error(1)
}

func (m *MockDepreciationRepository) ListComponentsByPropertyID(ctx context.Context, propertyID string) ([]domain.DepreciationComponent, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationComponent), args.Error(1)
}

func (m *MockDepreciationRepository) ListComponentsByEntityID(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
	if m.ListComponentsByEntityIDFn != nil {
		return m.ListComponentsByEntityIDFn(ctx, entityID)
	}
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationComponent), args.Error(1)
}

func (m *MockDepreciationRepository) SaveComponent(ctx context.Context, component domain.DepreciationComponent) error {
	args := m.Called(ctx, component)
	return args.Error(0)
}

func (m *MockDepreciationRepository) DeleteComponent(ctx context.Context, componentID string) error {
	args := m.Called(ctx, componentID)
	return args.Error(0)
}

// --- Mock SnapshotRepository ---

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) ListSnapshotsByPortfolioID(ctx context.Context, portfolioID string, limit int) ([]domain.PortfolioSnapshot, error) {
	args := m.Called(ctx, portfolioID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PortfolioSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.PortfolioSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock PortfolioAuthorizer ---

// MockPortfolioAuthorizer stands in for the portfolio service in tests that
// only need the role check.
type MockPortfolioAuthorizer struct {
	mock.Mock
}

func (m *MockPortfolioAuthorizer) AuthorizeUserAction(ctx context.Context, userID, portfolioID string, requiredRole domain.UserPortfolioRole) error {
	args := m.Called(ctx, userID, portfolioID, requiredRole)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}
