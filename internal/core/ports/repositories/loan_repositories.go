package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its ID.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByPropertyID retrieves all loans financing a property,
	// including deactivated ones.
	ListLoansByPropertyID(ctx context.Context, propertyID string) ([]domain.Loan, error)

	// ListActiveLoansByPortfolioID retrieves every active loan across a
	// portfolio's properties.
	ListActiveLoansByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// DeactivateLoan marks a loan inactive, e.g. after an early repayment.
	DeactivateLoan(ctx context.Context, loanID string, updatedByUserID string) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
