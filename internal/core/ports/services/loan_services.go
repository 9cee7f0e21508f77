package services

import (
	"context"
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LoanReaderSvc defines read operations for loans
type LoanReaderSvc interface {
	// FindLoanByID retrieves a specific loan, checking portfolio membership.
	FindLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error)

	// ListLoansByPropertyID retrieves the loans attached to a property.
	ListLoansByPropertyID(ctx context.Context, propertyID string, requestingUserID string) ([]domain.Loan, error)
}

// LoanWriterSvc defines write operations for loans
type LoanWriterSvc interface {
	// CreateLoan persists a new loan against a property. Requires the member role.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, requestingUserID string) (*domain.Loan, error)

	// DeactivateLoan marks a loan repaid ahead of schedule. Requires the member role.
	DeactivateLoan(ctx context.Context, loanID string, requestingUserID string) error
}

// LoanScheduleSvc exposes amortization computations over stored loans
type LoanScheduleSvc interface {
	// GetSchedule computes the full amortization schedule of a loan.
	GetSchedule(ctx context.Context, loanID string, requestingUserID string) (*dto.LoanScheduleResponse, error)

	// GetBalanceAt computes the outstanding balance at a given date.
	GetBalanceAt(ctx context.Context, loanID string, at time.Time, requestingUserID string) (decimal.Decimal, error)

	// QuoteEarlyRepayment computes the payoff amount at a date, penalty included.
	QuoteEarlyRepayment(ctx context.Context, loanID string, at time.Time, requestingUserID string) (*dto.EarlyRepaymentQuoteResponse, error)
}

// LoanSvcFacade combines all loan-related service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
	LoanScheduleSvc
}
