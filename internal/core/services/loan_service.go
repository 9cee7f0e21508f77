package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// loanService implements the LoanSvcFacade interface
type loanService struct {
	BaseService
	scope    scopeResolver
	loanRepo portsrepo.LoanRepositoryFacade
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

// WithLoanAuthorizer adds the portfolio authorizer dependency
func WithLoanAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) LoanServiceOption {
	return func(s *loanService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewLoanService creates a new loan service with the provided options
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, propertyRepo portsrepo.PropertyReader, entityRepo portsrepo.EntityReader, options ...LoanServiceOption) portssvc.LoanSvcFacade {
	svc := &loanService{
		scope:    scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		loanRepo: loanRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure loanService implements the LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// FindLoanByID retrieves a loan, checking portfolio membership
func (s *loanService) FindLoanByID(ctx context.Context, loanID string, requestingUserID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find loan by ID",
				slog.String("loan_id", loanID))
		}
		return nil, err
	}

	if err := s.authorizeForLoan(ctx, loan, requestingUserID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoansByPropertyID retrieves the loans attached to a property
func (s *loanService) ListLoansByPropertyID(ctx context.Context, propertyID string, requestingUserID string) ([]domain.Loan, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListLoansByPropertyID(ctx, propertyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list loans",
			slog.String("property_id", propertyID))
		return nil, err
	}

	if loans == nil {
		return []domain.Loan{}, nil
	}
	return loans, nil
}

// CreateLoan persists a new loan against a property
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, requestingUserID string) (*domain.Loan, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.InsuranceRate.IsNegative() {
		return nil, fmt.Errorf("%w: insurance rate must not be negative", apperrors.ErrInvalidInput)
	}

	now := time.Now()
	loan := domain.Loan{
		LoanID:        uuid.NewString(),
		PropertyID:    req.PropertyID,
		Lender:        req.Lender,
		Principal:     req.Principal,
		AnnualRate:    req.AnnualRate,
		TermMonths:    req.TermMonths,
		StartDate:     req.StartDate,
		InsuranceRate: req.InsuranceRate,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	// Building the schedule validates principal, rate, term and start date in
	// one place; a loan whose schedule cannot be computed is never stored.
	if _, err := amortization.FromLoan(loan); err != nil {
		return nil, err
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan",
			slog.String("loan_id", loan.LoanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan created successfully",
		slog.String("loan_id", loan.LoanID),
		slog.String("property_id", loan.PropertyID),
		slog.String("principal", loan.Principal.String()))
	return &loan, nil
}

// DeactivateLoan marks a loan repaid ahead of schedule
func (s *loanService) DeactivateLoan(ctx context.Context, loanID string, requestingUserID string) error {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return err
	}

	if err := s.authorizeForLoan(ctx, loan, requestingUserID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.loanRepo.DeactivateLoan(ctx, loanID, requestingUserID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate loan",
			slog.String("loan_id", loanID))
		return err
	}

	s.LogInfo(ctx, "Loan deactivated",
		slog.String("loan_id", loanID))
	return nil
}

// GetSchedule computes the full amortization schedule of a loan
func (s *loanService) GetSchedule(ctx context.Context, loanID string, requestingUserID string) (*dto.LoanScheduleResponse, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeForLoan(ctx, loan, requestingUserID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	schedule, err := amortization.FromLoan(*loan)
	if err != nil {
		s.LogError(ctx, err, "Failed to build amortization schedule",
			slog.String("loan_id", loanID))
		return nil, err
	}

	resp := dto.ToLoanScheduleResponse(loan, schedule)
	return &resp, nil
}

// GetBalanceAt computes the outstanding balance of a loan at a date
func (s *loanService) GetBalanceAt(ctx context.Context, loanID string, at time.Time, requestingUserID string) (decimal.Decimal, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if err := s.authorizeForLoan(ctx, loan, requestingUserID, domain.RoleReadOnly); err != nil {
		return decimal.Decimal{}, err
	}

	schedule, err := amortization.FromLoan(*loan)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return schedule.BalanceAt(at)
}

// QuoteEarlyRepayment computes the payoff amount of a loan at a date
func (s *loanService) QuoteEarlyRepayment(ctx context.Context, loanID string, at time.Time, requestingUserID string) (*dto.EarlyRepaymentQuoteResponse, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeForLoan(ctx, loan, requestingUserID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	schedule, err := amortization.FromLoan(*loan)
	if err != nil {
		return nil, err
	}

	balance, err := schedule.BalanceAt(at)
	if err != nil {
		return nil, err
	}
	penalty, err := schedule.EarlyRepaymentPenalty(at, nil)
	if err != nil {
		return nil, err
	}

	return &dto.EarlyRepaymentQuoteResponse{
		LoanID:  loanID,
		At:      at,
		Balance: balance,
		Penalty: penalty,
		Total:   balance.Add(penalty),
	}, nil
}

// authorizeForLoan resolves the loan's owning portfolio and checks the role.
func (s *loanService) authorizeForLoan(ctx context.Context, loan *domain.Loan, requestingUserID string, role domain.UserPortfolioRole) error {
	portfolioID, err := s.scope.portfolioForProperty(ctx, loan.PropertyID)
	if err != nil {
		return err
	}
	return s.AuthorizeUser(ctx, requestingUserID, portfolioID, role)
}
