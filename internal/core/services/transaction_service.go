package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	scope           scopeResolver
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionAuthorizer adds the portfolio authorizer dependency
func WithTransactionAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) TransactionServiceOption {
	return func(s *transactionService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, propertyRepo portsrepo.PropertyReader, entityRepo portsrepo.EntityReader, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		scope:           scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		transactionRepo: transactionRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// FindTransactionByID retrieves a transaction, checking portfolio membership
func (s *transactionService) FindTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	portfolioID, err := s.scope.portfolioForProperty(ctx, txn.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactionsByPropertyID retrieves a filtered page of transactions
func (s *transactionService) ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters portsrepo.TransactionListFilters, limit int, nextToken string, requestingUserID string) ([]domain.Transaction, string, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, propertyID)
	if err != nil {
		return nil, "", err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, "", err
	}

	txns, token, err := s.transactionRepo.ListTransactionsByPropertyID(ctx, propertyID, filters, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("property_id", propertyID))
		return nil, "", err
	}

	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, token, nil
}

// GetYearCashTotals aggregates an entity's transactions per calendar year
func (s *transactionService) GetYearCashTotals(ctx context.Context, entityID string, requestingUserID string) ([]domain.YearCashTotals, error) {
	portfolioID, err := s.scope.portfolioForEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	totals, err := s.transactionRepo.ListYearTotalsByEntityID(ctx, entityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate year totals",
			slog.String("entity_id", entityID))
		return nil, err
	}

	if totals == nil {
		return []domain.YearCashTotals{}, nil
	}
	return totals, nil
}

// CreateTransaction persists a new transaction
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	portfolioID, err := s.scope.portfolioForProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return nil, err
	}

	txnType := domain.TransactionType(req.Type)
	if txnType != domain.RentalIncome && txnType != domain.OperatingExpense {
		return nil, fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, the type carries the sign", apperrors.ErrValidation)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		PropertyID:    req.PropertyID,
		Type:          txnType,
		Amount:        req.Amount,
		Date:          req.Date,
		Label:         req.Label,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogDebug(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("property_id", txn.PropertyID),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

// DeleteTransaction removes a transaction
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}

	portfolioID, err := s.scope.portfolioForProperty(ctx, txn.PropertyID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction",
			slog.String("transaction_id", transactionID))
		return err
	}
	return nil
}
