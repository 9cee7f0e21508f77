package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for cash transactions
type TransactionReaderSvc interface {
	// FindTransactionByID retrieves a specific transaction, checking portfolio membership.
	FindTransactionByID(ctx context.Context, transactionID string, requestingUserID string) (*domain.Transaction, error)

	// ListTransactionsByPropertyID retrieves transactions for a property with
	// optional year and type filters. Results are paginated; the returned
	// token is empty on the last page.
	ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters repositories.TransactionListFilters, limit int, nextToken string, requestingUserID string) ([]domain.Transaction, string, error)

	// GetYearCashTotals aggregates rental income and operating expenses per
	// calendar year for an entity.
	GetYearCashTotals(ctx context.Context, entityID string, requestingUserID string) ([]domain.YearCashTotals, error)
}

// TransactionWriterSvc defines write operations for cash transactions
type TransactionWriterSvc interface {
	// CreateTransaction persists a new transaction. Requires the member role.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction. Requires the member role.
	DeleteTransaction(ctx context.Context, transactionID string, requestingUserID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
