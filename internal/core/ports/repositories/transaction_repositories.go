package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// TransactionListFilters narrows transaction listings. Zero values mean no
// filtering on that dimension.
type TransactionListFilters struct {
	Year int
	Type domain.TransactionType
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByPropertyID retrieves a page of a property's
	// transactions in descending date order. nextToken pages forward; the
	// returned token is empty on the last page.
	ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters TransactionListFilters, limit int, nextToken string) ([]domain.Transaction, string, error)

	// ListYearTotalsByEntityID aggregates an entity's transactions into
	// per-year income and expense totals, in ascending year order.
	ListYearTotalsByEntityID(ctx context.Context, entityID string) ([]domain.YearCashTotals, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, transaction domain.Transaction) error

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
