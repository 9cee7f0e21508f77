package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	portfolioRepo := newPgxPortfolioRepository(dbPool)
	entityRepo := newPgxEntityRepository(dbPool)
	propertyRepo := newPgxPropertyRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	depreciationRepo := newPgxDepreciationRepository(dbPool)
	snapshotRepo := newPgxSnapshotRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		PortfolioRepo:    portfolioRepo,
		EntityRepo:       entityRepo,
		PropertyRepo:     propertyRepo,
		LoanRepo:         loanRepo,
		TransactionRepo:  transactionRepo,
		DepreciationRepo: depreciationRepo,
		SnapshotRepo:     snapshotRepo,
	}
}
