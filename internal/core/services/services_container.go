package services

import (
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier AlertNotifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize the portfolio service first since every other service
	// authorizes through it.
	container.Portfolio = NewPortfolioService(repos.PortfolioRepo)
	authorizer := container.Portfolio.(portssvc.PortfolioAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)

	container.Entity = NewEntityService(repos.EntityRepo, repos.PropertyRepo,
		WithEntityAuthorizer(authorizer))
	container.Property = NewPropertyService(repos.PropertyRepo, repos.EntityRepo,
		WithPropertyAuthorizer(authorizer))
	container.Loan = NewLoanService(repos.LoanRepo, repos.PropertyRepo, repos.EntityRepo,
		WithLoanAuthorizer(authorizer))
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.PropertyRepo, repos.EntityRepo,
		WithTransactionAuthorizer(authorizer))
	container.Depreciation = NewDepreciationService(repos.DepreciationRepo, repos.PropertyRepo, repos.EntityRepo,
		WithDepreciationAuthorizer(authorizer))

	container.Fiscal = NewFiscalService(
		repos.EntityRepo, repos.PropertyRepo, repos.LoanRepo, repos.TransactionRepo, repos.DepreciationRepo,
		WithFiscalAuthorizer(authorizer),
		WithFiscalDefaults(cfg.Fiscal),
	)
	container.Summary = NewSummaryService(
		repos.EntityRepo, repos.PropertyRepo, repos.LoanRepo, repos.TransactionRepo, container.Fiscal,
		WithSummaryAuthorizer(authorizer),
	)
	container.Investment = NewInvestmentService(repos.PropertyRepo, repos.EntityRepo, repos.LoanRepo,
		WithInvestmentAuthorizer(authorizer))

	// The snapshot sweep runs outside any user scope, so its summary
	// pipeline is wired without an authorizer.
	systemFiscal := NewFiscalService(
		repos.EntityRepo, repos.PropertyRepo, repos.LoanRepo, repos.TransactionRepo, repos.DepreciationRepo,
		WithFiscalDefaults(cfg.Fiscal),
	)
	systemSummary := NewSummaryService(
		repos.EntityRepo, repos.PropertyRepo, repos.LoanRepo, repos.TransactionRepo, systemFiscal,
	)
	snapshotOptions := []SnapshotServiceOption{WithSnapshotAuthorizer(authorizer)}
	if notifier != nil {
		snapshotOptions = append(snapshotOptions, WithAlertNotifier(notifier))
	}
	container.Snapshot = NewSnapshotService(repos.PortfolioRepo, repos.SnapshotRepo, systemSummary, snapshotOptions...)

	return container
}
