package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
)

// AlertNotifier delivers threshold alerts raised during snapshot capture.
// Implemented by the SMTP mailer; a nil notifier drops alerts silently.
type AlertNotifier interface {
	NotifyAlerts(ctx context.Context, portfolio domain.Portfolio, snapshot domain.PortfolioSnapshot) error
}

// snapshotService implements the SnapshotSvc interface
type snapshotService struct {
	BaseService
	portfolioRepo portsrepo.PortfolioReader
	snapshotRepo  portsrepo.SnapshotRepositoryFacade
	// summary must be wired without an authorizer: captures run system-wide,
	// outside any user scope.
	summary  portssvc.SummarySvc
	notifier AlertNotifier
}

// SnapshotServiceOption is a functional option for configuring the snapshot service
type SnapshotServiceOption func(*snapshotService)

// WithSnapshotAuthorizer adds the portfolio authorizer dependency (used by
// the user-facing listing, not by captures)
func WithSnapshotAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) SnapshotServiceOption {
	return func(s *snapshotService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// WithAlertNotifier adds the alert delivery dependency
func WithAlertNotifier(notifier AlertNotifier) SnapshotServiceOption {
	return func(s *snapshotService) {
		s.notifier = notifier
	}
}

// NewSnapshotService creates a new snapshot service with the provided options
func NewSnapshotService(
	portfolioRepo portsrepo.PortfolioReader,
	snapshotRepo portsrepo.SnapshotRepositoryFacade,
	summary portssvc.SummarySvc,
	options ...SnapshotServiceOption,
) portssvc.SnapshotSvc {
	svc := &snapshotService{
		portfolioRepo: portfolioRepo,
		snapshotRepo:  snapshotRepo,
		summary:       summary,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure snapshotService implements the SnapshotSvc interface
var _ portssvc.SnapshotSvc = (*snapshotService)(nil)

const defaultSnapshotLimit = 12

// CaptureSnapshots computes and stores the current year's metrics for every
// active portfolio. One portfolio failing does not stop the sweep.
func (s *snapshotService) CaptureSnapshots(ctx context.Context) error {
	portfolios, err := s.portfolioRepo.ListActivePortfolios(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list portfolios for snapshot capture")
		return err
	}

	year := time.Now().Year()
	captured := 0
	for _, portfolio := range portfolios {
		if err := s.captureOne(ctx, portfolio, year); err != nil {
			s.LogError(ctx, err, "Snapshot capture failed for portfolio",
				slog.String("portfolio_id", portfolio.PortfolioID))
			continue
		}
		captured++
	}

	s.LogInfo(ctx, "Snapshot sweep finished",
		slog.Int("portfolios", len(portfolios)),
		slog.Int("captured", captured))
	return nil
}

func (s *snapshotService) captureOne(ctx context.Context, portfolio domain.Portfolio, year int) error {
	summary, err := s.summary.GetPortfolioSummary(ctx, portfolio.PortfolioID, year, "")
	if err != nil {
		return err
	}

	snapshot := domain.PortfolioSnapshot{
		SnapshotID:        uuid.NewString(),
		PortfolioID:       portfolio.PortfolioID,
		Year:              year,
		TotalRentalIncome: summary.TotalRentalIncome,
		TotalExpenses:     summary.TotalExpenses,
		TotalTaxDue:       summary.TotalTaxDue,
		TotalDebt:         summary.TotalDebt,
		TotalValue:        summary.TotalValue,
		TotalDebtService:  summary.TotalDebtService,
		LTV:               summary.LTV,
		DSCR:              summary.DSCR,
		Alerts:            summary.Alerts,
		CreatedAt:         time.Now(),
	}

	if err := s.snapshotRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if len(snapshot.Alerts) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyAlerts(ctx, portfolio, snapshot); err != nil {
			// Alert delivery is best effort; the snapshot itself is stored.
			s.LogError(ctx, err, "Failed to deliver threshold alerts",
				slog.String("portfolio_id", portfolio.PortfolioID))
		}
	}

	s.LogDebug(ctx, "Snapshot captured",
		slog.String("portfolio_id", portfolio.PortfolioID),
		slog.String("snapshot_id", snapshot.SnapshotID),
		slog.Int("alerts", len(snapshot.Alerts)))
	return nil
}

// ListSnapshots retrieves the most recent snapshots of a portfolio
func (s *snapshotService) ListSnapshots(ctx context.Context, portfolioID string, limit int, requestingUserID string) ([]domain.PortfolioSnapshot, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	snapshots, err := s.snapshotRepo.ListSnapshotsByPortfolioID(ctx, portfolioID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list snapshots",
			slog.String("portfolio_id", portfolioID))
		return nil, err
	}

	if snapshots == nil {
		return []domain.PortfolioSnapshot{}, nil
	}
	return snapshots, nil
}
