package services

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// SnapshotSvc records periodic portfolio metric snapshots.
type SnapshotSvc interface {
	// CaptureSnapshots computes and stores a metrics snapshot for every
	// active portfolio. Invoked by the scheduler, not by handlers.
	CaptureSnapshots(ctx context.Context) error

	// ListSnapshots retrieves the most recent snapshots of a portfolio,
	// newest first. Requires the read-only role.
	ListSnapshots(ctx context.Context, portfolioID string, limit int, requestingUserID string) ([]domain.PortfolioSnapshot, error)
}
