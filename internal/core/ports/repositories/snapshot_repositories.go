package repositories

import (
	"context"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// SnapshotReader defines read operations for portfolio snapshots
type SnapshotReader interface {
	// ListSnapshotsByPortfolioID retrieves a portfolio's snapshots, most
	// recent first.
	ListSnapshotsByPortfolioID(ctx context.Context, portfolioID string, limit int) ([]domain.PortfolioSnapshot, error)
}

// SnapshotWriter defines write operations for portfolio snapshots
type SnapshotWriter interface {
	// SaveSnapshot persists a snapshot row.
	SaveSnapshot(ctx context.Context, snapshot domain.PortfolioSnapshot) error
}

// SnapshotRepositoryFacade combines the snapshot repository interfaces
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}
