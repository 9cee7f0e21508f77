package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	"github.com/patrimmo/patrimmo_backend/internal/models"
	"github.com/shopspring/decimal"
)

type PgxSnapshotRepository struct {
	pool *pgxpool.Pool
}

// newPgxSnapshotRepository creates a new repository for portfolio snapshots.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{pool: pool}
}

// Ensure PgxSnapshotRepository implements portsrepo.SnapshotRepositoryFacade
var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

func toModelSnapshot(d domain.PortfolioSnapshot) models.PortfolioSnapshot {
	m := models.PortfolioSnapshot{
		SnapshotID:        d.SnapshotID,
		PortfolioID:       d.PortfolioID,
		Year:              d.Year,
		TotalRentalIncome: d.TotalRentalIncome,
		TotalExpenses:     d.TotalExpenses,
		TotalTaxDue:       d.TotalTaxDue,
		TotalDebt:         d.TotalDebt,
		TotalValue:        d.TotalValue,
		TotalDebtService:  d.TotalDebtService,
		Alerts:            d.Alerts,
		CreatedAt:         d.CreatedAt,
	}
	if d.LTV.Valid {
		m.LTV = decimal.NullDecimal{Decimal: d.LTV.Value, Valid: true}
	}
	if d.DSCR.Valid {
		m.DSCR = decimal.NullDecimal{Decimal: d.DSCR.Value, Valid: true}
	}
	return m
}

func toDomainSnapshot(m models.PortfolioSnapshot) domain.PortfolioSnapshot {
	d := domain.PortfolioSnapshot{
		SnapshotID:        m.SnapshotID,
		PortfolioID:       m.PortfolioID,
		Year:              m.Year,
		TotalRentalIncome: m.TotalRentalIncome,
		TotalExpenses:     m.TotalExpenses,
		TotalTaxDue:       m.TotalTaxDue,
		TotalDebt:         m.TotalDebt,
		TotalValue:        m.TotalValue,
		TotalDebtService:  m.TotalDebtService,
		Alerts:            m.Alerts,
		CreatedAt:         m.CreatedAt,
	}
	if m.LTV.Valid {
		d.LTV = domain.NewRatio(m.LTV.Decimal)
	}
	if m.DSCR.Valid {
		d.DSCR = domain.NewRatio(m.DSCR.Decimal)
	}
	return d
}

func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.PortfolioSnapshot) error {
	m := toModelSnapshot(snapshot)
	query := `
		INSERT INTO portfolio_snapshots (
			snapshot_id, portfolio_id, year,
			total_rental_income, total_expenses, total_tax_due,
			total_debt, total_value, total_debt_service,
			ltv, dscr, alerts, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.SnapshotID,
		m.PortfolioID,
		m.Year,
		m.TotalRentalIncome,
		m.TotalExpenses,
		m.TotalTaxDue,
		m.TotalDebt,
		m.TotalValue,
		m.TotalDebtService,
		m.LTV,
		m.DSCR,
		m.Alerts,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: snapshot with ID %s already exists", apperrors.ErrDuplicate, m.SnapshotID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: portfolio %s does not exist", apperrors.ErrNotFound, m.PortfolioID)
			}
		}
		return fmt.Errorf("failed to save snapshot %s: %w", m.SnapshotID, err)
	}
	return nil
}

func (r *PgxSnapshotRepository) ListSnapshotsByPortfolioID(ctx context.Context, portfolioID string, limit int) ([]domain.PortfolioSnapshot, error) {
	if limit <= 0 {
		limit = 12
	}
	query := `
		SELECT snapshot_id, portfolio_id, year,
			total_rental_income, total_expenses, total_tax_due,
			total_debt, total_value, total_debt_service,
			ltv, dscr, alerts, created_at
		FROM portfolio_snapshots
		WHERE portfolio_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots of portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	var snapshots []domain.PortfolioSnapshot
	for rows.Next() {
		var m models.PortfolioSnapshot
		err := rows.Scan(
			&m.SnapshotID,
			&m.PortfolioID,
			&m.Year,
			&m.TotalRentalIncome,
			&m.TotalExpenses,
			&m.TotalTaxDue,
			&m.TotalDebt,
			&m.TotalValue,
			&m.TotalDebtService,
			&m.LTV,
			&m.DSCR,
			&m.Alerts,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, toDomainSnapshot(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}
