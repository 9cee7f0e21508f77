package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	"github.com/patrimmo/patrimmo_backend/internal/models"
)

type PgxDepreciationRepository struct {
	pool *pgxpool.Pool
}

// newPgxDepreciationRepository creates a new repository for depreciation components.
func newPgxDepreciationRepository(pool *pgxpool.Pool) portsrepo.DepreciationRepositoryFacade {
	return &PgxDepreciationRepository{pool: pool}
}

// Ensure PgxDepreciationRepository implements portsrepo.DepreciationRepositoryFacade
var _ portsrepo.DepreciationRepositoryFacade = (*PgxDepreciationRepository)(nil)

func toModelComponent(d domain.DepreciationComponent) models.DepreciationComponent {
	return models.DepreciationComponent{
		ComponentID:     d.ComponentID,
		PropertyID:      d.PropertyID,
		Label:           d.Label,
		Base:            d.Base,
		UsefulLifeYears: d.UsefulLifeYears,
		InServiceDate:   d.InServiceDate,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainComponent(m models.DepreciationComponent) domain.DepreciationComponent {
	return domain.DepreciationComponent{
		ComponentID:     m.ComponentID,
		PropertyID:      m.PropertyID,
		Label:           m.Label,
		Base:            m.Base,
		UsefulLifeYears: m.UsefulLifeYears,
		InServiceDate:   m.InServiceDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const componentColumns = `
	component_id, property_id, label, base, useful_life_years, in_service_date,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanComponent(row pgx.Row) (models.DepreciationComponent, error) {
	var m models.DepreciationComponent
	err := row.Scan(
		&m.ComponentID,
		&m.PropertyID,
		&m.Label,
		&m.Base,
		&m.UsefulLifeYears,
		&m.InServiceDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDepreciationRepository) SaveComponent(ctx context.Context, component domain.DepreciationComponent) error {
	m := toModelComponent(component)
	query := `
		INSERT INTO depreciation_components (` + componentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ComponentID,
		m.PropertyID,
		m.Label,
		m.Base,
		m.UsefulLifeYears,
		m.InServiceDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: component with ID %s already exists", apperrors.ErrDuplicate, m.ComponentID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: property %s does not exist", apperrors.ErrNotFound, m.PropertyID)
			}
		}
		return fmt.Errorf("failed to save component %s: %w", m.ComponentID, err)
	}
	return nil
}

func (r *PgxDepreciationRepository) FindComponentByID(ctx context.Context, componentID string) (*domain.DepreciationComponent, error) {
	query := `SELECT ` + componentColumns + ` FROM depreciation_components WHERE component_id = $1;`
	m, err := scanComponent(r.pool.QueryRow(ctx, query, componentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find component by ID %s: %w", componentID, err)
	}
	component := toDomainComponent(m)
	return &component, nil
}

func (r *PgxDepreciationRepository) ListComponentsByPropertyID(ctx context.Context, propertyID string) ([]domain.DepreciationComponent, error) {
	query := `SELECT ` + componentColumns + ` FROM depreciation_components WHERE property_id = $1 ORDER BY in_service_date, label;`
	return r.listComponents(ctx, query, propertyID)
}

func (r *PgxDepreciationRepository) ListComponentsByEntityID(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
	query := `
		SELECT c.component_id, c.property_id, c.label, c.base, c.useful_life_years, c.in_service_date,
			c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM depreciation_components c
		JOIN properties p ON c.property_id = p.property_id
		WHERE p.entity_id = $1
		ORDER BY c.in_service_date, c.label;
	`
	return r.listComponents(ctx, query, entityID)
}

func (r *PgxDepreciationRepository) listComponents(ctx context.Context, query string, arg any) ([]domain.DepreciationComponent, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var components []domain.DepreciationComponent
	for rows.Next() {
		m, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component row: %w", err)
		}
		components = append(components, toDomainComponent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating component rows: %w", err)
	}
	return components, nil
}

func (r *PgxDepreciationRepository) DeleteComponent(ctx context.Context, componentID string) error {
	query := `DELETE FROM depreciation_components WHERE component_id = $1;`
	cmdTag, err := r.pool.Exec(ctx, query, componentID)
	if err != nil {
		return fmt.Errorf("failed to delete component %s: %w", componentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
