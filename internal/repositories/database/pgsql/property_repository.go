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

type PgxPropertyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{pool: pool}
}

// Ensure PgxPropertyRepository implements portsrepo.PropertyRepositoryFacade
var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

const propertyColumns = `
	property_id, entity_id, name, address, acquisition_date,
	acquisition_price, acquisition_costs, current_value, land_value,
	created_at, created_by, last_updated_at, last_updated_by
`

func toModelProperty(d domain.Property) models.Property {
	return models.Property{
		PropertyID:       d.PropertyID,
		EntityID:         d.EntityID,
		Name:             d.Name,
		Address:          d.Address,
		AcquisitionDate:  d.AcquisitionDate,
		AcquisitionPrice: d.AcquisitionPrice,
		AcquisitionCosts: d.AcquisitionCosts,
		CurrentValue:     d.CurrentValue,
		LandValue:        d.LandValue,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainProperty(m models.Property) domain.Property {
	return domain.Property{
		PropertyID:       m.PropertyID,
		EntityID:         m.EntityID,
		Name:             m.Name,
		Address:          m.Address,
		AcquisitionDate:  m.AcquisitionDate,
		AcquisitionPrice: m.AcquisitionPrice,
		AcquisitionCosts: m.AcquisitionCosts,
		CurrentValue:     m.CurrentValue,
		LandValue:        m.LandValue,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanProperty(row pgx.Row) (models.Property, error) {
	var m models.Property
	err := row.Scan(
		&m.PropertyID,
		&m.EntityID,
		&m.Name,
		&m.Address,
		&m.AcquisitionDate,
		&m.AcquisitionPrice,
		&m.AcquisitionCosts,
		&m.CurrentValue,
		&m.LandValue,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	m := toModelProperty(property)
	query := `
		INSERT INTO properties (` + propertyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PropertyID,
		m.EntityID,
		m.Name,
		m.Address,
		m.AcquisitionDate,
		m.AcquisitionPrice,
		m.AcquisitionCosts,
		m.CurrentValue,
		m.LandValue,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: property with ID %s already exists", apperrors.ErrDuplicate, m.PropertyID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: entity %s does not exist", apperrors.ErrNotFound, m.EntityID)
			}
		}
		return fmt.Errorf("failed to save property %s: %w", m.PropertyID, err)
	}
	return nil
}

func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE property_id = $1;`
	m, err := scanProperty(r.pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find property by ID %s: %w", propertyID, err)
	}
	property := toDomainProperty(m)
	return &property, nil
}

func (r *PgxPropertyRepository) ListPropertiesByEntityID(ctx context.Context, entityID string) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE entity_id = $1 ORDER BY acquisition_date;`
	return r.listProperties(ctx, query, entityID)
}

func (r *PgxPropertyRepository) ListPropertiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Property, error) {
	query := `
		SELECT p.property_id, p.entity_id, p.name, p.address, p.acquisition_date,
			p.acquisition_price, p.acquisition_costs, p.current_value, p.land_value,
			p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM properties p
		JOIN entities e ON p.entity_id = e.entity_id
		WHERE e.portfolio_id = $1
		ORDER BY p.acquisition_date;
	`
	return r.listProperties(ctx, query, portfolioID)
}

func (r *PgxPropertyRepository) listProperties(ctx context.Context, query string, arg any) ([]domain.Property, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		m, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		properties = append(properties, toDomainProperty(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}
	return properties, nil
}

func (r *PgxPropertyRepository) UpdateProperty(ctx context.Context, property domain.Property) error {
	m := toModelProperty(property)
	query := `
		UPDATE properties
		SET name = $1, address = $2, current_value = $3, land_value = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE property_id = $7;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.Name,
		m.Address,
		m.CurrentValue,
		m.LandValue,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.PropertyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", m.PropertyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteProperty removes a property. Loans, transactions and depreciation
// components cascade at the schema level.
func (r *PgxPropertyRepository) DeleteProperty(ctx context.Context, propertyID string) error {
	query := `DELETE FROM properties WHERE property_id = $1;`
	cmdTag, err := r.pool.Exec(ctx, query, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", propertyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
