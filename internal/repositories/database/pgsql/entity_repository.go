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
	"github.com/shopspring/decimal"
)

type PgxEntityRepository struct {
	pool *pgxpool.Pool
}

// newPgxEntityRepository creates a new repository for holding-structure data.
func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{pool: pool}
}

// Ensure PgxEntityRepository implements portsrepo.EntityRepositoryFacade
var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

// Helper to convert domain.Entity to models.Entity for DB storage
func toModelEntity(d domain.Entity) models.Entity {
	m := models.Entity{
		EntityID:    d.EntityID,
		PortfolioID: d.PortfolioID,
		Name:        d.Name,
		Kind:        string(d.Kind),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.IncomeTaxRateOverride != nil {
		m.IncomeTaxRateOverride = decimal.NullDecimal{Decimal: *d.IncomeTaxRateOverride, Valid: true}
	}
	if d.SocialChargesRateOverride != nil {
		m.SocialChargesRateOverride = decimal.NullDecimal{Decimal: *d.SocialChargesRateOverride, Valid: true}
	}
	return m
}

// Helper to convert models.Entity from DB to domain.Entity
func toDomainEntity(m models.Entity) domain.Entity {
	d := domain.Entity{
		EntityID:    m.EntityID,
		PortfolioID: m.PortfolioID,
		Name:        m.Name,
		Kind:        domain.EntityKind(m.Kind),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.IncomeTaxRateOverride.Valid {
		v := m.IncomeTaxRateOverride.Decimal
		d.IncomeTaxRateOverride = &v
	}
	if m.SocialChargesRateOverride.Valid {
		v := m.SocialChargesRateOverride.Decimal
		d.SocialChargesRateOverride = &v
	}
	return d
}

func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	m := toModelEntity(entity)
	query := `
		INSERT INTO entities (
			entity_id, portfolio_id, name, kind,
			income_tax_rate_override, social_charges_rate_override,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.EntityID,
		m.PortfolioID,
		m.Name,
		m.Kind,
		m.IncomeTaxRateOverride,
		m.SocialChargesRateOverride,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: entity with ID %s already exists", apperrors.ErrDuplicate, m.EntityID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: portfolio %s does not exist", apperrors.ErrNotFound, m.PortfolioID)
			}
		}
		return fmt.Errorf("failed to save entity %s: %w", m.EntityID, err)
	}
	return nil
}

func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	query := `
		SELECT entity_id, portfolio_id, name, kind,
			income_tax_rate_override, social_charges_rate_override,
			created_at, created_by, last_updated_at, last_updated_by
		FROM entities
		WHERE entity_id = $1;
	`
	var m models.Entity
	err := r.pool.QueryRow(ctx, query, entityID).Scan(
		&m.EntityID,
		&m.PortfolioID,
		&m.Name,
		&m.Kind,
		&m.IncomeTaxRateOverride,
		&m.SocialChargesRateOverride,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entity by ID %s: %w", entityID, err)
	}

	entity := toDomainEntity(m)
	return &entity, nil
}

func (r *PgxEntityRepository) ListEntitiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Entity, error) {
	query := `
		SELECT entity_id, portfolio_id, name, kind,
			income_tax_rate_override, social_charges_rate_override,
			created_at, created_by, last_updated_at, last_updated_by
		FROM entities
		WHERE portfolio_id = $1
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities of portfolio %s: %w", portfolioID, err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		var m models.Entity
		err := rows.Scan(
			&m.EntityID,
			&m.PortfolioID,
			&m.Name,
			&m.Kind,
			&m.IncomeTaxRateOverride,
			&m.SocialChargesRateOverride,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		entities = append(entities, toDomainEntity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity rows: %w", err)
	}
	return entities, nil
}

func (r *PgxEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	m := toModelEntity(entity)
	query := `
		UPDATE entities
		SET name = $1, income_tax_rate_override = $2, social_charges_rate_override = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE entity_id = $6;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.Name,
		m.IncomeTaxRateOverride,
		m.SocialChargesRateOverride,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.EntityID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entity %s: %w", m.EntityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxEntityRepository) DeleteEntity(ctx context.Context, entityID string) error {
	query := `DELETE FROM entities WHERE entity_id = $1;`
	cmdTag, err := r.pool.Exec(ctx, query, entityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			// The service checks first, but a property can land in between.
			return fmt.Errorf("%w: entity %s still holds properties", apperrors.ErrConflict, entityID)
		}
		return fmt.Errorf("failed to delete entity %s: %w", entityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
