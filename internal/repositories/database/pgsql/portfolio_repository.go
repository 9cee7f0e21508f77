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

type PgxPortfolioRepository struct {
	BaseRepository
}

// newPgxPortfolioRepository creates a new repository for portfolio data.
func newPgxPortfolioRepository(pool *pgxpool.Pool) portsrepo.PortfolioRepositoryFacade {
	return &PgxPortfolioRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPortfolioRepository implements portsrepo.PortfolioRepositoryFacade
var _ portsrepo.PortfolioRepositoryFacade = (*PgxPortfolioRepository)(nil)

var fullPortfolioSelectQuery = `
SELECT
	p.portfolio_id, p.name, p.description, p.base_currency_code, p.is_active,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM portfolios p
`

func toDomainPortfolio(m models.Portfolio) domain.Portfolio {
	return domain.Portfolio{
		PortfolioID:      m.PortfolioID,
		Name:             m.Name,
		Description:      m.Description,
		BaseCurrencyCode: m.BaseCurrencyCode,
		IsActive:         m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// getPortfolios runs the shared select with the given filter clause.
func (r *PgxPortfolioRepository) getPortfolios(ctx context.Context, filterQuery string, args ...any) ([]domain.Portfolio, error) {
	query := fullPortfolioSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query portfolios", err)
	}
	defer rows.Close()

	var portfolios []domain.Portfolio
	for rows.Next() {
		var m models.Portfolio
		err := rows.Scan(
			&m.PortfolioID,
			&m.Name,
			&m.Description,
			&m.BaseCurrencyCode,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan portfolio row", err)
		}
		portfolios = append(portfolios, toDomainPortfolio(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating portfolio rows", err)
	}
	return portfolios, nil
}

func (r *PgxPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (
			portfolio_id, name, description, base_currency_code, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		portfolio.PortfolioID,
		portfolio.Name,
		portfolio.Description,
		portfolio.BaseCurrencyCode,
		portfolio.IsActive,
		portfolio.CreatedAt,
		portfolio.CreatedBy,
		portfolio.LastUpdatedAt,
		portfolio.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: portfolio ID %s already exists", apperrors.ErrDuplicate, portfolio.PortfolioID)
		}
		return apperrors.NewAppError(500, "failed to save portfolio "+portfolio.PortfolioID, err)
	}
	return nil
}

func (r *PgxPortfolioRepository) FindPortfolioByID(ctx context.Context, portfolioID string) (*domain.Portfolio, error) {
	portfolios, err := r.getPortfolios(ctx, `WHERE p.portfolio_id = $1`, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(portfolios) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &portfolios[0], nil
}

func (r *PgxPortfolioRepository) ListPortfoliosByUserID(ctx context.Context, userID string) ([]domain.Portfolio, error) {
	// Removed members keep their membership row but lose the listing.
	filter := `
		JOIN user_portfolio_roles upr ON p.portfolio_id = upr.portfolio_id
		WHERE upr.user_id = $1 AND upr.role != $2 AND p.is_active = true
		ORDER BY p.name;
	`
	return r.getPortfolios(ctx, filter, userID, domain.RoleRemoved)
}

func (r *PgxPortfolioRepository) ListActivePortfolios(ctx context.Context) ([]domain.Portfolio, error) {
	return r.getPortfolios(ctx, `WHERE p.is_active = true ORDER BY p.created_at;`)
}

func (r *PgxPortfolioRepository) UpdatePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	query := `
		UPDATE portfolios
		SET name = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE portfolio_id = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		portfolio.Name,
		portfolio.Description,
		portfolio.LastUpdatedAt,
		portfolio.LastUpdatedBy,
		portfolio.PortfolioID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update portfolio "+portfolio.PortfolioID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPortfolioRepository) DeactivatePortfolio(ctx context.Context, portfolioID string, updatedByUserID string) error {
	query := `
		UPDATE portfolios
		SET is_active = false, last_updated_at = NOW(), last_updated_by = $1
		WHERE portfolio_id = $2 AND is_active = true;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, updatedByUserID, portfolioID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate portfolio "+portfolioID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPortfolioRepository) AddUserToPortfolio(ctx context.Context, membership domain.UserPortfolio) error {
	query := `
		INSERT INTO user_portfolio_roles (user_id, portfolio_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, portfolio_id) DO UPDATE SET role = EXCLUDED.role;
	` // Upsert: add the user or update their role if they already have one
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.PortfolioID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: user or portfolio does not exist", apperrors.ErrNotFound)
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to portfolio "+membership.PortfolioID, err)
	}
	return nil
}

func (r *PgxPortfolioRepository) FindUserPortfolioRole(ctx context.Context, userID, portfolioID string) (*domain.UserPortfolio, error) {
	query := `
		SELECT upr.user_id, u.name AS user_name, upr.portfolio_id, upr.role, upr.joined_at
		FROM user_portfolio_roles upr
		JOIN users u ON upr.user_id = u.user_id
		WHERE upr.user_id = $1 AND upr.portfolio_id = $2;
	`
	var up domain.UserPortfolio
	err := r.Pool.QueryRow(ctx, query, userID, portfolioID).Scan(
		&up.UserID,
		&up.UserName,
		&up.PortfolioID,
		&up.Role,
		&up.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find role of user "+userID+" in portfolio "+portfolioID, err)
	}
	return &up, nil
}

func (r *PgxPortfolioRepository) ListPortfolioUsers(ctx context.Context, portfolioID string) ([]domain.UserPortfolio, error) {
	query := `
		SELECT upr.user_id, u.name AS user_name, upr.portfolio_id, upr.role, upr.joined_at
		FROM user_portfolio_roles upr
		JOIN users u ON upr.user_id = u.user_id
		WHERE upr.portfolio_id = $1 AND upr.role != $2
		ORDER BY upr.joined_at;
	`
	rows, err := r.Pool.Query(ctx, query, portfolioID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users of portfolio "+portfolioID, err)
	}
	defer rows.Close()

	var memberships []domain.UserPortfolio
	for rows.Next() {
		var up domain.UserPortfolio
		err := rows.Scan(
			&up.UserID,
			&up.UserName,
			&up.PortfolioID,
			&up.Role,
			&up.JoinedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		memberships = append(memberships, up)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return memberships, nil
}
