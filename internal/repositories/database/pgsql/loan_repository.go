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

type PgxLoanRepository struct {
	pool *pgxpool.Pool
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{pool: pool}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func toModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:        d.LoanID,
		PropertyID:    d.PropertyID,
		Lender:        d.Lender,
		Principal:     d.Principal,
		AnnualRate:    d.AnnualRate,
		TermMonths:    d.TermMonths,
		StartDate:     d.StartDate,
		InsuranceRate: d.InsuranceRate,
		IsActive:      d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:        m.LoanID,
		PropertyID:    m.PropertyID,
		Lender:        m.Lender,
		Principal:     m.Principal,
		AnnualRate:    m.AnnualRate,
		TermMonths:    m.TermMonths,
		StartDate:     m.StartDate,
		InsuranceRate: m.InsuranceRate,
		IsActive:      m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanLoan(row pgx.Row) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.PropertyID,
		&m.Lender,
		&m.Principal,
		&m.AnnualRate,
		&m.TermMonths,
		&m.StartDate,
		&m.InsuranceRate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const loanColumns = `
	loan_id, property_id, lender, principal, annual_rate, term_months,
	start_date, insurance_rate, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := toModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.pool.Exec(ctx, query,
		m.LoanID,
		m.PropertyID,
		m.Lender,
		m.Principal,
		m.AnnualRate,
		m.TermMonths,
		m.StartDate,
		m.InsuranceRate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: loan with ID %s already exists", apperrors.ErrDuplicate, m.LoanID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: property %s does not exist", apperrors.ErrNotFound, m.PropertyID)
			}
		}
		return fmt.Errorf("failed to save loan %s: %w", m.LoanID, err)
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	m, err := scanLoan(r.pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}
	loan := toDomainLoan(m)
	return &loan, nil
}

func (r *PgxLoanRepository) ListLoansByPropertyID(ctx context.Context, propertyID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE property_id = $1 ORDER BY start_date;`
	return r.listLoans(ctx, query, propertyID)
}

func (r *PgxLoanRepository) ListActiveLoansByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Loan, error) {
	query := `
		SELECT l.loan_id, l.property_id, l.lender, l.principal, l.annual_rate, l.term_months,
			l.start_date, l.insurance_rate, l.is_active,
			l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM loans l
		JOIN properties p ON l.property_id = p.property_id
		JOIN entities e ON p.entity_id = e.entity_id
		WHERE e.portfolio_id = $1 AND l.is_active = true
		ORDER BY l.start_date;
	`
	return r.listLoans(ctx, query, portfolioID)
}

func (r *PgxLoanRepository) listLoans(ctx context.Context, query string, arg any) ([]domain.Loan, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, toDomainLoan(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return loans, nil
}

func (r *PgxLoanRepository) DeactivateLoan(ctx context.Context, loanID string, updatedByUserID string) error {
	query := `
		UPDATE loans
		SET is_active = false, last_updated_at = NOW(), last_updated_by = $1
		WHERE loan_id = $2 AND is_active = true;
	`
	cmdTag, err := r.pool.Exec(ctx, query, updatedByUserID, loanID)
	if err != nil {
		return fmt.Errorf("failed to deactivate loan %s: %w", loanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
