package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	"github.com/patrimmo/patrimmo_backend/internal/models"
	"github.com/patrimmo/patrimmo_backend/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		PropertyID:    d.PropertyID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Date:          d.Date,
		Label:         d.Label,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		PropertyID:    m.PropertyID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Date:          m.Date,
		Label:         m.Label,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := toModelTransaction(transaction)
	query := `
		INSERT INTO transactions (
			transaction_id, property_id, type, amount, transaction_date, label,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TransactionID,
		m.PropertyID,
		m.Type,
		m.Amount,
		m.Date,
		m.Label,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("%w: property %s does not exist", apperrors.ErrNotFound, m.PropertyID)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, property_id, type, amount, transaction_date, label,
			created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE transaction_id = $1;
	`
	var m models.Transaction
	err := r.pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.PropertyID,
		&m.Type,
		&m.Amount,
		&m.Date,
		&m.Label,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	transaction := toDomainTransaction(m)
	return &transaction, nil
}

// ListTransactionsByPropertyID pages through a property's transactions,
// newest first. The cursor is a (transaction_date, created_at) tuple encoded
// in the token; one extra row is fetched to decide whether a next page exists.
func (r *PgxTransactionRepository) ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters portsrepo.TransactionListFilters, limit int, nextToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, property_id, type, amount, transaction_date, label,
			created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
	`
	whereClause := `WHERE property_id = $1`
	args := []any{propertyID}

	if filters.Year != 0 {
		from := time.Date(filters.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		whereClause += ` AND transaction_date >= $` + strconv.Itoa(len(args)+1) +
			` AND transaction_date < $` + strconv.Itoa(len(args)+2)
		args = append(args, from, from.AddDate(1, 0, 0))
	}
	if filters.Type != "" {
		whereClause += ` AND type = $` + strconv.Itoa(len(args)+1)
		args = append(args, string(filters.Type))
	}

	if nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(nextToken)
		if decodeErr != nil {
			return nil, "", apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		whereClause += ` AND (transaction_date, created_at) < ($` + strconv.Itoa(len(args)+1) +
			`, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastDate, lastCreatedAt)
	}

	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`
	query := baseQuery + " " + whereClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query transactions of property %s: %w", propertyID, err)
	}
	defer rows.Close()

	modelTransactions := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.PropertyID,
			&m.Type,
			&m.Amount,
			&m.Date,
			&m.Label,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTransactions = append(modelTransactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newToken string
	results := modelTransactions
	if len(modelTransactions) > limit {
		// The token points at the last row of this page; the next query
		// resumes strictly after it.
		last := modelTransactions[limit-1]
		newToken = pagination.EncodeToken(last.Date, last.CreatedAt)
		results = modelTransactions[:limit]
	}

	transactions := make([]domain.Transaction, len(results))
	for i, m := range results {
		transactions[i] = toDomainTransaction(m)
	}
	return transactions, newToken, nil
}

// ListYearTotalsByEntityID rolls an entity's transactions up into calendar
// year totals across all its properties.
func (r *PgxTransactionRepository) ListYearTotalsByEntityID(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM t.transaction_date)::int AS year,
			SUM(CASE WHEN t.type = 'RENTAL_INCOME' THEN t.amount ELSE 0 END) AS rental_income,
			SUM(CASE WHEN t.type = 'OPERATING_EXPENSE' THEN t.amount ELSE 0 END) AS operating_expenses
		FROM transactions t
		JOIN properties p ON t.property_id = p.property_id
		WHERE p.entity_id = $1
		GROUP BY year
		ORDER BY year;
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query year totals of entity %s: %w", entityID, err)
	}
	defer rows.Close()

	var totals []domain.YearCashTotals
	for rows.Next() {
		var t domain.YearCashTotals
		if err := rows.Scan(&t.Year, &t.RentalIncome, &t.OperatingExpenses); err != nil {
			return nil, fmt.Errorf("failed to scan year totals row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating year totals rows: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1;`
	cmdTag, err := r.pool.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
