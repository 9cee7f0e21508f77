package fixtures

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
)

// Readers serves a materialized portfolio through the repository read
// interfaces, so the CLI drives the same services the server does, just
// without a database behind them.
type Readers struct {
	p *Portfolio
}

// Readers exposes the portfolio as read-only repositories.
func (p *Portfolio) Readers() *Readers {
	return &Readers{p: p}
}

var (
	_ portsrepo.EntityReader                = (*Readers)(nil)
	_ portsrepo.PropertyReader              = (*Readers)(nil)
	_ portsrepo.LoanReader                  = (*Readers)(nil)
	_ portsrepo.TransactionReader           = (*Readers)(nil)
	_ portsrepo.DepreciationComponentReader = (*Readers)(nil)
)

func (r *Readers) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	for i := range r.p.Entities {
		if r.p.Entities[i].Entity.EntityID == entityID {
			entity := r.p.Entities[i].Entity
			return &entity, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Readers) ListEntitiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Entity, error) {
	if portfolioID != r.p.Portfolio.PortfolioID {
		return nil, nil
	}
	entities := make([]domain.Entity, 0, len(r.p.Entities))
	for i := range r.p.Entities {
		entities = append(entities, r.p.Entities[i].Entity)
	}
	return entities, nil
}

func (r *Readers) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	for _, e := range r.p.Entities {
		for i := range e.Properties {
			if e.Properties[i].Property.PropertyID == propertyID {
				property := e.Properties[i].Property
				return &property, nil
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Readers) ListPropertiesByEntityID(ctx context.Context, entityID string) ([]domain.Property, error) {
	var properties []domain.Property
	for _, e := range r.p.Entities {
		if e.Entity.EntityID != entityID {
			continue
		}
		for i := range e.Properties {
			properties = append(properties, e.Properties[i].Property)
		}
	}
	return properties, nil
}

func (r *Readers) ListPropertiesByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Property, error) {
	if portfolioID != r.p.Portfolio.PortfolioID {
		return nil, nil
	}
	var properties []domain.Property
	for _, e := range r.p.Entities {
		for i := range e.Properties {
			properties = append(properties, e.Properties[i].Property)
		}
	}
	return properties, nil
}

func (r *Readers) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			for i := range p.Loans {
				if p.Loans[i].LoanID == loanID {
					loan := p.Loans[i]
					return &loan, nil
				}
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Readers) ListLoansByPropertyID(ctx context.Context, propertyID string) ([]domain.Loan, error) {
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			if p.Property.PropertyID == propertyID {
				return append([]domain.Loan(nil), p.Loans...), nil
			}
		}
	}
	return nil, nil
}

func (r *Readers) ListActiveLoansByPortfolioID(ctx context.Context, portfolioID string) ([]domain.Loan, error) {
	if portfolioID != r.p.Portfolio.PortfolioID {
		return nil, nil
	}
	var loans []domain.Loan
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			for _, loan := range p.Loans {
				if loan.IsActive {
					loans = append(loans, loan)
				}
			}
		}
	}
	return loans, nil
}

func (r *Readers) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			for i := range p.Transactions {
				if p.Transactions[i].TransactionID == transactionID {
					txn := p.Transactions[i]
					return &txn, nil
				}
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

// ListTransactionsByPropertyID returns every matching transaction in one
// page; fixtures are small enough that paging is not worth implementing.
func (r *Readers) ListTransactionsByPropertyID(ctx context.Context, propertyID string, filters portsrepo.TransactionListFilters, limit int, nextToken string) ([]domain.Transaction, string, error) {
	var txns []domain.Transaction
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			if p.Property.PropertyID != propertyID {
				continue
			}
			for _, txn := range p.Transactions {
				if filters.Year != 0 && txn.Date.Year() != filters.Year {
					continue
				}
				if filters.Type != "" && txn.Type != filters.Type {
					continue
				}
				txns = append(txns, txn)
			}
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date.After(txns[j].Date) })
	return txns, "", nil
}

func (r *Readers) ListYearTotalsByEntityID(ctx context.Context, entityID string) ([]domain.YearCashTotals, error) {
	byYear := map[int]*domain.YearCashTotals{}
	for _, e := range r.p.Entities {
		if e.Entity.EntityID != entityID {
			continue
		}
		for _, p := range e.Properties {
			for _, txn := range p.Transactions {
				year := txn.Date.Year()
				totals, ok := byYear[year]
				if !ok {
					totals = &domain.YearCashTotals{Year: year, RentalIncome: decimal.Zero, OperatingExpenses: decimal.Zero}
					byYear[year] = totals
				}
				switch txn.Type {
				case domain.RentalIncome:
					totals.RentalIncome = totals.RentalIncome.Add(txn.Amount)
				case domain.OperatingExpense:
					totals.OperatingExpenses = totals.OperatingExpenses.Add(txn.Amount)
				}
			}
		}
	}

	out := make([]domain.YearCashTotals, 0, len(byYear))
	for _, totals := range byYear {
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (r *Readers) FindComponentByID(ctx context.Context, componentID string) (*domain.DepreciationComponent, error) {
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			for i := range p.Components {
				if p.Components[i].ComponentID == componentID {
					component := p.Components[i]
					return &component, nil
				}
			}
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *Readers) ListComponentsByPropertyID(ctx context.Context, propertyID string) ([]domain.DepreciationComponent, error) {
	for _, e := range r.p.Entities {
		for _, p := range e.Properties {
			if p.Property.PropertyID == propertyID {
				return append([]domain.DepreciationComponent(nil), p.Components...), nil
			}
		}
	}
	return nil, nil
}

func (r *Readers) ListComponentsByEntityID(ctx context.Context, entityID string) ([]domain.DepreciationComponent, error) {
	var components []domain.DepreciationComponent
	for _, e := range r.p.Entities {
		if e.Entity.EntityID != entityID {
			continue
		}
		for _, p := range e.Properties {
			components = append(components, p.Components...)
		}
	}
	return components, nil
}
