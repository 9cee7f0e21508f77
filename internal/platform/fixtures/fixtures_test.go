package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

func TestLoad_DemoFixture(t *testing.T) {
	f, err := Load("testdata/demo_portfolio.yaml")
	require.NoError(t, err)

	p, err := f.Materialize()
	require.NoError(t, err)

	assert.Equal(t, "Portefeuille démo", p.Portfolio.Name)
	assert.Equal(t, "EUR", p.Portfolio.BaseCurrencyCode)
	require.Len(t, p.Entities, 3)

	sci, err := p.EntityByName("SCI du Val")
	require.NoError(t, err)
	assert.Equal(t, domain.EntitySCIIS, sci.Entity.Kind)
	assert.Nil(t, sci.Entity.IncomeTaxRateOverride)

	property, owner, err := p.PropertyByName("T3 quai de la Fosse")
	require.NoError(t, err)
	assert.Equal(t, sci.Entity.EntityID, owner.Entity.EntityID)
	assert.Equal(t, property.Property.EntityID, owner.Entity.EntityID)
	require.Len(t, property.Loans, 1)
	assert.True(t, property.Loans[0].IsActive)
	assert.Equal(t, "400000", property.Loans[0].Principal.String())
	assert.Equal(t, 240, property.Loans[0].TermMonths)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), property.Loans[0].StartDate)
	require.Len(t, property.Components, 3)

	lmnp, err := p.EntityByName("Meublé Gambetta")
	require.NoError(t, err)
	require.NotNil(t, lmnp.Entity.IncomeTaxRateOverride)
	assert.Equal(t, "0.3", lmnp.Entity.IncomeTaxRateOverride.String())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")

	assert.Error(t, err)
}

func TestYearTotals_SumsOneCalendarYear(t *testing.T) {
	f, err := Load("testdata/demo_portfolio.yaml")
	require.NoError(t, err)
	p, err := f.Materialize()
	require.NoError(t, err)

	sci, err := p.EntityByName("SCI du Val")
	require.NoError(t, err)

	rent, expenses := sci.YearTotals(2024)
	assert.Equal(t, "21600", rent.String())
	assert.Equal(t, "2850", expenses.String())

	// Nothing in the fixture predates 2024.
	rent, expenses = sci.YearTotals(2023)
	assert.Equal(t, "0", rent.String())
	assert.Equal(t, "0", expenses.String())
}

func TestMaterialize_RejectsUnknownKind(t *testing.T) {
	f := &File{
		Portfolio: PortfolioFixture{Name: "KO"},
		Entities:  []EntityFixture{{Name: "Indivision", Kind: "sarl"}},
	}

	_, err := f.Materialize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Indivision")
}

func TestMaterialize_RejectsBadAmount(t *testing.T) {
	f := &File{
		Entities: []EntityFixture{{
			Name: "SCI KO",
			Kind: "sci_is",
			Properties: []PropertyFixture{{
				Name:             "Local",
				AcquisitionDate:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				AcquisitionPrice: "beaucoup",
			}},
		}},
	}

	_, err := f.Materialize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquisition_price")
}

func TestMaterialize_RejectsUnknownTransactionType(t *testing.T) {
	f := &File{
		Entities: []EntityFixture{{
			Name: "SCI KO",
			Kind: "sci_is",
			Properties: []PropertyFixture{{
				Name:            "Local",
				AcquisitionDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				Transactions: []TransactionFixture{{
					Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					Type:   "CAPEX",
					Amount: "1000",
				}},
			}},
		}},
	}

	_, err := f.Materialize()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAPEX")
}
