// Package fixtures loads a self-contained portfolio description from a YAML
// file. The CLI runs the calculation engine against such a fixture, no
// database involved.
package fixtures

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// File mirrors the YAML layout. Amounts and rates stay strings until
// Materialize converts them, so a typo surfaces with its field path instead
// of a silent zero.
type File struct {
	Portfolio PortfolioFixture `yaml:"portfolio"`
	Entities  []EntityFixture  `yaml:"entities"`
}

type PortfolioFixture struct {
	Name         string `yaml:"name"`
	BaseCurrency string `yaml:"base_currency"`
}

type EntityFixture struct {
	Name                      string            `yaml:"name"`
	Kind                      string            `yaml:"kind"`
	IncomeTaxRateOverride     string            `yaml:"income_tax_rate_override"`
	SocialChargesRateOverride string            `yaml:"social_charges_rate_override"`
	Properties                []PropertyFixture `yaml:"properties"`
}

type PropertyFixture struct {
	Name             string               `yaml:"name"`
	Address          string               `yaml:"address"`
	AcquisitionDate  time.Time            `yaml:"acquisition_date"`
	AcquisitionPrice string               `yaml:"acquisition_price"`
	AcquisitionCosts string               `yaml:"acquisition_costs"`
	CurrentValue     string               `yaml:"current_value"`
	LandValue        string               `yaml:"land_value"`
	Loans            []LoanFixture        `yaml:"loans"`
	Components       []ComponentFixture   `yaml:"depreciation_components"`
	Transactions     []TransactionFixture `yaml:"transactions"`
}

type LoanFixture struct {
	Lender        string    `yaml:"lender"`
	Principal     string    `yaml:"principal"`
	AnnualRate    string    `yaml:"annual_rate"`
	TermMonths    int       `yaml:"term_months"`
	StartDate     time.Time `yaml:"start_date"`
	InsuranceRate string    `yaml:"insurance_rate"`
}

type ComponentFixture struct {
	Label           string    `yaml:"label"`
	Base            string    `yaml:"base"`
	UsefulLifeYears int       `yaml:"useful_life_years"`
	InServiceDate   time.Time `yaml:"in_service_date"`
}

type TransactionFixture struct {
	Date   time.Time `yaml:"date"`
	Type   string    `yaml:"type"`
	Amount string    `yaml:"amount"`
	Label  string    `yaml:"label"`
}

// Load reads and parses a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture YAML: %w", err)
	}
	return &f, nil
}

// Portfolio is a fixture materialized into domain types with generated IDs.
type Portfolio struct {
	Portfolio domain.Portfolio
	Entities  []Entity
}

type Entity struct {
	Entity     domain.Entity
	Properties []Property
}

type Property struct {
	Property     domain.Property
	Loans        []domain.Loan
	Components   []domain.DepreciationComponent
	Transactions []domain.Transaction
}

// Materialize converts the parsed file into domain types, validating every
// amount, rate and entity kind along the way.
func (f *File) Materialize() (*Portfolio, error) {
	p := &Portfolio{
		Portfolio: domain.Portfolio{
			PortfolioID:      uuid.NewString(),
			Name:             f.Portfolio.Name,
			BaseCurrencyCode: f.Portfolio.BaseCurrency,
			IsActive:         true,
		},
	}
	if p.Portfolio.BaseCurrencyCode == "" {
		p.Portfolio.BaseCurrencyCode = "EUR"
	}

	for _, ef := range f.Entities {
		entity, err := materializeEntity(ef, p.Portfolio.PortfolioID)
		if err != nil {
			return nil, err
		}
		p.Entities = append(p.Entities, entity)
	}
	return p, nil
}

func materializeEntity(ef EntityFixture, portfolioID string) (Entity, error) {
	kind, err := domain.ParseEntityKind(ef.Kind)
	if err != nil {
		return Entity{}, fmt.Errorf("entity %q: %w", ef.Name, err)
	}

	e := Entity{
		Entity: domain.Entity{
			EntityID:    uuid.NewString(),
			PortfolioID: portfolioID,
			Name:        ef.Name,
			Kind:        kind,
		},
	}

	if e.Entity.IncomeTaxRateOverride, err = optionalRate(ef.IncomeTaxRateOverride); err != nil {
		return Entity{}, fmt.Errorf("entity %q: invalid income_tax_rate_override: %w", ef.Name, err)
	}
	if e.Entity.SocialChargesRateOverride, err = optionalRate(ef.SocialChargesRateOverride); err != nil {
		return Entity{}, fmt.Errorf("entity %q: invalid social_charges_rate_override: %w", ef.Name, err)
	}

	for _, pf := range ef.Properties {
		property, err := materializeProperty(pf, e.Entity.EntityID)
		if err != nil {
			return Entity{}, fmt.Errorf("entity %q: %w", ef.Name, err)
		}
		e.Properties = append(e.Properties, property)
	}
	return e, nil
}

func materializeProperty(pf PropertyFixture, entityID string) (Property, error) {
	p := Property{
		Property: domain.Property{
			PropertyID:      uuid.NewString(),
			EntityID:        entityID,
			Name:            pf.Name,
			Address:         pf.Address,
			AcquisitionDate: pf.AcquisitionDate,
		},
	}

	var err error
	if p.Property.AcquisitionPrice, err = amount(pf.AcquisitionPrice, "acquisition_price"); err != nil {
		return Property{}, fmt.Errorf("property %q: %w", pf.Name, err)
	}
	if p.Property.AcquisitionCosts, err = amount(pf.AcquisitionCosts, "acquisition_costs"); err != nil {
		return Property{}, fmt.Errorf("property %q: %w", pf.Name, err)
	}
	if p.Property.CurrentValue, err = amount(pf.CurrentValue, "current_value"); err != nil {
		return Property{}, fmt.Errorf("property %q: %w", pf.Name, err)
	}
	if p.Property.LandValue, err = amount(pf.LandValue, "land_value"); err != nil {
		return Property{}, fmt.Errorf("property %q: %w", pf.Name, err)
	}

	for i, lf := range pf.Loans {
		loan, err := materializeLoan(lf, p.Property.PropertyID)
		if err != nil {
			return Property{}, fmt.Errorf("property %q loan %d: %w", pf.Name, i, err)
		}
		p.Loans = append(p.Loans, loan)
	}
	for i, cf := range pf.Components {
		component, err := materializeComponent(cf, p.Property.PropertyID)
		if err != nil {
			return Property{}, fmt.Errorf("property %q component %d: %w", pf.Name, i, err)
		}
		p.Components = append(p.Components, component)
	}
	for i, tf := range pf.Transactions {
		txn, err := materializeTransaction(tf, p.Property.PropertyID)
		if err != nil {
			return Property{}, fmt.Errorf("property %q transaction %d: %w", pf.Name, i, err)
		}
		p.Transactions = append(p.Transactions, txn)
	}
	return p, nil
}

func materializeLoan(lf LoanFixture, propertyID string) (domain.Loan, error) {
	// Fixture loans are always active; deactivation only exists server-side.
	l := domain.Loan{
		LoanID:     uuid.NewString(),
		PropertyID: propertyID,
		Lender:     lf.Lender,
		TermMonths: lf.TermMonths,
		StartDate:  lf.StartDate,
		IsActive:   true,
	}

	var err error
	if l.Principal, err = amount(lf.Principal, "principal"); err != nil {
		return domain.Loan{}, err
	}
	if l.AnnualRate, err = amount(lf.AnnualRate, "annual_rate"); err != nil {
		return domain.Loan{}, err
	}
	if lf.InsuranceRate != "" {
		if l.InsuranceRate, err = amount(lf.InsuranceRate, "insurance_rate"); err != nil {
			return domain.Loan{}, err
		}
	}
	return l, nil
}

func materializeComponent(cf ComponentFixture, propertyID string) (domain.DepreciationComponent, error) {
	c := domain.DepreciationComponent{
		ComponentID:     uuid.NewString(),
		PropertyID:      propertyID,
		Label:           cf.Label,
		UsefulLifeYears: cf.UsefulLifeYears,
		InServiceDate:   cf.InServiceDate,
	}

	var err error
	if c.Base, err = amount(cf.Base, "base"); err != nil {
		return domain.DepreciationComponent{}, err
	}
	return c, nil
}

func materializeTransaction(tf TransactionFixture, propertyID string) (domain.Transaction, error) {
	txnType := domain.TransactionType(tf.Type)
	if txnType != domain.RentalIncome && txnType != domain.OperatingExpense {
		return domain.Transaction{}, fmt.Errorf("unsupported transaction type %q", tf.Type)
	}

	t := domain.Transaction{
		TransactionID: uuid.NewString(),
		PropertyID:    propertyID,
		Type:          txnType,
		Date:          tf.Date,
		Label:         tf.Label,
	}
	var err error
	if t.Amount, err = amount(tf.Amount, "amount"); err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

func amount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return d, nil
}

func optionalRate(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// EntityByName finds one entity in the materialized portfolio.
func (p *Portfolio) EntityByName(name string) (*Entity, error) {
	for i := range p.Entities {
		if p.Entities[i].Entity.Name == name {
			return &p.Entities[i], nil
		}
	}
	return nil, fmt.Errorf("no entity named %q in fixture", name)
}

// PropertyByName finds one property and its owning entity.
func (p *Portfolio) PropertyByName(name string) (*Property, *Entity, error) {
	for i := range p.Entities {
		for j := range p.Entities[i].Properties {
			if p.Entities[i].Properties[j].Property.Name == name {
				return &p.Entities[i].Properties[j], &p.Entities[i], nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no property named %q in fixture", name)
}

// YearTotals sums the entity's transactions for one calendar year.
func (e *Entity) YearTotals(year int) (rentalIncome, operatingExpenses decimal.Decimal) {
	for i := range e.Properties {
		rent, expenses := e.Properties[i].YearTotals(year)
		rentalIncome = rentalIncome.Add(rent)
		operatingExpenses = operatingExpenses.Add(expenses)
	}
	return rentalIncome, operatingExpenses
}

// YearTotals sums the property's transactions for one calendar year.
func (p *Property) YearTotals(year int) (rentalIncome, operatingExpenses decimal.Decimal) {
	for _, txn := range p.Transactions {
		if txn.Date.Year() != year {
			continue
		}
		switch txn.Type {
		case domain.RentalIncome:
			rentalIncome = rentalIncome.Add(txn.Amount)
		case domain.OperatingExpense:
			operatingExpenses = operatingExpenses.Add(txn.Amount)
		}
	}
	return rentalIncome, operatingExpenses
}
