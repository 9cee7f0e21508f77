// Package depreciation computes straight-line component depreciation
// (amortissement par composants). Each component writes off base/life per
// year, pro-rated by days held in its in-service year, and the lifetime
// total equals the base exactly.
package depreciation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// ComponentYear is one component's depreciation for one fiscal year.
type ComponentYear struct {
	ComponentID string          `json:"componentID"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
}

// Breakdown lists every component's amount for one fiscal year. Components
// outside their write-off window contribute a zero line so callers can render
// the full table.
type Breakdown struct {
	Year  int             `json:"year"`
	Items []ComponentYear `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func validate(c domain.DepreciationComponent) error {
	if c.UsefulLifeYears < 1 {
		return fmt.Errorf("%w: useful life must be at least 1 year, got %d", apperrors.ErrInvalidInput, c.UsefulLifeYears)
	}
	if c.Base.IsNegative() {
		return fmt.Errorf("%w: depreciable base must not be negative, got %s", apperrors.ErrInvalidInput, c.Base)
	}
	if c.InServiceDate.IsZero() {
		return fmt.Errorf("%w: in-service date is required", apperrors.ErrInvalidInput)
	}
	return nil
}

// nominalFor returns the uncapped amount for one year: the annual write-off,
// pro-rated by days held in the in-service year. Rounded to the cent; the cap
// in YearAmount absorbs the rounding drift in the final year.
func nominalFor(c domain.DepreciationComponent, year int) decimal.Decimal {
	annual := c.Base.Div(decimal.NewFromInt(int64(c.UsefulLifeYears)))
	if year > c.InServiceDate.Year() {
		return annual.Round(2)
	}
	daysInYear := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC).YearDay()
	daysHeld := daysInYear - c.InServiceDate.YearDay() + 1
	return annual.
		Mul(decimal.NewFromInt(int64(daysHeld))).
		Div(decimal.NewFromInt(int64(daysInYear))).
		Round(2)
}

// YearAmount returns the depreciation a component contributes to one fiscal
// year. Zero before the in-service year and once the base is fully written
// off; the final year takes exactly the remainder so the cumulative total
// never exceeds the base and ends equal to it.
func YearAmount(c domain.DepreciationComponent, year int) (decimal.Decimal, error) {
	if err := validate(c); err != nil {
		return decimal.Decimal{}, err
	}
	if year < c.InServiceDate.Year() || c.Base.IsZero() {
		return decimal.Zero, nil
	}

	written := decimal.Zero
	for y := c.InServiceDate.Year(); y <= year; y++ {
		remaining := c.Base.Sub(written)
		if !remaining.IsPositive() {
			return decimal.Zero, nil
		}
		amount := decimal.Min(nominalFor(c, y), remaining)
		if y == year {
			return amount, nil
		}
		written = written.Add(amount)
	}
	return decimal.Zero, nil
}

// CumulativeThrough returns the total written off from the in-service year
// through the given year, capped at the base.
func CumulativeThrough(c domain.DepreciationComponent, year int) (decimal.Decimal, error) {
	if err := validate(c); err != nil {
		return decimal.Decimal{}, err
	}
	written := decimal.Zero
	for y := c.InServiceDate.Year(); y <= year; y++ {
		remaining := c.Base.Sub(written)
		if !remaining.IsPositive() {
			break
		}
		written = written.Add(decimal.Min(nominalFor(c, y), remaining))
	}
	return written, nil
}

// YearTotal computes the fiscal-year breakdown across a property's components.
func YearTotal(components []domain.DepreciationComponent, year int) (Breakdown, error) {
	b := Breakdown{Year: year, Items: make([]ComponentYear, 0, len(components)), Total: decimal.Zero}
	for _, c := range components {
		amount, err := YearAmount(c, year)
		if err != nil {
			return Breakdown{}, fmt.Errorf("component %s: %w", c.ComponentID, err)
		}
		b.Items = append(b.Items, ComponentYear{ComponentID: c.ComponentID, Label: c.Label, Amount: amount})
		b.Total = b.Total.Add(amount)
	}
	return b, nil
}
