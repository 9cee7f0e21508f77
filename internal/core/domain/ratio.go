package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Ratio is a decimal ratio that may legitimately have no value, e.g. LTV when
// no market value is retained or DSCR on a debt-free portfolio. Valid=false is
// a normal result, not an error; it marshals to JSON null.
type Ratio struct {
	Value decimal.Decimal
	Valid bool
}

// NewRatio returns a valid ratio.
func NewRatio(v decimal.Decimal) Ratio {
	return Ratio{Value: v, Valid: true}
}

// NoRatio returns the no-value state.
func NoRatio() Ratio {
	return Ratio{}
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Valid: true}
	return nil
}

// GreaterThanOrEqual reports whether the ratio has a value at or above the
// given threshold. A no-value ratio is never above anything.
func (r Ratio) GreaterThanOrEqual(threshold decimal.Decimal) bool {
	return r.Valid && r.Value.GreaterThanOrEqual(threshold)
}

// LessThan reports whether the ratio has a value strictly below the given
// threshold. A no-value ratio is never below anything.
func (r Ratio) LessThan(threshold decimal.Decimal) bool {
	return r.Valid && r.Value.LessThan(threshold)
}
