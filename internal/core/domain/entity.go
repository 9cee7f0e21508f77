package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
)

// EntityKind identifies the fiscal regime a holding structure is taxed under.
// The set is closed: every calculation dispatches over exactly these values.
type EntityKind string

const (
	// EntityPersonal is direct personal ownership (location nue, régime réel).
	EntityPersonal EntityKind = "personal"
	// EntityLMNP is "loueur en meublé non professionnel" under the réel regime.
	EntityLMNP EntityKind = "lmnp"
	// EntitySCIIS is an SCI that elected corporate tax (IS).
	EntitySCIIS EntityKind = "sci_is"
)

// ParseEntityKind validates a raw string against the supported kinds.
func ParseEntityKind(raw string) (EntityKind, error) {
	switch EntityKind(raw) {
	case EntityPersonal, EntityLMNP, EntitySCIIS:
		return EntityKind(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownEntityType, raw)
	}
}

// Entity represents a holding structure inside a portfolio. Properties belong
// to entities; the entity's kind decides how its results are taxed.
type Entity struct {
	EntityID    string     `json:"entityID"`    // Primary Key (e.g., UUID)
	PortfolioID string     `json:"portfolioID"` // FK -> portfolios.portfolio_id
	Name        string     `json:"name"`        // User-defined name, e.g. "SCI des Lilas"
	Kind        EntityKind `json:"kind"`

	// Per-entity overrides for the investor's marginal income-tax rate and
	// social-charges rate. Nil means the configured defaults apply. Corporate
	// rates are statutory and never overridden per entity.
	IncomeTaxRateOverride     *decimal.Decimal `json:"incomeTaxRateOverride,omitempty"`
	SocialChargesRateOverride *decimal.Decimal `json:"socialChargesRateOverride,omitempty"`

	AuditFields
}
