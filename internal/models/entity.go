package models

import "github.com/shopspring/decimal"

// Entity represents a row of the entities table. The kind column is one of
// personal, lmnp or sci_is; rate overrides are NULL when the configured
// defaults apply.
type Entity struct {
	EntityID                  string              `db:"entity_id"`
	PortfolioID               string              `db:"portfolio_id"`
	Name                      string              `db:"name"`
	Kind                      string              `db:"kind"`
	IncomeTaxRateOverride     decimal.NullDecimal `db:"income_tax_rate_override"`
	SocialChargesRateOverride decimal.NullDecimal `db:"social_charges_rate_override"`
	AuditFields
}
