package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the symbol and minor-unit precision of
// the given ISO 4217 currency, e.g. "€1,234.57" for EUR. Unknown codes fall
// back to the plain decimal string.
func FormatMoney(amount decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return amount.String()
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minorUnits := amount.Mul(factor).Round(0)
	return money.New(minorUnits.IntPart(), currencyCode).Display()
}
