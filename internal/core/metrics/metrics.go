// Package metrics derives portfolio health ratios. Ratios with a zero
// denominator come back as a no-value Ratio, never as an error or a division
// blow-up: a debt-free portfolio simply has no DSCR.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// Advisory thresholds. Crossing one raises a flag in Alerts; nothing else
// changes behavior, the caller decides what a flag means.
var (
	LTVAlertThreshold  = decimal.NewFromFloat(0.85)
	DSCRAlertThreshold = decimal.NewFromFloat(1.20)
)

// Alert flags returned by Alerts.
const (
	AlertLTVHigh = "LTV_HIGH"
	AlertDSCRLow = "DSCR_LOW"
)

// LTV is total outstanding debt over total retained market value. No retained
// value means no ratio.
func LTV(totalDebt, totalValue decimal.Decimal) domain.Ratio {
	if totalValue.IsZero() {
		return domain.NoRatio()
	}
	return domain.NewRatio(totalDebt.DivRound(totalValue, 6))
}

// DSCR is net operating income (rents minus operating expenses minus tax)
// over debt service for the same period. No debt service means no ratio.
func DSCR(netOperatingIncome, debtService decimal.Decimal) domain.Ratio {
	if debtService.IsZero() {
		return domain.NoRatio()
	}
	return domain.NewRatio(netOperatingIncome.DivRound(debtService, 6))
}

// Alerts evaluates the advisory thresholds: LTV at or above 85% and DSCR
// strictly below 1.20. A no-value ratio never raises a flag.
func Alerts(ltv, dscr domain.Ratio) []string {
	var alerts []string
	if ltv.GreaterThanOrEqual(LTVAlertThreshold) {
		alerts = append(alerts, AlertLTVHigh)
	}
	if dscr.LessThan(DSCRAlertThreshold) {
		alerts = append(alerts, AlertDSCRLow)
	}
	return alerts
}
