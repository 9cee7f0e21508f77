// Package investment appraises cash-flow series: net present value, internal
// rate of return and net sale proceeds. Discounting and root-finding run in
// float64; money results are decimal.
package investment

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
)

const (
	// IRR search bracket. Nothing realistic converges outside minus 99% to
	// plus 1000% per period.
	irrBracketLow  = -0.99
	irrBracketHigh = 10.0
	irrScanStep    = 0.01

	irrTolerance      = 1e-6
	maxBisectionSteps = 200
	maxNewtonSteps    = 50
)

// NPV discounts a cash-flow series at the given periodic rate. flows[0] is
// the instant t=0 and is not discounted; flows[t] weighs 1/(1+rate)^t.
func NPV(rate float64, flows []float64) float64 {
	total := 0.0
	for t, flow := range flows {
		total += flow / math.Pow(1+rate, float64(t))
	}
	return total
}

// dNPV is the derivative of NPV with respect to the rate.
func dNPV(rate float64, flows []float64) float64 {
	total := 0.0
	for t, flow := range flows {
		if t == 0 {
			continue
		}
		total -= float64(t) * flow / math.Pow(1+rate, float64(t+1))
	}
	return total
}

// IRR finds the periodic rate at which the series' NPV is zero.
//
// The series must contain at least one inflow and one outflow; a series that
// never changes sign has no root and returns ErrNoSolution. The root is
// bracketed by scanning [-0.99, 10], narrowed by bisection and polished with
// a few Newton steps when the derivative behaves; if the iteration budget
// runs out before |NPV| < 1e-6 the result is ErrNoSolution, never a spin.
func IRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, fmt.Errorf("%w: at least two cash flows are required, got %d", apperrors.ErrInvalidInput, len(flows))
	}
	hasPositive, hasNegative := false, false
	for _, flow := range flows {
		if flow > 0 {
			hasPositive = true
		}
		if flow < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return 0, fmt.Errorf("%w: cash flows never change sign", apperrors.ErrNoSolution)
	}

	// Scan for a sign change of NPV across the bracket.
	lo, hi, found := scanBracket(flows)
	if !found {
		return 0, fmt.Errorf("%w: no NPV sign change within [%g, %g]", apperrors.ErrNoSolution, irrBracketLow, irrBracketHigh)
	}

	root, converged := bisect(flows, lo, hi)
	root = newtonPolish(flows, root, lo, hi)

	if math.Abs(NPV(root, flows)) >= irrTolerance && !converged {
		return 0, fmt.Errorf("%w: iteration budget exhausted", apperrors.ErrNoSolution)
	}
	return root, nil
}

func scanBracket(flows []float64) (lo, hi float64, found bool) {
	prevRate := irrBracketLow
	prevNPV := NPV(prevRate, flows)
	for rate := irrBracketLow + irrScanStep; rate <= irrBracketHigh+irrScanStep/2; rate += irrScanStep {
		v := NPV(rate, flows)
		if prevNPV == 0 {
			return prevRate, prevRate, true
		}
		if (prevNPV < 0) != (v < 0) {
			return prevRate, rate, true
		}
		prevRate, prevNPV = rate, v
	}
	return 0, 0, false
}

func bisect(flows []float64, lo, hi float64) (float64, bool) {
	if lo == hi {
		return lo, true
	}
	loNPV := NPV(lo, flows)
	mid := lo
	for i := 0; i < maxBisectionSteps; i++ {
		mid = (lo + hi) / 2
		v := NPV(mid, flows)
		if math.Abs(v) < irrTolerance || hi-lo < 1e-13 {
			return mid, true
		}
		if (v < 0) == (loNPV < 0) {
			lo, loNPV = mid, v
		} else {
			hi = mid
		}
	}
	return mid, false
}

// newtonPolish sharpens the bisection result. Steps that leave the bracket or
// hit a flat derivative keep the incoming estimate.
func newtonPolish(flows []float64, root, lo, hi float64) float64 {
	for i := 0; i < maxNewtonSteps; i++ {
		v := NPV(root, flows)
		if math.Abs(v) < irrTolerance {
			return root
		}
		d := dNPV(root, flows)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return root
		}
		next := root - v/d
		if next < lo || next > hi || math.IsNaN(next) {
			return root
		}
		root = next
	}
	return root
}

var hundredPercent = decimal.NewFromInt(1)

// NetSellerProceeds computes what a sale leaves in the seller's pocket: the
// price net of agency fees, minus the loan payoff (balance plus penalty) and
// the capital-gains tax the caller computed. A negative result means the
// seller writes a check at closing; that is a legitimate outcome, not an
// error.
func NetSellerProceeds(salePrice, agencyFeeRate, loanBalance, penalty, capitalGainsTax decimal.Decimal) (decimal.Decimal, error) {
	if salePrice.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: sale price must not be negative, got %s", apperrors.ErrInvalidInput, salePrice)
	}
	if agencyFeeRate.IsNegative() || agencyFeeRate.GreaterThan(hundredPercent) {
		return decimal.Decimal{}, fmt.Errorf("%w: agency fee rate must be within [0,1], got %s", apperrors.ErrInvalidInput, agencyFeeRate)
	}
	for _, check := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"loan balance", loanBalance},
		{"penalty", penalty},
		{"capital gains tax", capitalGainsTax},
	} {
		if check.v.IsNegative() {
			return decimal.Decimal{}, fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrInvalidInput, check.name, check.v)
		}
	}

	netOfFees := salePrice.Mul(hundredPercent.Sub(agencyFeeRate))
	return netOfFees.Sub(loanBalance).Sub(penalty).Sub(capitalGainsTax).Round(2), nil
}
