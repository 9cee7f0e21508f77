// Package amortization models fixed-rate annuity loans. A Schedule is built
// once from the four loan parameters and answers every derived question
// (payment, per-period split, outstanding balance, payoff penalty) from that
// construction alone. Nothing here reads a clock or performs I/O.
package amortization

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

// Line is an immutable value object representing one period of a schedule.
type Line struct {
	Period    int             `json:"period"`
	DueDate   time.Time       `json:"dueDate"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"` // Outstanding principal after this payment
}

// PenaltyRule computes an early-repayment penalty from the outstanding
// balance and the annual loan rate. Loans may carry a contractual rule;
// DefaultPenalty is the statutory cap.
type PenaltyRule func(balance decimal.Decimal, annualRate float64) decimal.Decimal

// DefaultPenalty is the French IRA cap: the lesser of six months' interest on
// the repaid balance and 3% of that balance.
func DefaultPenalty(balance decimal.Decimal, annualRate float64) decimal.Decimal {
	sixMonthsInterest := balance.Mul(decimal.NewFromFloat(annualRate)).Div(decimal.NewFromInt(2))
	threePercent := balance.Mul(decimal.NewFromFloat(0.03))
	return decimal.Min(sixMonthsInterest, threePercent).Round(2)
}

// Schedule is a fully computed amortization table for one loan. Construct it
// with NewSchedule or FromLoan; the zero value is not usable.
type Schedule struct {
	principal  decimal.Decimal
	annualRate float64
	termMonths int
	startDate  time.Time

	payment decimal.Decimal
	lines   []Line
}

// NewSchedule validates the loan parameters and computes the full table.
//
// The payment uses the standard annuity formula with r = annualRate/12:
//
//	payment = P * r / (1 - (1+r)^-n)
//
// computed in float64 for the power term, then rounded to the cent. A zero
// rate degenerates to an even split P/n. Interest per period is the running
// balance times r, rounded to the cent; the final period pays exactly the
// remaining balance plus its interest, so accumulated rounding lands there
// and the balance closes at exactly zero.
func NewSchedule(principal decimal.Decimal, annualRate float64, termMonths int, startDate time.Time) (*Schedule, error) {
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be positive, got %d months", apperrors.ErrInvalidInput, termMonths)
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: principal must be positive, got %s", apperrors.ErrInvalidInput, principal)
	}
	if annualRate < 0 {
		return nil, fmt.Errorf("%w: annual rate must not be negative, got %g", apperrors.ErrInvalidInput, annualRate)
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", apperrors.ErrInvalidInput)
	}

	monthlyRate := annualRate / 12.0

	var payment decimal.Decimal
	if monthlyRate == 0 {
		payment = principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	} else {
		factor := math.Pow(1+monthlyRate, float64(termMonths))
		paymentFloat := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
		payment = decimal.NewFromFloat(paymentFloat).Round(2)
	}

	s := &Schedule{
		principal:  principal,
		annualRate: annualRate,
		termMonths: termMonths,
		startDate:  startDate,
		payment:    payment,
		lines:      make([]Line, 0, termMonths),
	}

	remaining := principal
	monthlyRateDec := decimal.NewFromFloat(monthlyRate)

	for period := 1; period <= termMonths; period++ {
		dueDate := startDate.AddDate(0, period, 0)

		interest := remaining.Mul(monthlyRateDec).Round(2)
		principalPart := payment.Sub(interest)
		total := payment

		// Final payment absorbs the rounding drift: it repays exactly what
		// is left, so the closing balance is zero rather than a few cents.
		if period == termMonths {
			principalPart = remaining
			total = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		s.lines = append(s.lines, Line{
			Period:    period,
			DueDate:   dueDate,
			Payment:   total,
			Interest:  interest,
			Principal: principalPart,
			Balance:   remaining,
		})
	}

	return s, nil
}

// FromLoan builds the schedule for a stored loan.
func FromLoan(l domain.Loan) (*Schedule, error) {
	return NewSchedule(l.Principal, l.AnnualRate.InexactFloat64(), l.TermMonths, l.StartDate)
}

// Payment returns the regular monthly payment. The final payment may differ
// by the accumulated rounding; see Lines.
func (s *Schedule) Payment() decimal.Decimal {
	return s.payment
}

// Lines returns the full table, one line per period in due-date order. The
// returned slice is shared; callers must not modify it.
func (s *Schedule) Lines() []Line {
	return s.lines
}

// StartDate returns the release-of-funds date. The first payment falls one
// month later.
func (s *Schedule) StartDate() time.Time {
	return s.startDate
}

// MaturityDate is the due date of the final payment.
func (s *Schedule) MaturityDate() time.Time {
	return s.startDate.AddDate(0, s.termMonths, 0)
}

// BalanceAt returns the outstanding principal after every payment due on or
// before date. At the start date the balance is the full principal; at the
// maturity date it is exactly zero. Dates before the start date are out of
// range.
func (s *Schedule) BalanceAt(date time.Time) (decimal.Decimal, error) {
	if date.Before(s.startDate) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s precedes loan start %s",
			apperrors.ErrDateOutOfRange, date.Format("2006-01-02"), s.startDate.Format("2006-01-02"))
	}
	balance := s.principal
	for _, line := range s.lines {
		if line.DueDate.After(date) {
			break
		}
		balance = line.Balance
	}
	return balance, nil
}

// PaymentsBetween sums the payments due inside [from, to], both inclusive.
// This is the loan's debt service over the window.
func (s *Schedule) PaymentsBetween(from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		if line.DueDate.Before(from) {
			continue
		}
		if line.DueDate.After(to) {
			break
		}
		total = total.Add(line.Payment)
	}
	return total
}

// InterestBetween sums the interest portions of payments due inside
// [from, to], both inclusive. Loan interest is deductible under the réel
// regimes, so fiscal assembly pulls yearly interest from here.
func (s *Schedule) InterestBetween(from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		if line.DueDate.Before(from) {
			continue
		}
		if line.DueDate.After(to) {
			break
		}
		total = total.Add(line.Interest)
	}
	return total
}

// EarlyRepaymentPenalty quotes the penalty for repaying the loan in full at
// date. A repaid loan costs nothing. With a nil rule the statutory
// DefaultPenalty applies.
func (s *Schedule) EarlyRepaymentPenalty(date time.Time, rule PenaltyRule) (decimal.Decimal, error) {
	balance, err := s.BalanceAt(date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if balance.IsZero() {
		return decimal.Zero, nil
	}
	if rule == nil {
		rule = DefaultPenalty
	}
	return rule(balance, s.annualRate), nil
}
