package amortization_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
)

var loanStart = time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

func newReferenceSchedule(t *testing.T) *amortization.Schedule {
	t.Helper()
	s, err := amortization.NewSchedule(decimal.NewFromInt(400000), 0.035, 240, loanStart)
	require.NoError(t, err)
	return s
}

func TestNewSchedule_ReferenceLoan(t *testing.T) {
	s := newReferenceSchedule(t)

	assert.Equal(t, "2319.84", s.Payment().String())
	require.Len(t, s.Lines(), 240)

	first := s.Lines()[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), first.DueDate)
	assert.Equal(t, "1166.67", first.Interest.String())
	assert.Equal(t, "1153.17", first.Principal.String())
	assert.Equal(t, "398846.83", first.Balance.String())

	last := s.Lines()[239]
	assert.Equal(t, time.Date(2043, 6, 15, 0, 0, 0, 0, time.UTC), last.DueDate)
	assert.True(t, last.Balance.IsZero(), "schedule must close at exactly zero, got %s", last.Balance)
}

func TestNewSchedule_ZeroRate(t *testing.T) {
	s, err := amortization.NewSchedule(decimal.NewFromInt(120000), 0, 120, loanStart)
	require.NoError(t, err)

	assert.Equal(t, "1000", s.Payment().String())
	for _, line := range s.Lines() {
		assert.True(t, line.Interest.IsZero(), "period %d has interest %s", line.Period, line.Interest)
	}
	assert.True(t, s.Lines()[119].Balance.IsZero())
}

func TestNewSchedule_SinglePayment(t *testing.T) {
	s, err := amortization.NewSchedule(decimal.NewFromInt(1000), 0.12, 1, loanStart)
	require.NoError(t, err)

	line := s.Lines()[0]
	assert.Equal(t, "10", line.Interest.String())
	assert.Equal(t, "1000", line.Principal.String())
	assert.Equal(t, "1010", line.Payment.String())
	assert.True(t, line.Balance.IsZero())
}

func TestNewSchedule_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      float64
		term      int
	}{
		{name: "zero term", principal: decimal.NewFromInt(100000), rate: 0.03, term: 0},
		{name: "negative term", principal: decimal.NewFromInt(100000), rate: 0.03, term: -12},
		{name: "zero principal", principal: decimal.Zero, rate: 0.03, term: 120},
		{name: "negative principal", principal: decimal.NewFromInt(-5), rate: 0.03, term: 120},
		{name: "negative rate", principal: decimal.NewFromInt(100000), rate: -0.01, term: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := amortization.NewSchedule(tt.principal, tt.rate, tt.term, loanStart)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestSchedule_BalanceAt(t *testing.T) {
	s := newReferenceSchedule(t)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "at start date", date: loanStart, want: "400000"},
		{name: "day before first payment", date: time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC), want: "400000"},
		{name: "on first payment date", date: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), want: "398846.83"},
		{name: "at maturity", date: time.Date(2043, 6, 15, 0, 0, 0, 0, time.UTC), want: "0"},
		{name: "long after maturity", date: time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC), want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.BalanceAt(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSchedule_BalanceAt_BeforeStart(t *testing.T) {
	s := newReferenceSchedule(t)
	_, err := s.BalanceAt(loanStart.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperrors.ErrDateOutOfRange)
}

func TestSchedule_PaymentsBetween(t *testing.T) {
	s := newReferenceSchedule(t)

	// Full calendar year 2024: 12 regular payments.
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "27838.08", s.PaymentsBetween(from, to).String())

	// 2023 only has payments from July through December.
	from = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "13919.04", s.PaymentsBetween(from, to).String())

	// Window before the first due date is empty.
	assert.True(t, s.PaymentsBetween(loanStart, loanStart).IsZero())
}

func TestSchedule_InterestBetween(t *testing.T) {
	s := newReferenceSchedule(t)

	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	// Six payments due in 2023; interest must match the schedule lines.
	want := decimal.Zero
	for _, line := range s.Lines()[:6] {
		want = want.Add(line.Interest)
	}
	assert.True(t, want.Equal(s.InterestBetween(from, to)))
}

func TestSchedule_EarlyRepaymentPenalty(t *testing.T) {
	t.Run("six months interest wins at low rates", func(t *testing.T) {
		s := newReferenceSchedule(t)
		at := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		balance, err := s.BalanceAt(at)
		require.NoError(t, err)

		penalty, err := s.EarlyRepaymentPenalty(at, nil)
		require.NoError(t, err)

		// At 3.5%, six months of interest (1.75% of balance) is below the 3% cap.
		want := balance.Mul(decimal.NewFromFloat(0.0175)).Round(2)
		assert.True(t, want.Equal(penalty), "want %s, got %s", want, penalty)
	})

	t.Run("three percent cap wins at high rates", func(t *testing.T) {
		s, err := amortization.NewSchedule(decimal.NewFromInt(100000), 0.08, 120, loanStart)
		require.NoError(t, err)
		at := loanStart.AddDate(1, 0, 0)
		balance, err := s.BalanceAt(at)
		require.NoError(t, err)

		penalty, err := s.EarlyRepaymentPenalty(at, nil)
		require.NoError(t, err)

		want := balance.Mul(decimal.NewFromFloat(0.03)).Round(2)
		assert.True(t, want.Equal(penalty), "want %s, got %s", want, penalty)
	})

	t.Run("repaid loan costs nothing", func(t *testing.T) {
		s := newReferenceSchedule(t)
		penalty, err := s.EarlyRepaymentPenalty(time.Date(2045, 1, 1, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, err)
		assert.True(t, penalty.IsZero())
	})

	t.Run("contractual rule replaces the default", func(t *testing.T) {
		s := newReferenceSchedule(t)
		flat := func(balance decimal.Decimal, annualRate float64) decimal.Decimal {
			return decimal.NewFromInt(500)
		}
		penalty, err := s.EarlyRepaymentPenalty(loanStart.AddDate(2, 0, 0), flat)
		require.NoError(t, err)
		assert.Equal(t, "500", penalty.String())
	})
}

func TestSchedule_PrincipalSumsToLoanAmount(t *testing.T) {
	loans := []struct {
		name      string
		principal int64
		rate      float64
		term      int
	}{
		{name: "reference", principal: 400000, rate: 0.035, term: 240},
		{name: "short high rate", principal: 50000, rate: 0.065, term: 48},
		{name: "awkward principal", principal: 123457, rate: 0.0412, term: 300},
		{name: "zero rate", principal: 99999, rate: 0, term: 84},
	}

	for _, tt := range loans {
		t.Run(tt.name, func(t *testing.T) {
			s, err := amortization.NewSchedule(decimal.NewFromInt(tt.principal), tt.rate, tt.term, loanStart)
			require.NoError(t, err)

			sum := decimal.Zero
			for _, line := range s.Lines() {
				sum = sum.Add(line.Principal)
			}
			assert.True(t, sum.Equal(decimal.NewFromInt(tt.principal)),
				"principal shares sum to %s, want %d", sum, tt.principal)
			assert.True(t, s.Lines()[tt.term-1].Balance.IsZero())
		})
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	a := newReferenceSchedule(t)
	b := newReferenceSchedule(t)

	require.Equal(t, len(a.Lines()), len(b.Lines()))
	for i := range a.Lines() {
		assert.True(t, a.Lines()[i].Balance.Equal(b.Lines()[i].Balance))
		assert.True(t, a.Lines()[i].Interest.Equal(b.Lines()[i].Interest))
	}
}

func TestFromLoan(t *testing.T) {
	loan := domain.Loan{
		Principal:  decimal.NewFromInt(400000),
		AnnualRate: decimal.NewFromFloat(0.035),
		TermMonths: 240,
		StartDate:  loanStart,
	}
	s, err := amortization.FromLoan(loan)
	require.NoError(t, err)
	assert.Equal(t, "2319.84", s.Payment().String())
}
