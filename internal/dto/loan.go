package dto

import (
	"time"

	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines data for creating a new loan.
type CreateLoanRequest struct {
	PropertyID    string          `json:"propertyID" binding:"required"`
	Lender        string          `json:"lender"`
	Principal     decimal.Decimal `json:"principal" binding:"required"`
	AnnualRate    decimal.Decimal `json:"annualRate"` // Fraction, e.g. 0.035 for 3.5%
	TermMonths    int             `json:"termMonths" binding:"required,min=1"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	InsuranceRate decimal.Decimal `json:"insuranceRate"` // Annual fraction of initial principal
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID        string          `json:"loanID"`
	PropertyID    string          `json:"propertyID"`
	Lender        string          `json:"lender"`
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annualRate"`
	TermMonths    int             `json:"termMonths"`
	StartDate     time.Time       `json:"startDate"`
	MaturityDate  time.Time       `json:"maturityDate"`
	InsuranceRate decimal.Decimal `json:"insuranceRate"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:        l.LoanID,
		PropertyID:    l.PropertyID,
		Lender:        l.Lender,
		Principal:     l.Principal,
		AnnualRate:    l.AnnualRate,
		TermMonths:    l.TermMonths,
		StartDate:     l.StartDate,
		MaturityDate:  l.MaturityDate(),
		InsuranceRate: l.InsuranceRate,
		IsActive:      l.IsActive,
		CreatedAt:     l.CreatedAt,
		CreatedBy:     l.CreatedBy,
		LastUpdatedAt: l.LastUpdatedAt,
		LastUpdatedBy: l.LastUpdatedBy,
	}
}

// ListLoansResponse wraps the list of loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// ToListLoansResponse converts a slice of domain.Loan to DTO.
func ToListLoansResponse(loans []domain.Loan) ListLoansResponse {
	list := make([]LoanResponse, len(loans))
	for i, l := range loans {
		list[i] = ToLoanResponse(&l)
	}
	return ListLoansResponse{Loans: list}
}

// ScheduleLineResponse defines one period of an amortization schedule.
type ScheduleLineResponse struct {
	Period    int             `json:"period"`
	DueDate   time.Time       `json:"dueDate"`
	Payment   decimal.Decimal `json:"payment"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Balance   decimal.Decimal `json:"balance"`
}

// LoanScheduleResponse defines the full amortization table of a loan.
type LoanScheduleResponse struct {
	LoanID           string                 `json:"loanID"`
	MonthlyPayment   decimal.Decimal        `json:"monthlyPayment"`
	MonthlyInsurance decimal.Decimal        `json:"monthlyInsurance"`
	MaturityDate     time.Time              `json:"maturityDate"`
	Lines            []ScheduleLineResponse `json:"lines"`
}

// ToLoanScheduleResponse converts a computed schedule to DTO.
func ToLoanScheduleResponse(loan *domain.Loan, schedule *amortization.Schedule) LoanScheduleResponse {
	lines := make([]ScheduleLineResponse, len(schedule.Lines()))
	for i, line := range schedule.Lines() {
		lines[i] = ScheduleLineResponse{
			Period:    line.Period,
			DueDate:   line.DueDate,
			Payment:   line.Payment,
			Interest:  line.Interest,
			Principal: line.Principal,
			Balance:   line.Balance,
		}
	}
	return LoanScheduleResponse{
		LoanID:           loan.LoanID,
		MonthlyPayment:   schedule.Payment(),
		MonthlyInsurance: loan.MonthlyInsurance(),
		MaturityDate:     schedule.MaturityDate(),
		Lines:            lines,
	}
}

// LoanBalanceResponse defines the outstanding balance of a loan at a date.
type LoanBalanceResponse struct {
	LoanID  string          `json:"loanID"`
	At      time.Time       `json:"at"`
	Balance decimal.Decimal `json:"balance"`
}

// EarlyRepaymentQuoteResponse defines the payoff quote of a loan at a date.
type EarlyRepaymentQuoteResponse struct {
	LoanID  string          `json:"loanID"`
	At      time.Time       `json:"at"`
	Balance decimal.Decimal `json:"balance"`
	Penalty decimal.Decimal `json:"penalty"`
	Total   decimal.Decimal `json:"total"` // Balance plus penalty
}
