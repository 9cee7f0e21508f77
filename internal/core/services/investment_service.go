package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/patrimmo/patrimmo_backend/internal/apperrors"
	"github.com/patrimmo/patrimmo_backend/internal/core/amortization"
	"github.com/patrimmo/patrimmo_backend/internal/core/domain"
	"github.com/patrimmo/patrimmo_backend/internal/core/investment"
	portsrepo "github.com/patrimmo/patrimmo_backend/internal/core/ports/repositories"
	portssvc "github.com/patrimmo/patrimmo_backend/internal/core/ports/services"
	"github.com/patrimmo/patrimmo_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// investmentService implements the InvestmentSvc interface
type investmentService struct {
	BaseService
	scope        scopeResolver
	propertyRepo portsrepo.PropertyReader
	loanRepo     portsrepo.LoanReader
}

// InvestmentServiceOption is a functional option for configuring the investment service
type InvestmentServiceOption func(*investmentService)

// WithInvestmentAuthorizer adds the portfolio authorizer dependency
func WithInvestmentAuthorizer(authorizer portssvc.PortfolioAuthorizerSvc) InvestmentServiceOption {
	return func(s *investmentService) {
		s.PortfolioAuthorizer = authorizer
	}
}

// NewInvestmentService creates a new investment service with the provided options
func NewInvestmentService(propertyRepo portsrepo.PropertyReader, entityRepo portsrepo.EntityReader, loanRepo portsrepo.LoanReader, options ...InvestmentServiceOption) portssvc.InvestmentSvc {
	svc := &investmentService{
		scope:        scopeResolver{entityRepo: entityRepo, propertyRepo: propertyRepo},
		propertyRepo: propertyRepo,
		loanRepo:     loanRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure investmentService implements the InvestmentSvc interface
var _ portssvc.InvestmentSvc = (*investmentService)(nil)

// SimulateNPV computes the net present value of a cash flow series
func (s *investmentService) SimulateNPV(ctx context.Context, req dto.NPVRequest) (*dto.NPVResponse, error) {
	if len(req.CashFlows) == 0 {
		return nil, fmt.Errorf("%w: at least one cash flow is required", apperrors.ErrInvalidInput)
	}

	value := investment.NPV(req.DiscountRate, toFloats(req.CashFlows))
	return &dto.NPVResponse{
		DiscountRate: req.DiscountRate,
		NPV:          decimal.NewFromFloat(value).Round(2),
	}, nil
}

// SimulateIRR computes the internal rate of return of a cash flow series.
// A series with no solution yields a nil IRR rather than an error.
func (s *investmentService) SimulateIRR(ctx context.Context, req dto.IRRRequest) (*dto.IRRResponse, error) {
	rate, err := investment.IRR(toFloats(req.CashFlows))
	if err != nil {
		if errors.Is(err, apperrors.ErrNoSolution) {
			s.LogDebug(ctx, "IRR has no solution for submitted series",
				slog.Int("flows", len(req.CashFlows)))
			return &dto.IRRResponse{IRR: nil}, nil
		}
		return nil, err
	}
	return &dto.IRRResponse{IRR: &rate}, nil
}

// SimulateSale computes net seller proceeds. With a LoanID the outstanding
// balance and penalty at the sale date come from the stored loan.
func (s *investmentService) SimulateSale(ctx context.Context, req dto.SaleSimulationRequest) (*dto.SaleSimulationResponse, error) {
	loanBalance := decimal.Zero
	penalty := decimal.Zero

	if req.LoanID != nil {
		if req.SaleDate == nil {
			return nil, fmt.Errorf("%w: saleDate is required when loanID is set", apperrors.ErrInvalidInput)
		}
		loan, err := s.loanRepo.FindLoanByID(ctx, *req.LoanID)
		if err != nil {
			return nil, err
		}
		schedule, err := amortization.FromLoan(*loan)
		if err != nil {
			return nil, err
		}
		loanBalance, err = schedule.BalanceAt(*req.SaleDate)
		if err != nil {
			return nil, err
		}
		penalty, err = schedule.EarlyRepaymentPenalty(*req.SaleDate, nil)
		if err != nil {
			return nil, err
		}
	}

	net, err := investment.NetSellerProceeds(req.SalePrice, req.AgencyFeeRate, loanBalance, penalty, req.CapitalGainsTax)
	if err != nil {
		return nil, err
	}

	return &dto.SaleSimulationResponse{
		SalePrice:       req.SalePrice,
		AgencyFees:      req.SalePrice.Mul(req.AgencyFeeRate).Round(2),
		LoanBalance:     loanBalance,
		Penalty:         penalty,
		CapitalGainsTax: req.CapitalGainsTax,
		Net:             net,
	}, nil
}

// AnalyzeProperty projects a stored property over a holding horizon: equity
// out at acquisition, net rent per year, and sale proceeds in the final year.
func (s *investmentService) AnalyzeProperty(ctx context.Context, propertyID string, req dto.PropertyAnalysisRequest, requestingUserID string) (*dto.PropertyAnalysisResponse, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	portfolioID, err := s.scope.portfolioForEntity(ctx, property.EntityID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, portfolioID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if req.AnnualRent.IsNegative() || req.AnnualExpenses.IsNegative() {
		return nil, fmt.Errorf("%w: projected rent and expenses must not be negative", apperrors.ErrInvalidInput)
	}

	loans, err := s.loanRepo.ListLoansByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	flows, err := s.projectCashFlows(property, loans, req)
	if err != nil {
		return nil, err
	}

	floatFlows := toFloats(flows)
	npv := investment.NPV(req.DiscountRate, floatFlows)

	resp := &dto.PropertyAnalysisResponse{
		PropertyID: propertyID,
		CashFlows:  flows,
		NPV:        decimal.NewFromFloat(npv).Round(2),
	}
	if rate, err := investment.IRR(floatFlows); err == nil {
		resp.IRR = &rate
	} else if !errors.Is(err, apperrors.ErrNoSolution) {
		return nil, err
	}
	return resp, nil
}

// projectCashFlows builds the year-by-year series. Year 0 is the equity
// outlay (price plus costs minus borrowed principal); each holding year nets
// rent against expenses and debt service; the final year adds the seller's
// net proceeds after loan payoff.
func (s *investmentService) projectCashFlows(property *domain.Property, loans []domain.Loan, req dto.PropertyAnalysisRequest) ([]decimal.Decimal, error) {
	type activeLoan struct {
		loan     domain.Loan
		schedule *amortization.Schedule
	}
	var active []activeLoan

	equity := property.AcquisitionPrice.Add(property.AcquisitionCosts)
	for _, loan := range loans {
		if !loan.IsActive {
			continue
		}
		schedule, err := amortization.FromLoan(loan)
		if err != nil {
			return nil, err
		}
		active = append(active, activeLoan{loan: loan, schedule: schedule})
		equity = equity.Sub(loan.Principal)
	}

	flows := make([]decimal.Decimal, 0, req.HorizonYears+1)
	flows = append(flows, equity.Neg().Round(2))

	// Holding years run on acquisition anniversaries, so debt service
	// windows line up with the projection years.
	start := property.AcquisitionDate
	for year := 1; year <= req.HorizonYears; year++ {
		from := start.AddDate(year-1, 0, 0).AddDate(0, 0, 1)
		to := start.AddDate(year, 0, 0)

		flow := req.AnnualRent.Sub(req.AnnualExpenses)
		for _, al := range active {
			payments := al.schedule.PaymentsBetween(from, to)
			flow = flow.Sub(payments)
			if !payments.IsZero() {
				dueCount := 0
				for _, line := range al.schedule.Lines() {
					if !line.DueDate.Before(from) && !line.DueDate.After(to) {
						dueCount++
					}
				}
				flow = flow.Sub(al.loan.MonthlyInsurance().Mul(decimal.NewFromInt(int64(dueCount))))
			}
		}

		if year == req.HorizonYears {
			saleDate := to
			balance := decimal.Zero
			penalty := decimal.Zero
			for _, al := range active {
				b, err := al.schedule.BalanceAt(saleDate)
				if err != nil {
					if errors.Is(err, apperrors.ErrDateOutOfRange) {
						continue
					}
					return nil, err
				}
				balance = balance.Add(b)
				p, err := al.schedule.EarlyRepaymentPenalty(saleDate, nil)
				if err != nil {
					return nil, err
				}
				penalty = penalty.Add(p)
			}
			net, err := investment.NetSellerProceeds(req.ResalePrice, req.AgencyFeeRate, balance, penalty, req.CapitalGainsTax)
			if err != nil {
				return nil, err
			}
			flow = flow.Add(net)
		}

		flows = append(flows, flow.Round(2))
	}
	return flows, nil
}

// toFloats converts a decimal series for the float64 root-finding routines.
func toFloats(flows []decimal.Decimal) []float64 {
	out := make([]float64, len(flows))
	for i, f := range flows {
		out[i] = f.InexactFloat64()
	}
	return out
}
