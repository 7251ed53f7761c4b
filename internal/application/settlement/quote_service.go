package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SettlementQuote is the read-only answer to "what does it cost to close this
// pledge today". It never writes and never locks; the authoritative check
// happens again when the payment is posted.
type SettlementQuote struct {
	PledgeID           uuid.UUID              `json:"pledge_id"`
	PledgeNumber       string                 `json:"pledge_number"`
	AsOf               time.Time              `json:"as_of"`
	PledgeDate         time.Time              `json:"pledge_date"`
	LoanAmount         decimal.Decimal        `json:"loan_amount"`
	MonthlyRatePct     decimal.Decimal        `json:"monthly_rate_pct"`
	MonthsElapsed      int                    `json:"months_elapsed"`
	TotalInterestDue   decimal.Decimal        `json:"total_interest_due"`
	InterestPaid       decimal.Decimal        `json:"interest_paid"`
	RemainingInterest  decimal.Decimal        `json:"remaining_interest"`
	PrincipalPaid      decimal.Decimal        `json:"principal_paid"`
	RemainingPrincipal decimal.Decimal        `json:"remaining_principal"`
	TotalPaid          decimal.Decimal        `json:"total_paid"`
	RemainingBalance   decimal.Decimal        `json:"remaining_balance"`
	Status             pledge.Status          `json:"status"`
	Periods            []pledge.AccrualPeriod `json:"periods"`
}

// QuoteService computes settlement quotes
type QuoteService struct {
	uow UnitOfWork
}

// NewQuoteService creates a QuoteService
func NewQuoteService(uow UnitOfWork) *QuoteService {
	return &QuoteService{uow: uow}
}

// Quote computes the settlement quote for a pledge as of a date. A zero asOf
// means today. Remaining interest and principal are derived from the accrual
// and the payment history, each clamped at zero.
func (s *QuoteService) Quote(ctx context.Context, companyID, pledgeID uuid.UUID, asOf time.Time) (*SettlementQuote, error) {
	repos := s.uow.Repos()

	p, err := repos.Pledges.FindByID(ctx, companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", pledgeID))
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	accrual, err := pledge.ComputeAccrual(p.LoanAmount, p.MonthlyRatePct, p.FirstMonthInterest, p.PledgeDate, asOf)
	if err != nil {
		return nil, err
	}

	payments, err := repos.Payments.FindByPledge(ctx, companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	interestPaid := decimal.Zero
	principalPaid := decimal.Zero
	for i := range payments {
		interestPaid = interestPaid.Add(payments[i].InterestAmount)
		principalPaid = principalPaid.Add(payments[i].PrincipalAmount)
	}

	remainingInterest := accrual.TotalInterestDue.Sub(interestPaid)
	if remainingInterest.IsNegative() {
		remainingInterest = decimal.Zero
	}
	remainingPrincipal := p.LoanAmount.Sub(principalPaid)
	if remainingPrincipal.IsNegative() {
		remainingPrincipal = decimal.Zero
	}

	return &SettlementQuote{
		PledgeID:           p.ID,
		PledgeNumber:       p.PledgeNumber,
		AsOf:               asOf,
		PledgeDate:         p.PledgeDate,
		LoanAmount:         p.LoanAmount,
		MonthlyRatePct:     p.MonthlyRatePct,
		MonthsElapsed:      accrual.MonthsElapsed,
		TotalInterestDue:   accrual.TotalInterestDue,
		InterestPaid:       interestPaid,
		RemainingInterest:  remainingInterest,
		PrincipalPaid:      principalPaid,
		RemainingPrincipal: remainingPrincipal,
		TotalPaid:          p.TotalPaid,
		RemainingBalance:   p.RemainingBalance,
		Status:             p.Status,
		Periods:            accrual.Periods,
	}, nil
}
