package pledge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Pledge is a loan secured by pawned items. The scheme's monthly rate is
// snapshotted at creation so later scheme edits never change an existing
// pledge's accrual.
type Pledge struct {
	shared.CompanyAggregateRoot
	PledgeNumber       string          `json:"pledge_number"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	SchemeID           uuid.UUID       `json:"scheme_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	MonthlyRatePct     decimal.Decimal `json:"monthly_rate_pct"`
	FirstMonthInterest decimal.Decimal `json:"first_month_interest"`
	Charges            decimal.Decimal `json:"charges"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	PledgeDate         time.Time       `json:"pledge_date"`
	DueDate            time.Time       `json:"due_date"`
	Status             Status          `json:"status"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
}

// NewPledge creates a pledge in ACTIVE status. The final amount is the
// principal plus the mandatory first-month interest plus charges, so the
// invariant final_amount >= loan_amount holds by construction.
func NewPledge(
	companyID uuid.UUID,
	pledgeNumber string,
	customerID uuid.UUID,
	schemeID uuid.UUID,
	loanAmount valueobject.Money,
	monthlyRatePct decimal.Decimal,
	firstMonthInterest valueobject.Money,
	charges valueobject.Money,
	pledgeDate time.Time,
	dueDate time.Time,
) (*Pledge, error) {
	if pledgeNumber == "" {
		return nil, shared.NewDomainError("INVALID_PLEDGE_NUMBER", "Pledge number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !loanAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Loan amount must be positive")
	}
	if monthlyRatePct.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Monthly rate cannot be negative")
	}
	if firstMonthInterest.IsNegative() || charges.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Interest and charges cannot be negative")
	}
	if pledgeDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Pledge date is required")
	}
	if !dueDate.IsZero() && dueDate.Before(pledgeDate) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange, "Due date cannot be before pledge date")
	}

	finalAmount := loanAmount.Amount().Add(firstMonthInterest.Amount()).Add(charges.Amount())

	return &Pledge{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		PledgeNumber:         pledgeNumber,
		CustomerID:           customerID,
		SchemeID:             schemeID,
		LoanAmount:           loanAmount.Amount(),
		MonthlyRatePct:       monthlyRatePct,
		FirstMonthInterest:   firstMonthInterest.Amount(),
		Charges:              charges.Amount(),
		FinalAmount:          finalAmount,
		PledgeDate:           pledgeDate,
		DueDate:              dueDate,
		Status:               StatusActive,
		TotalPaid:            decimal.Zero,
		RemainingBalance:     finalAmount,
	}, nil
}

// CanAcceptPayment returns true if the pledge is open for payments
func (p *Pledge) CanAcceptPayment() bool {
	return p.Status.CanAcceptPayment()
}

// ApplyNetPayment reduces the remaining balance by the net cash received and
// re-derives the status. The balance is clamped at exactly zero, never
// negative; overpayment must be rejected before calling this.
func (p *Pledge) ApplyNetPayment(net decimal.Decimal) error {
	if !p.CanAcceptPayment() {
		return shared.NewDomainError(shared.ErrCodeInvalidPledgeState,
			fmt.Sprintf("Pledge %s is %s and cannot accept payments", p.PledgeNumber, p.Status))
	}
	if net.GreaterThan(p.RemainingBalance) {
		return shared.NewDomainError(shared.ErrCodeOverpayment,
			fmt.Sprintf("Payment of %s exceeds remaining balance %s",
				net.StringFixed(2), p.RemainingBalance.StringFixed(2)))
	}
	p.TotalPaid = p.TotalPaid.Add(net)
	p.RemainingBalance = p.RemainingBalance.Sub(net)
	if !p.RemainingBalance.IsPositive() {
		p.RemainingBalance = decimal.Zero
	}
	p.Status = StatusFor(p.TotalPaid, p.FinalAmount)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// RecomputeFromPayments rebuilds the cumulative totals from the full set of
// surviving payments instead of adjusting incrementally. Update and delete
// always go through here so repeated edits cannot drift.
func (p *Pledge) RecomputeFromPayments(payments []PledgePayment) {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].NetAmount())
	}
	p.TotalPaid = total
	p.RemainingBalance = p.FinalAmount.Sub(total)
	if p.RemainingBalance.IsNegative() {
		p.RemainingBalance = decimal.Zero
	}
	p.Status = StatusFor(p.TotalPaid, p.FinalAmount)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
