package pledge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType classifies what a payment settles
type PaymentType string

const (
	PaymentTypeInterest         PaymentType = "INTEREST"
	PaymentTypePrincipal        PaymentType = "PRINCIPAL"
	PaymentTypePartialPrincipal PaymentType = "PARTIAL_PRINCIPAL"
	PaymentTypePartialRedeem    PaymentType = "PARTIAL_REDEEM"
	PaymentTypeFullRedeem       PaymentType = "FULL_REDEEM"
)

// IsValid checks if the payment type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeInterest, PaymentTypePrincipal, PaymentTypePartialPrincipal,
		PaymentTypePartialRedeem, PaymentTypeFullRedeem:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PledgePayment records one payment against a pledge. The caller supplies the
// interest/principal split explicitly; the engine validates it but never
// infers it. BalanceAmount is the pledge balance remaining after this payment.
type PledgePayment struct {
	shared.CompanyAggregateRoot
	PledgeID         uuid.UUID       `json:"pledge_id"`
	PaymentDate      time.Time       `json:"payment_date"`
	Type             PaymentType     `json:"payment_type"`
	Amount           decimal.Decimal `json:"amount"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount"`
	PenaltyAmount    decimal.Decimal `json:"penalty_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	BalanceAmount    decimal.Decimal `json:"balance_amount"`
	ReceiptNo        string          `json:"receipt_no"`
	VoucherID        uuid.UUID       `json:"voucher_id"`
	BankReference    string          `json:"bank_reference,omitempty"`
	AdjustmentReason string          `json:"adjustment_reason,omitempty"`
}

// PaymentSplit is the caller-supplied breakdown of a payment
type PaymentSplit struct {
	Amount          decimal.Decimal
	InterestAmount  decimal.Decimal
	PrincipalAmount decimal.Decimal
	PenaltyAmount   decimal.Decimal
	DiscountAmount  decimal.Decimal
}

// Net returns the cash actually moved: amount + penalty - discount
func (s PaymentSplit) Net() decimal.Decimal {
	return s.Amount.Add(s.PenaltyAmount).Sub(s.DiscountAmount)
}

// Validate checks the split's internal consistency. The amount must equal
// interest + principal; penalty and discount ride on top of it.
func (s PaymentSplit) Validate() error {
	if s.Amount.IsNegative() || s.InterestAmount.IsNegative() || s.PrincipalAmount.IsNegative() ||
		s.PenaltyAmount.IsNegative() || s.DiscountAmount.IsNegative() {
		return shared.NewDomainError(shared.ErrCodeValidation, "Payment amounts cannot be negative")
	}
	if expected := s.InterestAmount.Add(s.PrincipalAmount); !s.Amount.Equal(expected) {
		return shared.NewDomainError(shared.ErrCodeValidation,
			fmt.Sprintf("Payment amount %s does not match interest + principal %s",
				s.Amount.StringFixed(2), expected.StringFixed(2)))
	}
	if !s.Net().IsPositive() {
		return shared.NewDomainError(shared.ErrCodeValidation, "Net payment amount must be positive")
	}
	return nil
}

// NewPledgePayment creates a payment record for a validated split
func NewPledgePayment(
	companyID uuid.UUID,
	pledgeID uuid.UUID,
	paymentDate time.Time,
	paymentType PaymentType,
	split PaymentSplit,
	receiptNo string,
) (*PledgePayment, error) {
	if pledgeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PLEDGE", "Pledge ID cannot be empty")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", fmt.Sprintf("%q is not a valid payment type", paymentType))
	}
	if err := split.Validate(); err != nil {
		return nil, err
	}
	return &PledgePayment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		PledgeID:             pledgeID,
		PaymentDate:          paymentDate,
		Type:                 paymentType,
		Amount:               split.Amount,
		InterestAmount:       split.InterestAmount,
		PrincipalAmount:      split.PrincipalAmount,
		PenaltyAmount:        split.PenaltyAmount,
		DiscountAmount:       split.DiscountAmount,
		ReceiptNo:            receiptNo,
	}, nil
}

// NetAmount returns the cash actually moved by this payment
func (p *PledgePayment) NetAmount() decimal.Decimal {
	return p.Amount.Add(p.PenaltyAmount).Sub(p.DiscountAmount)
}

// Split returns the payment's breakdown as a PaymentSplit
func (p *PledgePayment) Split() PaymentSplit {
	return PaymentSplit{
		Amount:          p.Amount,
		InterestAmount:  p.InterestAmount,
		PrincipalAmount: p.PrincipalAmount,
		PenaltyAmount:   p.PenaltyAmount,
		DiscountAmount:  p.DiscountAmount,
	}
}

// HasAdjustment returns true if the payment carries a penalty or discount
func (p *PledgePayment) HasAdjustment() bool {
	return p.PenaltyAmount.IsPositive() || p.DiscountAmount.IsPositive()
}
