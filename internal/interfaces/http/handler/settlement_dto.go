package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePledgeRequest is the request body for booking a pledge
type CreatePledgeRequest struct {
	CustomerID         string          `json:"customer_id" binding:"required,uuid"`
	SchemeID           string          `json:"scheme_id" binding:"required,uuid"`
	LoanAmount         decimal.Decimal `json:"loan_amount" binding:"required"`
	MonthlyRatePct     decimal.Decimal `json:"monthly_rate_pct" binding:"required"`
	FirstMonthInterest decimal.Decimal `json:"first_month_interest"`
	Charges            decimal.Decimal `json:"charges"`
	PledgeDate         time.Time       `json:"pledge_date" binding:"required"`
	DueDate            time.Time       `json:"due_date"`
}

// PaymentSplitRequest is the caller-supplied split of a payment
type PaymentSplitRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	InterestAmount  decimal.Decimal `json:"interest_amount"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	PenaltyAmount   decimal.Decimal `json:"penalty_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
}

// CreatePaymentRequest is the request body for posting a single payment
type CreatePaymentRequest struct {
	PledgeID           string    `json:"pledge_id" binding:"required,uuid"`
	PaymentDate        time.Time `json:"payment_date" binding:"required"`
	PaymentType        string    `json:"payment_type" binding:"required"`
	PaymentSplitRequest
	BankReference      string `json:"bank_reference"`
	AdjustmentReason   string `json:"adjustment_reason"`
	AdjustmentApproved bool   `json:"adjustment_approved"`
}

// UpdatePaymentRequest is the request body for amending a payment
type UpdatePaymentRequest struct {
	PaymentDate        time.Time `json:"payment_date" binding:"required"`
	PaymentType        string    `json:"payment_type" binding:"required"`
	PaymentSplitRequest
	AdjustmentReason   string `json:"adjustment_reason"`
	AdjustmentApproved bool   `json:"adjustment_approved"`
}

// MultiPaymentLegRequest is one pledge's share of a multi-pledge payment
type MultiPaymentLegRequest struct {
	PledgeID    string `json:"pledge_id" binding:"required,uuid"`
	PaymentType string `json:"payment_type" binding:"required"`
	PaymentSplitRequest
	AdjustmentReason   string `json:"adjustment_reason"`
	AdjustmentApproved bool   `json:"adjustment_approved"`
}

// CreateMultiPaymentRequest is the request body for settling several pledges
// from one cash event. CustomerID is optional; when present every pledge must
// belong to that customer.
type CreateMultiPaymentRequest struct {
	CustomerID    string                   `json:"customer_id" binding:"omitempty,uuid"`
	PaymentDate   time.Time                `json:"payment_date" binding:"required"`
	TotalAmount   decimal.Decimal          `json:"total_amount" binding:"required"`
	BankReference string                   `json:"bank_reference"`
	Pledges       []MultiPaymentLegRequest `json:"pledges" binding:"required,min=1,dive"`
}
