package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/shopspring/decimal"
)

// PledgeModel is the persistence model for pledge.Pledge
type PledgeModel struct {
	CompanyAggregateModel
	PledgeNumber       string          `gorm:"type:varchar(32);not null;index"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SchemeID           uuid.UUID       `gorm:"type:uuid;not null"`
	LoanAmount         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	MonthlyRatePct     decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	FirstMonthInterest decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Charges            decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	FinalAmount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	PledgeDate         time.Time       `gorm:"not null"`
	DueDate            time.Time
	Status             string          `gorm:"type:varchar(20);not null;index"`
	TotalPaid          decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	RemainingBalance   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
}

// TableName specifies the table name for PledgeModel
func (PledgeModel) TableName() string {
	return "pledges"
}

// ToDomain converts PledgeModel to domain Pledge
func (m *PledgeModel) ToDomain() *pledge.Pledge {
	p := &pledge.Pledge{
		PledgeNumber:       m.PledgeNumber,
		CustomerID:         m.CustomerID,
		SchemeID:           m.SchemeID,
		LoanAmount:         m.LoanAmount,
		MonthlyRatePct:     m.MonthlyRatePct,
		FirstMonthInterest: m.FirstMonthInterest,
		Charges:            m.Charges,
		FinalAmount:        m.FinalAmount,
		PledgeDate:         m.PledgeDate,
		DueDate:            m.DueDate,
		Status:             pledge.Status(m.Status),
		TotalPaid:          m.TotalPaid,
		RemainingBalance:   m.RemainingBalance,
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	return p
}

// FromDomain populates PledgeModel from domain Pledge
func (m *PledgeModel) FromDomain(p *pledge.Pledge) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.PledgeNumber = p.PledgeNumber
	m.CustomerID = p.CustomerID
	m.SchemeID = p.SchemeID
	m.LoanAmount = p.LoanAmount
	m.MonthlyRatePct = p.MonthlyRatePct
	m.FirstMonthInterest = p.FirstMonthInterest
	m.Charges = p.Charges
	m.FinalAmount = p.FinalAmount
	m.PledgeDate = p.PledgeDate
	m.DueDate = p.DueDate
	m.Status = p.Status.String()
	m.TotalPaid = p.TotalPaid
	m.RemainingBalance = p.RemainingBalance
}

// PledgePaymentModel is the persistence model for pledge.PledgePayment
type PledgePaymentModel struct {
	CompanyAggregateModel
	PledgeID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentDate      time.Time       `gorm:"not null;index"`
	PaymentType      string          `gorm:"type:varchar(24);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	InterestAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	PrincipalAmount  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	PenaltyAmount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	BalanceAmount    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	ReceiptNo        string          `gorm:"type:varchar(32);not null;index"`
	VoucherID        uuid.UUID       `gorm:"type:uuid;not null"`
	BankReference    string          `gorm:"type:varchar(64)"`
	AdjustmentReason string          `gorm:"type:varchar(255)"`
}

// TableName specifies the table name for PledgePaymentModel
func (PledgePaymentModel) TableName() string {
	return "pledge_payments"
}

// ToDomain converts PledgePaymentModel to domain PledgePayment
func (m *PledgePaymentModel) ToDomain() *pledge.PledgePayment {
	p := &pledge.PledgePayment{
		PledgeID:         m.PledgeID,
		PaymentDate:      m.PaymentDate,
		Type:             pledge.PaymentType(m.PaymentType),
		Amount:           m.Amount,
		InterestAmount:   m.InterestAmount,
		PrincipalAmount:  m.PrincipalAmount,
		PenaltyAmount:    m.PenaltyAmount,
		DiscountAmount:   m.DiscountAmount,
		BalanceAmount:    m.BalanceAmount,
		ReceiptNo:        m.ReceiptNo,
		VoucherID:        m.VoucherID,
		BankReference:    m.BankReference,
		AdjustmentReason: m.AdjustmentReason,
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	return p
}

// FromDomain populates PledgePaymentModel from domain PledgePayment
func (m *PledgePaymentModel) FromDomain(p *pledge.PledgePayment) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.PledgeID = p.PledgeID
	m.PaymentDate = p.PaymentDate
	m.PaymentType = p.Type.String()
	m.Amount = p.Amount
	m.InterestAmount = p.InterestAmount
	m.PrincipalAmount = p.PrincipalAmount
	m.PenaltyAmount = p.PenaltyAmount
	m.DiscountAmount = p.DiscountAmount
	m.BalanceAmount = p.BalanceAmount
	m.ReceiptNo = p.ReceiptNo
	m.VoucherID = p.VoucherID
	m.BankReference = p.BankReference
	m.AdjustmentReason = p.AdjustmentReason
}
