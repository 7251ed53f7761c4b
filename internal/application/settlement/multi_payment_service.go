package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MultiPaymentService settles several pledges from one cash event. All legs
// share a receipt number and post inside a single transaction: either every
// pledge is settled or none is.
type MultiPaymentService struct {
	uow      UnitOfWork
	payments *PaymentService
	log      *zap.Logger
}

// NewMultiPaymentService creates a MultiPaymentService
func NewMultiPaymentService(uow UnitOfWork, payments *PaymentService, log *zap.Logger) *MultiPaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MultiPaymentService{uow: uow, payments: payments, log: log}
}

// PaymentLeg is one pledge's share of a multi-pledge payment
type PaymentLeg struct {
	PledgeID           uuid.UUID
	Type               pledge.PaymentType
	Split              pledge.PaymentSplit
	AdjustmentReason   string
	AdjustmentApproved bool
}

// MultiPaymentRequest settles multiple pledges with one total amount. The
// caller states the total; it must equal the sum of the legs' net amounts.
// When CustomerID is set, every pledge must belong to that customer.
type MultiPaymentRequest struct {
	CompanyID     uuid.UUID
	CustomerID    uuid.UUID
	PaymentDate   time.Time
	TotalAmount   decimal.Decimal
	BankReference string
	Legs          []PaymentLeg
}

// MultiPaymentResult reports all legs of a posted multi-pledge payment
type MultiPaymentResult struct {
	ReceiptNo   string          `json:"receipt_no"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Legs        []PaymentResult `json:"legs"`
}

// CreateMultiPayment validates every leg up front, then posts all of them in
// one transaction. Leg vouchers hang off a shared master number so a later
// edit or reversal of a single leg retires only that leg's voucher.
func (s *MultiPaymentService) CreateMultiPayment(ctx context.Context, req MultiPaymentRequest) (*MultiPaymentResult, error) {
	if len(req.Legs) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Multi-pledge payment requires at least one leg")
	}
	seen := make(map[uuid.UUID]struct{}, len(req.Legs))
	legTotal := decimal.Zero
	for i := range req.Legs {
		if _, dup := seen[req.Legs[i].PledgeID]; dup {
			return nil, shared.NewDomainError(shared.ErrCodeValidation,
				fmt.Sprintf("Pledge %s appears in more than one leg", req.Legs[i].PledgeID))
		}
		seen[req.Legs[i].PledgeID] = struct{}{}
		if err := req.Legs[i].Split.Validate(); err != nil {
			return nil, err
		}
		legTotal = legTotal.Add(req.Legs[i].Split.Net())
	}
	if !legTotal.Equal(req.TotalAmount) {
		return nil, shared.NewDomainError(shared.ErrCodeAmountMismatch,
			fmt.Sprintf("Total amount %s does not match sum of legs %s",
				req.TotalAmount.StringFixed(2), legTotal.StringFixed(2)))
	}
	if err := s.checkOwnership(ctx, req); err != nil {
		return nil, err
	}

	var result *MultiPaymentResult
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		receiptNo, err := repos.Payments.NextReceiptNumber(ctx, req.CompanyID)
		if err != nil {
			return err
		}
		masterNo, err := repos.Vouchers.NextVoucherNumber(ctx, req.CompanyID, ledger.VoucherTypeReceipt)
		if err != nil {
			return err
		}
		legs := make([]PaymentResult, 0, len(req.Legs))
		for i := range req.Legs {
			legReq := PaymentRequest{
				CompanyID:          req.CompanyID,
				PledgeID:           req.Legs[i].PledgeID,
				PaymentDate:        req.PaymentDate,
				Type:               req.Legs[i].Type,
				Split:              req.Legs[i].Split,
				BankReference:      req.BankReference,
				AdjustmentReason:   req.Legs[i].AdjustmentReason,
				AdjustmentApproved: req.Legs[i].AdjustmentApproved,
			}
			voucherNo := fmt.Sprintf("%s-%02d", masterNo, i+1)
			legResult, err := s.payments.createPaymentInTx(ctx, repos, legReq, receiptNo, voucherNo)
			if err != nil {
				return err
			}
			legs = append(legs, *legResult)
		}
		result = &MultiPaymentResult{
			ReceiptNo:   receiptNo,
			TotalAmount: req.TotalAmount,
			Legs:        legs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("multi-pledge payment posted",
		zap.String("receipt_no", result.ReceiptNo),
		zap.Int("legs", len(result.Legs)),
		zap.String("total_amount", req.TotalAmount.StringFixed(2)),
	)
	return result, nil
}

// checkOwnership verifies every leg's pledge belongs to the stated customer.
// Plain reads; the pledges are re-read under lock when the legs post.
func (s *MultiPaymentService) checkOwnership(ctx context.Context, req MultiPaymentRequest) error {
	if req.CustomerID == uuid.Nil {
		return nil
	}
	repos := s.uow.Repos()
	for i := range req.Legs {
		p, err := repos.Pledges.FindByID(ctx, req.CompanyID, req.Legs[i].PledgeID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", req.Legs[i].PledgeID))
		}
		if p.CustomerID != req.CustomerID {
			return shared.NewDomainError(shared.ErrCodeValidation,
				fmt.Sprintf("Pledge %s does not belong to customer %s", p.PledgeNumber, req.CustomerID))
		}
	}
	return nil
}
