package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService is the payment allocation engine. It validates a single
// pledge's payment, posts the balanced receipt voucher, and drives the
// pledge's status. All mutations run inside one unit of work with the pledge
// row locked.
type PaymentService struct {
	uow     UnitOfWork
	posting *PostingService
	log     *zap.Logger
}

// NewPaymentService creates a PaymentService
func NewPaymentService(uow UnitOfWork, posting *PostingService, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{uow: uow, posting: posting, log: log}
}

// PaymentRequest carries a caller-supplied payment with its explicit split
type PaymentRequest struct {
	CompanyID          uuid.UUID
	PledgeID           uuid.UUID
	PaymentDate        time.Time
	Type               pledge.PaymentType
	Split              pledge.PaymentSplit
	ReceiptNo          string // auto-generated when empty
	BankReference      string
	AdjustmentReason   string
	AdjustmentApproved bool
	Narration          string
}

// PaymentResult reports the outcome of a payment mutation. Every mutating
// response carries the pledge's post-operation balance and status so callers
// never need a second round-trip.
type PaymentResult struct {
	Payment          *pledge.PledgePayment `json:"payment"`
	RemainingBalance decimal.Decimal       `json:"remaining_balance"`
	Status           pledge.Status         `json:"status"`
	VoucherNumber    string                `json:"voucher_number"`
}

// CreatePayment validates and posts a single-pledge payment
func (s *PaymentService) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		receiptNo := req.ReceiptNo
		if receiptNo == "" {
			var err error
			receiptNo, err = repos.Payments.NextReceiptNumber(ctx, req.CompanyID)
			if err != nil {
				return err
			}
		}
		voucherNo, err := repos.Vouchers.NextVoucherNumber(ctx, req.CompanyID, ledger.VoucherTypeReceipt)
		if err != nil {
			return err
		}
		result, err = s.createPaymentInTx(ctx, repos, req, receiptNo, voucherNo)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("payment posted",
		zap.String("pledge_id", req.PledgeID.String()),
		zap.String("receipt_no", result.Payment.ReceiptNo),
		zap.String("net_amount", result.Payment.NetAmount().StringFixed(2)),
		zap.String("status", result.Status.String()),
	)
	return result, nil
}

// createPaymentInTx runs the allocation inside an already-open transaction.
// The multi-pledge coordinator calls this once per leg with shared numbers.
func (s *PaymentService) createPaymentInTx(ctx context.Context, repos Repositories, req PaymentRequest, receiptNo, voucherNo string) (*PaymentResult, error) {
	p, err := repos.Pledges.FindByIDForUpdate(ctx, req.CompanyID, req.PledgeID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", req.PledgeID))
	}
	if !p.CanAcceptPayment() {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidPledgeState,
			fmt.Sprintf("Pledge %s is %s and cannot accept payments", p.PledgeNumber, p.Status))
	}
	if err := req.Split.Validate(); err != nil {
		return nil, err
	}
	if err := validateAdjustment(req.Split, req.AdjustmentReason, req.AdjustmentApproved); err != nil {
		return nil, err
	}
	net := req.Split.Net()
	if net.GreaterThan(p.RemainingBalance) {
		return nil, shared.NewDomainError(shared.ErrCodeOverpayment,
			fmt.Sprintf("Net payment %s exceeds remaining balance %s",
				net.StringFixed(2), p.RemainingBalance.StringFixed(2)))
	}

	accounts, err := resolvePostingAccounts(ctx, repos, req.CompanyID, p.CustomerID)
	if err != nil {
		return nil, err
	}
	narration := req.Narration
	if narration == "" {
		narration = fmt.Sprintf("Receipt %s against pledge %s", receiptNo, p.PledgeNumber)
	}
	voucher, err := buildReceiptVoucher(req.CompanyID, voucherNo, req.PaymentDate, narration, req.Split, accounts)
	if err != nil {
		return nil, err
	}
	if err := s.posting.Post(ctx, repos.Vouchers, voucher); err != nil {
		return nil, err
	}

	payment, err := pledge.NewPledgePayment(req.CompanyID, p.ID, req.PaymentDate, req.Type, req.Split, receiptNo)
	if err != nil {
		return nil, err
	}
	payment.VoucherID = voucher.ID
	payment.BankReference = req.BankReference
	payment.AdjustmentReason = req.AdjustmentReason

	if err := p.ApplyNetPayment(net); err != nil {
		return nil, err
	}
	payment.BalanceAmount = p.RemainingBalance

	if err := repos.Payments.Save(ctx, payment); err != nil {
		return nil, err
	}
	if err := repos.Pledges.Save(ctx, p); err != nil {
		return nil, err
	}

	return &PaymentResult{
		Payment:          payment,
		RemainingBalance: p.RemainingBalance,
		Status:           p.Status,
		VoucherNumber:    voucher.VoucherNumber,
	}, nil
}

// UpdatePaymentRequest carries the replacement values for an existing payment
type UpdatePaymentRequest struct {
	CompanyID          uuid.UUID
	PaymentID          uuid.UUID
	PaymentDate        time.Time
	Type               pledge.PaymentType
	Split              pledge.PaymentSplit
	AdjustmentReason   string
	AdjustmentApproved bool
}

// UpdatePayment replaces a payment's split and re-derives the pledge's
// cumulative totals from all surviving payments, never incrementally.
// The old voucher is retired and a fresh one posted under the same receipt.
func (s *PaymentService) UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		payment, err := repos.Payments.FindByID(ctx, req.CompanyID, req.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Payment %s not found", req.PaymentID))
		}
		p, err := repos.Pledges.FindByIDForUpdate(ctx, req.CompanyID, payment.PledgeID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", payment.PledgeID))
		}
		if err := req.Split.Validate(); err != nil {
			return err
		}
		if err := validateAdjustment(req.Split, req.AdjustmentReason, req.AdjustmentApproved); err != nil {
			return err
		}

		// Overpayment check against the balance excluding this payment
		others, err := survivingPayments(ctx, repos, req.CompanyID, p.ID, payment.ID)
		if err != nil {
			return err
		}
		paidByOthers := decimal.Zero
		for i := range others {
			paidByOthers = paidByOthers.Add(others[i].NetAmount())
		}
		available := p.FinalAmount.Sub(paidByOthers)
		if req.Split.Net().GreaterThan(available) {
			return shared.NewDomainError(shared.ErrCodeOverpayment,
				fmt.Sprintf("Net payment %s exceeds remaining balance %s",
					req.Split.Net().StringFixed(2), available.StringFixed(2)))
		}

		// Retire the old voucher and post the replacement
		if err := repos.Vouchers.Delete(ctx, req.CompanyID, payment.VoucherID); err != nil {
			return err
		}
		voucherNo, err := repos.Vouchers.NextVoucherNumber(ctx, req.CompanyID, ledger.VoucherTypeReceipt)
		if err != nil {
			return err
		}
		accounts, err := resolvePostingAccounts(ctx, repos, req.CompanyID, p.CustomerID)
		if err != nil {
			return err
		}
		narration := fmt.Sprintf("Receipt %s against pledge %s (amended)", payment.ReceiptNo, p.PledgeNumber)
		voucher, err := buildReceiptVoucher(req.CompanyID, voucherNo, req.PaymentDate, narration, req.Split, accounts)
		if err != nil {
			return err
		}
		if err := s.posting.Post(ctx, repos.Vouchers, voucher); err != nil {
			return err
		}

		payment.PaymentDate = req.PaymentDate
		payment.Type = req.Type
		payment.Amount = req.Split.Amount
		payment.InterestAmount = req.Split.InterestAmount
		payment.PrincipalAmount = req.Split.PrincipalAmount
		payment.PenaltyAmount = req.Split.PenaltyAmount
		payment.DiscountAmount = req.Split.DiscountAmount
		payment.AdjustmentReason = req.AdjustmentReason
		payment.VoucherID = voucher.ID
		payment.UpdatedAt = time.Now()
		payment.IncrementVersion()

		// The edited row is persisted even when the recompute below finds its
		// running balance unchanged: the new voucher ID and split must land.
		if err := repos.Payments.Save(ctx, payment); err != nil {
			return err
		}

		surviving := append(others, *payment)
		if err := s.recomputePledge(ctx, repos, p, surviving); err != nil {
			return err
		}
		for i := range surviving {
			if surviving[i].ID == payment.ID {
				payment.BalanceAmount = surviving[i].BalanceAmount
			}
		}
		result = &PaymentResult{
			Payment:          payment,
			RemainingBalance: p.RemainingBalance,
			Status:           p.Status,
			VoucherNumber:    voucher.VoucherNumber,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePayment retires a payment and its voucher, then re-derives the
// pledge's totals. Status moving backward (redeemed -> partial_paid ->
// active) is the intended behavior.
func (s *PaymentService) DeletePayment(ctx context.Context, companyID, paymentID uuid.UUID) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		payment, err := repos.Payments.FindByID(ctx, companyID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Payment %s not found", paymentID))
		}
		p, err := repos.Pledges.FindByIDForUpdate(ctx, companyID, payment.PledgeID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", payment.PledgeID))
		}

		if err := repos.Vouchers.Delete(ctx, companyID, payment.VoucherID); err != nil {
			return err
		}
		if err := repos.Payments.Delete(ctx, companyID, payment.ID); err != nil {
			return err
		}

		surviving, err := survivingPayments(ctx, repos, companyID, p.ID, payment.ID)
		if err != nil {
			return err
		}
		if err := s.recomputePledge(ctx, repos, p, surviving); err != nil {
			return err
		}
		result = &PaymentResult{
			Payment:          payment,
			RemainingBalance: p.RemainingBalance,
			Status:           p.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recomputePledge rebuilds the per-payment running balances and the pledge's
// cumulative totals from the full surviving set
func (s *PaymentService) recomputePledge(ctx context.Context, repos Repositories, p *pledge.Pledge, surviving []pledge.PledgePayment) error {
	sort.SliceStable(surviving, func(i, j int) bool {
		if surviving[i].PaymentDate.Equal(surviving[j].PaymentDate) {
			return surviving[i].CreatedAt.Before(surviving[j].CreatedAt)
		}
		return surviving[i].PaymentDate.Before(surviving[j].PaymentDate)
	})
	running := p.FinalAmount
	for i := range surviving {
		running = running.Sub(surviving[i].NetAmount())
		if running.IsNegative() {
			running = decimal.Zero
		}
		if !surviving[i].BalanceAmount.Equal(running) {
			surviving[i].BalanceAmount = running
			if err := repos.Payments.Save(ctx, &surviving[i]); err != nil {
				return err
			}
		}
	}
	p.RecomputeFromPayments(surviving)
	return repos.Pledges.Save(ctx, p)
}

// survivingPayments lists a pledge's payments excluding one ID
func survivingPayments(ctx context.Context, repos Repositories, companyID, pledgeID, excludeID uuid.UUID) ([]pledge.PledgePayment, error) {
	all, err := repos.Payments.FindByPledge(ctx, companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	surviving := make([]pledge.PledgePayment, 0, len(all))
	for i := range all {
		if all[i].ID != excludeID {
			surviving = append(surviving, all[i])
		}
	}
	return surviving, nil
}

// validateAdjustment enforces the approval rule: any non-zero penalty or
// discount needs a reason and an explicit approval flag
func validateAdjustment(split pledge.PaymentSplit, reason string, approved bool) error {
	if !split.PenaltyAmount.IsPositive() && !split.DiscountAmount.IsPositive() {
		return nil
	}
	if reason == "" || !approved {
		return shared.NewDomainError(shared.ErrCodeUnauthorizedAdjustment,
			"Penalty or discount adjustments require a reason and explicit approval")
	}
	return nil
}

// buildReceiptVoucher assembles the balanced double entry for a payment.
// Debits: net cash received, discount allowed. Credits: principal against the
// customer's pledge account, interest income, penalty income. Zero legs are
// omitted; the construction balances because amount = interest + principal.
func buildReceiptVoucher(companyID uuid.UUID, voucherNo string, date time.Time, narration string, split pledge.PaymentSplit, accounts *postingAccounts) (*ledger.Voucher, error) {
	voucher, err := ledger.NewVoucher(companyID, voucherNo, ledger.VoucherTypeReceipt, date, narration)
	if err != nil {
		return nil, err
	}
	voucher.
		Debit(accounts.cash.ID, split.Net()).
		Debit(accounts.discountExpense.ID, split.DiscountAmount).
		Credit(accounts.customer.ID, split.PrincipalAmount).
		Credit(accounts.interestIncome.ID, split.InterestAmount).
		Credit(accounts.penaltyIncome.ID, split.PenaltyAmount)
	return voucher, nil
}
