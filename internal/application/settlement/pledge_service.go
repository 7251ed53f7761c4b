package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PledgeService handles pledge intake and reads. Intake posts the opening
// voucher in the same transaction that creates the pledge, so a pledge never
// exists without its ledger trail.
type PledgeService struct {
	uow     UnitOfWork
	posting *PostingService
	log     *zap.Logger
}

// NewPledgeService creates a PledgeService
func NewPledgeService(uow UnitOfWork, posting *PostingService, log *zap.Logger) *PledgeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PledgeService{uow: uow, posting: posting, log: log}
}

// CreatePledgeRequest carries the intake values. FirstMonthInterest is
// computed from the rate when left zero.
type CreatePledgeRequest struct {
	CompanyID          uuid.UUID
	CustomerID         uuid.UUID
	SchemeID           uuid.UUID
	LoanAmount         decimal.Decimal
	MonthlyRatePct     decimal.Decimal
	FirstMonthInterest decimal.Decimal
	Charges            decimal.Decimal
	PledgeDate         time.Time
	DueDate            time.Time
}

// CreatePledge books a new pledge and posts its opening voucher: the customer
// owes the final amount, cash went out for the loan, and the first month's
// interest and charges are earned at intake.
func (s *PledgeService) CreatePledge(ctx context.Context, req CreatePledgeRequest) (*pledge.Pledge, error) {
	fmi := req.FirstMonthInterest
	if fmi.IsZero() && req.MonthlyRatePct.IsPositive() {
		fmi = req.LoanAmount.Mul(req.MonthlyRatePct).Div(decimal.NewFromInt(100)).Round(2)
	}

	var created *pledge.Pledge
	err := s.uow.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		pledgeNumber, err := repos.Pledges.NextPledgeNumber(ctx, req.CompanyID)
		if err != nil {
			return err
		}
		p, err := pledge.NewPledge(req.CompanyID, pledgeNumber, req.CustomerID, req.SchemeID,
			valueobject.NewMoneyINR(req.LoanAmount), req.MonthlyRatePct,
			valueobject.NewMoneyINR(fmi), valueobject.NewMoneyINR(req.Charges),
			req.PledgeDate, req.DueDate)
		if err != nil {
			return err
		}

		accounts, err := resolvePostingAccounts(ctx, repos, req.CompanyID, req.CustomerID)
		if err != nil {
			return err
		}
		voucherNo, err := repos.Vouchers.NextVoucherNumber(ctx, req.CompanyID, ledger.VoucherTypePledge)
		if err != nil {
			return err
		}
		voucher, err := ledger.NewVoucher(req.CompanyID, voucherNo, ledger.VoucherTypePledge,
			req.PledgeDate, fmt.Sprintf("Pledge %s booked", p.PledgeNumber))
		if err != nil {
			return err
		}
		voucher.
			Debit(accounts.customer.ID, p.FinalAmount).
			Credit(accounts.cash.ID, p.LoanAmount).
			Credit(accounts.interestIncome.ID, p.FirstMonthInterest).
			Credit(accounts.chargesIncome.ID, p.Charges)
		if err := s.posting.Post(ctx, repos.Vouchers, voucher); err != nil {
			return err
		}

		if err := repos.Pledges.Save(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("pledge booked",
		zap.String("pledge_number", created.PledgeNumber),
		zap.String("loan_amount", created.LoanAmount.StringFixed(2)),
		zap.String("final_amount", created.FinalAmount.StringFixed(2)),
	)
	return created, nil
}

// GetPledge returns a pledge by ID
func (s *PledgeService) GetPledge(ctx context.Context, companyID, pledgeID uuid.UUID) (*pledge.Pledge, error) {
	p, err := s.uow.Repos().Pledges.FindByID(ctx, companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", pledgeID))
	}
	return p, nil
}

// ListPayments returns a pledge's payments, oldest first
func (s *PledgeService) ListPayments(ctx context.Context, companyID, pledgeID uuid.UUID) ([]pledge.PledgePayment, error) {
	repos := s.uow.Repos()
	p, err := repos.Pledges.FindByID(ctx, companyID, pledgeID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Pledge %s not found", pledgeID))
	}
	return repos.Payments.FindByPledge(ctx, companyID, pledgeID)
}
