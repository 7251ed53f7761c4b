package settlement

import (
	"context"

	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PostingService is the single choke point for ledger writes. Every financial
// event - pledge intake, payments, reversals - passes through Post; no other
// component writes LedgerEntry rows.
type PostingService struct {
	log *zap.Logger
}

// NewPostingService creates a PostingService
func NewPostingService(log *zap.Logger) *PostingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostingService{log: log}
}

// Post validates and persists a voucher with all its entries. An unbalanced
// voucher is a logic bug, never bad input: it is logged at error severity
// with a full entry dump and returned so the surrounding transaction rolls
// back.
func (s *PostingService) Post(ctx context.Context, vouchers ledger.VoucherRepository, v *ledger.Voucher) error {
	if err := v.Validate(); err != nil {
		var domainErr *shared.DomainError
		if de, ok := err.(*shared.DomainError); ok {
			domainErr = de
		}
		if domainErr != nil && domainErr.Code == shared.ErrCodeUnbalancedVoucher {
			debit, credit := v.Totals()
			s.log.Error("unbalanced voucher rejected",
				zap.String("voucher_number", v.VoucherNumber),
				zap.String("voucher_type", v.Type.String()),
				zap.String("total_debit", debit.StringFixed(2)),
				zap.String("total_credit", credit.StringFixed(2)),
				zap.Any("entries", v.Entries),
			)
		}
		return err
	}
	return vouchers.Create(ctx, v)
}
