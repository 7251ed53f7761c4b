package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// LedgerService exposes read-only ledger audit views
type LedgerService struct {
	uow UnitOfWork
}

// NewLedgerService creates a LedgerService
func NewLedgerService(uow UnitOfWork) *LedgerService {
	return &LedgerService{uow: uow}
}

// ListAccounts returns a company's full chart of accounts
func (s *LedgerService) ListAccounts(ctx context.Context, companyID uuid.UUID) ([]ledger.Account, error) {
	return s.uow.Repos().Accounts.FindAllForCompany(ctx, companyID)
}

// GetVoucher returns a voucher with all its entries
func (s *LedgerService) GetVoucher(ctx context.Context, companyID, voucherID uuid.UUID) (*ledger.Voucher, error) {
	v, err := s.uow.Repos().Vouchers.FindByID(ctx, companyID, voucherID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Voucher %s not found", voucherID))
	}
	return v, nil
}
