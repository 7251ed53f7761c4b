package ledger

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository provides access to the chart of accounts
type AccountRepository interface {
	// FindByID finds an account by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Account, error)
	// FindByCode finds an account by its hierarchical code within a company
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Account, error)
	// FindByCustomer finds the liability sub-account for a customer
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*Account, error)
	// FindAllForCompany lists the full chart for a company
	FindAllForCompany(ctx context.Context, companyID uuid.UUID) ([]Account, error)
	// CountChildren counts direct children of an account, used for
	// bottom-up code assignment
	CountChildren(ctx context.Context, companyID, parentID uuid.UUID) (int64, error)
	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error
}

// VoucherRepository persists vouchers together with their ledger entries.
// All writes happen through PostingService; the repository never persists a
// voucher that fails Validate.
type VoucherRepository interface {
	// FindByID finds a voucher with its entries
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Voucher, error)
	// FindByNumber finds a voucher by voucher number
	FindByNumber(ctx context.Context, companyID uuid.UUID, voucherNumber string) (*Voucher, error)
	// Create persists a voucher and all its entries as one unit
	Create(ctx context.Context, voucher *Voucher) error
	// Delete retires a voucher and all its entries
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	// NextVoucherNumber generates the next voucher number for a company
	// and voucher type
	NextVoucherNumber(ctx context.Context, companyID uuid.UUID, voucherType VoucherType) (string, error)
}
