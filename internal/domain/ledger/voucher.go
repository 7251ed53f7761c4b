package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VoucherType classifies the business event a voucher records
type VoucherType string

const (
	VoucherTypePledge  VoucherType = "PLEDGE"  // Pledge intake (loan disbursal)
	VoucherTypeReceipt VoucherType = "RECEIPT" // Payment received from a customer
	VoucherTypePayment VoucherType = "PAYMENT" // Payment made by the shop
	VoucherTypeJournal VoucherType = "JOURNAL" // Manual adjustment
	VoucherTypeAuction VoucherType = "AUCTION" // Auction proceeds
)

// IsValid checks if the voucher type is a valid VoucherType
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherTypePledge, VoucherTypeReceipt, VoucherTypePayment,
		VoucherTypeJournal, VoucherTypeAuction:
		return true
	}
	return false
}

// String returns the string representation of VoucherType
func (t VoucherType) String() string {
	return string(t)
}

// LedgerEntry is a single debit or credit line against one account.
// Exactly one of Debit/Credit is non-zero.
type LedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	VoucherID uuid.UUID       `json:"voucher_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Date      time.Time       `json:"date"`
}

// IsDebit returns true if the entry is a debit line
func (e *LedgerEntry) IsDebit() bool {
	return e.Debit.IsPositive()
}

// validate enforces the one-sided entry rule
func (e *LedgerEntry) validate() error {
	if e.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Ledger entry requires an account")
	}
	if e.Debit.IsNegative() || e.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_ENTRY", "Ledger entry amounts cannot be negative")
	}
	debitSet := e.Debit.IsPositive()
	creditSet := e.Credit.IsPositive()
	if debitSet == creditSet {
		return shared.NewDomainError("INVALID_ENTRY", "Ledger entry must have exactly one of debit or credit set")
	}
	return nil
}

// Voucher groups the ledger entries that represent one business event.
// The aggregate owns its entries; nothing else may write LedgerEntry rows.
type Voucher struct {
	shared.CompanyAggregateRoot
	VoucherNumber string        `json:"voucher_number"`
	Type          VoucherType   `json:"type"`
	Date          time.Time     `json:"date"`
	Narration     string        `json:"narration"`
	Entries       []LedgerEntry `json:"entries"`
}

// NewVoucher creates a voucher with no entries yet
func NewVoucher(companyID uuid.UUID, voucherNumber string, voucherType VoucherType, date time.Time, narration string) (*Voucher, error) {
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", fmt.Sprintf("%q is not a valid voucher type", voucherType))
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Voucher date is required")
	}
	return &Voucher{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		VoucherNumber:        voucherNumber,
		Type:                 voucherType,
		Date:                 date,
		Narration:            narration,
		Entries:              make([]LedgerEntry, 0, 4),
	}, nil
}

// Debit appends a debit line. Zero amounts are dropped silently so callers
// can post conditional legs without special-casing.
func (v *Voucher) Debit(accountID uuid.UUID, amount decimal.Decimal) *Voucher {
	if amount.IsZero() {
		return v
	}
	v.Entries = append(v.Entries, LedgerEntry{
		ID:        uuid.New(),
		VoucherID: v.ID,
		AccountID: accountID,
		Debit:     amount,
		Credit:    decimal.Zero,
		Date:      v.Date,
	})
	return v
}

// Credit appends a credit line, dropping zero amounts
func (v *Voucher) Credit(accountID uuid.UUID, amount decimal.Decimal) *Voucher {
	if amount.IsZero() {
		return v
	}
	v.Entries = append(v.Entries, LedgerEntry{
		ID:        uuid.New(),
		VoucherID: v.ID,
		AccountID: accountID,
		Debit:     decimal.Zero,
		Credit:    amount,
		Date:      v.Date,
	})
	return v
}

// Totals returns the debit and credit sums over all entries
func (v *Voucher) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for i := range v.Entries {
		debit = debit.Add(v.Entries[i].Debit)
		credit = credit.Add(v.Entries[i].Credit)
	}
	return debit, credit
}

// IsBalanced reports whether total debits equal total credits exactly.
// Amounts are fixed-point decimals; the tolerance is zero.
func (v *Voucher) IsBalanced() bool {
	debit, credit := v.Totals()
	return debit.Equal(credit)
}

// Validate checks the voucher is postable: it has entries, every entry is
// one-sided, and debits equal credits.
func (v *Voucher) Validate() error {
	if len(v.Entries) == 0 {
		return shared.NewDomainError("EMPTY_VOUCHER", "Voucher has no ledger entries")
	}
	for i := range v.Entries {
		if err := v.Entries[i].validate(); err != nil {
			return err
		}
	}
	if debit, credit := v.Totals(); !debit.Equal(credit) {
		return shared.NewDomainError(shared.ErrCodeUnbalancedVoucher,
			fmt.Sprintf("Voucher %s does not balance: debits %s, credits %s",
				v.VoucherNumber, debit.StringFixed(2), credit.StringFixed(2)))
	}
	return nil
}
