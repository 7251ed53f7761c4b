package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for ledger.Account
type AccountModel struct {
	CompanyAggregateModel
	Code       string     `gorm:"type:varchar(32);not null;index"`
	Name       string     `gorm:"type:varchar(128);not null"`
	Type       string     `gorm:"type:varchar(16);not null"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	IsSystem   bool       `gorm:"not null;default:false"`
}

// TableName specifies the table name for AccountModel
func (AccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts AccountModel to domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	a := &ledger.Account{
		Code:       m.Code,
		Name:       m.Name,
		Type:       ledger.AccountType(m.Type),
		ParentID:   m.ParentID,
		CustomerID: m.CustomerID,
		IsSystem:   m.IsSystem,
	}
	m.PopulateCompanyAggregateRoot(&a.CompanyAggregateRoot)
	return a
}

// FromDomain populates AccountModel from domain Account
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainCompanyAggregateRoot(a.CompanyAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.Type = a.Type.String()
	m.ParentID = a.ParentID
	m.CustomerID = a.CustomerID
	m.IsSystem = a.IsSystem
}

// VoucherModel is the persistence model for ledger.Voucher
type VoucherModel struct {
	CompanyAggregateModel
	VoucherNumber string             `gorm:"type:varchar(40);not null;index"`
	VoucherType   string             `gorm:"type:varchar(16);not null;index"`
	Date          time.Time          `gorm:"not null"`
	Narration     string             `gorm:"type:varchar(255)"`
	Entries       []LedgerEntryModel `gorm:"foreignKey:VoucherID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for VoucherModel
func (VoucherModel) TableName() string {
	return "ledger_vouchers"
}

// ToDomain converts VoucherModel to domain Voucher
func (m *VoucherModel) ToDomain() *ledger.Voucher {
	v := &ledger.Voucher{
		VoucherNumber: m.VoucherNumber,
		Type:          ledger.VoucherType(m.VoucherType),
		Date:          m.Date,
		Narration:     m.Narration,
		Entries:       make([]ledger.LedgerEntry, len(m.Entries)),
	}
	for i := range m.Entries {
		v.Entries[i] = m.Entries[i].ToDomain()
	}
	m.PopulateCompanyAggregateRoot(&v.CompanyAggregateRoot)
	return v
}

// FromDomain populates VoucherModel from domain Voucher
func (m *VoucherModel) FromDomain(v *ledger.Voucher) {
	m.FromDomainCompanyAggregateRoot(v.CompanyAggregateRoot)
	m.VoucherNumber = v.VoucherNumber
	m.VoucherType = v.Type.String()
	m.Date = v.Date
	m.Narration = v.Narration
	m.Entries = make([]LedgerEntryModel, len(v.Entries))
	for i := range v.Entries {
		m.Entries[i].FromDomain(v.Entries[i])
	}
}

// LedgerEntryModel is the persistence model for ledger.LedgerEntry
type LedgerEntryModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Date      time.Time       `gorm:"not null"`
}

// TableName specifies the table name for LedgerEntryModel
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts LedgerEntryModel to domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() ledger.LedgerEntry {
	return ledger.LedgerEntry{
		ID:        m.ID,
		VoucherID: m.VoucherID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Date:      m.Date,
	}
}

// FromDomain populates LedgerEntryModel from domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e ledger.LedgerEntry) {
	m.ID = e.ID
	m.VoucherID = e.VoucherID
	m.AccountID = e.AccountID
	m.Debit = e.Debit
	m.Credit = e.Credit
	m.Date = e.Date
}
