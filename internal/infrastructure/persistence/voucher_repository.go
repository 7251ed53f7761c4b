package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// voucherNumberPrefixes maps voucher types to their number prefixes
var voucherNumberPrefixes = map[ledger.VoucherType]string{
	ledger.VoucherTypePledge:  "PV",
	ledger.VoucherTypeReceipt: "RV",
	ledger.VoucherTypePayment: "PY",
	ledger.VoucherTypeJournal: "JV",
	ledger.VoucherTypeAuction: "AV",
}

// GormVoucherRepository implements ledger.VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher with its entries
func (r *GormVoucherRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*ledger.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		First(&model, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a voucher by voucher number
func (r *GormVoucherRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, voucherNumber string) (*ledger.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		First(&model, "company_id = ? AND voucher_number = ?", companyID, voucherNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a voucher and all its entries as one unit
func (r *GormVoucherRepository) Create(ctx context.Context, voucher *ledger.Voucher) error {
	var model models.VoucherModel
	model.FromDomain(voucher)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Delete retires a voucher and all its entries
func (r *GormVoucherRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voucher_id = ?", id).Delete(&models.LedgerEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND company_id = ?", id, companyID).
			Delete(&models.VoucherModel{}).Error
	})
}

// NextVoucherNumber generates the next voucher number for a company and
// voucher type. Vouchers can be retired, so the sequence comes from the
// highest issued number rather than a row count.
func (r *GormVoucherRepository) NextVoucherNumber(ctx context.Context, companyID uuid.UUID, voucherType ledger.VoucherType) (string, error) {
	prefix, ok := voucherNumberPrefixes[voucherType]
	if !ok {
		return "", fmt.Errorf("no number prefix for voucher type %s", voucherType)
	}

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Select("voucher_number").
		Where("company_id = ? AND voucher_type = ?", companyID, voucherType.String()).
		Order("voucher_number DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(maxNumber, prefix+"-%06d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}
	return fmt.Sprintf("%s-%06d", prefix, nextSeq), nil
}
