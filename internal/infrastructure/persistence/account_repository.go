package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID within a company
func (r *GormAccountRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its hierarchical code within a company
func (r *GormAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "company_id = ? AND code = ?", companyID, code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds the liability sub-account for a customer
func (r *GormAccountRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "company_id = ? AND customer_id = ?", companyID, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists the full chart for a company
func (r *GormAccountRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID) ([]ledger.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]ledger.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// CountChildren counts direct children of an account
func (r *GormAccountRepository) CountChildren(ctx context.Context, companyID, parentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("company_id = ? AND parent_id = ?", companyID, parentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	var model models.AccountModel
	model.FromDomain(account)
	return r.db.WithContext(ctx).Save(&model).Error
}
