package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPledgeRepository implements pledge.Repository using GORM
type GormPledgeRepository struct {
	db *gorm.DB
}

// NewGormPledgeRepository creates a new GormPledgeRepository
func NewGormPledgeRepository(db *gorm.DB) *GormPledgeRepository {
	return &GormPledgeRepository{db: db}
}

// FindByID finds a pledge by ID within a company
func (r *GormPledgeRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*pledge.Pledge, error) {
	var model models.PledgeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a pledge and takes a FOR UPDATE row lock. Must be
// called inside a transaction; the lock holds until commit or rollback.
// SQLite serializes writers itself and rejects FOR UPDATE, so the clause is
// applied on postgres only.
func (r *GormPledgeRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*pledge.Pledge, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var model models.PledgeModel
	if err := query.
		First(&model, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists a customer's pledges
func (r *GormPledgeRepository) FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) ([]pledge.Pledge, error) {
	var pledgeModels []models.PledgeModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND customer_id = ?", companyID, customerID).
		Order("pledge_date DESC").
		Find(&pledgeModels).Error; err != nil {
		return nil, err
	}
	pledges := make([]pledge.Pledge, len(pledgeModels))
	for i := range pledgeModels {
		pledges[i] = *pledgeModels[i].ToDomain()
	}
	return pledges, nil
}

// NextPledgeNumber generates the next pledge number for a company
func (r *GormPledgeRepository) NextPledgeNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PledgeModel{}).
		Where("company_id = ?", companyID).
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("PLG-%06d", count+1), nil
}

// Save creates or updates a pledge
func (r *GormPledgeRepository) Save(ctx context.Context, p *pledge.Pledge) error {
	var model models.PledgeModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}
