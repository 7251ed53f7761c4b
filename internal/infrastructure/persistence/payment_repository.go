package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements pledge.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID within a company
func (r *GormPaymentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*pledge.PledgePayment, error) {
	var model models.PledgePaymentModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPledge lists all payments for a pledge, oldest first
func (r *GormPaymentRepository) FindByPledge(ctx context.Context, companyID, pledgeID uuid.UUID) ([]pledge.PledgePayment, error) {
	var paymentModels []models.PledgePaymentModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND pledge_id = ?", companyID, pledgeID).
		Order("payment_date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]pledge.PledgePayment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments, nil
}

// NextReceiptNumber generates the next receipt number for a company.
// Payments can be deleted, so the sequence comes from the highest issued
// number rather than a row count.
func (r *GormPaymentRepository) NextReceiptNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.PledgePaymentModel{}).
		Select("receipt_no").
		Where("company_id = ?", companyID).
		Order("receipt_no DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	nextSeq := 1
	if maxNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(maxNumber, "RCT-%06d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}
	return fmt.Sprintf("RCT-%06d", nextSeq), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *pledge.PledgePayment) error {
	var model models.PledgePaymentModel
	model.FromDomain(payment)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a payment row
func (r *GormPaymentRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.PledgePaymentModel{}).Error
}
