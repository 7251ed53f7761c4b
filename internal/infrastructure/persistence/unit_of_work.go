package persistence

import (
	"context"

	"github.com/pawnshop/backend/internal/application/settlement"
	"gorm.io/gorm"
)

// GormUnitOfWork implements settlement.UnitOfWork on a GORM connection
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside one database transaction. Repositories handed to fn
// are bound to the transaction, so a row lock taken by one of them holds
// until the transaction commits or rolls back.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos settlement.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, reposFor(tx))
	})
}

// Repos returns repositories bound to the base connection for read-only paths
func (u *GormUnitOfWork) Repos() settlement.Repositories {
	return reposFor(u.db)
}

func reposFor(db *gorm.DB) settlement.Repositories {
	return settlement.Repositories{
		Pledges:  NewGormPledgeRepository(db),
		Payments: NewGormPaymentRepository(db),
		Accounts: NewGormAccountRepository(db),
		Vouchers: NewGormVoucherRepository(db),
	}
}
