package persistence

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the database schema for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.PledgeModel{},
		&models.PledgePaymentModel{},
		&models.AccountModel{},
		&models.VoucherModel{},
		&models.LedgerEntryModel{},
	); err != nil {
		return err
	}
	// Pledge numbers are allocated per company, so uniqueness is over the
	// (company_id, pledge_number) pair. CompanyID lives in the shared embedded
	// model and cannot carry a per-table index tag.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_pledges_company_number ON pledges (company_id, pledge_number)",
	).Error
}

// SeedChartOfAccounts creates the default chart of accounts for a company if
// it does not exist yet. Safe to call on every startup.
func SeedChartOfAccounts(ctx context.Context, db *gorm.DB, companyID uuid.UUID) error {
	repo := NewGormAccountRepository(db)

	existing, err := repo.FindByCode(ctx, companyID, ledger.CodeCash)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	chart, err := ledger.NewDefaultChart(companyID)
	if err != nil {
		return err
	}
	accounts := chart.Accounts()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	for _, account := range accounts {
		if err := repo.Save(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
