package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/application/settlement"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/pawnshop/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	uow       *persistence.GormUnitOfWork
	pledges   *settlement.PledgeService
	payments  *settlement.PaymentService
	multi     *settlement.MultiPaymentService
	quotes    *settlement.QuoteService
	ledgers   *settlement.LedgerService
	companyID uuid.UUID
}

func setupSettlementTest(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// An in-memory sqlite database exists per connection; keep the pool at one
	// so transactions and plain reads see the same data.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, persistence.AutoMigrate(db))

	companyID := uuid.New()
	require.NoError(t, persistence.SeedChartOfAccounts(context.Background(), db, companyID))

	uow := persistence.NewGormUnitOfWork(db)
	posting := settlement.NewPostingService(zap.NewNop())
	payments := settlement.NewPaymentService(uow, posting, zap.NewNop())

	return &testEnv{
		db:        db,
		uow:       uow,
		pledges:   settlement.NewPledgeService(uow, posting, zap.NewNop()),
		payments:  payments,
		multi:     settlement.NewMultiPaymentService(uow, payments, zap.NewNop()),
		quotes:    settlement.NewQuoteService(uow),
		ledgers:   settlement.NewLedgerService(uow),
		companyID: companyID,
	}
}

// createTestPledge books a pledge of 100000 at 1.8% monthly with 200 charges,
// so the first month's interest is 1800 and the final amount is 102000.
func (e *testEnv) createTestPledge(t *testing.T) *pledge.Pledge {
	t.Helper()
	p, err := e.pledges.CreatePledge(context.Background(), settlement.CreatePledgeRequest{
		CompanyID:      e.companyID,
		CustomerID:     uuid.New(),
		SchemeID:       uuid.New(),
		LoanAmount:     decimal.NewFromInt(100000),
		MonthlyRatePct: decimal.RequireFromString("1.8"),
		Charges:        decimal.NewFromInt(200),
		PledgeDate:     time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) voucherByNumber(t *testing.T, number string) *ledger.Voucher {
	t.Helper()
	v, err := e.uow.Repos().Vouchers.FindByNumber(context.Background(), e.companyID, number)
	require.NoError(t, err)
	return v
}

func (e *testEnv) reloadPledge(t *testing.T, id uuid.UUID) *pledge.Pledge {
	t.Helper()
	p, err := e.uow.Repos().Pledges.FindByID(context.Background(), e.companyID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (e *testEnv) listPayments(t *testing.T, pledgeID uuid.UUID) []pledge.PledgePayment {
	t.Helper()
	payments, err := e.uow.Repos().Payments.FindByPledge(context.Background(), e.companyID, pledgeID)
	require.NoError(t, err)
	return payments
}

func requireDomainErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func interestSplit(amount int64) pledge.PaymentSplit {
	return pledge.PaymentSplit{
		Amount:         decimal.NewFromInt(amount),
		InterestAmount: decimal.NewFromInt(amount),
	}
}

func TestPledgeService_CreatePledge(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	assert.Equal(t, "PLG-000001", p.PledgeNumber)
	assert.Equal(t, "1800.00", p.FirstMonthInterest.StringFixed(2))
	assert.Equal(t, "102000.00", p.FinalAmount.StringFixed(2))
	assert.Equal(t, "102000.00", p.RemainingBalance.StringFixed(2))
	assert.Equal(t, pledge.StatusActive, p.Status)

	// Intake posts the opening voucher in the same transaction
	voucher := env.voucherByNumber(t, "PV-000001")
	require.NotNil(t, voucher)
	assert.True(t, voucher.IsBalanced())
	assert.Len(t, voucher.Entries, 4)
	debit, credit := voucher.Totals()
	assert.Equal(t, "102000.00", debit.StringFixed(2))
	assert.Equal(t, "102000.00", credit.StringFixed(2))

	// The customer got a sub-account under Pledge Loans on first use
	customer, err := env.uow.Repos().Accounts.FindByCustomer(context.Background(), env.companyID, p.CustomerID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, ledger.CodePledgeLoans+"-001", customer.Code)
}

func TestPledgeService_CreatePledge_SequentialNumbers(t *testing.T) {
	env := setupSettlementTest(t)
	first := env.createTestPledge(t)
	second := env.createTestPledge(t)

	assert.Equal(t, "PLG-000001", first.PledgeNumber)
	assert.Equal(t, "PLG-000002", second.PledgeNumber)
	require.NotNil(t, env.voucherByNumber(t, "PV-000002"))
}

func TestPaymentService_CreatePayment(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	result, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)

	assert.Equal(t, "RCT-000001", result.Payment.ReceiptNo)
	assert.Equal(t, "RV-000001", result.VoucherNumber)
	assert.Equal(t, pledge.StatusPartialPaid, result.Status)
	assert.Equal(t, "100200.00", result.RemainingBalance.StringFixed(2))
	assert.Equal(t, "100200.00", result.Payment.BalanceAmount.StringFixed(2))

	reloaded := env.reloadPledge(t, p.ID)
	assert.Equal(t, pledge.StatusPartialPaid, reloaded.Status)
	assert.Equal(t, "1800.00", reloaded.TotalPaid.StringFixed(2))

	voucher := env.voucherByNumber(t, "RV-000001")
	require.NotNil(t, voucher)
	assert.True(t, voucher.IsBalanced())
	// Interest-only receipt: cash in, interest income out
	assert.Len(t, voucher.Entries, 2)
}

func TestPaymentService_CreatePayment_WithAdjustments(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	split := pledge.PaymentSplit{
		Amount:          decimal.NewFromInt(5000),
		InterestAmount:  decimal.NewFromInt(1800),
		PrincipalAmount: decimal.NewFromInt(3200),
		PenaltyAmount:   decimal.NewFromInt(100),
		DiscountAmount:  decimal.NewFromInt(50),
	}

	t.Run("rejected without reason and approval", func(t *testing.T) {
		_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
			CompanyID:   env.companyID,
			PledgeID:    p.ID,
			PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			Type:        pledge.PaymentTypePartialRedeem,
			Split:       split,
		})
		requireDomainErrCode(t, err, shared.ErrCodeUnauthorizedAdjustment)
		assert.Empty(t, env.listPayments(t, p.ID))
	})

	t.Run("posted when approved with a reason", func(t *testing.T) {
		result, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
			CompanyID:          env.companyID,
			PledgeID:           p.ID,
			PaymentDate:        time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			Type:               pledge.PaymentTypePartialRedeem,
			Split:              split,
			AdjustmentReason:   "Late fee waived partially per branch manager",
			AdjustmentApproved: true,
		})
		require.NoError(t, err)
		// Net 5050 = 5000 + 100 penalty - 50 discount
		assert.Equal(t, "96950.00", result.RemainingBalance.StringFixed(2))

		voucher := env.voucherByNumber(t, result.VoucherNumber)
		require.NotNil(t, voucher)
		assert.True(t, voucher.IsBalanced())
		assert.Len(t, voucher.Entries, 5)
	})
}

func TestPaymentService_CreatePayment_Overpayment(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeFullRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(102001),
			InterestAmount:  decimal.NewFromInt(2001),
			PrincipalAmount: decimal.NewFromInt(100000),
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeOverpayment)

	reloaded := env.reloadPledge(t, p.ID)
	assert.Equal(t, pledge.StatusActive, reloaded.Status)
	assert.Equal(t, "102000.00", reloaded.RemainingBalance.StringFixed(2))
	assert.Empty(t, env.listPayments(t, p.ID))
}

func TestPaymentService_CreatePayment_NotFound(t *testing.T) {
	env := setupSettlementTest(t)

	_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    uuid.New(),
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	requireDomainErrCode(t, err, "NOT_FOUND")
}

func TestPaymentService_FullRedeem(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	result, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeFullRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(102000),
			InterestAmount:  decimal.NewFromInt(2000),
			PrincipalAmount: decimal.NewFromInt(100000),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, pledge.StatusRedeemed, result.Status)
	assert.True(t, result.RemainingBalance.IsZero())

	// A redeemed pledge accepts no further payments
	_, err = env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(100),
	})
	requireDomainErrCode(t, err, shared.ErrCodeInvalidPledgeState)
}

func TestPaymentService_UpdatePayment(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	created, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)
	oldVoucherID := created.Payment.VoucherID

	updated, err := env.payments.UpdatePayment(context.Background(), settlement.UpdatePaymentRequest{
		CompanyID:   env.companyID,
		PaymentID:   created.Payment.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypePartialRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(5000),
			InterestAmount:  decimal.NewFromInt(1800),
			PrincipalAmount: decimal.NewFromInt(3200),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "RCT-000001", updated.Payment.ReceiptNo)
	assert.Equal(t, "97000.00", updated.RemainingBalance.StringFixed(2))
	assert.Equal(t, "97000.00", updated.Payment.BalanceAmount.StringFixed(2))

	// The original voucher was retired and a replacement posted
	old, err := env.uow.Repos().Vouchers.FindByID(context.Background(), env.companyID, oldVoucherID)
	require.NoError(t, err)
	assert.Nil(t, old)
	replacement := env.voucherByNumber(t, updated.VoucherNumber)
	require.NotNil(t, replacement)
	assert.True(t, replacement.IsBalanced())

	reloaded := env.reloadPledge(t, p.ID)
	assert.Equal(t, "5000.00", reloaded.TotalPaid.StringFixed(2))
}

func TestPaymentService_UpdatePayment_SameNetAmendmentPersists(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	created, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)
	oldVoucherID := created.Payment.VoucherID

	// Same net, different composition: the 1800 moves from interest to principal
	updated, err := env.payments.UpdatePayment(context.Background(), settlement.UpdatePaymentRequest{
		CompanyID:   env.companyID,
		PaymentID:   created.Payment.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypePartialPrincipal,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(1800),
			PrincipalAmount: decimal.NewFromInt(1800),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "100200.00", updated.Payment.BalanceAmount.StringFixed(2))

	stored, err := env.uow.Repos().Payments.FindByID(context.Background(), env.companyID, created.Payment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, pledge.PaymentTypePartialPrincipal, stored.Type)
	assert.Equal(t, "1800.00", stored.PrincipalAmount.StringFixed(2))
	assert.True(t, stored.InterestAmount.IsZero())
	assert.Equal(t, "100200.00", stored.BalanceAmount.StringFixed(2))

	// The stored row references the replacement voucher, not the retired one
	old, err := env.uow.Repos().Vouchers.FindByID(context.Background(), env.companyID, oldVoucherID)
	require.NoError(t, err)
	assert.Nil(t, old)
	replacement, err := env.uow.Repos().Vouchers.FindByID(context.Background(), env.companyID, stored.VoucherID)
	require.NoError(t, err)
	require.NotNil(t, replacement)
	assert.True(t, replacement.IsBalanced())
}

func TestPaymentService_UpdatePayment_OverpaymentAgainstOthers(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	first, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)

	_, err = env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypePartialPrincipal,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(50000),
			PrincipalAmount: decimal.NewFromInt(50000),
		},
	})
	require.NoError(t, err)

	// 102000 - 50000 leaves 52000 headroom for the first payment
	_, err = env.payments.UpdatePayment(context.Background(), settlement.UpdatePaymentRequest{
		CompanyID:   env.companyID,
		PaymentID:   first.Payment.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypePartialRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(52001),
			InterestAmount:  decimal.NewFromInt(2001),
			PrincipalAmount: decimal.NewFromInt(50000),
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeOverpayment)
}

func TestPaymentService_DeletePayment_MovesStatusBackward(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	created, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeFullRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(102000),
			InterestAmount:  decimal.NewFromInt(2000),
			PrincipalAmount: decimal.NewFromInt(100000),
		},
	})
	require.NoError(t, err)
	require.Equal(t, pledge.StatusRedeemed, created.Status)

	result, err := env.payments.DeletePayment(context.Background(), env.companyID, created.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, pledge.StatusActive, result.Status)
	assert.Equal(t, "102000.00", result.RemainingBalance.StringFixed(2))

	assert.Empty(t, env.listPayments(t, p.ID))
	voucher, err := env.uow.Repos().Vouchers.FindByID(context.Background(), env.companyID, created.Payment.VoucherID)
	require.NoError(t, err)
	assert.Nil(t, voucher)
}

func TestPaymentService_DeletePayment_RecomputesRunningBalances(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	first, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)

	_, err = env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypePartialRedeem,
		Split: pledge.PaymentSplit{
			Amount:          decimal.NewFromInt(5000),
			InterestAmount:  decimal.NewFromInt(1800),
			PrincipalAmount: decimal.NewFromInt(3200),
		},
	})
	require.NoError(t, err)

	_, err = env.payments.DeletePayment(context.Background(), env.companyID, first.Payment.ID)
	require.NoError(t, err)

	surviving := env.listPayments(t, p.ID)
	require.Len(t, surviving, 1)
	assert.Equal(t, "97000.00", surviving[0].BalanceAmount.StringFixed(2))

	reloaded := env.reloadPledge(t, p.ID)
	assert.Equal(t, pledge.StatusPartialPaid, reloaded.Status)
	assert.Equal(t, "97000.00", reloaded.RemainingBalance.StringFixed(2))
}

func TestMultiPaymentService_CreateMultiPayment(t *testing.T) {
	env := setupSettlementTest(t)
	first := env.createTestPledge(t)
	second := env.createTestPledge(t)

	result, err := env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(3600),
		Legs: []settlement.PaymentLeg{
			{PledgeID: first.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
			{PledgeID: second.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Legs, 2)
	assert.Equal(t, "RCT-000001", result.ReceiptNo)
	for _, leg := range result.Legs {
		assert.Equal(t, "RCT-000001", leg.Payment.ReceiptNo)
		assert.Equal(t, pledge.StatusPartialPaid, leg.Status)
	}

	// Each leg hangs off the shared master voucher number
	assert.Equal(t, "RV-000001-01", result.Legs[0].VoucherNumber)
	assert.Equal(t, "RV-000001-02", result.Legs[1].VoucherNumber)
	for _, number := range []string{"RV-000001-01", "RV-000001-02"} {
		voucher := env.voucherByNumber(t, number)
		require.NotNil(t, voucher)
		assert.True(t, voucher.IsBalanced())
	}
}

func TestMultiPaymentService_AmountMismatch(t *testing.T) {
	env := setupSettlementTest(t)
	first := env.createTestPledge(t)
	second := env.createTestPledge(t)

	_, err := env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(4000),
		Legs: []settlement.PaymentLeg{
			{PledgeID: first.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
			{PledgeID: second.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeAmountMismatch)

	assert.Empty(t, env.listPayments(t, first.ID))
	assert.Empty(t, env.listPayments(t, second.ID))
}

func TestMultiPaymentService_OwnershipCheck(t *testing.T) {
	env := setupSettlementTest(t)
	first := env.createTestPledge(t)
	second := env.createTestPledge(t)

	// Pledges belong to different customers, so naming either one fails
	_, err := env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		CustomerID:  first.CustomerID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(3600),
		Legs: []settlement.PaymentLeg{
			{PledgeID: first.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
			{PledgeID: second.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeValidation)
	assert.Empty(t, env.listPayments(t, first.ID))

	// Same customer passes
	_, err = env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		CustomerID:  first.CustomerID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(1800),
		Legs: []settlement.PaymentLeg{
			{PledgeID: first.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
		},
	})
	require.NoError(t, err)
}

func TestMultiPaymentService_DuplicatePledgeRejected(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	_, err := env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(3600),
		Legs: []settlement.PaymentLeg{
			{PledgeID: p.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
			{PledgeID: p.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeValidation)
}

func TestMultiPaymentService_FailingLegRollsBackAll(t *testing.T) {
	env := setupSettlementTest(t)
	first := env.createTestPledge(t)
	second := env.createTestPledge(t)

	// The second leg overpays; the first leg is valid and processed first,
	// yet nothing may persist.
	_, err := env.multi.CreateMultiPayment(context.Background(), settlement.MultiPaymentRequest{
		CompanyID:   env.companyID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(201801),
		Legs: []settlement.PaymentLeg{
			{PledgeID: first.ID, Type: pledge.PaymentTypeInterest, Split: interestSplit(1800)},
			{PledgeID: second.ID, Type: pledge.PaymentTypeFullRedeem, Split: pledge.PaymentSplit{
				Amount:          decimal.NewFromInt(200001),
				InterestAmount:  decimal.NewFromInt(100001),
				PrincipalAmount: decimal.NewFromInt(100000),
			}},
		},
	})
	requireDomainErrCode(t, err, shared.ErrCodeOverpayment)

	assert.Empty(t, env.listPayments(t, first.ID))
	assert.Empty(t, env.listPayments(t, second.ID))
	reloaded := env.reloadPledge(t, first.ID)
	assert.Equal(t, pledge.StatusActive, reloaded.Status)
	assert.Equal(t, "102000.00", reloaded.RemainingBalance.StringFixed(2))
	assert.Nil(t, env.voucherByNumber(t, "RV-000001-01"))
}

func TestQuoteService_Quote(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	quote, err := env.quotes.Quote(context.Background(), env.companyID, p.ID,
		time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, quote.MonthsElapsed)
	assert.Equal(t, "5400.00", quote.TotalInterestDue.StringFixed(2))
	assert.Equal(t, "0.00", quote.InterestPaid.StringFixed(2))
	assert.Equal(t, "5400.00", quote.RemainingInterest.StringFixed(2))
	assert.Equal(t, "100000.00", quote.RemainingPrincipal.StringFixed(2))
	assert.Equal(t, "102000.00", quote.RemainingBalance.StringFixed(2))
	assert.Equal(t, pledge.StatusActive, quote.Status)
	assert.Len(t, quote.Periods, 3)
}

func TestQuoteService_Quote_ReflectsPayments(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(1800),
	})
	require.NoError(t, err)

	quote, err := env.quotes.Quote(context.Background(), env.companyID, p.ID,
		time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "1800.00", quote.InterestPaid.StringFixed(2))
	assert.Equal(t, "3600.00", quote.RemainingInterest.StringFixed(2))
	assert.Equal(t, "100200.00", quote.RemainingBalance.StringFixed(2))
	assert.Equal(t, pledge.StatusPartialPaid, quote.Status)
}

func TestQuoteService_Quote_ClampsRemaindersAtZero(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	// Interest paid ahead of accrual
	_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
		CompanyID:   env.companyID,
		PledgeID:    p.ID,
		PaymentDate: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
		Type:        pledge.PaymentTypeInterest,
		Split:       interestSplit(5000),
	})
	require.NoError(t, err)

	quote, err := env.quotes.Quote(context.Background(), env.companyID, p.ID,
		time.Date(2025, time.January, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "1800.00", quote.TotalInterestDue.StringFixed(2))
	assert.Equal(t, "0.00", quote.RemainingInterest.StringFixed(2))
}

func TestQuoteService_Quote_NotFound(t *testing.T) {
	env := setupSettlementTest(t)
	_, err := env.quotes.Quote(context.Background(), env.companyID, uuid.New(), time.Time{})
	requireDomainErrCode(t, err, "NOT_FOUND")
}

func TestLedgerService_ListAccounts(t *testing.T) {
	env := setupSettlementTest(t)
	env.createTestPledge(t)

	accounts, err := env.ledgers.ListAccounts(context.Background(), env.companyID)
	require.NoError(t, err)
	// Six system accounts plus the customer sub-account created at intake
	assert.Len(t, accounts, 7)

	voucher := env.voucherByNumber(t, "PV-000001")
	require.NotNil(t, voucher)
	got, err := env.ledgers.GetVoucher(context.Background(), env.companyID, voucher.ID)
	require.NoError(t, err)
	assert.Equal(t, "PV-000001", got.VoucherNumber)
}

func TestPledgeService_ListPayments(t *testing.T) {
	env := setupSettlementTest(t)
	p := env.createTestPledge(t)

	for _, month := range []time.Month{time.February, time.March} {
		_, err := env.payments.CreatePayment(context.Background(), settlement.PaymentRequest{
			CompanyID:   env.companyID,
			PledgeID:    p.ID,
			PaymentDate: time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC),
			Type:        pledge.PaymentTypeInterest,
			Split:       interestSplit(1800),
		})
		require.NoError(t, err)
	}

	payments, err := env.pledges.ListPayments(context.Background(), env.companyID, p.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// Oldest first
	assert.True(t, payments[0].PaymentDate.Before(payments[1].PaymentDate))
	assert.Equal(t, "RCT-000001", payments[0].ReceiptNo)
	assert.Equal(t, "RCT-000002", payments[1].ReceiptNo)
}
