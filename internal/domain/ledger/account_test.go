package ledger

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_IsValid(t *testing.T) {
	assert.True(t, AccountTypeAsset.IsValid())
	assert.True(t, AccountTypeLiability.IsValid())
	assert.True(t, AccountTypeIncome.IsValid())
	assert.True(t, AccountTypeExpense.IsValid())
	assert.True(t, AccountTypeEquity.IsValid())
	assert.False(t, AccountType("BOGUS").IsValid())
}

func TestNewDefaultChart(t *testing.T) {
	companyID := uuid.New()
	chart, err := NewDefaultChart(companyID)
	require.NoError(t, err)

	assert.Equal(t, 6, chart.Len())
	for _, code := range []string{CodeCash, CodePledgeLoans, CodeInterestIncome,
		CodePenaltyIncome, CodeChargesIncome, CodeDiscountExpense} {
		account := chart.GetByCode(code)
		require.NotNil(t, account, "missing account %s", code)
		assert.True(t, account.IsSystem)
	}
	assert.Equal(t, AccountTypeLiability, chart.GetByCode(CodePledgeLoans).Type)
	assert.Equal(t, AccountTypeIncome, chart.GetByCode(CodeInterestIncome).Type)
}

func TestChart_AddRequiresExistingParent(t *testing.T) {
	companyID := uuid.New()
	chart := NewChart(companyID)

	orphan, err := NewAccount(companyID, "9999", "Orphan", AccountTypeAsset)
	require.NoError(t, err)
	missingParent := uuid.New()
	orphan.ParentID = &missingParent

	err = chart.Add(orphan)
	require.Error(t, err)
}

func TestChart_AddRejectsDuplicates(t *testing.T) {
	companyID := uuid.New()
	chart := NewChart(companyID)

	a, err := NewAccount(companyID, "1001", "Cash", AccountTypeAsset)
	require.NoError(t, err)
	require.NoError(t, chart.Add(a))

	dup, err := NewAccount(companyID, "1001", "Cash Again", AccountTypeAsset)
	require.NoError(t, err)
	assert.Error(t, chart.Add(dup))
}

func TestChart_AddRejectsWrongCompany(t *testing.T) {
	chart := NewChart(uuid.New())
	other, err := NewAccount(uuid.New(), "1001", "Cash", AccountTypeAsset)
	require.NoError(t, err)
	assert.Error(t, chart.Add(other))
}

func TestChart_AddChildAssignsSequentialCodes(t *testing.T) {
	companyID := uuid.New()
	chart, err := NewDefaultChart(companyID)
	require.NoError(t, err)
	parent := chart.GetByCode(CodePledgeLoans)

	for i := 1; i <= 3; i++ {
		child, err := chart.AddChild(parent.ID, fmt.Sprintf("Customer %d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%s-%03d", CodePledgeLoans, i), child.Code)
		assert.True(t, child.IsChildOf(parent))
		assert.Equal(t, parent.Type, child.Type)
	}
}

func TestChart_AddChildUnknownParent(t *testing.T) {
	chart := NewChart(uuid.New())
	_, err := chart.AddChild(uuid.New(), "Customer")
	assert.Error(t, err)
}

func TestNewAccount_Validation(t *testing.T) {
	companyID := uuid.New()

	_, err := NewAccount(companyID, "", "Cash", AccountTypeAsset)
	assert.Error(t, err)

	_, err = NewAccount(companyID, "1001", "", AccountTypeAsset)
	assert.Error(t, err)

	_, err = NewAccount(companyID, "1001", "Cash", AccountType("BOGUS"))
	assert.Error(t, err)
}
