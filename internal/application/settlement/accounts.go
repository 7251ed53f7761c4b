package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// postingAccounts are the accounts a settlement posting touches
type postingAccounts struct {
	cash            *ledger.Account
	customer        *ledger.Account
	interestIncome  *ledger.Account
	penaltyIncome   *ledger.Account
	chargesIncome   *ledger.Account
	discountExpense *ledger.Account
}

// resolvePostingAccounts loads the system accounts and the customer's
// sub-account, creating the latter on first use.
func resolvePostingAccounts(ctx context.Context, repos Repositories, companyID, customerID uuid.UUID) (*postingAccounts, error) {
	bySystemCode := func(code string) (*ledger.Account, error) {
		account, err := repos.Accounts.FindByCode(ctx, companyID, code)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, shared.NewDomainError("CHART_NOT_SEEDED",
				fmt.Sprintf("System account %s is missing; the chart of accounts was not seeded", code))
		}
		return account, nil
	}

	cash, err := bySystemCode(ledger.CodeCash)
	if err != nil {
		return nil, err
	}
	interestIncome, err := bySystemCode(ledger.CodeInterestIncome)
	if err != nil {
		return nil, err
	}
	penaltyIncome, err := bySystemCode(ledger.CodePenaltyIncome)
	if err != nil {
		return nil, err
	}
	chargesIncome, err := bySystemCode(ledger.CodeChargesIncome)
	if err != nil {
		return nil, err
	}
	discountExpense, err := bySystemCode(ledger.CodeDiscountExpense)
	if err != nil {
		return nil, err
	}

	customer, err := ensureCustomerAccount(ctx, repos, companyID, customerID)
	if err != nil {
		return nil, err
	}

	return &postingAccounts{
		cash:            cash,
		customer:        customer,
		interestIncome:  interestIncome,
		penaltyIncome:   penaltyIncome,
		chargesIncome:   chargesIncome,
		discountExpense: discountExpense,
	}, nil
}

// ensureCustomerAccount returns the customer's liability sub-account under
// Pledge Loans, creating it with the next bottom-up code on first use.
func ensureCustomerAccount(ctx context.Context, repos Repositories, companyID, customerID uuid.UUID) (*ledger.Account, error) {
	existing, err := repos.Accounts.FindByCustomer(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	parent, err := repos.Accounts.FindByCode(ctx, companyID, ledger.CodePledgeLoans)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, shared.NewDomainError("CHART_NOT_SEEDED", "Pledge Loans parent account is missing")
	}

	siblings, err := repos.Accounts.CountChildren(ctx, companyID, parent.ID)
	if err != nil {
		return nil, err
	}

	code := fmt.Sprintf("%s-%03d", parent.Code, siblings+1)
	account, err := ledger.NewAccount(companyID, code, fmt.Sprintf("Customer %s", customerID), parent.Type)
	if err != nil {
		return nil, err
	}
	account.ParentID = &parent.ID
	account.CustomerID = &customerID
	if err := repos.Accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
