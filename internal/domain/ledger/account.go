package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/shared"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeEquity    AccountType = "EQUITY"
)

// IsValid checks if the account type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome,
		AccountTypeExpense, AccountTypeEquity:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Well-known account codes seeded for every company. Customer sub-accounts
// hang under CodePledgeLoans with codes assigned bottom-up at creation time.
const (
	CodeCash            = "1001"
	CodePledgeLoans     = "2001"
	CodeInterestIncome  = "4001"
	CodePenaltyIncome   = "4002"
	CodeChargesIncome   = "4003"
	CodeDiscountExpense = "5001"
)

// Account is a node in the chart of accounts. The parent reference is always
// resolved against an existing account at creation time, so the tree is
// acyclic by construction and never needs traversal checks.
type Account struct {
	shared.CompanyAggregateRoot
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Type       AccountType `json:"type"`
	ParentID   *uuid.UUID  `json:"parent_id,omitempty"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	IsSystem   bool        `json:"is_system"`
}

// NewAccount creates a root-level account
func NewAccount(companyID uuid.UUID, code, name string, accountType AccountType) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("%q is not a valid account type", accountType))
	}
	return &Account{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Code:                 code,
		Name:                 name,
		Type:                 accountType,
	}, nil
}

// IsChildOf returns true if the account's parent is the given account
func (a *Account) IsChildOf(parent *Account) bool {
	return a.ParentID != nil && parent != nil && *a.ParentID == parent.ID
}

// Chart is an arena of accounts indexed by ID. Accounts are added leaves-last:
// a child can only reference a parent that is already in the arena, which
// rules out cycles without any traversal.
type Chart struct {
	companyID uuid.UUID
	byID      map[uuid.UUID]*Account
	byCode    map[string]*Account
	children  map[uuid.UUID]int
}

// NewChart creates an empty chart of accounts for a company
func NewChart(companyID uuid.UUID) *Chart {
	return &Chart{
		companyID: companyID,
		byID:      make(map[uuid.UUID]*Account),
		byCode:    make(map[string]*Account),
		children:  make(map[uuid.UUID]int),
	}
}

// Add inserts an account into the arena. The account's parent, if set, must
// already be present.
func (c *Chart) Add(account *Account) error {
	if account.CompanyID != c.companyID {
		return shared.NewDomainError("INVALID_COMPANY", "Account belongs to a different company")
	}
	if _, exists := c.byID[account.ID]; exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Account %s already in chart", account.Code))
	}
	if _, exists := c.byCode[account.Code]; exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Account code %s already in use", account.Code))
	}
	if account.ParentID != nil {
		if _, ok := c.byID[*account.ParentID]; !ok {
			return shared.NewDomainError("PARENT_NOT_FOUND", fmt.Sprintf("Parent of account %s is not in the chart", account.Code))
		}
	}
	c.byID[account.ID] = account
	c.byCode[account.Code] = account
	if account.ParentID != nil {
		c.children[*account.ParentID]++
	}
	return nil
}

// AddChild creates and inserts a sub-account under an existing parent,
// assigning the next hierarchical code (e.g. "2001-003").
func (c *Chart) AddChild(parentID uuid.UUID, name string) (*Account, error) {
	parent, ok := c.byID[parentID]
	if !ok {
		return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent account is not in the chart")
	}
	code := fmt.Sprintf("%s-%03d", parent.Code, c.children[parentID]+1)
	account, err := NewAccount(c.companyID, code, name, parent.Type)
	if err != nil {
		return nil, err
	}
	account.ParentID = &parent.ID
	if err := c.Add(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Get returns the account with the given ID, or nil
func (c *Chart) Get(id uuid.UUID) *Account {
	return c.byID[id]
}

// GetByCode returns the account with the given code, or nil
func (c *Chart) GetByCode(code string) *Account {
	return c.byCode[code]
}

// Len returns the number of accounts in the chart
func (c *Chart) Len() int {
	return len(c.byID)
}

// Accounts returns all accounts in the chart in insertion-independent order
func (c *Chart) Accounts() []*Account {
	accounts := make([]*Account, 0, len(c.byID))
	for _, a := range c.byID {
		accounts = append(accounts, a)
	}
	return accounts
}

// seedAccount describes one entry of the default chart
type seedAccount struct {
	code string
	name string
	typ  AccountType
}

var defaultChart = []seedAccount{
	{CodeCash, "Cash", AccountTypeAsset},
	{CodePledgeLoans, "Pledge Loans", AccountTypeLiability},
	{CodeInterestIncome, "Interest Income", AccountTypeIncome},
	{CodePenaltyIncome, "Penalty Income", AccountTypeIncome},
	{CodeChargesIncome, "Document Charges", AccountTypeIncome},
	{CodeDiscountExpense, "Discount Allowed", AccountTypeExpense},
}

// NewDefaultChart builds the seed chart of accounts for a new company
func NewDefaultChart(companyID uuid.UUID) (*Chart, error) {
	chart := NewChart(companyID)
	for _, s := range defaultChart {
		account, err := NewAccount(companyID, s.code, s.name, s.typ)
		if err != nil {
			return nil, err
		}
		account.IsSystem = true
		if err := chart.Add(account); err != nil {
			return nil, err
		}
	}
	return chart, nil
}
