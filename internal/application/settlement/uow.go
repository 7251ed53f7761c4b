package settlement

import (
	"context"

	"github.com/pawnshop/backend/internal/domain/ledger"
	"github.com/pawnshop/backend/internal/domain/pledge"
)

// Repositories bundles the repositories a settlement operation works with.
// Inside a unit of work all repositories share one database transaction.
type Repositories struct {
	Pledges  pledge.Repository
	Payments pledge.PaymentRepository
	Accounts ledger.AccountRepository
	Vouchers ledger.VoucherRepository
}

// UnitOfWork scopes repository access to a single request. Execute runs fn
// inside one database transaction: if fn returns an error nothing is
// persisted. Repos returns non-transactional repositories for read-only
// paths such as settlement quotes, which take no locks.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Repos() Repositories
}
