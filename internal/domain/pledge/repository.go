package pledge

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to pledges
type Repository interface {
	// FindByID finds a pledge by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Pledge, error)
	// FindByIDForUpdate finds a pledge and takes a row-level lock for the
	// duration of the surrounding transaction. Payment posting must use
	// this so two concurrent payments against the same pledge serialize
	// instead of both reading the same remaining balance.
	FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*Pledge, error)
	// FindByCustomer lists a customer's pledges
	FindByCustomer(ctx context.Context, companyID, customerID uuid.UUID) ([]Pledge, error)
	// NextPledgeNumber generates the next pledge number for a company
	NextPledgeNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	// Save creates or updates a pledge
	Save(ctx context.Context, p *Pledge) error
}

// PaymentRepository provides access to pledge payments
type PaymentRepository interface {
	// FindByID finds a payment by ID within a company
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*PledgePayment, error)
	// FindByPledge lists all surviving payments for a pledge, oldest first
	FindByPledge(ctx context.Context, companyID, pledgeID uuid.UUID) ([]PledgePayment, error)
	// NextReceiptNumber generates the next receipt number for a company
	NextReceiptNumber(ctx context.Context, companyID uuid.UUID) (string, error)
	// Save creates or updates a payment
	Save(ctx context.Context, payment *PledgePayment) error
	// Delete removes a payment row
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
