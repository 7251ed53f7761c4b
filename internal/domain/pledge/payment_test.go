package pledge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentType_IsValid(t *testing.T) {
	tests := []struct {
		paymentType PaymentType
		isValid     bool
	}{
		{PaymentTypeInterest, true},
		{PaymentTypePrincipal, true},
		{PaymentTypePartialPrincipal, true},
		{PaymentTypePartialRedeem, true},
		{PaymentTypeFullRedeem, true},
		{PaymentType("INVALID"), false},
		{PaymentType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.paymentType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.paymentType.IsValid())
		})
	}
}

func TestPaymentSplit_Validate(t *testing.T) {
	tests := []struct {
		name    string
		split   PaymentSplit
		wantErr bool
	}{
		{
			name: "interest only",
			split: PaymentSplit{
				Amount:         decimal.NewFromInt(1800),
				InterestAmount: decimal.NewFromInt(1800),
			},
		},
		{
			name: "interest plus principal",
			split: PaymentSplit{
				Amount:          decimal.NewFromInt(5000),
				InterestAmount:  decimal.NewFromInt(1800),
				PrincipalAmount: decimal.NewFromInt(3200),
			},
		},
		{
			name: "penalty and discount ride on top",
			split: PaymentSplit{
				Amount:          decimal.NewFromInt(5000),
				InterestAmount:  decimal.NewFromInt(1800),
				PrincipalAmount: decimal.NewFromInt(3200),
				PenaltyAmount:   decimal.NewFromInt(100),
				DiscountAmount:  decimal.NewFromInt(50),
			},
		},
		{
			name: "split does not sum to amount",
			split: PaymentSplit{
				Amount:          decimal.NewFromInt(5000),
				InterestAmount:  decimal.NewFromInt(1800),
				PrincipalAmount: decimal.NewFromInt(3000),
			},
			wantErr: true,
		},
		{
			name: "negative component",
			split: PaymentSplit{
				Amount:          decimal.NewFromInt(1000),
				InterestAmount:  decimal.NewFromInt(2000),
				PrincipalAmount: decimal.NewFromInt(-1000),
			},
			wantErr: true,
		},
		{
			name: "discount swallows the whole payment",
			split: PaymentSplit{
				Amount:         decimal.NewFromInt(100),
				InterestAmount: decimal.NewFromInt(100),
				DiscountAmount: decimal.NewFromInt(100),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.split.Validate()
			if tt.wantErr {
				require.Error(t, err)
				domainErr, ok := err.(*shared.DomainError)
				require.True(t, ok)
				assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentSplit_Net(t *testing.T) {
	split := PaymentSplit{
		Amount:          decimal.NewFromInt(5000),
		InterestAmount:  decimal.NewFromInt(1800),
		PrincipalAmount: decimal.NewFromInt(3200),
		PenaltyAmount:   decimal.NewFromInt(100),
		DiscountAmount:  decimal.NewFromInt(50),
	}
	assert.True(t, decimal.NewFromInt(5050).Equal(split.Net()))
}

func TestNewPledgePayment(t *testing.T) {
	split := PaymentSplit{
		Amount:         decimal.NewFromInt(1800),
		InterestAmount: decimal.NewFromInt(1800),
	}

	payment, err := NewPledgePayment(uuid.New(), uuid.New(),
		date(2025, time.February, 1), PaymentTypeInterest, split, "RCT-000001")
	require.NoError(t, err)
	assert.Equal(t, "RCT-000001", payment.ReceiptNo)
	assert.True(t, decimal.NewFromInt(1800).Equal(payment.NetAmount()))
	assert.False(t, payment.HasAdjustment())
}

func TestNewPledgePayment_Validation(t *testing.T) {
	split := PaymentSplit{
		Amount:         decimal.NewFromInt(1800),
		InterestAmount: decimal.NewFromInt(1800),
	}

	t.Run("nil pledge ID", func(t *testing.T) {
		_, err := NewPledgePayment(uuid.New(), uuid.Nil,
			date(2025, time.February, 1), PaymentTypeInterest, split, "RCT-000001")
		assert.Error(t, err)
	})

	t.Run("zero payment date", func(t *testing.T) {
		_, err := NewPledgePayment(uuid.New(), uuid.New(),
			time.Time{}, PaymentTypeInterest, split, "RCT-000001")
		assert.Error(t, err)
	})

	t.Run("invalid payment type", func(t *testing.T) {
		_, err := NewPledgePayment(uuid.New(), uuid.New(),
			date(2025, time.February, 1), PaymentType("BOGUS"), split, "RCT-000001")
		assert.Error(t, err)
	})
}

func TestPledgePayment_HasAdjustment(t *testing.T) {
	payment, err := NewPledgePayment(uuid.New(), uuid.New(),
		date(2025, time.February, 1), PaymentTypeInterest, PaymentSplit{
			Amount:         decimal.NewFromInt(1800),
			InterestAmount: decimal.NewFromInt(1800),
			PenaltyAmount:  decimal.NewFromInt(50),
		}, "RCT-000002")
	require.NoError(t, err)
	assert.True(t, payment.HasAdjustment())
}
