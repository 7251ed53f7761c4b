package pledge

import (
	"testing"
	"time"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsElapsed(t *testing.T) {
	pledgeDate := date(2025, time.January, 15)

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"same day", date(2025, time.January, 15), 0},
		{"next day", date(2025, time.January, 16), 0},
		{"end of first month", date(2025, time.January, 31), 0},
		{"day before first anniversary", date(2025, time.February, 14), 0},
		{"first anniversary", date(2025, time.February, 15), 1},
		{"mid second month", date(2025, time.February, 16), 1},
		{"second anniversary", date(2025, time.March, 15), 2},
		{"mid third month", date(2025, time.March, 16), 2},
		{"one year", date(2026, time.January, 15), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsElapsed(pledgeDate, tt.asOf))
		})
	}
}

func TestComputeAccrual_SameMonthChargesExactlyFirstMonthInterest(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)
	pledgeDate := date(2025, time.January, 15)

	// Any settlement date inside the first calendar month owes exactly the
	// first-month interest, no matter how many days have passed.
	for day := 15; day <= 31; day++ {
		asOf := date(2025, time.January, day)
		result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, asOf)
		require.NoError(t, err)
		assert.True(t, fmi.Equal(result.TotalInterestDue),
			"day %d: expected %s, got %s", day, fmi, result.TotalInterestDue)
		assert.Equal(t, 0, result.MonthsElapsed)
		assert.Len(t, result.Periods, 1)
		assert.True(t, result.Periods[0].Mandatory)
	}
}

func TestComputeAccrual_SameMonthRegression(t *testing.T) {
	// 90000 at 2% monthly, pledged 2025-01-15. A quote on any day through the
	// end of January owes 1800, not 1800 plus another month.
	loan := decimal.NewFromInt(90000)
	rate := decimal.NewFromInt(2)
	fmi := decimal.NewFromInt(1800)
	pledgeDate := date(2025, time.January, 15)

	for day := 16; day <= 31; day++ {
		result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, date(2025, time.January, day))
		require.NoError(t, err)
		assert.True(t, fmi.Equal(result.TotalInterestDue),
			"day %d: expected 1800, got %s", day, result.TotalInterestDue)
	}
}

func TestComputeAccrual_FullMonthsNoProration(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)
	pledgeDate := date(2025, time.January, 15)

	tests := []struct {
		name string
		asOf time.Time
		want decimal.Decimal
	}{
		{"one month and a day", date(2025, time.February, 16), decimal.NewFromInt(3600)},
		{"two months and a day", date(2025, time.March, 16), decimal.NewFromInt(5400)},
		{"exactly one anniversary", date(2025, time.February, 15), decimal.NewFromInt(3600)},
		{"day before anniversary", date(2025, time.February, 14), decimal.NewFromInt(1800)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, tt.asOf)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(result.TotalInterestDue),
				"expected %s, got %s", tt.want, result.TotalInterestDue)
		})
	}
}

func TestComputeAccrual_PeriodBreakdown(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)
	pledgeDate := date(2025, time.January, 15)

	result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, date(2025, time.March, 16))
	require.NoError(t, err)

	require.Len(t, result.Periods, 3)
	assert.Equal(t, date(2025, time.January, 15), result.Periods[0].From)
	assert.Equal(t, date(2025, time.February, 15), result.Periods[0].To)
	assert.True(t, result.Periods[0].Mandatory)
	assert.False(t, result.Periods[1].Mandatory)
	assert.Equal(t, date(2025, time.February, 15), result.Periods[1].From)
	assert.Equal(t, date(2025, time.March, 15), result.Periods[1].To)
	// Trailing month is marked partial for display but still billed in full
	assert.True(t, result.Periods[2].Partial)
	assert.True(t, decimal.NewFromInt(1800).Equal(result.Periods[2].Interest))

	sum := decimal.Zero
	for _, p := range result.Periods {
		sum = sum.Add(p.Interest)
	}
	assert.True(t, sum.Equal(result.TotalInterestDue))
}

func TestComputeAccrual_MonthEndAnchorsClamped(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)
	pledgeDate := date(2025, time.January, 31)

	result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, date(2025, time.March, 31))
	require.NoError(t, err)

	assert.Equal(t, 2, result.MonthsElapsed)
	require.Len(t, result.Periods, 3)
	// Short months clamp to their last day instead of spilling over
	assert.Equal(t, date(2025, time.February, 28), result.Periods[0].To)
	assert.Equal(t, date(2025, time.February, 28), result.Periods[1].From)
	assert.Equal(t, date(2025, time.March, 31), result.Periods[1].To)
	assert.Equal(t, 28, result.Periods[0].Days)
	assert.Equal(t, 31, result.Periods[1].Days)
}

func TestComputeAccrual_SettlementBeforePledgeDate(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)

	_, err := ComputeAccrual(loan, rate, fmi, date(2025, time.January, 15), date(2025, time.January, 14))
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, shared.ErrCodeInvalidDateRange, domainErr.Code)
}

func TestComputeAccrual_TimeOfDayIgnored(t *testing.T) {
	loan := decimal.NewFromInt(100000)
	rate := decimal.RequireFromString("1.8")
	fmi := decimal.NewFromInt(1800)
	pledgeDate := time.Date(2025, time.January, 15, 23, 59, 0, 0, time.UTC)
	asOf := time.Date(2025, time.January, 15, 0, 1, 0, 0, time.UTC)

	// Later time-of-day on the pledge date must not make asOf "before" it
	result, err := ComputeAccrual(loan, rate, fmi, pledgeDate, asOf)
	require.NoError(t, err)
	assert.True(t, fmi.Equal(result.TotalInterestDue))
}

func TestComputeAccrual_MonthlyInterestRounding(t *testing.T) {
	// 33333 * 1.5% = 499.995, rounds to 500.00
	loan := decimal.NewFromInt(33333)
	rate := decimal.RequireFromString("1.5")
	fmi := decimal.NewFromInt(500)

	result, err := ComputeAccrual(loan, rate, fmi, date(2025, time.January, 1), date(2025, time.February, 2))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(result.TotalInterestDue),
		"got %s", result.TotalInterestDue)
}
