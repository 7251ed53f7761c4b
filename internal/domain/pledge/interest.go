package pledge

import (
	"fmt"
	"time"

	"github.com/pawnshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccrualPeriod is one month of the interest breakdown, kept for audit and
// settlement-quote display. Charging never depends on Days or Partial; every
// elapsed calendar month is billed in full at the monthly rate.
type AccrualPeriod struct {
	Label     string          `json:"period_label"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Days      int             `json:"days"`
	Rate      decimal.Decimal `json:"rate"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Mandatory bool            `json:"is_mandatory"`
	Partial   bool            `json:"is_partial"`
}

// AccrualResult is the interest owed on a pledge as of a given date
type AccrualResult struct {
	TotalInterestDue decimal.Decimal `json:"total_interest_due"`
	MonthsElapsed    int             `json:"months_elapsed"`
	Periods          []AccrualPeriod `json:"periods"`
}

// MonthsElapsed computes the calendar-month difference between the pledge
// date and the as-of date, counting a month only once its anniversary day has
// been reached.
func MonthsElapsed(pledgeDate, asOf time.Time) int {
	months := (asOf.Year()-pledgeDate.Year())*12 + int(asOf.Month()) - int(pledgeDate.Month())
	if asOf.Day() < pledgeDate.Day() {
		months--
	}
	return months
}

// ComputeAccrual calculates the interest due on a pledge as of a given date.
// It is a pure function with no side effects.
//
// The first month's interest is collected at pledge creation and is always
// due exactly as collected; it is never recomputed. A settlement that falls
// within the first calendar month therefore owes the first-month interest
// and nothing more, regardless of how many days have elapsed. From the first
// anniversary onward, each elapsed calendar month is charged in full at the
// monthly rate, with no day-level proration of a trailing partial month.
func ComputeAccrual(loanAmount, monthlyRatePct, firstMonthInterest decimal.Decimal, pledgeDate, asOf time.Time) (*AccrualResult, error) {
	pledgeDate = truncateToDay(pledgeDate)
	asOf = truncateToDay(asOf)

	if asOf.Before(pledgeDate) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
			fmt.Sprintf("Settlement date %s is before pledge date %s",
				asOf.Format("2006-01-02"), pledgeDate.Format("2006-01-02")))
	}
	if !loanAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_LOAN_AMOUNT", "Loan amount must be positive")
	}
	if monthlyRatePct.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Monthly rate cannot be negative")
	}

	monthsElapsed := MonthsElapsed(pledgeDate, asOf)
	if monthsElapsed < 0 {
		monthsElapsed = 0
	}

	monthlyInterest := loanAmount.Mul(monthlyRatePct).Div(decimal.NewFromInt(100)).Round(2)

	periods := make([]AccrualPeriod, 0, monthsElapsed+1)
	total := firstMonthInterest
	for i := 0; i <= monthsElapsed; i++ {
		from := addMonthsClamped(pledgeDate, i)
		to := addMonthsClamped(pledgeDate, i+1)
		p := AccrualPeriod{
			Label:     from.Format("Jan 2006"),
			From:      from,
			To:        to,
			Days:      int(to.Sub(from).Hours() / 24),
			Rate:      monthlyRatePct,
			Principal: loanAmount,
			Partial:   asOf.Before(to),
		}
		if i == 0 {
			p.Interest = firstMonthInterest
			p.Mandatory = true
		} else {
			p.Interest = monthlyInterest
			total = total.Add(monthlyInterest)
		}
		periods = append(periods, p)
	}

	return &AccrualResult{
		TotalInterestDue: total,
		MonthsElapsed:    monthsElapsed,
		Periods:          periods,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addMonthsClamped advances t by whole months, clamping the day to the last
// day of shorter months. A Jan 31 anchor lands on Feb 28, not Mar 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), time.Month(int(t.Month())+months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
