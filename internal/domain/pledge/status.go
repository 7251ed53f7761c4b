package pledge

import "github.com/shopspring/decimal"

// Status represents the lifecycle state of a pledge
type Status string

const (
	StatusActive      Status = "ACTIVE"       // No payments received yet
	StatusPartialPaid Status = "PARTIAL_PAID" // Some but not all of the final amount paid
	StatusRedeemed    Status = "REDEEMED"     // Fully paid and closed
	StatusAuctioned   Status = "AUCTIONED"    // Closed through the auction workflow
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPartialPaid, StatusRedeemed, StatusAuctioned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanAcceptPayment returns true if payments may be posted in this status
func (s Status) CanAcceptPayment() bool {
	return s == StatusActive || s == StatusPartialPaid
}

// StatusFor derives the pledge status from cumulative payments. It is a pure
// function and deliberately not monotonic: deleting payments legally moves a
// pledge backward (redeemed -> partial_paid -> active). Auctioned is never
// produced here; it is set only by the auction workflow.
func StatusFor(totalPaid, finalAmount decimal.Decimal) Status {
	if totalPaid.GreaterThanOrEqual(finalAmount) {
		return StatusRedeemed
	}
	if totalPaid.IsPositive() {
		return StatusPartialPaid
	}
	return StatusActive
}
