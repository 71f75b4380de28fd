package proration

import (
	"time"

	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
)

// Params holds all necessary input for a proration calculation.
type Params struct {
	// Usage interval being priced
	UsageStart time.Time
	UsageEnd   time.Time

	// Cycle window the usage is billed against
	WindowStart time.Time
	WindowEnd   time.Time

	// Full-cycle value of whatever is being prorated
	FullAmount decimal.Decimal

	// BillingDay feeds the billing-day denominator strategy; the
	// days-in-month strategy ignores it.
	BillingDay int
}

// MonthSegment is one calendar month's share of a prorated amount, recorded
// for auditability.
type MonthSegment struct {
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	ActiveDays  int             `json:"active_days"`
	DaysInMonth int             `json:"days_in_month"`
	Denominator int             `json:"denominator"`
	Fraction    decimal.Decimal `json:"fraction"`
	Amount      decimal.Decimal `json:"amount"`
}

// Result holds the output of a proration calculation. Amount is always the
// exact sum of the month segment amounts: each segment is rounded to two
// decimal places and the total is the sum of rounded segments, so the
// breakdown reconciles with the total to the cent.
type Result struct {
	Amount decimal.Decimal       `json:"amount"`
	Reason types.ProrationReason `json:"reason"`
	Months []MonthSegment        `json:"months,omitempty"`
}

// FullCycle reports whether the usage covered the whole window, in which
// case Amount is the untouched full amount.
func (r *Result) FullCycle() bool {
	return r.Reason == types.ProrationReasonFullCycle
}
