package types

import (
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/samber/lo"
)

// ProrationStrategy selects the denominator used when apportioning a monthly
// value across a partial month.
//
// The two strategies give different amounts for the same interval whenever
// the billing day is smaller than the month length, so the strategy is always
// chosen explicitly (per call or from configuration), never defaulted
// silently inside a calculation.
type ProrationStrategy string

const (
	// ProrationStrategyDaysInMonth divides by the true number of days in the
	// calendar month. Billing-day independent.
	ProrationStrategyDaysInMonth ProrationStrategy = "days_in_month"

	// ProrationStrategyBillingDay divides by min(billingDay, daysInMonth),
	// crediting and charging consistently against the configured billing day.
	ProrationStrategyBillingDay ProrationStrategy = "billing_day"
)

func (s ProrationStrategy) String() string {
	return string(s)
}

func (s ProrationStrategy) Validate() error {
	allowedValues := []ProrationStrategy{
		ProrationStrategyDaysInMonth,
		ProrationStrategyBillingDay,
	}

	if !lo.Contains(allowedValues, s) {
		return ierr.NewError("invalid proration strategy").
			WithHint("Invalid proration strategy").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ProrationReason tags how a prorated amount was produced so consumers can
// switch exhaustively instead of inspecting the breakdown shape.
type ProrationReason string

const (
	// ProrationReasonFullCycle means the usage interval covered the whole
	// window and the full amount was returned untouched.
	ProrationReasonFullCycle ProrationReason = "full_cycle"

	// ProrationReasonProrated means the amount was apportioned month by month.
	ProrationReasonProrated ProrationReason = "prorated"

	// ProrationReasonNoOverlap means the usage interval and the window do not
	// intersect; the amount is zero. Not an error.
	ProrationReasonNoOverlap ProrationReason = "no_overlap"
)

func (r ProrationReason) String() string {
	return string(r)
}
