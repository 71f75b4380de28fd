package types

import (
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/samber/lo"
)

// BillingCycle is the billing cycle for a sales order ex MONTHLY, QUARTERLY
type BillingCycle string

const (
	// BILLING_CYCLE_MONTHLY cycles end on the configured billing day of each month
	BILLING_CYCLE_MONTHLY BillingCycle = "MONTHLY"

	// BILLING_CYCLE_QUARTERLY cycles end on the fixed calendar quarter ends
	// (Mar 31, Jun 30, Sep 30, Dec 31) regardless of the sales order start
	BILLING_CYCLE_QUARTERLY BillingCycle = "QUARTERLY"

	// BILLING_CYCLE_HALF_YEARLY cycles end on Jun 30 and Dec 31
	BILLING_CYCLE_HALF_YEARLY BillingCycle = "HALF_YEARLY"

	// BILLING_CYCLE_YEARLY cycles end exactly 12 months after the previous
	// cycle end, anchored to the sales order rather than the calendar
	BILLING_CYCLE_YEARLY BillingCycle = "YEARLY"
)

func (c BillingCycle) String() string {
	return string(c)
}

// RequiresBillingDay reports whether the cycle needs a configured billing day.
// Only monthly cycles are governed by a billing day.
func (c BillingCycle) RequiresBillingDay() bool {
	return c == BILLING_CYCLE_MONTHLY
}

func (c BillingCycle) Validate() error {
	allowedValues := []BillingCycle{
		BILLING_CYCLE_MONTHLY,
		BILLING_CYCLE_QUARTERLY,
		BILLING_CYCLE_HALF_YEARLY,
		BILLING_CYCLE_YEARLY,
	}

	if !lo.Contains(allowedValues, c) {
		return ierr.NewError("invalid billing cycle").
			WithHint("Invalid billing cycle").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
