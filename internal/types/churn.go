package types

import (
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/samber/lo"
)

// ChurnMode controls how cancelling line items is settled financially.
type ChurnMode string

const (
	// ChurnModeEndOfPeriod bills the customer in full through the current
	// cycle; no refund is issued.
	ChurnModeEndOfPeriod ChurnMode = "end_of_period"

	// ChurnModeProrated refunds the unused portion of the cancelled value
	// based on days elapsed before the effective date.
	ChurnModeProrated ChurnMode = "prorated"
)

func (m ChurnMode) String() string {
	return string(m)
}

func (m ChurnMode) Validate() error {
	allowedValues := []ChurnMode{
		ChurnModeEndOfPeriod,
		ChurnModeProrated,
	}

	if !lo.Contains(allowedValues, m) {
		return ierr.NewError("invalid churn mode").
			WithHint("Invalid churn mode").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": m,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
