package types

import (
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/samber/lo"
)

// UADStatus is the lifecycle status of a usage agreement
type UADStatus string

const (
	UADStatusDraft  UADStatus = "DRAFT"
	UADStatusActive UADStatus = "ACTIVE"
	UADStatusEnded  UADStatus = "ENDED"
)

func (s UADStatus) String() string {
	return string(s)
}

// Billable reports whether a usage agreement in this status contributes to
// period aggregations. Ended agreements are excluded.
func (s UADStatus) Billable() bool {
	return s == UADStatusDraft || s == UADStatusActive
}

func (s UADStatus) Validate() error {
	allowedValues := []UADStatus{
		UADStatusDraft,
		UADStatusActive,
		UADStatusEnded,
	}

	if !lo.Contains(allowedValues, s) {
		return ierr.NewError("invalid usage agreement status").
			WithHint("Invalid usage agreement status").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
