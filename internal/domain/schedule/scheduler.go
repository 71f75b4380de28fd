package schedule

import (
	"time"

	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
)

// Cycle boundary rules:
//
//   - MONTHLY ends on min(billingDay, daysInMonth) of each month.
//   - QUARTERLY ends on the fixed calendar quarter ends (Mar 31, Jun 30,
//     Sep 30, Dec 31) regardless of when the sales order started. A sales
//     order starting mid-quarter gets a short first cycle. This matches the
//     agreed billing behavior and must not be "fixed" to anchor-relative
//     quarters.
//   - HALF_YEARLY ends on Jun 30 and Dec 31, same fixed-calendar rule.
//   - YEARLY is anchor-relative: each cycle ends exactly 12 months after the
//     previous one, with month-end clamping.
//
// All functions are date-only and return midnight-UTC dates.

// FirstCycleEnd returns the earliest cycle end on or after the given date.
func FirstCycleEnd(date time.Time, cycle types.BillingCycle, billingDay int) (time.Time, error) {
	if err := validateCycleConfig(cycle, billingDay); err != nil {
		return time.Time{}, err
	}

	d := types.StartOfDay(date)

	switch cycle {
	case types.BILLING_CYCLE_MONTHLY:
		end := monthlyCycleEnd(d.Year(), d.Month(), billingDay)
		if end.Before(d) {
			next := types.BeginningOfMonth(d).AddDate(0, 1, 0)
			end = monthlyCycleEnd(next.Year(), next.Month(), billingDay)
		}
		return end, nil

	case types.BILLING_CYCLE_QUARTERLY:
		// Last day of the quarter containing d is never before d.
		quarterEndMonth := ((d.Month()-1)/3)*3 + 3
		return lastDayOfMonth(d.Year(), quarterEndMonth), nil

	case types.BILLING_CYCLE_HALF_YEARLY:
		if d.Month() <= time.June {
			return lastDayOfMonth(d.Year(), time.June), nil
		}
		return lastDayOfMonth(d.Year(), time.December), nil

	case types.BILLING_CYCLE_YEARLY:
		// A full year from the anchor, inclusive end.
		return types.AddClampedDate(d, 1, 0, -1), nil
	}

	return time.Time{}, unsupportedCycleError(cycle)
}

// NextCycleEnd returns the cycle end that follows prevEnd.
func NextCycleEnd(prevEnd time.Time, cycle types.BillingCycle, billingDay int) (time.Time, error) {
	if err := validateCycleConfig(cycle, billingDay); err != nil {
		return time.Time{}, err
	}

	d := types.StartOfDay(prevEnd)

	switch cycle {
	case types.BILLING_CYCLE_MONTHLY:
		next := types.BeginningOfMonth(d).AddDate(0, 1, 0)
		return monthlyCycleEnd(next.Year(), next.Month(), billingDay), nil

	case types.BILLING_CYCLE_QUARTERLY:
		next := types.BeginningOfMonth(d).AddDate(0, 3, 0)
		return lastDayOfMonth(next.Year(), next.Month()), nil

	case types.BILLING_CYCLE_HALF_YEARLY:
		next := types.BeginningOfMonth(d).AddDate(0, 6, 0)
		return lastDayOfMonth(next.Year(), next.Month()), nil

	case types.BILLING_CYCLE_YEARLY:
		return types.AddClampedDate(d, 1, 0, 0), nil
	}

	return time.Time{}, unsupportedCycleError(cycle)
}

// Window returns the index-th cycle window for a schedule anchored at
// anchorDate. Window 0 starts at the anchor; window n starts the day after
// window n-1 ends. Windows are contiguous and non-overlapping by
// construction.
func Window(anchorDate time.Time, index int, cycle types.BillingCycle, billingDay int) (types.DateRange, error) {
	if index < 0 {
		return types.DateRange{}, ierr.NewErrorf("cycle index must be non-negative, got %d", index).
			WithHint("Cycle index must be non-negative").
			Mark(ierr.ErrValidation)
	}

	start := types.StartOfDay(anchorDate)
	end, err := FirstCycleEnd(start, cycle, billingDay)
	if err != nil {
		return types.DateRange{}, err
	}

	for i := 0; i < index; i++ {
		start = end.AddDate(0, 0, 1)
		end, err = NextCycleEnd(end, cycle, billingDay)
		if err != nil {
			return types.DateRange{}, err
		}
	}

	return types.DateRange{Start: start, End: end}, nil
}

// Windows returns the ordered cycle windows covering [anchorDate,
// horizonEnd], with the final window clamped to the horizon.
func Windows(anchorDate, horizonEnd time.Time, cycle types.BillingCycle, billingDay int) ([]types.DateRange, error) {
	start := types.StartOfDay(anchorDate)
	horizon := types.StartOfDay(horizonEnd)
	if horizon.Before(start) {
		return nil, ierr.NewError("horizon end before anchor date").
			WithHint("Horizon end must not be before the anchor date").
			Mark(ierr.ErrValidation)
	}

	end, err := FirstCycleEnd(start, cycle, billingDay)
	if err != nil {
		return nil, err
	}

	var windows []types.DateRange
	for !start.After(horizon) {
		w := types.DateRange{Start: start, End: end}
		if w.End.After(horizon) {
			w.End = horizon
		}
		windows = append(windows, w)

		start = end.AddDate(0, 0, 1)
		end, err = NextCycleEnd(end, cycle, billingDay)
		if err != nil {
			return nil, err
		}
	}

	return windows, nil
}

// monthlyCycleEnd is min(billingDay, daysInMonth) of the given month.
func monthlyCycleEnd(year int, month time.Month, billingDay int) time.Time {
	day := billingDay
	if dim := types.DaysInMonth(year, month); day > dim {
		day = dim
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, types.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
}

func validateCycleConfig(cycle types.BillingCycle, billingDay int) error {
	if err := cycle.Validate(); err != nil {
		return err
	}
	if cycle.RequiresBillingDay() && (billingDay < 1 || billingDay > 31) {
		return ierr.NewErrorf("billing day %d out of range for monthly cycle", billingDay).
			WithHint("Monthly cycles require a billing day between 1 and 31").
			WithReportableDetails(map[string]any{
				"billing_day": billingDay,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func unsupportedCycleError(cycle types.BillingCycle) error {
	return ierr.NewErrorf("unsupported billing cycle %q", cycle).
		WithHint("Unsupported billing cycle").
		Mark(ierr.ErrValidation)
}
