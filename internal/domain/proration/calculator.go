package proration

import (
	"context"
	"time"

	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
)

// Calculator apportions a full-cycle amount to the overlap between a usage
// interval and a cycle window.
type Calculator interface {
	Calculate(ctx context.Context, params Params) (*Result, error)
	Strategy() types.ProrationStrategy
}

// NewCalculator creates a proration calculator for the given strategy.
// The strategy choice is deliberate configuration, never a fallback: an
// unknown strategy is an error rather than a silent default, because the two
// denominators produce different amounts for the same interval.
func NewCalculator(strategy types.ProrationStrategy) (Calculator, error) {
	switch strategy {
	case types.ProrationStrategyDaysInMonth:
		return &daysInMonthCalculator{}, nil
	case types.ProrationStrategyBillingDay:
		return &billingDayCalculator{}, nil
	}
	return nil, ierr.NewErrorf("unsupported proration strategy %q", strategy).
		WithHint("Unsupported proration strategy").
		Mark(ierr.ErrValidation)
}

// daysInMonthCalculator divides each month's active days by the true number
// of days in that calendar month.
type daysInMonthCalculator struct{}

func (c *daysInMonthCalculator) Strategy() types.ProrationStrategy {
	return types.ProrationStrategyDaysInMonth
}

func (c *daysInMonthCalculator) Calculate(ctx context.Context, params Params) (*Result, error) {
	return calculate(params, func(year int, month time.Month) int {
		return types.DaysInMonth(year, month)
	})
}

// billingDayCalculator divides by min(billingDay, daysInMonth) for every
// month, measuring each month against the configured billing day instead of
// its true length.
type billingDayCalculator struct{}

func (c *billingDayCalculator) Strategy() types.ProrationStrategy {
	return types.ProrationStrategyBillingDay
}

func (c *billingDayCalculator) Calculate(ctx context.Context, params Params) (*Result, error) {
	if params.BillingDay < 1 || params.BillingDay > 31 {
		return nil, ierr.NewErrorf("billing day %d out of range for billing-day proration", params.BillingDay).
			WithHint("Billing-day proration requires a billing day between 1 and 31").
			Mark(ierr.ErrValidation)
	}
	return calculate(params, func(year int, month time.Month) int {
		dim := types.DaysInMonth(year, month)
		if params.BillingDay < dim {
			return params.BillingDay
		}
		return dim
	})
}

func calculate(params Params, denominator func(year int, month time.Month) int) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	usage := types.NewDateRange(params.UsageStart, params.UsageEnd)
	window := types.NewDateRange(params.WindowStart, params.WindowEnd)

	overlap, ok := usage.Intersect(window)
	if !ok {
		return &Result{
			Amount: decimal.Zero,
			Reason: types.ProrationReasonNoOverlap,
		}, nil
	}

	// Full-cycle coverage returns the amount untouched; it must never pass
	// through the fractional rounding path.
	if overlap.Equal(window) {
		return &Result{
			Amount: params.FullAmount,
			Reason: types.ProrationReasonFullCycle,
		}, nil
	}

	var months []MonthSegment
	total := decimal.Zero

	for cursor := types.BeginningOfMonth(overlap.Start); !cursor.After(overlap.End); cursor = cursor.AddDate(0, 1, 0) {
		segStart := cursor
		if overlap.Start.After(segStart) {
			segStart = overlap.Start
		}
		segEnd := types.EndOfMonth(cursor)
		if overlap.End.Before(segEnd) {
			segEnd = overlap.End
		}

		activeDays := types.InclusiveDays(segStart, segEnd)
		dim := types.DaysInMonth(cursor.Year(), cursor.Month())
		denom := denominator(cursor.Year(), cursor.Month())

		fraction := decimal.NewFromInt(int64(activeDays)).
			Div(decimal.NewFromInt(int64(denom)))
		amount := params.FullAmount.Mul(fraction).Round(2)

		months = append(months, MonthSegment{
			Year:        cursor.Year(),
			Month:       cursor.Month(),
			ActiveDays:  activeDays,
			DaysInMonth: dim,
			Denominator: denom,
			Fraction:    fraction,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	return &Result{
		Amount: total,
		Reason: types.ProrationReasonProrated,
		Months: months,
	}, nil
}

func validateParams(params Params) error {
	details := make(map[string]any)

	if params.UsageStart.IsZero() || params.UsageEnd.IsZero() {
		details["usage"] = "usage start and end dates are required"
	} else if params.UsageEnd.Before(params.UsageStart) {
		details["usage"] = "usage end date cannot be before start date"
	}
	if params.WindowStart.IsZero() || params.WindowEnd.IsZero() {
		details["window"] = "window start and end dates are required"
	} else if params.WindowEnd.Before(params.WindowStart) {
		details["window"] = "window end date cannot be before start date"
	}
	if params.FullAmount.IsNegative() {
		details["full_amount"] = "full amount cannot be negative"
	}

	if len(details) > 0 {
		return ierr.NewError("invalid proration params").
			WithHint("Proration parameters failed validation").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
