package service

import (
	"context"
	"fmt"
	"time"

	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ChurnLineItem describes one line item affected by a cancellation.
type ChurnLineItem struct {
	ProductID       string          `json:"product_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	CancelQuantity  decimal.Decimal `json:"cancel_quantity"`
	Rate            decimal.Decimal `json:"rate"`
}

// ChurnParams is the input to a churn impact calculation.
type ChurnParams struct {
	Mode          types.ChurnMode `json:"mode"`
	EffectiveDate time.Time       `json:"effective_date"`
	UADStart      time.Time       `json:"uad_start"`
	UADEnd        time.Time       `json:"uad_end"`
	Items         []ChurnLineItem `json:"items"`
}

// ChurnImpact is the financial effect of cancelling part of an agreement's
// line items. In end-of-period mode the day counters are zero and no payable
// split or refund applies. In prorated mode ProratedPayable + Refund always
// equals CancelledAmount to the cent.
type ChurnImpact struct {
	CurrentPeriodAmount decimal.Decimal `json:"current_period_amount"`
	CancelledAmount     decimal.Decimal `json:"cancelled_amount"`
	NewMonthlyAmount    decimal.Decimal `json:"new_monthly_amount"`
	ProratedPayable     decimal.Decimal `json:"prorated_payable"`
	Refund              decimal.Decimal `json:"refund"`
	UsedDays            int             `json:"used_days"`
	TotalDays           int             `json:"total_days"`
	RemainingDays       int             `json:"remaining_days"`
}

// ChurnService computes cancellation impact.
type ChurnService interface {
	CalculateChurnImpact(ctx context.Context, params ChurnParams) (*ChurnImpact, error)
}

type churnService struct {
	ServiceParams
}

// NewChurnService creates a new churn service.
func NewChurnService(params ServiceParams) ChurnService {
	return &churnService{ServiceParams: params}
}

func (s *churnService) CalculateChurnImpact(ctx context.Context, params ChurnParams) (*ChurnImpact, error) {
	if err := validateChurnParams(params); err != nil {
		return nil, err
	}

	current := decimal.Zero
	cancelled := decimal.Zero
	for _, item := range params.Items {
		current = current.Add(item.CurrentQuantity.Mul(item.Rate))
		cancelled = cancelled.Add(item.CancelQuantity.Mul(item.Rate))
	}

	impact := &ChurnImpact{
		CurrentPeriodAmount: current,
		CancelledAmount:     cancelled,
		NewMonthlyAmount:    current.Sub(cancelled),
		ProratedPayable:     decimal.Zero,
		Refund:              decimal.Zero,
	}

	if params.Mode == types.ChurnModeProrated {
		totalDays := types.InclusiveDays(params.UADStart, params.UADEnd)
		// Used days exclude the effective date itself: cancelling on day one
		// means nothing was used.
		usedDays := types.DaysBetween(params.UADStart, params.EffectiveDate)
		if usedDays > totalDays {
			usedDays = totalDays
		}

		impact.TotalDays = totalDays
		impact.UsedDays = usedDays
		impact.RemainingDays = totalDays - usedDays

		payable := cancelled.
			Mul(decimal.NewFromInt(int64(usedDays))).
			Div(decimal.NewFromInt(int64(totalDays))).
			Round(2)
		impact.ProratedPayable = payable
		// Refund is the exact complement so the two always reconcile with
		// the cancelled amount.
		impact.Refund = cancelled.Sub(payable)
	}

	s.Logger.Infow("calculated churn impact",
		zap.String("mode", params.Mode.String()),
		zap.String("cancelled_amount", impact.CancelledAmount.String()),
		zap.String("refund", impact.Refund.String()),
	)

	return impact, nil
}

// validateChurnParams reports every field-level violation in one error so
// callers get all of them for form feedback instead of one at a time.
func validateChurnParams(params ChurnParams) error {
	details := make(map[string]any)

	if err := params.Mode.Validate(); err != nil {
		details["mode"] = fmt.Sprintf("mode must be one of end_of_period, prorated, got %q", params.Mode)
	}
	if params.UADStart.IsZero() {
		details["uad_start"] = "agreement start date is required"
	}
	if params.UADEnd.IsZero() {
		details["uad_end"] = "agreement end date is required"
	}
	if !params.UADStart.IsZero() && !params.UADEnd.IsZero() && params.UADEnd.Before(params.UADStart) {
		details["uad_end"] = "agreement end date cannot be before start date"
	}
	if params.Mode == types.ChurnModeProrated && params.EffectiveDate.IsZero() {
		details["effective_date"] = "effective date is required for prorated churn"
	}
	if len(params.Items) == 0 {
		details["items"] = "at least one line item is required"
	}
	for i, item := range params.Items {
		if item.ProductID == "" {
			details[fmt.Sprintf("items[%d].product_id", i)] = "product id is required"
		}
		if item.CurrentQuantity.LessThanOrEqual(decimal.Zero) {
			details[fmt.Sprintf("items[%d].current_quantity", i)] = "current quantity must be positive"
		}
		if item.CancelQuantity.LessThanOrEqual(decimal.Zero) {
			details[fmt.Sprintf("items[%d].cancel_quantity", i)] = "cancel quantity must be positive"
		} else if item.CancelQuantity.GreaterThan(item.CurrentQuantity) {
			details[fmt.Sprintf("items[%d].cancel_quantity", i)] = "cancel quantity cannot exceed current quantity"
		}
		if item.Rate.LessThanOrEqual(decimal.Zero) {
			details[fmt.Sprintf("items[%d].rate", i)] = "rate must be positive"
		}
	}

	if len(details) > 0 {
		return ierr.NewError("invalid churn params").
			WithHint("Churn parameters failed validation").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
