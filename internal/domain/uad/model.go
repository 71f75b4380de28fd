package uad

import (
	"fmt"
	"time"

	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
)

// SalesOrderTerms describes the billing horizon and schedule agreed on a
// sales order. BillingDay is only meaningful for monthly cycles.
type SalesOrderTerms struct {
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Cycle      types.BillingCycle `json:"cycle"`
	BillingDay int                `json:"billing_day,omitempty"`
}

// Horizon returns the sales order's billing window as a date range.
func (t SalesOrderTerms) Horizon() types.DateRange {
	return types.NewDateRange(t.Start, t.End)
}

// Validate collects every violation before failing so the caller can surface
// all of them together.
func (t SalesOrderTerms) Validate() error {
	details := make(map[string]any)

	if t.Start.IsZero() {
		details["start"] = "start date is required"
	}
	if t.End.IsZero() {
		details["end"] = "end date is required"
	}
	if !t.Start.IsZero() && !t.End.IsZero() && t.End.Before(t.Start) {
		details["end"] = "end date cannot be before start date"
	}
	if err := t.Cycle.Validate(); err != nil {
		details["cycle"] = fmt.Sprintf("billing cycle must be one of MONTHLY, QUARTERLY, HALF_YEARLY, YEARLY, got %q", t.Cycle)
	}
	if t.Cycle.RequiresBillingDay() && (t.BillingDay < 1 || t.BillingDay > 31) {
		details["billing_day"] = fmt.Sprintf("billing day must be between 1 and 31 for monthly cycles, got %d", t.BillingDay)
	}

	if len(details) > 0 {
		return ierr.NewError("invalid sales order terms").
			WithHint("Sales order terms failed validation").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LineItem is a product quantity billed at a unit rate. The item itself is
// never prorated; only its value is apportioned by time.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
}

// Value returns the full-cycle monetary value of the line item.
func (li LineItem) Value() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// UsageAgreement (UAD) is a time-bounded record of product quantities in
// active use, billed over one or more cycles of the owning sales order.
type UsageAgreement struct {
	ID        string          `json:"id"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Status    types.UADStatus `json:"status"`
	FactoryID string          `json:"factory_id,omitempty"`
	LineItems []LineItem      `json:"line_items"`
}

// Window returns the agreement's active interval as a date range.
func (u *UsageAgreement) Window() types.DateRange {
	return types.NewDateRange(u.Start, u.End)
}

// Validate collects every violation before failing.
func (u *UsageAgreement) Validate() error {
	details := make(map[string]any)

	if u.Start.IsZero() {
		details["start"] = "start date is required"
	}
	if u.End.IsZero() {
		details["end"] = "end date is required"
	}
	if !u.Start.IsZero() && !u.End.IsZero() && u.End.Before(u.Start) {
		details["end"] = "end date cannot be before start date"
	}
	if err := u.Status.Validate(); err != nil {
		details["status"] = fmt.Sprintf("status must be one of DRAFT, ACTIVE, ENDED, got %q", u.Status)
	}
	if len(u.LineItems) == 0 {
		details["line_items"] = "at least one line item is required"
	}
	for i, li := range u.LineItems {
		if li.ProductID == "" {
			details[fmt.Sprintf("line_items[%d].product_id", i)] = "product id is required"
		}
		if li.Quantity.LessThanOrEqual(decimal.Zero) {
			details[fmt.Sprintf("line_items[%d].quantity", i)] = "quantity must be positive"
		}
		if li.Rate.LessThanOrEqual(decimal.Zero) {
			details[fmt.Sprintf("line_items[%d].rate", i)] = "rate must be positive"
		}
	}

	if len(details) > 0 {
		return ierr.NewError("invalid usage agreement").
			WithHint("Usage agreement failed validation").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateWithinTerms checks that the agreement's interval lies inside the
// owning sales order's window. Out-of-window agreements are a caller error
// the engine rejects defensively.
func (u *UsageAgreement) ValidateWithinTerms(terms SalesOrderTerms) error {
	details := make(map[string]any)

	if types.StartOfDay(u.Start).Before(types.StartOfDay(terms.Start)) {
		details["start"] = fmt.Sprintf("agreement starts %s, before sales order start %s",
			u.Start.Format(time.DateOnly), terms.Start.Format(time.DateOnly))
	}
	if types.StartOfDay(u.End).After(types.StartOfDay(terms.End)) {
		details["end"] = fmt.Sprintf("agreement ends %s, after sales order end %s",
			u.End.Format(time.DateOnly), terms.End.Format(time.DateOnly))
	}

	if len(details) > 0 {
		return ierr.NewError("usage agreement outside sales order window").
			WithHint("Usage agreement interval must lie within the sales order window").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
