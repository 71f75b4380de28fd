package dto

import (
	"time"

	"github.com/bowshygow/uadbill/internal/domain/uad"
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/service"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/bowshygow/uadbill/internal/validator"
	"github.com/shopspring/decimal"
)

// SalesOrderTermsRequest carries a sales order's billing schedule by value;
// the engine holds no sales order state of its own.
type SalesOrderTermsRequest struct {
	Start      time.Time          `json:"start" validate:"required"`
	End        time.Time          `json:"end" validate:"required"`
	Cycle      types.BillingCycle `json:"cycle" validate:"required"`
	BillingDay int                `json:"billing_day,omitempty"`
}

func (r SalesOrderTermsRequest) ToTerms() uad.SalesOrderTerms {
	return uad.SalesOrderTerms{
		Start:      r.Start,
		End:        r.End,
		Cycle:      r.Cycle,
		BillingDay: r.BillingDay,
	}
}

type LineItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Rate      decimal.Decimal `json:"rate" validate:"required"`
}

type UsageAgreementRequest struct {
	ID        string            `json:"id" validate:"required"`
	Start     time.Time         `json:"start" validate:"required"`
	End       time.Time         `json:"end" validate:"required"`
	Status    types.UADStatus   `json:"status" validate:"required"`
	FactoryID string            `json:"factory_id,omitempty"`
	LineItems []LineItemRequest `json:"line_items" validate:"required,dive"`
}

func (r UsageAgreementRequest) ToUsageAgreement() *uad.UsageAgreement {
	items := make([]uad.LineItem, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		items = append(items, uad.LineItem{
			ProductID: li.ProductID,
			Quantity:  li.Quantity,
			Rate:      li.Rate,
		})
	}
	return &uad.UsageAgreement{
		ID:        r.ID,
		Start:     r.Start,
		End:       r.End,
		Status:    r.Status,
		FactoryID: r.FactoryID,
		LineItems: items,
	}
}

// GenerateInvoicesRequest previews the invoices one usage agreement would
// produce over its billing life.
type GenerateInvoicesRequest struct {
	Terms    SalesOrderTermsRequest  `json:"terms" validate:"required"`
	UAD      UsageAgreementRequest   `json:"uad" validate:"required"`
	Strategy types.ProrationStrategy `json:"strategy,omitempty"`
}

func (r *GenerateInvoicesRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// GenerateInvoicesResponse mirrors the engine's generation result.
type GenerateInvoicesResponse = service.GenerationResult

// AggregateRequest previews period aggregation. With a period it aggregates
// that single period; without one it sweeps every cycle window across the
// sales order horizon.
type AggregateRequest struct {
	Terms       SalesOrderTermsRequest  `json:"terms" validate:"required"`
	UADs        []UsageAgreementRequest `json:"uads" validate:"required,dive"`
	PeriodStart *time.Time              `json:"period_start,omitempty"`
	PeriodEnd   *time.Time              `json:"period_end,omitempty"`
	Strategy    types.ProrationStrategy `json:"strategy,omitempty"`
}

func (r *AggregateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	// Period bounds come as a pair or not at all.
	if (r.PeriodStart == nil) != (r.PeriodEnd == nil) {
		return ierr.NewError("incomplete aggregation period").
			WithHint("Provide both period_start and period_end, or neither").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r AggregateRequest) ToUsageAgreements() []*uad.UsageAgreement {
	agreements := make([]*uad.UsageAgreement, 0, len(r.UADs))
	for _, u := range r.UADs {
		agreements = append(agreements, u.ToUsageAgreement())
	}
	return agreements
}

// HasPeriod reports whether the request names a single aggregation period.
func (r AggregateRequest) HasPeriod() bool {
	return r.PeriodStart != nil && r.PeriodEnd != nil
}

// AggregateResponse wraps one or more aggregated periods.
type AggregateResponse struct {
	Periods []*service.AggregatedPeriod `json:"periods"`
}

// ChurnRequest previews the financial impact of a cancellation.
type ChurnRequest struct {
	Mode          types.ChurnMode         `json:"mode" validate:"required"`
	EffectiveDate time.Time               `json:"effective_date,omitempty"`
	UADStart      time.Time               `json:"uad_start" validate:"required"`
	UADEnd        time.Time               `json:"uad_end" validate:"required"`
	Items         []service.ChurnLineItem `json:"items" validate:"required,dive"`
}

func (r *ChurnRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r ChurnRequest) ToChurnParams() service.ChurnParams {
	return service.ChurnParams{
		Mode:          r.Mode,
		EffectiveDate: r.EffectiveDate,
		UADStart:      r.UADStart,
		UADEnd:        r.UADEnd,
		Items:         r.Items,
	}
}
