package service

import (
	"context"
	"sort"
	"time"

	"github.com/bowshygow/uadbill/internal/domain/proration"
	"github.com/bowshygow/uadbill/internal/domain/schedule"
	"github.com/bowshygow/uadbill/internal/domain/uad"
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AggregatedLineItem is one line item's contribution to a billing period.
type AggregatedLineItem struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
}

// AggregatedUAD is one usage agreement's contribution to a billing period.
type AggregatedUAD struct {
	UADID         string               `json:"uad_id"`
	FactoryID     string               `json:"factory_id,omitempty"`
	LineItems     []AggregatedLineItem `json:"line_items"`
	TotalQuantity decimal.Decimal      `json:"total_quantity"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
}

// ProductRollup is a per-product total across every agreement in a period.
type ProductRollup struct {
	ProductID     string          `json:"product_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// AggregatedPeriod consolidates multiple usage agreements' prorated
// contributions to one billing period. It is derived data, recomputed on
// demand; it is never a source of truth. TotalQuantity sums nominal line
// item quantities while TotalAmount sums prorated amounts.
type AggregatedPeriod struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	UADs          []AggregatedUAD `json:"uads"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ByProduct     []ProductRollup `json:"by_product"`
}

// AggregationService consolidates multi-UAD billing across periods.
type AggregationService interface {
	// Aggregate computes every billable agreement's contribution to one
	// period. It prices line items against the period directly rather than
	// reading generated invoices, so it stays correct even when no invoices
	// have been persisted yet.
	Aggregate(ctx context.Context, terms uad.SalesOrderTerms, agreements []*uad.UsageAgreement, periodStart, periodEnd time.Time, strategy types.ProrationStrategy) (*AggregatedPeriod, error)

	// AggregateAllPeriods sweeps cycle windows across the whole sales order
	// horizon, anchored at the sales order start, and aggregates each
	// non-empty window.
	AggregateAllPeriods(ctx context.Context, terms uad.SalesOrderTerms, agreements []*uad.UsageAgreement, strategy types.ProrationStrategy) ([]*AggregatedPeriod, error)
}

type aggregationService struct {
	ServiceParams
}

// NewAggregationService creates a new aggregation service.
func NewAggregationService(params ServiceParams) AggregationService {
	return &aggregationService{ServiceParams: params}
}

func (s *aggregationService) Aggregate(
	ctx context.Context,
	terms uad.SalesOrderTerms,
	agreements []*uad.UsageAgreement,
	periodStart, periodEnd time.Time,
	strategy types.ProrationStrategy,
) (*AggregatedPeriod, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	period := types.NewDateRange(periodStart, periodEnd)
	if !period.IsValid() {
		return nil, ierr.NewError("invalid aggregation period").
			WithHintf("period end %s is before period start %s",
				periodEnd.Format(time.DateOnly), periodStart.Format(time.DateOnly)).
			Mark(ierr.ErrValidation)
	}

	calculator, err := s.CalculatorFor(strategy)
	if err != nil {
		return nil, err
	}

	// Ended agreements and agreements outside the period contribute nothing.
	candidates := lo.Filter(agreements, func(a *uad.UsageAgreement, _ int) bool {
		return a.Status.Billable() && a.Window().Overlaps(period)
	})

	result := &AggregatedPeriod{
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		TotalQuantity: decimal.Zero,
		TotalAmount:   decimal.Zero,
	}
	productTotals := make(map[string]*ProductRollup)

	for _, agreement := range candidates {
		if err := agreement.Validate(); err != nil {
			return nil, err
		}

		agg := AggregatedUAD{
			UADID:         agreement.ID,
			FactoryID:     agreement.FactoryID,
			TotalQuantity: decimal.Zero,
			TotalAmount:   decimal.Zero,
		}

		for _, li := range agreement.LineItems {
			res, err := calculator.Calculate(ctx, proration.Params{
				UsageStart:  agreement.Start,
				UsageEnd:    agreement.End,
				WindowStart: period.Start,
				WindowEnd:   period.End,
				FullAmount:  li.Value(),
				BillingDay:  terms.BillingDay,
			})
			if err != nil {
				return nil, err
			}

			agg.LineItems = append(agg.LineItems, AggregatedLineItem{
				ProductID: li.ProductID,
				Quantity:  li.Quantity,
				Rate:      li.Rate,
				Amount:    res.Amount,
			})
			agg.TotalQuantity = agg.TotalQuantity.Add(li.Quantity)
			agg.TotalAmount = agg.TotalAmount.Add(res.Amount)
		}

		// An agreement with no monetary contribution to this period is left
		// out of the result entirely.
		if agg.TotalAmount.IsZero() {
			continue
		}

		for _, ali := range agg.LineItems {
			rollup, ok := productTotals[ali.ProductID]
			if !ok {
				rollup = &ProductRollup{
					ProductID:     ali.ProductID,
					TotalQuantity: decimal.Zero,
					TotalAmount:   decimal.Zero,
				}
				productTotals[ali.ProductID] = rollup
			}
			rollup.TotalQuantity = rollup.TotalQuantity.Add(ali.Quantity)
			rollup.TotalAmount = rollup.TotalAmount.Add(ali.Amount)
		}

		result.UADs = append(result.UADs, agg)
		result.TotalQuantity = result.TotalQuantity.Add(agg.TotalQuantity)
		result.TotalAmount = result.TotalAmount.Add(agg.TotalAmount)
	}

	// Stable product ordering keeps aggregation output byte-identical for
	// identical inputs.
	result.ByProduct = make([]ProductRollup, 0, len(productTotals))
	for _, rollup := range productTotals {
		result.ByProduct = append(result.ByProduct, *rollup)
	}
	sort.Slice(result.ByProduct, func(i, j int) bool {
		return result.ByProduct[i].ProductID < result.ByProduct[j].ProductID
	})

	return result, nil
}

func (s *aggregationService) AggregateAllPeriods(
	ctx context.Context,
	terms uad.SalesOrderTerms,
	agreements []*uad.UsageAgreement,
	strategy types.ProrationStrategy,
) ([]*AggregatedPeriod, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	// The sweep anchors at the sales order start, unlike invoice generation
	// which anchors at each agreement's start.
	windows, err := schedule.Windows(terms.Start, terms.End, terms.Cycle, terms.BillingDay)
	if err != nil {
		return nil, err
	}

	var periods []*AggregatedPeriod
	for _, window := range windows {
		period, err := s.Aggregate(ctx, terms, agreements, window.Start, window.End, strategy)
		if err != nil {
			return nil, err
		}
		if len(period.UADs) == 0 {
			continue
		}
		periods = append(periods, period)
	}

	s.Logger.Infow("aggregated sales order horizon",
		zap.Int("windows", len(windows)),
		zap.Int("non_empty_periods", len(periods)),
	)

	return periods, nil
}
