package service

import (
	"context"

	"github.com/bowshygow/uadbill/internal/domain/invoice"
	"github.com/bowshygow/uadbill/internal/domain/proration"
	"github.com/bowshygow/uadbill/internal/domain/schedule"
	"github.com/bowshygow/uadbill/internal/domain/uad"
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CycleDiagnostic records a cycle window that failed to price. Failed cycles
// are skipped and reported alongside the successful output, never silently
// dropped.
type CycleDiagnostic struct {
	Window types.DateRange `json:"window"`
	Error  string          `json:"error"`
}

// GenerationResult is the output of invoice generation for one usage
// agreement: the invoices that priced cleanly plus diagnostics for any
// cycles that did not.
type GenerationResult struct {
	Invoices    []*invoice.Invoice `json:"invoices"`
	Diagnostics []CycleDiagnostic  `json:"diagnostics,omitempty"`
}

// InvoiceService generates per-cycle invoices for a usage agreement.
type InvoiceService interface {
	// GenerateInvoices walks cycle windows anchored at the agreement's own
	// start date, prices each overlap with the agreement interval, and emits
	// one invoice per window with a positive total. Pure function of its
	// inputs: identical inputs yield identical output, so callers can dedupe
	// persisted invoices by (uadID, cycleStart, cycleEnd).
	GenerateInvoices(ctx context.Context, terms uad.SalesOrderTerms, agreement *uad.UsageAgreement, strategy types.ProrationStrategy) (*GenerationResult, error)
}

type invoiceService struct {
	ServiceParams
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) GenerateInvoices(
	ctx context.Context,
	terms uad.SalesOrderTerms,
	agreement *uad.UsageAgreement,
	strategy types.ProrationStrategy,
) (*GenerationResult, error) {
	// Structural problems are fatal for the whole call.
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if err := agreement.Validate(); err != nil {
		return nil, err
	}
	if err := agreement.ValidateWithinTerms(terms); err != nil {
		return nil, err
	}

	calculator, err := s.CalculatorFor(strategy)
	if err != nil {
		return nil, err
	}

	uadWindow := agreement.Window()
	horizonEnd := types.StartOfDay(terms.End)

	// Cycle iteration anchors at the agreement's own start date, not the
	// sales order's. The period-sweep aggregation anchors at the sales order
	// start instead; the two entry points are intentionally different.
	windowStart := uadWindow.Start
	windowEnd, err := schedule.FirstCycleEnd(windowStart, terms.Cycle, terms.BillingDay)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{}

	for !windowStart.After(uadWindow.End) && !windowEnd.After(horizonEnd) {
		window := types.DateRange{Start: windowStart, End: windowEnd}

		if _, ok := uadWindow.Intersect(window); ok {
			inv, cycleErr := s.priceCycle(ctx, calculator, terms, agreement, window)
			if cycleErr != nil {
				// One bad cycle must not block the rest of the agreement's
				// billing life; note it and keep going.
				s.Logger.Warnw("skipping cycle after calculation error",
					zap.String("uad_id", agreement.ID),
					zap.Time("cycle_start", window.Start),
					zap.Time("cycle_end", window.End),
					zap.Error(cycleErr),
				)
				result.Diagnostics = append(result.Diagnostics, CycleDiagnostic{
					Window: window,
					Error:  cycleErr.Error(),
				})
			} else if inv != nil {
				result.Invoices = append(result.Invoices, inv)
			}
		}

		windowStart = windowEnd.AddDate(0, 0, 1)
		windowEnd, err = schedule.NextCycleEnd(windowEnd, terms.Cycle, terms.BillingDay)
		if err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("generated invoices",
		zap.String("uad_id", agreement.ID),
		zap.Int("invoices", len(result.Invoices)),
		zap.Int("skipped_cycles", len(result.Diagnostics)),
	)

	return result, nil
}

// priceCycle prices every line item of the agreement against one cycle
// window. Returns nil when the window's total is exactly zero; such windows
// produce no invoice.
func (s *invoiceService) priceCycle(
	ctx context.Context,
	calculator proration.Calculator,
	terms uad.SalesOrderTerms,
	agreement *uad.UsageAgreement,
	window types.DateRange,
) (*invoice.Invoice, error) {
	lineItems := make([]invoice.LineItem, 0, len(agreement.LineItems))
	total := decimal.Zero
	prorated := false

	for _, li := range agreement.LineItems {
		res, err := calculator.Calculate(ctx, proration.Params{
			UsageStart:  agreement.Start,
			UsageEnd:    agreement.End,
			WindowStart: window.Start,
			WindowEnd:   window.End,
			FullAmount:  li.Value(),
			BillingDay:  terms.BillingDay,
		})
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("failed to prorate line item %s", li.ProductID).
				Mark(ierr.ErrInvalidOperation)
		}

		if res.Reason == types.ProrationReasonProrated {
			prorated = true
		}

		lineItems = append(lineItems, invoice.LineItem{
			ProductID:         li.ProductID,
			Amount:            res.Amount,
			Rate:              li.Rate,
			EffectiveQuantity: res.Amount.Div(li.Rate),
		})
		total = total.Add(res.Amount)
	}

	if total.IsZero() {
		return nil, nil
	}

	return &invoice.Invoice{
		UADID:      agreement.ID,
		CycleStart: window.Start,
		CycleEnd:   window.End,
		LineItems:  lineItems,
		Total:      total,
		Prorated:   prorated,
	}, nil
}
