package v1

import (
	"net/http"

	"github.com/bowshygow/uadbill/internal/api/dto"
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/logger"
	"github.com/bowshygow/uadbill/internal/service"
	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	invoiceService     service.InvoiceService
	aggregationService service.AggregationService
	churnService       service.ChurnService
	log                *logger.Logger
}

func NewBillingHandler(
	invoiceService service.InvoiceService,
	aggregationService service.AggregationService,
	churnService service.ChurnService,
	log *logger.Logger,
) *BillingHandler {
	return &BillingHandler{
		invoiceService:     invoiceService,
		aggregationService: aggregationService,
		churnService:       churnService,
		log:                log,
	}
}

// PreviewInvoices generates the invoice set for one usage agreement. The
// endpoint is stateless: nothing is persisted, and identical requests return
// identical responses.
func (h *BillingHandler) PreviewInvoices(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	result, err := h.invoiceService.GenerateInvoices(ctx, req.Terms.ToTerms(), req.UAD.ToUsageAgreement(), req.Strategy)
	if err != nil {
		h.log.Error("Failed to generate invoices", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PreviewAggregation aggregates UAD contributions for one period, or sweeps
// the whole sales order horizon when no period is given.
func (h *BillingHandler) PreviewAggregation(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	terms := req.Terms.ToTerms()
	agreements := req.ToUsageAgreements()

	var resp dto.AggregateResponse
	if req.HasPeriod() {
		period, err := h.aggregationService.Aggregate(ctx, terms, agreements, *req.PeriodStart, *req.PeriodEnd, req.Strategy)
		if err != nil {
			h.log.Error("Failed to aggregate period", "error", err)
			c.Error(err)
			return
		}
		resp.Periods = []*service.AggregatedPeriod{period}
	} else {
		periods, err := h.aggregationService.AggregateAllPeriods(ctx, terms, agreements, req.Strategy)
		if err != nil {
			h.log.Error("Failed to aggregate periods", "error", err)
			c.Error(err)
			return
		}
		resp.Periods = periods
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewChurn computes the financial impact of cancelling line items.
func (h *BillingHandler) PreviewChurn(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ChurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	impact, err := h.churnService.CalculateChurnImpact(ctx, req.ToChurnParams())
	if err != nil {
		h.log.Error("Failed to calculate churn impact", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, impact)
}
