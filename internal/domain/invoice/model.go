package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product's share of an invoice. EffectiveQuantity is the
// fractional quantity implied by the prorated amount (amount / rate); it is
// informational only and never feeds back into any calculation.
type LineItem struct {
	ProductID         string          `json:"product_id"`
	Amount            decimal.Decimal `json:"amount"`
	Rate              decimal.Decimal `json:"rate"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"`
}

// Invoice is the priced output for one (usage agreement, cycle window) pair.
// The engine creates invoices and never mutates them afterwards; syncing and
// persistence are the caller's concern.
type Invoice struct {
	UADID      string          `json:"uad_id"`
	CycleStart time.Time       `json:"cycle_start"`
	CycleEnd   time.Time       `json:"cycle_end"`
	LineItems  []LineItem      `json:"line_items"`
	Total      decimal.Decimal `json:"total"`
	Prorated   bool            `json:"prorated"`
}
