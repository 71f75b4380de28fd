package service

import (
	"context"
	"testing"

	"github.com/bowshygow/uadbill/internal/domain/uad"
	ierr "github.com/bowshygow/uadbill/internal/errors"
	"github.com/bowshygow/uadbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoices_MonthlyFullCycles(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))

	terms := uad.SalesOrderTerms{
		Start:      date(2025, 1, 1),
		End:        date(2025, 3, 31),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 31,
	}
	agreement := &uad.UsageAgreement{
		ID:     "uad-1",
		Start:  date(2025, 1, 1),
		End:    date(2025, 3, 31),
		Status: types.UADStatusActive,
		LineItems: []uad.LineItem{
			{ProductID: "prod-a", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100)},
		},
	}

	result, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 3)
	assert.Empty(t, result.Diagnostics)

	for _, inv := range result.Invoices {
		assert.Equal(t, "uad-1", inv.UADID)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(1000)), "got %s", inv.Total)
		assert.False(t, inv.Prorated)
		require.Len(t, inv.LineItems, 1)
		assert.True(t, inv.LineItems[0].EffectiveQuantity.Equal(decimal.NewFromInt(10)))
	}

	assert.Equal(t, date(2025, 1, 1), result.Invoices[0].CycleStart)
	assert.Equal(t, date(2025, 1, 31), result.Invoices[0].CycleEnd)
	assert.Equal(t, date(2025, 2, 1), result.Invoices[1].CycleStart)
	assert.Equal(t, date(2025, 2, 28), result.Invoices[1].CycleEnd)
	assert.Equal(t, date(2025, 3, 1), result.Invoices[2].CycleStart)
	assert.Equal(t, date(2025, 3, 31), result.Invoices[2].CycleEnd)
}

func TestGenerateInvoices_ProratedTailCycle(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))

	terms := uad.SalesOrderTerms{
		Start:      date(2025, 1, 1),
		End:        date(2025, 6, 30),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 31,
	}
	// Agreement ends mid-February: the last cycle bills 14 of 28 days.
	agreement := &uad.UsageAgreement{
		ID:     "uad-2",
		Start:  date(2025, 1, 1),
		End:    date(2025, 2, 14),
		Status: types.UADStatusActive,
		LineItems: []uad.LineItem{
			{ProductID: "prod-a", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100)},
		},
	}

	result, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 2)

	assert.False(t, result.Invoices[0].Prorated)
	assert.True(t, result.Invoices[0].Total.Equal(decimal.NewFromInt(1000)))

	tail := result.Invoices[1]
	assert.True(t, tail.Prorated)
	assert.Equal(t, "500.00", tail.Total.StringFixed(2))
	assert.True(t, tail.LineItems[0].EffectiveQuantity.Equal(decimal.NewFromInt(5)))
}

func TestGenerateInvoices_ShortFirstCycleBillsFull(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))

	terms := uad.SalesOrderTerms{
		Start:      date(2025, 1, 1),
		End:        date(2025, 12, 31),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 15,
	}
	// The first window is Jan 10 - Jan 15. The agreement fully covers it, so
	// it bills the full amount rather than six days' worth.
	agreement := &uad.UsageAgreement{
		ID:     "uad-3",
		Start:  date(2025, 1, 10),
		End:    date(2025, 2, 15),
		Status: types.UADStatusActive,
		LineItems: []uad.LineItem{
			{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(3000)},
		},
	}

	result, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 2)

	first := result.Invoices[0]
	assert.Equal(t, date(2025, 1, 10), first.CycleStart)
	assert.Equal(t, date(2025, 1, 15), first.CycleEnd)
	assert.True(t, first.Total.Equal(decimal.NewFromInt(3000)), "got %s", first.Total)
	assert.False(t, first.Prorated)
}

func TestGenerateInvoices_StopsAtSalesOrderHorizon(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))

	// The horizon ends Feb 14, before the February cycle would close on
	// Feb 28, so only January is billed.
	terms := uad.SalesOrderTerms{
		Start:      date(2025, 1, 1),
		End:        date(2025, 2, 14),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 31,
	}
	agreement := &uad.UsageAgreement{
		ID:     "uad-4",
		Start:  date(2025, 1, 1),
		End:    date(2025, 2, 14),
		Status: types.UADStatusActive,
		LineItems: []uad.LineItem{
			{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1000)},
		},
	}

	result, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, date(2025, 1, 31), result.Invoices[0].CycleEnd)
}

func TestGenerateInvoices_Deterministic(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))

	terms := uad.SalesOrderTerms{
		Start: date(2025, 1, 1),
		End:   date(2025, 12, 31),
		Cycle: types.BILLING_CYCLE_QUARTERLY,
	}
	agreement := &uad.UsageAgreement{
		ID:     "uad-5",
		Start:  date(2025, 2, 10),
		End:    date(2025, 11, 5),
		Status: types.UADStatusActive,
		LineItems: []uad.LineItem{
			{ProductID: "prod-a", Quantity: decimal.NewFromInt(3), Rate: decimal.RequireFromString("149.99")},
			{ProductID: "prod-b", Quantity: decimal.NewFromInt(7), Rate: decimal.NewFromInt(50)},
		},
	}

	first, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)
	second, err := svc.GenerateInvoices(context.Background(), terms, agreement, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateInvoices_ValidationFailures(t *testing.T) {
	svc := NewInvoiceService(newTestParams(t))
	ctx := context.Background()

	validTerms := uad.SalesOrderTerms{
		Start:      date(2025, 1, 1),
		End:        date(2025, 12, 31),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 15,
	}
	validAgreement := func() *uad.UsageAgreement {
		return &uad.UsageAgreement{
			ID:     "uad-6",
			Start:  date(2025, 3, 1),
			End:    date(2025, 6, 30),
			Status: types.UADStatusActive,
			LineItems: []uad.LineItem{
				{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(100)},
			},
		}
	}

	t.Run("invalid_terms", func(t *testing.T) {
		terms := validTerms
		terms.BillingDay = 0
		_, err := svc.GenerateInvoices(ctx, terms, validAgreement(), "")
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("agreement_outside_window", func(t *testing.T) {
		agreement := validAgreement()
		agreement.End = date(2026, 1, 15)
		_, err := svc.GenerateInvoices(ctx, validTerms, agreement, "")
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("agreement_without_line_items", func(t *testing.T) {
		agreement := validAgreement()
		agreement.LineItems = nil
		_, err := svc.GenerateInvoices(ctx, validTerms, agreement, "")
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("unknown_strategy", func(t *testing.T) {
		_, err := svc.GenerateInvoices(ctx, validTerms, validAgreement(), types.ProrationStrategy("weekly"))
		assert.True(t, ierr.IsValidation(err))
	})
}
