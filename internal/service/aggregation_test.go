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

func monthlyTerms() uad.SalesOrderTerms {
	return uad.SalesOrderTerms{
		Start:      date(2025, 5, 1),
		End:        date(2025, 7, 31),
		Cycle:      types.BILLING_CYCLE_MONTHLY,
		BillingDay: 31,
	}
}

func TestAggregate_SinglePeriod(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	agreements := []*uad.UsageAgreement{
		{
			ID:        "uad-1",
			Start:     date(2025, 5, 20),
			End:       date(2025, 7, 24),
			Status:    types.UADStatusActive,
			FactoryID: "factory-1",
			LineItems: []uad.LineItem{
				{ProductID: "prod-a", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(1000)},
			},
		},
	}

	// May window: the agreement is active 12 of 31 days.
	period, err := svc.Aggregate(context.Background(), monthlyTerms(), agreements,
		date(2025, 5, 1), date(2025, 5, 31), "")
	require.NoError(t, err)

	require.Len(t, period.UADs, 1)
	assert.Equal(t, "uad-1", period.UADs[0].UADID)
	assert.Equal(t, "factory-1", period.UADs[0].FactoryID)
	assert.Equal(t, "1548.39", period.TotalAmount.StringFixed(2))
	assert.True(t, period.TotalQuantity.Equal(decimal.NewFromInt(4)))

	require.Len(t, period.ByProduct, 1)
	assert.Equal(t, "prod-a", period.ByProduct[0].ProductID)
	assert.Equal(t, "1548.39", period.ByProduct[0].TotalAmount.StringFixed(2))
}

func TestAggregate_ExcludesEndedAndNonContributing(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	lineItems := []uad.LineItem{
		{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1000)},
	}
	agreements := []*uad.UsageAgreement{
		{
			ID: "active", Start: date(2025, 5, 1), End: date(2025, 7, 31),
			Status: types.UADStatusActive, LineItems: lineItems,
		},
		{
			// Draft agreements still bill.
			ID: "draft", Start: date(2025, 5, 1), End: date(2025, 7, 31),
			Status: types.UADStatusDraft, LineItems: lineItems,
		},
		{
			ID: "ended", Start: date(2025, 5, 1), End: date(2025, 7, 31),
			Status: types.UADStatusEnded, LineItems: lineItems,
		},
		{
			// Active but entirely outside the period.
			ID: "later", Start: date(2025, 7, 1), End: date(2025, 7, 31),
			Status: types.UADStatusActive, LineItems: lineItems,
		},
	}

	period, err := svc.Aggregate(context.Background(), monthlyTerms(), agreements,
		date(2025, 5, 1), date(2025, 5, 31), "")
	require.NoError(t, err)

	require.Len(t, period.UADs, 2)
	assert.Equal(t, "active", period.UADs[0].UADID)
	assert.Equal(t, "draft", period.UADs[1].UADID)
	assert.Equal(t, "2000.00", period.TotalAmount.StringFixed(2))
}

func TestAggregate_ProductRollupsSorted(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	agreements := []*uad.UsageAgreement{
		{
			ID: "uad-1", Start: date(2025, 5, 1), End: date(2025, 7, 31),
			Status: types.UADStatusActive,
			LineItems: []uad.LineItem{
				{ProductID: "prod-b", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100)},
				{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(500)},
			},
		},
		{
			ID: "uad-2", Start: date(2025, 5, 1), End: date(2025, 7, 31),
			Status: types.UADStatusActive,
			LineItems: []uad.LineItem{
				{ProductID: "prod-b", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(100)},
			},
		},
	}

	period, err := svc.Aggregate(context.Background(), monthlyTerms(), agreements,
		date(2025, 5, 1), date(2025, 5, 31), "")
	require.NoError(t, err)

	require.Len(t, period.ByProduct, 2)
	assert.Equal(t, "prod-a", period.ByProduct[0].ProductID)
	assert.Equal(t, "prod-b", period.ByProduct[1].ProductID)
	assert.True(t, period.ByProduct[1].TotalQuantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "500.00", period.ByProduct[1].TotalAmount.StringFixed(2))
}

func TestAggregateAllPeriods_SweepsHorizon(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	agreements := []*uad.UsageAgreement{
		{
			ID:     "uad-1",
			Start:  date(2025, 5, 20),
			End:    date(2025, 7, 24),
			Status: types.UADStatusActive,
			LineItems: []uad.LineItem{
				{ProductID: "prod-a", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(1000)},
			},
		},
	}

	periods, err := svc.AggregateAllPeriods(context.Background(), monthlyTerms(), agreements, "")
	require.NoError(t, err)
	require.Len(t, periods, 3)

	// 12/31, 30/30 and 24/31 of the 4000 monthly value.
	assert.Equal(t, "1548.39", periods[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "4000.00", periods[1].TotalAmount.StringFixed(2))
	assert.Equal(t, "3096.77", periods[2].TotalAmount.StringFixed(2))

	assert.Equal(t, date(2025, 5, 1), periods[0].PeriodStart)
	assert.Equal(t, date(2025, 5, 31), periods[0].PeriodEnd)
	assert.Equal(t, date(2025, 7, 31), periods[2].PeriodEnd)
}

func TestAggregateAllPeriods_SkipsEmptyPeriods(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	// Active only in July: the May and June windows produce no output at all.
	agreements := []*uad.UsageAgreement{
		{
			ID:     "uad-1",
			Start:  date(2025, 7, 1),
			End:    date(2025, 7, 31),
			Status: types.UADStatusActive,
			LineItems: []uad.LineItem{
				{ProductID: "prod-a", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(900)},
			},
		},
	}

	periods, err := svc.AggregateAllPeriods(context.Background(), monthlyTerms(), agreements, "")
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, date(2025, 7, 1), periods[0].PeriodStart)
	assert.Equal(t, "900.00", periods[0].TotalAmount.StringFixed(2))
}

func TestAggregate_InvalidPeriod(t *testing.T) {
	svc := NewAggregationService(newTestParams(t))

	_, err := svc.Aggregate(context.Background(), monthlyTerms(), nil,
		date(2025, 6, 30), date(2025, 6, 1), "")
	assert.True(t, ierr.IsValidation(err))
}
