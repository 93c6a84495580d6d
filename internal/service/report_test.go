package service

import (
	"context"
	"testing"
	"time"

	"github.com/rudrakh/tiffin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportCatalog() fakeItems {
	return fakeItems{
		"item-dosa": {
			ID:            "item-dosa",
			Name:          "Masala Dosa",
			PurchasePrice: 20,
			SellingPrice:  45,
			IsAvailable:   true,
		},
		"item-idli": {
			ID:            "item-idli",
			Name:          "Idli",
			PurchasePrice: 10,
			SellingPrice:  25,
			IsAvailable:   true,
		},
	}
}

// seedOrder inserts a ledger row directly, bypassing creation-time gating
func seedOrder(t *testing.T, ledger *fakeLedger, order models.Order) models.Order {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	stored, err := ledger.CreateOrder(context.Background(), &order, dayKey(order.CreatedAt, loc)+"/"+order.ID)
	require.NoError(t, err)
	return *stored
}

func newTestReportService(t *testing.T, ledger *fakeLedger, items fakeItems) *ReportService {
	t.Helper()
	return NewReportService(ledger, items, testBusinessLocation(t))
}

func TestReportService_Settlements(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	createdAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)
	ledger := newFakeLedger()

	// paid and delivered: settles
	seedOrder(t, ledger, models.Order{
		ID:            "order-settled",
		InvoiceNumber: "0001",
		Status:        models.OrderStatusDelivered,
		IsPaid:        true,
		TotalAmount:   90, // 2 dosa at 45
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 2, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: createdAt,
	})
	// unpaid: never settles
	seedOrder(t, ledger, models.Order{
		ID:            "order-unpaid",
		InvoiceNumber: "0002",
		Status:        models.OrderStatusDelivered,
		IsPaid:        false,
		TotalAmount:   45,
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: createdAt,
	})
	// paid but cancelled: excluded from settlement
	seedOrder(t, ledger, models.Order{
		ID:            "order-cancelled",
		InvoiceNumber: "0003",
		Status:        models.OrderStatusCancelled,
		IsPaid:        true,
		TotalAmount:   25,
		Items: []models.LineItem{
			{ItemID: "item-idli", Quantity: 1, Name: "Idli", Price: 25},
		},
		CreatedAt: createdAt,
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	report, err := svc.Settlements(context.Background(),
		createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, report.Orders, 1)
	settled := report.Orders[0]

	assert.Equal(t, "order-settled", settled.OrderID)
	assert.Equal(t, "0001", settled.InvoiceNumber)
	assert.Equal(t, 90.0, settled.TotalSales)
	assert.Equal(t, 40.0, settled.TotalPayable) // 2 dosa at current cost 20
	assert.Equal(t, 50.0, settled.Profit)

	assert.Equal(t, 90.0, report.TotalSales)
	assert.Equal(t, 40.0, report.TotalPayable)
	assert.Equal(t, 50.0, report.TotalProfit)
}

func TestReportService_Settlements_CostBasisIsCurrentNotSnapshot(t *testing.T) {
	loc := testBusinessLocation(t)
	createdAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)

	ledger := newFakeLedger()
	seedOrder(t, ledger, models.Order{
		ID:            "order-1",
		InvoiceNumber: "0001",
		Status:        models.OrderStatusDelivered,
		IsPaid:        true,
		TotalAmount:   45,
		Items: []models.LineItem{
			// snapshot price 45 from back when dosa sold at 45
			{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: createdAt,
	})

	// purchase price has risen since the order was placed
	catalog := reportCatalog()
	dosa := catalog["item-dosa"]
	dosa.PurchasePrice = 30
	catalog["item-dosa"] = dosa

	svc := newTestReportService(t, ledger, catalog)

	report, err := svc.Settlements(context.Background(),
		createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, report.Orders, 1)
	assert.Equal(t, 30.0, report.Orders[0].TotalPayable)
	assert.Equal(t, 15.0, report.Orders[0].Profit)
}

func TestReportService_Settlements_DeletedItemIsFlagged(t *testing.T) {
	loc := testBusinessLocation(t)
	createdAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)

	ledger := newFakeLedger()
	seedOrder(t, ledger, models.Order{
		ID:            "order-1",
		InvoiceNumber: "0001",
		Status:        models.OrderStatusDelivered,
		IsPaid:        true,
		TotalAmount:   70,
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
			{ItemID: "item-gone", Quantity: 1, Name: "Retired Special", Price: 25},
		},
		CreatedAt: createdAt,
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	report, err := svc.Settlements(context.Background(),
		createdAt.Add(-time.Hour), createdAt.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, report.Orders, 1)
	require.Len(t, report.Orders[0].Items, 2)

	kept := report.Orders[0].Items[0]
	gone := report.Orders[0].Items[1]

	assert.False(t, kept.CostBasisUnavailable)
	assert.Equal(t, 20.0, kept.TotalPayable)

	assert.True(t, gone.CostBasisUnavailable)
	assert.Equal(t, 0.0, gone.TotalPayable)

	// the dangling line costs zero but the order still settles
	assert.Equal(t, 20.0, report.Orders[0].TotalPayable)
	assert.Equal(t, 50.0, report.Orders[0].Profit)
}

func TestReportService_Settlements_EmptyRange(t *testing.T) {
	svc := newTestReportService(t, newFakeLedger(), reportCatalog())

	report, err := svc.Settlements(context.Background(),
		time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, report.Orders)
	assert.Equal(t, 0.0, report.TotalSales)
	assert.Equal(t, 0.0, report.TotalProfit)
}

func TestReportService_ProfitStats(t *testing.T) {
	loc := testBusinessLocation(t)
	createdAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, loc)

	ledger := newFakeLedger()

	// delivered for 90, current cost 40
	seedOrder(t, ledger, models.Order{
		ID:          "order-delivered",
		Status:      models.OrderStatusDelivered,
		IsPaid:      true,
		TotalAmount: 90,
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 2, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: createdAt,
	})
	// cancelled for 50
	seedOrder(t, ledger, models.Order{
		ID:          "order-cancelled",
		Status:      models.OrderStatusCancelled,
		IsPaid:      true,
		TotalAmount: 50,
		Items: []models.LineItem{
			{ItemID: "item-idli", Quantity: 2, Name: "Idli", Price: 25},
		},
		CreatedAt: createdAt,
	})
	// pending orders only count towards order totals
	seedOrder(t, ledger, models.Order{
		ID:          "order-pending",
		Status:      models.OrderStatusPending,
		TotalAmount: 25,
		Items: []models.LineItem{
			{ItemID: "item-idli", Quantity: 1, Name: "Idli", Price: 25},
		},
		CreatedAt: createdAt,
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	stats, err := svc.ProfitStats(context.Background(), models.OrderFilter{})
	require.NoError(t, err)

	// the cancelled amount shows up as income AND refund, netting to zero
	assert.Equal(t, 140.0, stats.TotalIncome)
	assert.Equal(t, 50.0, stats.TotalRefunds)
	assert.Equal(t, 40.0, stats.TotalPurchaseCost)
	assert.Equal(t, 50.0, stats.NetProfit)

	assert.Equal(t, 1, stats.DeliveredOrderCount)
	assert.Equal(t, 1, stats.CancelledOrderCount)
	assert.Equal(t, 3, stats.TotalOrderCount)

	require.Len(t, stats.DailyBreakdown, 1)
	day := stats.DailyBreakdown[0]
	assert.Equal(t, "2025-03-10", day.Key)
	assert.Equal(t, 140.0, day.Income)
	assert.Equal(t, 50.0, day.Refunds)
	assert.Equal(t, 40.0, day.PurchaseCost)
	assert.Equal(t, 50.0, day.Profit)
	assert.Equal(t, 3, day.Orders)

	require.Len(t, stats.MonthlyBreakdown, 1)
	assert.Equal(t, "2025-03", stats.MonthlyBreakdown[0].Key)
}

func TestReportService_ProfitStats_BucketsSortNewestFirst(t *testing.T) {
	loc := testBusinessLocation(t)
	ledger := newFakeLedger()

	days := []int{8, 10, 9}
	for _, day := range days {
		seedOrder(t, ledger, models.Order{
			ID:          "order-" + string(rune('a'+day)),
			Status:      models.OrderStatusDelivered,
			IsPaid:      true,
			TotalAmount: 45,
			Items: []models.LineItem{
				{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
			},
			CreatedAt: time.Date(2025, time.March, day, 9, 0, 0, 0, loc),
		})
	}

	svc := newTestReportService(t, ledger, reportCatalog())

	stats, err := svc.ProfitStats(context.Background(), models.OrderFilter{})
	require.NoError(t, err)

	require.Len(t, stats.DailyBreakdown, 3)
	assert.Equal(t, "2025-03-10", stats.DailyBreakdown[0].Key)
	assert.Equal(t, "2025-03-09", stats.DailyBreakdown[1].Key)
	assert.Equal(t, "2025-03-08", stats.DailyBreakdown[2].Key)
}

func TestReportService_ProfitStats_BucketsFollowBusinessTimezone(t *testing.T) {
	ledger := newFakeLedger()

	// 20:00 UTC on March 9 is already March 10 in Kolkata
	seedOrder(t, ledger, models.Order{
		ID:          "order-1",
		Status:      models.OrderStatusDelivered,
		IsPaid:      true,
		TotalAmount: 45,
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: time.Date(2025, time.March, 9, 20, 0, 0, 0, time.UTC),
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	stats, err := svc.ProfitStats(context.Background(), models.OrderFilter{})
	require.NoError(t, err)

	require.Len(t, stats.DailyBreakdown, 1)
	assert.Equal(t, "2025-03-10", stats.DailyBreakdown[0].Key)
}

func TestReportService_ProfitStats_UnknownTimeslotYieldsZeroReport(t *testing.T) {
	loc := testBusinessLocation(t)
	ledger := newFakeLedger()

	seedOrder(t, ledger, models.Order{
		ID:          "order-1",
		TimeslotID:  "ts-lunch",
		Status:      models.OrderStatusDelivered,
		IsPaid:      true,
		TotalAmount: 45,
		Items: []models.LineItem{
			{ItemID: "item-dosa", Quantity: 1, Name: "Masala Dosa", Price: 45},
		},
		CreatedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, loc),
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	stats, err := svc.ProfitStats(context.Background(), models.OrderFilter{TimeslotID: "ts-missing"})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalOrderCount)
	assert.Equal(t, 0.0, stats.TotalIncome)
	assert.Empty(t, stats.DailyBreakdown)
	assert.Empty(t, stats.MonthlyBreakdown)
}

func TestReportService_ProfitStats_DeletedItemCostsZero(t *testing.T) {
	loc := testBusinessLocation(t)
	ledger := newFakeLedger()

	seedOrder(t, ledger, models.Order{
		ID:          "order-1",
		Status:      models.OrderStatusDelivered,
		IsPaid:      true,
		TotalAmount: 25,
		Items: []models.LineItem{
			{ItemID: "item-gone", Quantity: 1, Name: "Retired Special", Price: 25},
		},
		CreatedAt: time.Date(2025, time.March, 10, 9, 0, 0, 0, loc),
	})

	svc := newTestReportService(t, ledger, reportCatalog())

	stats, err := svc.ProfitStats(context.Background(), models.OrderFilter{})
	require.NoError(t, err)

	assert.Equal(t, 25.0, stats.TotalIncome)
	assert.Equal(t, 0.0, stats.TotalPurchaseCost)
	assert.Equal(t, 25.0, stats.NetProfit)
}
