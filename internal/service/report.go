package service

import (
	"context"
	"sort"
	"time"

	"github.com/rudrakh/tiffin/internal/models"
)

// reportBatchSize is how many orders a report pulls from the ledger per
// page. Reports are recomputed from scratch on every request, so reads
// stream instead of assuming the ledger fits in memory.
const reportBatchSize = 500

// ReportService derives settlement and profit views from the ledger by
// reconciling each order's frozen selling-price snapshot against the
// catalog's current purchase prices
type ReportService struct {
	orders OrderRepository
	items  ItemReader
	loc    *time.Location
}

// NewReportService creates new ReportService instance
func NewReportService(orders OrderRepository, items ItemReader, loc *time.Location) *ReportService {
	return &ReportService{
		orders: orders,
		items:  items,
		loc:    loc,
	}
}

// costCache memoizes catalog lookups within a single report run so one
// request sees one consistent cost basis per item
type costCache struct {
	items  ItemReader
	cached map[string]*models.Item
}

func newCostCache(items ItemReader) *costCache {
	return &costCache{items: items, cached: map[string]*models.Item{}}
}

// get returns the current catalog entry for id, or nil when the item has
// been removed from the catalog
func (c *costCache) get(ctx context.Context, id string) (*models.Item, error) {
	if item, ok := c.cached[id]; ok {
		return item, nil
	}

	found, err := c.items.GetItemsByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	if item, ok := found[id]; ok {
		c.cached[id] = &item
		return &item, nil
	}

	c.cached[id] = nil
	return nil, nil
}

// orderCost sums the current cost basis of all order lines. Lines whose
// item no longer exists contribute zero.
func (c *costCache) orderCost(ctx context.Context, order *models.Order) (float64, error) {
	cost := 0.0
	for _, line := range order.Items {
		item, err := c.get(ctx, line.ItemID)
		if err != nil {
			return 0, err
		}
		if item != nil {
			cost += item.PurchasePrice * float64(line.Quantity)
		}
	}
	return cost, nil
}

// Settlements reconciles every paid, non-cancelled order created in
// [from, to] against current purchase prices. A line whose catalog item
// was deleted is flagged and costed at zero; the report never fails for a
// single dangling reference. An empty range yields an empty report.
func (rs *ReportService) Settlements(ctx context.Context, from, to time.Time) (*models.SettlementReport, error) {
	report := models.SettlementReport{Orders: []models.SettlementOrder{}}
	cache := newCostCache(rs.items)

	filter := models.OrderFilter{From: from, To: to}

	err := rs.orders.ForEachOrder(ctx, filter, reportBatchSize, func(order models.Order) error {
		if !order.IsPaid || order.Status == models.OrderStatusCancelled {
			return nil
		}

		settled := models.SettlementOrder{
			OrderID:       order.ID,
			InvoiceNumber: order.InvoiceNumber,
			CreatedAt:     order.CreatedAt,
			Items:         make([]models.SettlementLine, 0, len(order.Items)),
			TotalSales:    order.TotalAmount,
		}

		for _, line := range order.Items {
			item, err := cache.get(ctx, line.ItemID)
			if err != nil {
				return err
			}

			settledLine := models.SettlementLine{
				ItemID:   line.ItemID,
				Name:     line.Name,
				Quantity: line.Quantity,
				Price:    line.Price,
			}
			if item != nil {
				settledLine.PurchasePrice = item.PurchasePrice
				settledLine.TotalPayable = item.PurchasePrice * float64(line.Quantity)
			} else {
				settledLine.CostBasisUnavailable = true
			}

			settled.TotalPayable += settledLine.TotalPayable
			settled.Items = append(settled.Items, settledLine)
		}

		settled.Profit = settled.TotalSales - settled.TotalPayable

		report.Orders = append(report.Orders, settled)
		report.TotalSales += settled.TotalSales
		report.TotalPayable += settled.TotalPayable
		report.TotalProfit += settled.Profit
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ProfitStats aggregates profit over all orders matching filter.
//
// Accrual rule per status: delivered orders contribute their amount as
// income and their current item cost as purchase cost; cancelled orders
// contribute their amount as income AND as a refund. The double count is
// deliberate: it nets to zero profit while keeping refunds separately
// visible for audit. Pending and confirmed orders only count towards
// order totals. A filter matching nothing (including an unknown timeslot)
// yields a zero-valued report, not an error.
func (rs *ReportService) ProfitStats(ctx context.Context, filter models.OrderFilter) (*models.ProfitStats, error) {
	stats := models.ProfitStats{
		DailyBreakdown:   []models.ProfitBucket{},
		MonthlyBreakdown: []models.ProfitBucket{},
	}
	cache := newCostCache(rs.items)

	daily := map[string]*models.ProfitBucket{}
	monthly := map[string]*models.ProfitBucket{}

	bucket := func(buckets map[string]*models.ProfitBucket, key string) *models.ProfitBucket {
		b, ok := buckets[key]
		if !ok {
			b = &models.ProfitBucket{Key: key}
			buckets[key] = b
		}
		return b
	}

	err := rs.orders.ForEachOrder(ctx, filter, reportBatchSize, func(order models.Order) error {
		day := bucket(daily, dayKey(order.CreatedAt, rs.loc))
		month := bucket(monthly, monthKey(order.CreatedAt, rs.loc))

		stats.TotalOrderCount++
		day.Orders++
		month.Orders++

		switch order.Status {
		case models.OrderStatusDelivered:
			cost, err := cache.orderCost(ctx, &order)
			if err != nil {
				return err
			}

			stats.DeliveredOrderCount++
			stats.TotalIncome += order.TotalAmount
			stats.TotalPurchaseCost += cost

			day.Income += order.TotalAmount
			day.PurchaseCost += cost
			month.Income += order.TotalAmount
			month.PurchaseCost += cost

		case models.OrderStatusCancelled:
			stats.CancelledOrderCount++
			stats.TotalIncome += order.TotalAmount
			stats.TotalRefunds += order.TotalAmount

			day.Income += order.TotalAmount
			day.Refunds += order.TotalAmount
			month.Income += order.TotalAmount
			month.Refunds += order.TotalAmount
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.NetProfit = stats.TotalIncome - stats.TotalPurchaseCost - stats.TotalRefunds
	stats.DailyBreakdown = collectBuckets(daily)
	stats.MonthlyBreakdown = collectBuckets(monthly)

	return &stats, nil
}

// collectBuckets finalizes per-bucket profit and orders buckets newest
// first. The keys are zero-padded, so lexicographic order is
// chronological.
func collectBuckets(buckets map[string]*models.ProfitBucket) []models.ProfitBucket {
	out := make([]models.ProfitBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Profit = b.Income - b.PurchaseCost - b.Refunds
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key > out[j].Key
	})

	return out
}
