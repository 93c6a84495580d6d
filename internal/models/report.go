package models

import "time"

// SettlementLine is one order line priced at the item's current cost basis.
// CostBasisUnavailable marks lines whose catalog item no longer exists;
// such lines contribute zero cost instead of failing the report.
type SettlementLine struct {
	ItemID               string
	Name                 string
	Quantity             int
	Price                float64
	PurchasePrice        float64
	TotalPayable         float64
	CostBasisUnavailable bool
}

// SettlementOrder is one reconciled order in the settlements view
type SettlementOrder struct {
	OrderID       string
	InvoiceNumber string
	CreatedAt     time.Time
	Items         []SettlementLine
	TotalSales    float64
	TotalPayable  float64
	Profit        float64
}

// SettlementReport reconciles paid, non-cancelled orders in a time range
// against the catalog's current purchase prices
type SettlementReport struct {
	Orders       []SettlementOrder
	TotalSales   float64
	TotalPayable float64
	TotalProfit  float64
}

// ProfitBucket accumulates one calendar day or month of the profit stats
// breakdown. Key is "YYYY-MM-DD" for daily buckets and "YYYY-MM" for
// monthly ones, computed in the business timezone.
type ProfitBucket struct {
	Key          string
	Income       float64
	Refunds      float64
	PurchaseCost float64
	Profit       float64
	Orders       int
}

// ProfitStats is the aggregate profit view over a filtered ledger slice.
// Cancelled order amounts appear in both TotalIncome and TotalRefunds on
// purpose: net effect on profit is zero, but refunds stay visible for
// audit.
type ProfitStats struct {
	TotalIncome         float64
	TotalRefunds        float64
	TotalPurchaseCost   float64
	NetProfit           float64
	DeliveredOrderCount int
	CancelledOrderCount int
	TotalOrderCount     int
	DailyBreakdown      []ProfitBucket
	MonthlyBreakdown    []ProfitBucket
}
