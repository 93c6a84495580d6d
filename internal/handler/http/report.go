package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rudrakh/tiffin/internal/models"
)

// ReportService derives settlement and profit views from the ledger
type ReportService interface {
	// Settlements reconciles paid, non-cancelled orders in [from, to]
	Settlements(ctx context.Context, from, to time.Time) (*models.SettlementReport, error)
	// ProfitStats aggregates profit over all orders matching filter
	ProfitStats(ctx context.Context, filter models.OrderFilter) (*models.ProfitStats, error)
}

// ReportHandler represents HTTP handler for reporting requests
type ReportHandler struct {
	svc ReportService
}

// NewReportHandler creates new ReportHandler instance
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type settlementLineResponse struct {
	ItemID               string  `json:"itemId"`
	Name                 string  `json:"name"`
	Quantity             int     `json:"quantity"`
	Price                float64 `json:"price"`
	PurchasePrice        float64 `json:"purchasePrice"`
	TotalPayable         float64 `json:"totalPayable"`
	CostBasisUnavailable bool    `json:"costBasisUnavailable,omitempty"`
}

type settlementOrderResponse struct {
	OrderID       string                   `json:"orderId"`
	InvoiceNumber string                   `json:"invoiceNumber"`
	CreatedAt     time.Time                `json:"createdAt"`
	Items         []settlementLineResponse `json:"items"`
	TotalSales    float64                  `json:"totalSales"`
	TotalPayable  float64                  `json:"totalPayable"`
	Profit        float64                  `json:"profit"`
}

type settlementSummaryResponse struct {
	TotalSales   float64 `json:"totalSales"`
	TotalPayable float64 `json:"totalPayable"`
	TotalProfit  float64 `json:"totalProfit"`
}

type settlementReportResponse struct {
	Orders  []settlementOrderResponse `json:"orders"`
	Summary settlementSummaryResponse `json:"summary"`
}

// Settlements returns the settlement reconciliation for a time range
// (admin only)
// 200 — request processed successfully.
// 400 — malformed or missing time range.
// 500 — internal server error.
func (rh *ReportHandler) Settlements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseTimeParam(r.URL.Query().Get("from"))
		if err != nil || from.IsZero() {
			http.Error(w, "bad from parameter", http.StatusBadRequest)
			return
		}
		to, err := parseTimeParam(r.URL.Query().Get("to"))
		if err != nil || to.IsZero() {
			http.Error(w, "bad to parameter", http.StatusBadRequest)
			return
		}

		report, err := rh.svc.Settlements(r.Context(), from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := settlementReportResponse{
			Orders: make([]settlementOrderResponse, 0, len(report.Orders)),
			Summary: settlementSummaryResponse{
				TotalSales:   report.TotalSales,
				TotalPayable: report.TotalPayable,
				TotalProfit:  report.TotalProfit,
			},
		}
		for _, order := range report.Orders {
			lines := make([]settlementLineResponse, 0, len(order.Items))
			for _, line := range order.Items {
				lines = append(lines, settlementLineResponse(line))
			}
			resp.Orders = append(resp.Orders, settlementOrderResponse{
				OrderID:       order.OrderID,
				InvoiceNumber: order.InvoiceNumber,
				CreatedAt:     order.CreatedAt,
				Items:         lines,
				TotalSales:    order.TotalSales,
				TotalPayable:  order.TotalPayable,
				Profit:        order.Profit,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type profitBucketResponse struct {
	Key          string  `json:"key"`
	Income       float64 `json:"income"`
	Refunds      float64 `json:"refunds"`
	PurchaseCost float64 `json:"purchaseCost"`
	Profit       float64 `json:"profit"`
	Orders       int     `json:"orders"`
}

type profitStatsResponse struct {
	TotalIncome         float64                `json:"totalIncome"`
	TotalRefunds        float64                `json:"totalRefunds"`
	TotalPurchaseCost   float64                `json:"totalPurchaseCost"`
	NetProfit           float64                `json:"netProfit"`
	DeliveredOrderCount int                    `json:"deliveredOrderCount"`
	CancelledOrderCount int                    `json:"cancelledOrderCount"`
	TotalOrderCount     int                    `json:"totalOrderCount"`
	DailyBreakdown      []profitBucketResponse `json:"dailyBreakdown"`
	MonthlyBreakdown    []profitBucketResponse `json:"monthlyBreakdown"`
}

// ProfitStats returns aggregate profit with daily and monthly breakdowns,
// filterable by timeslot and date range (admin only)
// 200 — request processed successfully.
// 400 — malformed filter.
// 500 — internal server error.
func (rh *ReportHandler) ProfitStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.OrderFilter{TimeslotID: r.URL.Query().Get("timeslot")}

		var err error
		if filter.From, err = parseTimeParam(r.URL.Query().Get("from")); err != nil {
			http.Error(w, "bad from parameter", http.StatusBadRequest)
			return
		}
		if filter.To, err = parseTimeParam(r.URL.Query().Get("to")); err != nil {
			http.Error(w, "bad to parameter", http.StatusBadRequest)
			return
		}

		stats, err := rh.svc.ProfitStats(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := profitStatsResponse{
			TotalIncome:         stats.TotalIncome,
			TotalRefunds:        stats.TotalRefunds,
			TotalPurchaseCost:   stats.TotalPurchaseCost,
			NetProfit:           stats.NetProfit,
			DeliveredOrderCount: stats.DeliveredOrderCount,
			CancelledOrderCount: stats.CancelledOrderCount,
			TotalOrderCount:     stats.TotalOrderCount,
			DailyBreakdown:      make([]profitBucketResponse, 0, len(stats.DailyBreakdown)),
			MonthlyBreakdown:    make([]profitBucketResponse, 0, len(stats.MonthlyBreakdown)),
		}
		for _, b := range stats.DailyBreakdown {
			resp.DailyBreakdown = append(resp.DailyBreakdown, profitBucketResponse(b))
		}
		for _, b := range stats.MonthlyBreakdown {
			resp.MonthlyBreakdown = append(resp.MonthlyBreakdown, profitBucketResponse(b))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
