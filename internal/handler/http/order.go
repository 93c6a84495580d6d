package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rudrakh/tiffin/internal/middleware"
	"github.com/rudrakh/tiffin/internal/models"
)

// OrderService is the order lifecycle consumed by HTTP handlers
type OrderService interface {
	// Create places a new order
	Create(ctx context.Context, input models.CreateOrderInput) (*models.Order, error)
	// GetDetails returns an order with resolved timeslot and location
	GetDetails(ctx context.Context, id string) (*models.OrderDetails, error)
	// ListUserOrders returns the user's orders, most recent first
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	// ListOrders returns all orders matching filter, enriched for display
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.EnrichedOrder, error)
	// SetStatus moves an order to target if the lifecycle permits it
	SetStatus(ctx context.Context, id, target string) (string, error)
	// MarkPaid records payment, idempotently
	MarkPaid(ctx context.Context, id string) error
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	TimeslotID string                   `json:"timeslotId"`
	LocationID string                   `json:"locationId"`
	Items      []createOrderItemRequest `json:"items"`
}

type orderResponse struct {
	ID             string            `json:"id"`
	InvoiceNumber  string            `json:"invoiceNumber"`
	Items          []models.LineItem `json:"items"`
	TotalAmount    float64           `json:"totalAmount"`
	DeliveryCharge float64           `json:"deliveryCharge"`
	Status         string            `json:"status"`
	IsPaid         bool              `json:"isPaid"`
	TimeslotID     string            `json:"timeslotId"`
	LocationID     string            `json:"locationId"`
	CreatedAt      time.Time         `json:"createdAt"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:             order.ID,
		InvoiceNumber:  order.InvoiceNumber,
		Items:          order.Items,
		TotalAmount:    order.TotalAmount,
		DeliveryCharge: order.DeliveryCharge,
		Status:         order.Status,
		IsPaid:         order.IsPaid,
		TimeslotID:     order.TimeslotID,
		LocationID:     order.LocationID,
		CreatedAt:      order.CreatedAt,
	}
}

type windowClosedResponse struct {
	Error       string `json:"error"`
	WindowStart string `json:"windowStart"`
	WindowEnd   string `json:"windowEnd"`
}

// CreateOrder places a new order for the authenticated user
// 201 — order created;
// 400 — malformed request;
// 401 — user is not authenticated;
// 409 — sequencing conflict, retry the request;
// 422 — order rejected (empty, unknown slot/item, window closed);
// 500 — internal server error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		input := models.CreateOrderInput{
			UserID:     payload.UserID,
			TimeslotID: req.TimeslotID,
			LocationID: req.LocationID,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, models.CreateOrderItem{
				ItemID:   item.ItemID,
				Quantity: item.Quantity,
			})
		}

		order, err := oh.svc.Create(r.Context(), input)
		if err != nil {
			var windowErr *models.WindowClosedError
			switch {
			case errors.As(err, &windowErr):
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(windowClosedResponse{
					Error:       windowErr.Error(),
					WindowStart: windowErr.Start,
					WindowEnd:   windowErr.End,
				})
			case errors.Is(err, models.ErrInvalidTimeslot),
				errors.Is(err, models.ErrEmptyOrder),
				errors.Is(err, models.ErrInvalidQuantity),
				errors.Is(err, models.ErrItemUnavailable),
				errors.Is(err, models.ErrNotFound):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.Is(err, models.ErrSequencingConflict):
				// retries exhausted, the client may simply try again
				http.Error(w, "please retry", http.StatusConflict)
			case errors.Is(err, models.ErrInvoiceOverflow):
				http.Error(w, "daily order limit reached", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		if err := json.NewEncoder(w).Encode(newOrderResponse(order)); err != nil {
			return
		}
	}
}

// ListMyOrders returns the authenticated user's orders
// 200 — request processed successfully.
// 401 — user is not authenticated.
// 500 — internal server error.
func (oh *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type orderDetailsResponse struct {
	orderResponse
	TimeslotLabel string `json:"timeslotLabel,omitempty"`
	DeliveryTime  string `json:"deliveryTime,omitempty"`
	LocationName  string `json:"locationName,omitempty"`
}

// GetOrder returns a single order. Customers may only read their own.
// 200 — request processed successfully.
// 401 — user is not authenticated.
// 403 — order belongs to another user.
// 404 — order not found.
// 500 — internal server error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		details, err := oh.svc.GetDetails(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if !payload.IsAdmin() && details.UserID != payload.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		resp := orderDetailsResponse{orderResponse: newOrderResponse(&details.Order)}
		if details.Timeslot != nil {
			resp.TimeslotLabel = details.Timeslot.Label
			resp.DeliveryTime = details.Timeslot.DeliveryTime
		}
		if details.Location != nil {
			resp.LocationName = details.Location.Name
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// MarkPaid records payment for an order after the customer has scanned the
// UPI code. Idempotent.
// 200 — payment recorded (or was already recorded).
// 401 — user is not authenticated.
// 403 — order belongs to another user.
// 404 — order not found.
// 500 — internal server error.
func (oh *OrderHandler) MarkPaid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")

		if !payload.IsAdmin() {
			details, err := oh.svc.GetDetails(r.Context(), id)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					http.Error(w, "order not found", http.StatusNotFound)
					return
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if details.UserID != payload.UserID {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		if err := oh.svc.MarkPaid(r.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type setStatusResponse struct {
	Status string `json:"status"`
}

// SetStatus transitions an order through its lifecycle (admin only)
// 200 — status changed;
// 400 — unknown status;
// 404 — order not found;
// 409 — transition not permitted;
// 500 — internal server error.
func (oh *OrderHandler) SetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		status, err := oh.svc.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidStatus):
				http.Error(w, "unknown status", http.StatusBadRequest)
			case errors.Is(err, models.ErrNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrIllegalTransition):
				http.Error(w, "illegal transition", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(setStatusResponse{Status: status}); err != nil {
			return
		}
	}
}

type enrichedOrderResponse struct {
	orderResponse
	UserName     string `json:"userName"`
	LocationName string `json:"locationName"`
}

// ListOrders returns all orders, filterable by timeslot and/or date range
// (admin only)
// 200 — request processed successfully.
// 400 — malformed filter.
// 500 — internal server error.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
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

		orders, err := oh.svc.ListOrders(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]enrichedOrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, enrichedOrderResponse{
				orderResponse: newOrderResponse(&orders[i].Order),
				UserName:      orders[i].UserName,
				LocationName:  orders[i].LocationName,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

// parseTimeParam parses an optional time filter value, accepting RFC3339
// or a plain calendar date
func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
