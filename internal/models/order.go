package models

import "time"

// order status lifecycle:
// pending -> confirmed -> delivered
// pending|confirmed -> cancelled
// delivered and cancelled are terminal
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// statusTransitions holds reachable statuses per current status.
// Terminal statuses have no entry.
var statusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusDelivered, OrderStatusCancelled},
}

// IsValidStatus reports whether s is a known order status
func IsValidStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from current to target
func CanTransition(current, target string) bool {
	for _, s := range statusTransitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// LineItem is a single order line. Name and Price are snapshots taken from
// the catalog at creation time and are never re-read afterwards.
// The json tags define the jsonb shape stored in the orders table.
type LineItem struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// Order is the ledger's unit of record
type Order struct {
	ID             string
	UserID         string
	TimeslotID     string
	LocationID     string
	Items          []LineItem
	TotalAmount    float64
	DeliveryCharge float64
	Status         string
	IsPaid         bool
	InvoiceNumber  string
	CreatedAt      time.Time
}

// OrderFilter narrows ledger reads. Zero values mean no restriction.
type OrderFilter struct {
	TimeslotID string
	From       time.Time
	To         time.Time
}

// EnrichedOrder is an order with display names resolved for the admin list
type EnrichedOrder struct {
	Order
	UserName     string
	LocationName string
}

// CreateOrderItem is one requested line of a new order. Name and price are
// not accepted from the caller; they are snapshotted server-side.
type CreateOrderItem struct {
	ItemID   string
	Quantity int
}

// CreateOrderInput is the request to place a new order
type CreateOrderInput struct {
	UserID     string
	TimeslotID string
	LocationID string
	Items      []CreateOrderItem
}

// OrderDetails is an order with its timeslot and location resolved for
// display. Either reference may be nil if it has since been removed.
type OrderDetails struct {
	Order
	Timeslot *Timeslot
	Location *Location
}
