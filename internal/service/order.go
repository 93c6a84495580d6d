package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rudrakh/tiffin/internal/logger"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/notify"
	"go.uber.org/zap"
)

// invoiceSeqLimit is the largest ordinal the zero-padded 4-digit invoice
// format can carry per day
const invoiceSeqLimit = 9999

// sequencingRetries bounds how often a creation recomputes its invoice
// number after losing the insert race to a concurrent creation
const sequencingRetries = 3

const notifyTimeout = 10 * time.Second

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order; a duplicate (invoiceDay, invoice
	// number) pair fails with models.ErrSequencingConflict
	CreateOrder(ctx context.Context, order *models.Order, invoiceDay string) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetOrdersByUserID gets user orders ordered by recency
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateOrderStatus patches the status field of a single order
	UpdateOrderStatus(ctx context.Context, id string, status string) error
	// MarkOrderPaid sets is_paid
	MarkOrderPaid(ctx context.Context, id string) error
	// CountOrdersCreatedSince counts orders created at or after since
	CountOrdersCreatedSince(ctx context.Context, since time.Time) (int, error)
	// ForEachOrder streams orders matching filter in batches
	ForEachOrder(ctx context.Context, filter models.OrderFilter, batchSize int, fn func(models.Order) error) error
}

// TimeslotReader resolves timeslot references
type TimeslotReader interface {
	GetTimeslotByID(ctx context.Context, id string) (*models.Timeslot, error)
}

// ItemReader resolves catalog item references
type ItemReader interface {
	GetItemsByIDs(ctx context.Context, ids []string) (map[string]models.Item, error)
}

// LocationReader resolves location references
type LocationReader interface {
	GetLocationByID(ctx context.Context, id string) (*models.Location, error)
}

// UserReader resolves user references
type UserReader interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SettingsReader resolves application settings
type SettingsReader interface {
	GetSetting(ctx context.Context, key string) (interface{}, error)
}

// Notifier dispatches fire-and-forget messages to staff
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// OrderService owns the order lifecycle: window-gated creation with daily
// invoice sequencing and snapshotting, status transitions and payment marks
type OrderService struct {
	orders    OrderRepository
	timeslots TimeslotReader
	items     ItemReader
	locations LocationReader
	users     UserReader
	settings  SettingsReader
	notifier  Notifier
	loc       *time.Location

	now func() time.Time
}

// NewOrderService creates new OrderService instance. loc is the timezone
// the business operates in; ordering windows and invoice days are evaluated
// there regardless of where clients are.
func NewOrderService(orders OrderRepository, timeslots TimeslotReader, items ItemReader,
	locations LocationReader, users UserReader, settings SettingsReader,
	notifier Notifier, loc *time.Location) *OrderService {
	return &OrderService{
		orders:    orders,
		timeslots: timeslots,
		items:     items,
		locations: locations,
		users:     users,
		settings:  settings,
		notifier:  notifier,
		loc:       loc,
		now:       time.Now,
	}
}

// Create places a new order. It gates on the timeslot's ordering window,
// snapshots item names and selling prices from the catalog, assigns the
// next daily invoice number and persists the order as pending/unpaid.
// The staff notification is dispatched after the insert and never affects
// the result.
func (os *OrderService) Create(ctx context.Context, input models.CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, models.ErrInvalidQuantity
		}
	}

	timeslot, err := os.timeslots.GetTimeslotByID(ctx, input.TimeslotID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidTimeslot
		}
		return nil, err
	}

	// the window is checked server-side against the business clock,
	// client-submitted time is never trusted
	if !WindowOpen(os.now(), timeslot.OrderStart, timeslot.OrderEnd, os.loc) {
		return nil, &models.WindowClosedError{
			Label: timeslot.Label,
			Start: timeslot.OrderStart,
			End:   timeslot.OrderEnd,
		}
	}

	if _, err := os.locations.GetLocationByID(ctx, input.LocationID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("location %s: %w", input.LocationID, models.ErrNotFound)
		}
		return nil, err
	}

	items, total, err := os.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	deliveryCharge, err := os.deliveryCharge(ctx)
	if err != nil {
		return nil, err
	}
	total += deliveryCharge

	var order *models.Order

	// the invoice number is re-counted from the ledger on every attempt, so
	// two concurrent creations may pick the same ordinal; the unique
	// (day, number) constraint rejects the loser and we recompute
	for attempt := 0; ; attempt++ {
		createdAt := os.now()

		invoiceNumber, err := os.nextInvoiceNumber(ctx, createdAt)
		if err != nil {
			return nil, err
		}

		order, err = os.orders.CreateOrder(ctx, &models.Order{
			ID:             uuid.NewString(),
			UserID:         input.UserID,
			TimeslotID:     input.TimeslotID,
			LocationID:     input.LocationID,
			Items:          items,
			TotalAmount:    total,
			DeliveryCharge: deliveryCharge,
			Status:         models.OrderStatusPending,
			IsPaid:         false,
			InvoiceNumber:  invoiceNumber,
			CreatedAt:      createdAt,
		}, dayKey(createdAt, os.loc))
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrSequencingConflict) || attempt >= sequencingRetries {
			return nil, err
		}
	}

	os.dispatchNotification(order)

	return order, nil
}

// snapshotItems resolves the requested items and freezes their name and
// selling price into order lines, returning the lines and their sales total
func (os *OrderService) snapshotItems(ctx context.Context, lines []models.CreateOrderItem) ([]models.LineItem, float64, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}

	catalog, err := os.items.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.LineItem, 0, len(lines))
	total := 0.0

	for _, line := range lines {
		item, ok := catalog[line.ItemID]
		if !ok {
			return nil, 0, fmt.Errorf("item %s: %w", line.ItemID, models.ErrNotFound)
		}
		if !item.IsAvailable {
			return nil, 0, fmt.Errorf("item %s: %w", item.Name, models.ErrItemUnavailable)
		}

		items = append(items, models.LineItem{
			ItemID:   item.ID,
			Quantity: line.Quantity,
			Name:     item.Name,
			Price:    item.SellingPrice,
		})
		total += item.SellingPrice * float64(line.Quantity)
	}

	return items, total, nil
}

// nextInvoiceNumber derives the next daily invoice ordinal by counting
// orders created since midnight of now's day. The count is read from the
// ledger itself rather than a stored counter, so the sequence self-heals
// after out-of-band deletions.
func (os *OrderService) nextInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	count, err := os.orders.CountOrdersCreatedSince(ctx, startOfDay(now, os.loc))
	if err != nil {
		return "", err
	}

	seq := count + 1
	if seq > invoiceSeqLimit {
		return "", models.ErrInvoiceOverflow
	}

	return fmt.Sprintf("%04d", seq), nil
}

// deliveryCharge reads the current flat delivery charge setting; an absent
// setting means no charge
func (os *OrderService) deliveryCharge(ctx context.Context) (float64, error) {
	value, err := os.settings.GetSetting(ctx, models.SettingDeliveryCharge)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	charge, ok := value.(float64)
	if !ok {
		return 0, nil
	}
	return charge, nil
}

// dispatchNotification sends the new-order message in the background.
// Failures are logged and swallowed: delivery is not part of the order's
// correctness contract.
func (os *OrderService) dispatchNotification(order *models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		customerName := "Unknown"
		if user, err := os.users.GetUserByID(ctx, order.UserID); err == nil && user.Name != "" {
			customerName = user.Name
		}

		if err := os.notifier.Send(ctx, notify.FormatOrder(order, customerName)); err != nil {
			logger.Log.Error("order notification failed",
				zap.String("order", order.ID),
				zap.String("invoice", order.InvoiceNumber),
				zap.Error(err))
		}
	}()
}

// SetStatus moves an order to target if the lifecycle graph permits it and
// returns the resulting status
func (os *OrderService) SetStatus(ctx context.Context, id, target string) (string, error) {
	if !models.IsValidStatus(target) {
		return "", models.ErrInvalidStatus
	}

	order, err := os.orders.GetOrderByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !models.CanTransition(order.Status, target) {
		return "", models.ErrIllegalTransition
	}

	if err := os.orders.UpdateOrderStatus(ctx, id, target); err != nil {
		return "", err
	}

	return target, nil
}

// MarkPaid records payment for an order. Calling it on an already paid
// order is a no-op success. Status is intentionally not consulted.
func (os *OrderService) MarkPaid(ctx context.Context, id string) error {
	order, err := os.orders.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if order.IsPaid {
		return nil
	}

	return os.orders.MarkOrderPaid(ctx, id)
}

// GetDetails returns an order with its timeslot and location resolved for
// display. Dangling references degrade to nil, they do not fail the read.
func (os *OrderService) GetDetails(ctx context.Context, id string) (*models.OrderDetails, error) {
	order, err := os.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := models.OrderDetails{Order: *order}

	if timeslot, err := os.timeslots.GetTimeslotByID(ctx, order.TimeslotID); err == nil {
		details.Timeslot = timeslot
	}
	if location, err := os.locations.GetLocationByID(ctx, order.LocationID); err == nil {
		details.Location = location
	}

	return &details, nil
}

// ListUserOrders returns the user's orders, most recent first
func (os *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return os.orders.GetOrdersByUserID(ctx, userID)
}

// ListOrders returns all orders matching filter enriched with customer and
// location names for the admin dashboard. Unresolvable references render
// as "Unknown" rather than failing the listing.
func (os *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.EnrichedOrder, error) {
	userNames := map[string]string{}
	locationNames := map[string]string{}

	orders := []models.EnrichedOrder{}

	err := os.orders.ForEachOrder(ctx, filter, reportBatchSize, func(order models.Order) error {
		userName, ok := userNames[order.UserID]
		if !ok {
			userName = "Unknown"
			if user, err := os.users.GetUserByID(ctx, order.UserID); err == nil && user.Name != "" {
				userName = user.Name
			}
			userNames[order.UserID] = userName
		}

		locationName, ok := locationNames[order.LocationID]
		if !ok {
			locationName = "Unknown"
			if location, err := os.locations.GetLocationByID(ctx, order.LocationID); err == nil {
				locationName = location.Name
			}
			locationNames[order.LocationID] = locationName
		}

		orders = append(orders, models.EnrichedOrder{
			Order:        order,
			UserName:     userName,
			LocationName: locationName,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orders, nil
}
