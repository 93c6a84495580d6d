package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const orderInvoiceConstraint = "orders_invoice_unique"

const (
	insertOrderQuery = `
						INSERT INTO orders (id, user_id, timeslot_id, location_id, line_items, total_amount,
						                    delivery_charge, status, is_paid, invoice_day, invoice_number, created_at)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	selectOrderByIDQuery = `
						SELECT id, user_id, timeslot_id, location_id, line_items, total_amount,
						       delivery_charge, status, is_paid, invoice_number, created_at
						FROM orders
						WHERE id = $1
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, timeslot_id, location_id, line_items, total_amount,
						       delivery_charge, status, is_paid, invoice_number, created_at
						FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1
						WHERE id = $2
`
	markOrderPaidQuery = `
						UPDATE orders
						SET is_paid = TRUE
						WHERE id = $1
`
	countOrdersSinceQuery = `
						SELECT count(*) FROM orders
						WHERE created_at >= $1
`
	scanOrdersQuery = `
						SELECT id, user_id, timeslot_id, location_id, line_items, total_amount,
						       delivery_charge, status, is_paid, invoice_number, created_at
						FROM orders
						WHERE ($1 = '' OR timeslot_id = $1)
						  AND ($2::timestamptz IS NULL OR created_at >= $2)
						  AND ($3::timestamptz IS NULL OR created_at <= $3)
						  AND (created_at, id) > ($4::timestamptz, $5)
						ORDER BY created_at, id
						LIMIT $6
`
)

// OrderRepository persists orders in postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database. invoiceDay is the calendar day
// ("2006-01-02", business timezone) the invoice number was sequenced for;
// inserting a duplicate (day, number) pair returns ErrSequencingConflict.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order, invoiceDay string) (*models.Order, error) {
	_, err := or.db.Exec(ctx, insertOrderQuery,
		order.ID, order.UserID, order.TimeslotID, order.LocationID, order.Items, order.TotalAmount,
		order.DeliveryCharge, order.Status, order.IsPaid, invoiceDay, order.InvoiceNumber, order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			if or.db.ConstraintName(err) == orderInvoiceConstraint {
				return nil, models.ErrSequencingConflict
			}
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, id).Scan(
		&order.ID, &order.UserID, &order.TimeslotID, &order.LocationID, &order.Items, &order.TotalAmount,
		&order.DeliveryCharge, &order.Status, &order.IsPaid, &order.InvoiceNumber, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByUserID gets user orders ordered by recency
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.UserID, &order.TimeslotID, &order.LocationID, &order.Items, &order.TotalAmount,
			&order.DeliveryCharge, &order.Status, &order.IsPaid, &order.InvoiceNumber, &order.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus patches the status field of a single order
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id string, status string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, status, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// MarkOrderPaid sets is_paid. The update is idempotent.
func (or *OrderRepository) MarkOrderPaid(ctx context.Context, id string) error {
	cmd, err := or.db.Exec(ctx, markOrderPaidQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CountOrdersCreatedSince counts orders created at or after since
func (or *OrderRepository) CountOrdersCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := or.db.QueryRow(ctx, countOrdersSinceQuery, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ForEachOrder streams orders matching filter to fn in batches of batchSize,
// paging with a keyset cursor on (created_at, id) so that reports never load
// the whole ledger at once
func (or *OrderRepository) ForEachOrder(ctx context.Context, filter models.OrderFilter, batchSize int, fn func(models.Order) error) error {
	var from, to *time.Time
	if !filter.From.IsZero() {
		from = &filter.From
	}
	if !filter.To.IsZero() {
		to = &filter.To
	}

	cursorAt := time.Time{}
	cursorID := ""

	for {
		rows, err := or.db.Query(ctx, scanOrdersQuery, filter.TimeslotID, from, to, cursorAt, cursorID, batchSize)
		if err != nil {
			return err
		}

		n := 0
		for rows.Next() {
			order := models.Order{}
			err = rows.Scan(&order.ID, &order.UserID, &order.TimeslotID, &order.LocationID, &order.Items, &order.TotalAmount,
				&order.DeliveryCharge, &order.Status, &order.IsPaid, &order.InvoiceNumber, &order.CreatedAt)
			if err != nil {
				rows.Close()
				return err
			}
			if err := fn(order); err != nil {
				rows.Close()
				return err
			}
			cursorAt, cursorID = order.CreatedAt, order.ID
			n++
		}
		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		if n < batchSize {
			return nil
		}
	}
}
