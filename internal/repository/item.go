package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const (
	selectItemsQuery = `
						SELECT id, name, description, purchase_price, selling_price, is_available, available_timeslot_ids, image_url
						FROM items
						ORDER BY name
`
	selectItemByIDQuery = `
						SELECT id, name, description, purchase_price, selling_price, is_available, available_timeslot_ids, image_url
						FROM items
						WHERE id = $1
`
	selectItemsByIDsQuery = `
						SELECT id, name, description, purchase_price, selling_price, is_available, available_timeslot_ids, image_url
						FROM items
						WHERE id = ANY($1)
`
	insertItemQuery = `
						INSERT INTO items (id, name, description, purchase_price, selling_price, is_available, available_timeslot_ids, image_url)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	updateItemQuery = `
						UPDATE items
						SET name = $1, description = $2, purchase_price = $3, selling_price = $4,
						    is_available = $5, available_timeslot_ids = $6, image_url = $7
						WHERE id = $8
`
	deleteItemQuery = `
						DELETE FROM items WHERE id = $1
`
)

// ItemRepository persists catalog items in postgres
type ItemRepository struct {
	db *postgres.DB
}

// NewItemRepository creates new ItemRepository instance
func NewItemRepository(db *postgres.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ListItems returns the whole catalog
func (ir *ItemRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := ir.db.Query(ctx, selectItemsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetItemByID returns item by id
func (ir *ItemRepository) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	item := models.Item{}
	err := ir.db.QueryRow(ctx, selectItemByIDQuery, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.PurchasePrice, &item.SellingPrice,
		&item.IsAvailable, &item.AvailableTimeslotIDs, &item.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &item, nil
}

// GetItemsByIDs returns the items that still exist for the given ids,
// keyed by id. Missing ids are simply absent from the result.
func (ir *ItemRepository) GetItemsByIDs(ctx context.Context, ids []string) (map[string]models.Item, error) {
	rows, err := ir.db.Query(ctx, selectItemsByIDsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	return byID, nil
}

// CreateItem inserts new catalog item
func (ir *ItemRepository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	_, err := ir.db.Exec(ctx, insertItemQuery,
		item.ID, item.Name, item.Description, item.PurchasePrice, item.SellingPrice,
		item.IsAvailable, item.AvailableTimeslotIDs, item.ImageURL)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem overwrites the mutable fields of an item
func (ir *ItemRepository) UpdateItem(ctx context.Context, item *models.Item) error {
	cmd, err := ir.db.Exec(ctx, updateItemQuery,
		item.Name, item.Description, item.PurchasePrice, item.SellingPrice,
		item.IsAvailable, item.AvailableTimeslotIDs, item.ImageURL, item.ID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteItem removes an item from the catalog. Orders keep their snapshots;
// reports fall back to zero cost basis for lines referencing deleted items.
func (ir *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	cmd, err := ir.db.Exec(ctx, deleteItemQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanItems(rows pgx.Rows) ([]models.Item, error) {
	items := []models.Item{}

	for rows.Next() {
		item := models.Item{}
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.PurchasePrice, &item.SellingPrice,
			&item.IsAvailable, &item.AvailableTimeslotIDs, &item.ImageURL)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
