package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rudrakh/tiffin/internal/models"
)

// ItemRepository is interface for interacting with catalog items
type ItemRepository interface {
	ItemReader
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// TimeslotRepository is interface for interacting with timeslots
type TimeslotRepository interface {
	TimeslotReader
	ListTimeslots(ctx context.Context) ([]models.Timeslot, error)
	CreateTimeslot(ctx context.Context, ts *models.Timeslot) (*models.Timeslot, error)
	UpdateTimeslot(ctx context.Context, ts *models.Timeslot) error
}

// LocationRepository is interface for interacting with delivery locations
type LocationRepository interface {
	LocationReader
	ListLocations(ctx context.Context) ([]models.Location, error)
	CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error)
}

// SettingsRepository is interface for interacting with application settings
type SettingsRepository interface {
	SettingsReader
	GetAllSettings(ctx context.Context) (map[string]interface{}, error)
	PutSetting(ctx context.Context, key string, value interface{}) error
	InitSetting(ctx context.Context, key string, value interface{}) error
}

// CatalogService manages the menu: items, timeslots, locations and the
// settings consumed at order creation
type CatalogService struct {
	items     ItemRepository
	timeslots TimeslotRepository
	locations LocationRepository
	settings  SettingsRepository
}

// NewCatalogService creates new CatalogService instance
func NewCatalogService(items ItemRepository, timeslots TimeslotRepository,
	locations LocationRepository, settings SettingsRepository) *CatalogService {
	return &CatalogService{
		items:     items,
		timeslots: timeslots,
		locations: locations,
		settings:  settings,
	}
}

// EnsureDefaults seeds settings the creation flow depends on
func (cs *CatalogService) EnsureDefaults(ctx context.Context) error {
	return cs.settings.InitSetting(ctx, models.SettingDeliveryCharge, 0.0)
}

// ListItems returns the whole catalog
func (cs *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	return cs.items.ListItems(ctx)
}

// ItemsByTimeslot returns the items offered in a given timeslot
func (cs *CatalogService) ItemsByTimeslot(ctx context.Context, timeslotID string) ([]models.Item, error) {
	items, err := cs.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	offered := []models.Item{}
	for _, item := range items {
		for _, id := range item.AvailableTimeslotIDs {
			if id == timeslotID {
				offered = append(offered, item)
				break
			}
		}
	}

	return offered, nil
}

// GetItem returns item by id
func (cs *CatalogService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return cs.items.GetItemByID(ctx, id)
}

// CreateItem adds a new item to the catalog
func (cs *CatalogService) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.ID = uuid.NewString()
	return cs.items.CreateItem(ctx, item)
}

// UpdateItem overwrites an existing item
func (cs *CatalogService) UpdateItem(ctx context.Context, item *models.Item) error {
	return cs.items.UpdateItem(ctx, item)
}

// DeleteItem removes an item. Existing order snapshots survive; reports
// flag affected lines as missing their cost basis.
func (cs *CatalogService) DeleteItem(ctx context.Context, id string) error {
	return cs.items.DeleteItem(ctx, id)
}

// ListTimeslots returns all timeslots
func (cs *CatalogService) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	return cs.timeslots.ListTimeslots(ctx)
}

// GetTimeslot returns timeslot by id
func (cs *CatalogService) GetTimeslot(ctx context.Context, id string) (*models.Timeslot, error) {
	return cs.timeslots.GetTimeslotByID(ctx, id)
}

// CreateTimeslot adds a new timeslot
func (cs *CatalogService) CreateTimeslot(ctx context.Context, ts *models.Timeslot) (*models.Timeslot, error) {
	ts.ID = uuid.NewString()
	return cs.timeslots.CreateTimeslot(ctx, ts)
}

// UpdateTimeslot overwrites an existing timeslot
func (cs *CatalogService) UpdateTimeslot(ctx context.Context, ts *models.Timeslot) error {
	return cs.timeslots.UpdateTimeslot(ctx, ts)
}

// ListLocations returns all delivery locations
func (cs *CatalogService) ListLocations(ctx context.Context) ([]models.Location, error) {
	return cs.locations.ListLocations(ctx)
}

// CreateLocation adds a new delivery location
func (cs *CatalogService) CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	loc.ID = uuid.NewString()
	return cs.locations.CreateLocation(ctx, loc)
}

// Settings returns every application setting
func (cs *CatalogService) Settings(ctx context.Context) (map[string]interface{}, error) {
	return cs.settings.GetAllSettings(ctx)
}

// PutSetting creates or overwrites a setting
func (cs *CatalogService) PutSetting(ctx context.Context, key string, value interface{}) error {
	return cs.settings.PutSetting(ctx, key, value)
}
