package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rudrakh/tiffin/internal/models"
)

// CatalogService manages items, timeslots, locations and settings
type CatalogService interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	ItemsByTimeslot(ctx context.Context, timeslotID string) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error
	ListTimeslots(ctx context.Context) ([]models.Timeslot, error)
	GetTimeslot(ctx context.Context, id string) (*models.Timeslot, error)
	CreateTimeslot(ctx context.Context, ts *models.Timeslot) (*models.Timeslot, error)
	UpdateTimeslot(ctx context.Context, ts *models.Timeslot) error
	ListLocations(ctx context.Context) ([]models.Location, error)
	CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error)
	Settings(ctx context.Context) (map[string]interface{}, error)
	PutSetting(ctx context.Context, key string, value interface{}) error
}

// CatalogHandler represents HTTP handler for catalog-related requests
type CatalogHandler struct {
	svc CatalogService
}

// NewCatalogHandler creates new CatalogHandler instance
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type itemResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	PurchasePrice        float64  `json:"purchasePrice"`
	SellingPrice         float64  `json:"sellingPrice"`
	IsAvailable          bool     `json:"isAvailable"`
	AvailableTimeslotIDs []string `json:"availableTimeslotIds"`
	ImageURL             string   `json:"imageUrl,omitempty"`
}

func newItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:                   item.ID,
		Name:                 item.Name,
		Description:          item.Description,
		PurchasePrice:        item.PurchasePrice,
		SellingPrice:         item.SellingPrice,
		IsAvailable:          item.IsAvailable,
		AvailableTimeslotIDs: item.AvailableTimeslotIDs,
		ImageURL:             item.ImageURL,
	}
}

func writeItems(w http.ResponseWriter, items []models.Item) {
	resp := make([]itemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, newItemResponse(&items[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// ListItems returns the whole menu
func (ch *CatalogHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ch.svc.ListItems(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeItems(w, items)
	}
}

// ItemsByTimeslot returns the items offered in a given timeslot
func (ch *CatalogHandler) ItemsByTimeslot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ch.svc.ItemsByTimeslot(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeItems(w, items)
	}
}

type createItemRequest struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	PurchasePrice        float64  `json:"purchasePrice"`
	SellingPrice         float64  `json:"sellingPrice"`
	IsAvailable          bool     `json:"isAvailable"`
	AvailableTimeslotIDs []string `json:"availableTimeslotIds"`
	ImageURL             string   `json:"imageUrl"`
}

// CreateItem adds a new item to the menu (admin only)
// 201 — item created;
// 400 — malformed request;
// 500 — internal server error.
func (ch *CatalogHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		item, err := ch.svc.CreateItem(r.Context(), &models.Item{
			Name:                 req.Name,
			Description:          req.Description,
			PurchasePrice:        req.PurchasePrice,
			SellingPrice:         req.SellingPrice,
			IsAvailable:          req.IsAvailable,
			AvailableTimeslotIDs: req.AvailableTimeslotIDs,
			ImageURL:             req.ImageURL,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newItemResponse(item))
	}
}

type updateItemRequest struct {
	Name                 *string   `json:"name"`
	Description          *string   `json:"description"`
	PurchasePrice        *float64  `json:"purchasePrice"`
	SellingPrice         *float64  `json:"sellingPrice"`
	IsAvailable          *bool     `json:"isAvailable"`
	AvailableTimeslotIDs *[]string `json:"availableTimeslotIds"`
	ImageURL             *string   `json:"imageUrl"`
}

// UpdateItem patches the provided fields of an item (admin only)
// 200 — item updated;
// 400 — malformed request;
// 404 — item not found;
// 500 — internal server error.
func (ch *CatalogHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		item, err := ch.svc.GetItem(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.PurchasePrice != nil {
			item.PurchasePrice = *req.PurchasePrice
		}
		if req.SellingPrice != nil {
			item.SellingPrice = *req.SellingPrice
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable
		}
		if req.AvailableTimeslotIDs != nil {
			item.AvailableTimeslotIDs = *req.AvailableTimeslotIDs
		}
		if req.ImageURL != nil {
			item.ImageURL = *req.ImageURL
		}

		if err := ch.svc.UpdateItem(r.Context(), item); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(newItemResponse(item))
	}
}

// DeleteItem removes an item from the menu (admin only). Past orders keep
// their snapshots.
// 200 — item deleted;
// 404 — item not found;
// 500 — internal server error.
func (ch *CatalogHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ch.svc.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

type timeslotResponse struct {
	ID                   string   `json:"id"`
	Label                string   `json:"label"`
	StartTime            string   `json:"startTime"`
	EndTime              string   `json:"endTime"`
	DeliveryTime         string   `json:"deliveryTime"`
	AvailableLocationIDs []string `json:"availableLocationIds"`
	OrderStart           string   `json:"orderStartTime,omitempty"`
	OrderEnd             string   `json:"orderEndTime,omitempty"`
}

func newTimeslotResponse(ts *models.Timeslot) timeslotResponse {
	return timeslotResponse{
		ID:                   ts.ID,
		Label:                ts.Label,
		StartTime:            ts.StartTime,
		EndTime:              ts.EndTime,
		DeliveryTime:         ts.DeliveryTime,
		AvailableLocationIDs: ts.AvailableLocationIDs,
		OrderStart:           ts.OrderStart,
		OrderEnd:             ts.OrderEnd,
	}
}

// ListTimeslots returns all timeslots
func (ch *CatalogHandler) ListTimeslots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeslots, err := ch.svc.ListTimeslots(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]timeslotResponse, 0, len(timeslots))
		for i := range timeslots {
			resp = append(resp, newTimeslotResponse(&timeslots[i]))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

type createTimeslotRequest struct {
	Label                string   `json:"label"`
	StartTime            string   `json:"startTime"`
	EndTime              string   `json:"endTime"`
	DeliveryTime         string   `json:"deliveryTime"`
	AvailableLocationIDs []string `json:"availableLocationIds"`
	OrderStart           string   `json:"orderStartTime"`
	OrderEnd             string   `json:"orderEndTime"`
}

// CreateTimeslot adds a new timeslot (admin only)
// 201 — timeslot created;
// 400 — malformed request;
// 500 — internal server error.
func (ch *CatalogHandler) CreateTimeslot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTimeslotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Label == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		ts, err := ch.svc.CreateTimeslot(r.Context(), &models.Timeslot{
			Label:                req.Label,
			StartTime:            req.StartTime,
			EndTime:              req.EndTime,
			DeliveryTime:         req.DeliveryTime,
			AvailableLocationIDs: req.AvailableLocationIDs,
			OrderStart:           req.OrderStart,
			OrderEnd:             req.OrderEnd,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newTimeslotResponse(ts))
	}
}

type updateTimeslotRequest struct {
	Label                *string   `json:"label"`
	StartTime            *string   `json:"startTime"`
	EndTime              *string   `json:"endTime"`
	DeliveryTime         *string   `json:"deliveryTime"`
	AvailableLocationIDs *[]string `json:"availableLocationIds"`
	OrderStart           *string   `json:"orderStartTime"`
	OrderEnd             *string   `json:"orderEndTime"`
}

// UpdateTimeslot patches the provided fields of a timeslot (admin only)
// 200 — timeslot updated;
// 400 — malformed request;
// 404 — timeslot not found;
// 500 — internal server error.
func (ch *CatalogHandler) UpdateTimeslot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateTimeslotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		ts, err := ch.svc.GetTimeslot(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "timeslot not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if req.Label != nil {
			ts.Label = *req.Label
		}
		if req.StartTime != nil {
			ts.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			ts.EndTime = *req.EndTime
		}
		if req.DeliveryTime != nil {
			ts.DeliveryTime = *req.DeliveryTime
		}
		if req.AvailableLocationIDs != nil {
			ts.AvailableLocationIDs = *req.AvailableLocationIDs
		}
		if req.OrderStart != nil {
			ts.OrderStart = *req.OrderStart
		}
		if req.OrderEnd != nil {
			ts.OrderEnd = *req.OrderEnd
		}

		if err := ch.svc.UpdateTimeslot(r.Context(), ts); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(newTimeslotResponse(ts))
	}
}

type locationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ListLocations returns all delivery locations
func (ch *CatalogHandler) ListLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := ch.svc.ListLocations(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]locationResponse, 0, len(locations))
		for _, loc := range locations {
			resp = append(resp, locationResponse(loc))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

type createLocationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateLocation adds a new delivery location (admin only)
// 201 — location created;
// 400 — malformed request;
// 500 — internal server error.
func (ch *CatalogHandler) CreateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLocationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		loc, err := ch.svc.CreateLocation(r.Context(), &models.Location{
			Name:    req.Name,
			Address: req.Address,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(locationResponse(*loc))
	}
}

// Settings returns every application setting (admin only)
func (ch *CatalogHandler) Settings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := ch.svc.Settings(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(settings)
	}
}

type putSettingRequest struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// PutSetting creates or overwrites a setting (admin only)
// 200 — setting stored;
// 400 — malformed request;
// 500 — internal server error.
func (ch *CatalogHandler) PutSetting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := ch.svc.PutSetting(r.Context(), req.Key, req.Value); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
