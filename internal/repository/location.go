package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const (
	selectLocationsQuery = `
						SELECT id, name, address FROM locations
						ORDER BY name
`
	selectLocationByIDQuery = `
						SELECT id, name, address FROM locations
						WHERE id = $1
`
	insertLocationQuery = `
						INSERT INTO locations (id, name, address)
						VALUES ($1, $2, $3)
`
)

// LocationRepository persists delivery locations in postgres
type LocationRepository struct {
	db *postgres.DB
}

// NewLocationRepository creates new LocationRepository instance
func NewLocationRepository(db *postgres.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// ListLocations returns all locations
func (lr *LocationRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := lr.db.Query(ctx, selectLocationsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []models.Location{}

	for rows.Next() {
		loc := models.Location{}
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

// GetLocationByID returns location by id
func (lr *LocationRepository) GetLocationByID(ctx context.Context, id string) (*models.Location, error) {
	loc := models.Location{}
	err := lr.db.QueryRow(ctx, selectLocationByIDQuery, id).Scan(&loc.ID, &loc.Name, &loc.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &loc, nil
}

// CreateLocation inserts new location
func (lr *LocationRepository) CreateLocation(ctx context.Context, loc *models.Location) (*models.Location, error) {
	if _, err := lr.db.Exec(ctx, insertLocationQuery, loc.ID, loc.Name, loc.Address); err != nil {
		return nil, err
	}
	return loc, nil
}
