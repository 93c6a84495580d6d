package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const (
	selectTimeslotsQuery = `
						SELECT id, label, start_time, end_time, delivery_time, available_location_ids, order_start_time, order_end_time
						FROM timeslots
						ORDER BY start_time
`
	selectTimeslotByIDQuery = `
						SELECT id, label, start_time, end_time, delivery_time, available_location_ids, order_start_time, order_end_time
						FROM timeslots
						WHERE id = $1
`
	insertTimeslotQuery = `
						INSERT INTO timeslots (id, label, start_time, end_time, delivery_time, available_location_ids, order_start_time, order_end_time)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	updateTimeslotQuery = `
						UPDATE timeslots
						SET label = $1, start_time = $2, end_time = $3, delivery_time = $4,
						    available_location_ids = $5, order_start_time = $6, order_end_time = $7
						WHERE id = $8
`
)

// TimeslotRepository persists timeslots in postgres
type TimeslotRepository struct {
	db *postgres.DB
}

// NewTimeslotRepository creates new TimeslotRepository instance
func NewTimeslotRepository(db *postgres.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// ListTimeslots returns all timeslots
func (tr *TimeslotRepository) ListTimeslots(ctx context.Context) ([]models.Timeslot, error) {
	rows, err := tr.db.Query(ctx, selectTimeslotsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeslots := []models.Timeslot{}

	for rows.Next() {
		ts := models.Timeslot{}
		err = rows.Scan(&ts.ID, &ts.Label, &ts.StartTime, &ts.EndTime, &ts.DeliveryTime,
			&ts.AvailableLocationIDs, &ts.OrderStart, &ts.OrderEnd)
		if err != nil {
			return nil, err
		}
		timeslots = append(timeslots, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return timeslots, nil
}

// GetTimeslotByID returns timeslot by id
func (tr *TimeslotRepository) GetTimeslotByID(ctx context.Context, id string) (*models.Timeslot, error) {
	ts := models.Timeslot{}
	err := tr.db.QueryRow(ctx, selectTimeslotByIDQuery, id).Scan(
		&ts.ID, &ts.Label, &ts.StartTime, &ts.EndTime, &ts.DeliveryTime,
		&ts.AvailableLocationIDs, &ts.OrderStart, &ts.OrderEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &ts, nil
}

// CreateTimeslot inserts new timeslot
func (tr *TimeslotRepository) CreateTimeslot(ctx context.Context, ts *models.Timeslot) (*models.Timeslot, error) {
	_, err := tr.db.Exec(ctx, insertTimeslotQuery,
		ts.ID, ts.Label, ts.StartTime, ts.EndTime, ts.DeliveryTime,
		ts.AvailableLocationIDs, ts.OrderStart, ts.OrderEnd)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

// UpdateTimeslot overwrites the mutable fields of a timeslot
func (tr *TimeslotRepository) UpdateTimeslot(ctx context.Context, ts *models.Timeslot) error {
	cmd, err := tr.db.Exec(ctx, updateTimeslotQuery,
		ts.Label, ts.StartTime, ts.EndTime, ts.DeliveryTime,
		ts.AvailableLocationIDs, ts.OrderStart, ts.OrderEnd, ts.ID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
