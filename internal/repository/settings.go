package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const (
	selectSettingQuery = `
						SELECT value FROM settings
						WHERE key = $1
`
	selectSettingsQuery = `
						SELECT key, value FROM settings
`
	upsertSettingQuery = `
						INSERT INTO settings (key, value)
						VALUES ($1, $2)
						ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`
	insertSettingIfAbsentQuery = `
						INSERT INTO settings (key, value)
						VALUES ($1, $2)
						ON CONFLICT (key) DO NOTHING
`
)

// SettingsRepository persists key/value application settings in postgres.
// Values are stored as jsonb so strings, numbers and booleans round-trip.
type SettingsRepository struct {
	db *postgres.DB
}

// NewSettingsRepository creates new SettingsRepository instance
func NewSettingsRepository(db *postgres.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting returns the value stored under key
func (sr *SettingsRepository) GetSetting(ctx context.Context, key string) (interface{}, error) {
	var value interface{}
	err := sr.db.QueryRow(ctx, selectSettingQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return value, nil
}

// GetAllSettings returns every setting keyed by name
func (sr *SettingsRepository) GetAllSettings(ctx context.Context) (map[string]interface{}, error) {
	rows, err := sr.db.Query(ctx, selectSettingsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]interface{}{}

	for rows.Next() {
		var key string
		var value interface{}
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// PutSetting creates or overwrites a setting
func (sr *SettingsRepository) PutSetting(ctx context.Context, key string, value interface{}) error {
	_, err := sr.db.Exec(ctx, upsertSettingQuery, key, value)
	return err
}

// InitSetting writes a default value only when the key does not exist yet
func (sr *SettingsRepository) InitSetting(ctx context.Context, key string, value interface{}) error {
	_, err := sr.db.Exec(ctx, insertSettingIfAbsentQuery, key, value)
	return err
}
