package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
)

const (
	insertUserQuery = `
						INSERT INTO users (id, name, email, password_hash, role, registered_at)
						VALUES ($1, $2, $3, $4, $5, $6)
`
	selectUserByEmailQuery = `
						SELECT id, name, email, password_hash, role, registered_at FROM users
						WHERE email = $1
`
	selectUserByIDQuery = `
						SELECT id, name, email, password_hash, role, registered_at FROM users
						WHERE id = $1
`
	countAdminsQuery = `
						SELECT count(*) FROM users
						WHERE role = 'admin'
`
	updateUserNameQuery = `
						UPDATE users
						SET name = $1
						WHERE id = $2
`
)

// UserRepository persists user accounts in postgres
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := ur.db.Exec(ctx, insertUserQuery,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.RegisteredAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail returns user by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByEmailQuery, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByIDQuery, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// HasAdmin reports whether any admin account exists
func (ur *UserRepository) HasAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := ur.db.QueryRow(ctx, countAdminsQuery).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUserName renames a user
func (ur *UserRepository) UpdateUserName(ctx context.Context, id, name string) error {
	cmd, err := ur.db.Exec(ctx, updateUserNameQuery, name, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
