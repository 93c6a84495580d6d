package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rudrakh/tiffin/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// HasAdmin reports whether any admin account exists
	HasAdmin(ctx context.Context) (bool, error)
	// UpdateUserName renames a user
	UpdateUserName(ctx context.Context, id, name string) error
}

// TokenService signs and verifies auth tokens
type TokenService interface {
	CreateToken(user *models.User) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

// AuthService registers and authenticates users
type AuthService struct {
	repo  UserRepository
	token TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(repo UserRepository, token TokenService) *AuthService {
	return &AuthService{repo: repo, token: token}
}

// Register creates a new account and returns it with a fresh auth token.
// The very first account becomes the admin; everyone after is a customer.
func (as *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	hasAdmin, err := as.repo.HasAdmin(ctx)
	if err != nil {
		return nil, "", err
	}

	role := models.RoleAdmin
	if hasAdmin {
		role = models.RoleCustomer
	}

	user, err := as.repo.CreateUser(ctx, &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		RegisteredAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, models.ErrConflictData) {
			return nil, "", models.ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh auth token
func (as *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := as.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CurrentUser returns the account behind an auth payload
func (as *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	return as.repo.GetUserByID(ctx, id)
}

// UpdateName renames the current user
func (as *AuthService) UpdateName(ctx context.Context, id, name string) error {
	return as.repo.UpdateUserName(ctx, id, name)
}
