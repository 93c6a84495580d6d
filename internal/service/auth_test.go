package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rudrakh/tiffin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository keyed by email
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.Email]; ok {
		return nil, models.ErrConflictData
	}
	f.users[user.Email] = *user

	stored := *user
	return &stored, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) HasAdmin(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateUserName(_ context.Context, id, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for email, user := range f.users {
		if user.ID == id {
			user.Name = name
			f.users[email] = user
			return nil
		}
	}
	return models.ErrNotFound
}

// staticToken signs every user as "token:<id>"
type staticToken struct{}

func (staticToken) CreateToken(user *models.User) (string, error) {
	return "token:" + user.ID, nil
}

func (staticToken) VerifyToken(string) (*models.TokenPayload, error) {
	return nil, nil
}

func TestAuthService_Register_FirstUserBecomesAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, staticToken{})

	first, token, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, "token:"+first.ID, token)

	second, _, err := svc.Register(context.Background(), "Ravi", "ravi@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, second.Role)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, staticToken{})

	_, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Imposter", "asha@example.com", "other")
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, staticToken{})

	user, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, staticToken{})

	registered, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid_credentials", email: "asha@example.com", password: "secret"},
		{name: "wrong_password", email: "asha@example.com", password: "nope", wantErr: models.ErrInvalidCredentials},
		{name: "unknown_email", email: "ghost@example.com", password: "secret", wantErr: models.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)
			assert.Equal(t, "token:"+registered.ID, token)
		})
	}
}

func TestAuthService_UpdateName(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, staticToken{})

	user, _, err := svc.Register(context.Background(), "Asha", "asha@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateName(context.Background(), user.ID, "Asha R"))

	current, err := svc.CurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha R", current.Name)
}
