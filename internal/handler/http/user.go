package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rudrakh/tiffin/internal/middleware"
	"github.com/rudrakh/tiffin/internal/models"
)

// AuthService registers and authenticates users
type AuthService interface {
	// Register creates a new account and returns it with a fresh token
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	// Login verifies credentials and returns the user with a fresh token
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// CurrentUser returns the account behind an auth payload
	CurrentUser(ctx context.Context, id string) (*models.User, error)
	// UpdateName renames the current user
	UpdateName(ctx context.Context, id, name string) error
}

// UserHandler represents HTTP handler for account-related requests
type UserHandler struct {
	svc AuthService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc AuthService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}

// Register creates a new account
// 200 — account created and authenticated;
// 400 — malformed request;
// 409 — email is already registered;
// 500 — internal server error.
func (uh *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password are required", http.StatusBadRequest)
			return
		}

		user, token, err := uh.svc.Register(r.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrEmailTaken) {
				http.Error(w, "email is already registered", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		setAuthCookie(w, token)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(userResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}); err != nil {
			return
		}
	}
}

// Login authenticates an existing account
// 200 — authenticated;
// 400 — malformed request;
// 401 — invalid email or password;
// 500 — internal server error.
func (uh *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		user, token, err := uh.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				http.Error(w, "invalid email or password", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		setAuthCookie(w, token)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(userResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}); err != nil {
			return
		}
	}
}

// Me returns the authenticated user's account
// 200 — request processed successfully.
// 401 — user is not authenticated.
// 500 — internal server error.
func (uh *UserHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := uh.svc.CurrentUser(r.Context(), payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(userResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		}); err != nil {
			return
		}
	}
}

type updateNameRequest struct {
	Name string `json:"name"`
}

// UpdateName renames the authenticated user
// 200 — name updated.
// 400 — malformed request.
// 401 — user is not authenticated.
// 500 — internal server error.
func (uh *UserHandler) UpdateName() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := middleware.PayloadFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateNameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := uh.svc.UpdateName(r.Context(), payload.UserID, req.Name); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
