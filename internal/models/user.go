package models

import "time"

// user roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a registered account
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	RegisteredAt time.Time
}

// TokenPayload is the verified content of an auth token
type TokenPayload struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the payload belongs to an admin account
func (p *TokenPayload) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
