package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rudrakh/tiffin/internal/models"
)

const tokenLifetime = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid auth token")

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// Token signs and verifies HMAC auth tokens
type Token struct {
	key []byte
}

// NewAuthToken creates new Token instance with the given signing key
func NewAuthToken(key []byte) *Token {
	return &Token{key: key}
}

// CreateToken issues a signed token for user
func (t *Token) CreateToken(user *models.User) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.key)
}

// VerifyToken parses and validates tokenString and returns its payload
func (t *Token) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	c := claims{}

	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{UserID: c.UserID, Role: c.Role}, nil
}
