// Package auth issues and validates the demo session token. The token only
// records who last registered or logged in (name and email); it is not a
// credential and proves nothing — the storefront's login deliberately
// performs no verification beyond an email match.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marvelmart/shop/internal/models"
)

var (
	// ErrInvalidSession signals a malformed or expired session token.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// SessionManager handles session token generation and validation.
type SessionManager struct {
	secretKey []byte
	duration  time.Duration
}

// Claims are the custom JWT claims for a storefront session.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewSessionManager creates a session manager with the given signing secret
// and token lifetime.
func NewSessionManager(secretKey string, duration time.Duration) *SessionManager {
	return &SessionManager{
		secretKey: []byte(secretKey),
		duration:  duration,
	}
}

// Issue creates a signed session token for the given user.
func (m *SessionManager) Issue(user models.User) (string, error) {
	claims := &Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a session token, returning the claims if
// valid.
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
