package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// TokenClaims carries the authenticated member's identity and roles.
// Roles ride inside the token so every request knows the actor's roles
// without an extra lookup; they are re-validated against the database by
// the auth middleware.
type TokenClaims struct {
	MembreID int64    `json:"membre_id"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the bearer tokens of the API
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

// NewTokenManager creates a token manager with the signing secret and
// token lifetime
func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), duration: duration}
}

// Issue signs a new token for a member
func (tm *TokenManager) Issue(membreID int64, roles []string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		MembreID: membreID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims
func (tm *TokenManager) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
