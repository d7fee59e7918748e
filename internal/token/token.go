// Package token issues and verifies the short-lived signed tokens required
// by the public availability check endpoint. A token is bound to the shopper
// session that requested it and expires quickly, so captured requests cannot
// be replayed from another session or after the window closes.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "zip-gate"

// ErrInvalid is returned for any token that fails verification: bad
// signature, expired, wrong session, malformed.
var ErrInvalid = errors.New("invalid check token")

// Manager signs and verifies check tokens with an HMAC secret.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewManager creates a token manager. The secret must be at least 16
// characters.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if len(secret) < 16 {
		return nil, errors.New("token: secret must be at least 16 characters")
	}
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		nowFunc: time.Now,
	}, nil
}

// Issue creates a signed token bound to the given session id.
func (m *Manager) Issue(sessionID string) (string, error) {
	now := m.nowFunc()

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}

	return signed, nil
}

// Verify checks the token signature and expiry, and that it was issued for
// the given session.
func (m *Manager) Verify(tokenString, sessionID string) error {
	if tokenString == "" {
		return ErrInvalid
	}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return m.nowFunc() }),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != sessionID {
		return ErrInvalid
	}

	return nil
}
