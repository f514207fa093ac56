// Package auth implements the shared-password gate: one password, exchanged
// for a signed session token carried in a cookie.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mdstash/internal/domain"
)

// CookieName is the session cookie set on successful login.
const CookieName = "mdstash_session"

// Service verifies the shared password and mints/validates session tokens.
type Service struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates an auth service. ttl bounds session lifetime.
func NewService(password, secret string, ttl time.Duration) *Service {
	return &Service{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login checks the password in constant time and returns a signed session
// token.
func (s *Service) Login(password string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return "", fmt.Errorf("invalid password: %w", domain.ErrUnauthorized)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   "session",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify validates a session token's signature and expiry.
func (s *Service) Verify(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return fmt.Errorf("invalid session: %w", domain.ErrUnauthorized)
	}
	return nil
}
