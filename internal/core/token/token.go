// Package token issues and verifies the signed session tokens handed to
// clients after register or login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stockhub/auth-service/internal/core/domain"
)

const (
	DefaultTTL   = 7 * 24 * time.Hour
	MinSecretLen = 32
)

var ErrSecretTooShort = fmt.Errorf("token secret must be at least %d bytes", MinSecretLen)

// Clock returns the current time. Tests swap it to move past expiry.
type Clock func() time.Time

type Option func(*Manager)

// WithClock overrides time.Now for issuing and verifying.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.now = c }
}

// WithDefaultTTL sets the lifetime used when Issue is called with ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// Manager signs HS256 tokens whose claims are exactly sub, iat and exp.
type Manager struct {
	secret     []byte
	defaultTTL time.Duration
	now        Clock
	parser     *jwt.Parser
}

func NewManager(secret string, opts ...Option) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}

	m := &Manager{
		secret:     []byte(secret),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	return m, nil
}

// Issue signs a token for subject valid for ttl.
func (m *Manager) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("issue token: empty subject")
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	now := m.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: signing token: %w", domain.ErrUpstream, err)
	}
	return signed, expiresAt, nil
}

// Verify returns the token's subject. Failures are one of
// domain.ErrTokenMalformed, domain.ErrTokenBadSignature or
// domain.ErrTokenExpired, all of which wrap domain.ErrTokenInvalid.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", classify(err)
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrTokenMalformed
	}
	return claims.Subject, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenBadSignature
	default:
		return domain.ErrTokenMalformed
	}
}
