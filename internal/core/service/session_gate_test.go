package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/token"
)

func TestSessionGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	tokens, err := token.NewManager(testSecret, token.WithClock(clock))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	gate := NewSessionGate(tokens, zerolog.Nop())

	valid, _, _ := tokens.Issue("user-1", time.Hour)
	expiredTok, _, _ := tokens.Issue("user-1", time.Minute)

	id, err := gate.Gate(context.Background(), valid)
	if err != nil || id.Subject != "user-1" {
		t.Fatalf("Gate(valid) = %+v, %v", id, err)
	}

	now = now.Add(2 * time.Minute)

	cases := map[string]struct {
		token string
		cause error
	}{
		"missing":   {"", domain.ErrTokenMissing},
		"malformed": {"garbage", domain.ErrTokenMalformed},
		"expired":   {expiredTok, domain.ErrTokenExpired},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := gate.Gate(context.Background(), tc.token)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
			if !errors.Is(err, tc.cause) {
				t.Fatalf("expected cause %v, got %v", tc.cause, err)
			}
			if id.Subject != "" {
				t.Fatalf("identity must be empty on failure")
			}
		})
	}
}
