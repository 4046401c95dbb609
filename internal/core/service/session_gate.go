package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/ports"
)

// SessionGate verifies bearer tokens for protected routes.
type SessionGate struct {
	tokens ports.TokenManager
	log    zerolog.Logger
}

func NewSessionGate(tokens ports.TokenManager, log zerolog.Logger) *SessionGate {
	return &SessionGate{
		tokens: tokens,
		log:    log.With().Str("component", "session_gate").Logger(),
	}
}

// Gate returns the identity carried by token. Every failure wraps
// domain.ErrUnauthenticated together with the internal cause; callers must
// only ever surface the former.
func (g *SessionGate) Gate(_ context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrTokenMissing)
	}

	subject, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug().Err(err).Msg("token rejected")
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	return domain.Identity{Subject: subject}, nil
}
