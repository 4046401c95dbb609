package ports

import (
	"context"
	"time"

	"github.com/stockhub/auth-service/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string // optional
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User         *domain.User
	Organization *domain.Organization // set only when registration created one
	Token        string
	ExpiresAt    time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Me re-resolves a gated subject against the store.
	Me(ctx context.Context, subject string) (*domain.User, error)
}

// Gate turns a bearer token into an identity.
type Gate interface {
	Gate(ctx context.Context, token string) (domain.Identity, error)
}
