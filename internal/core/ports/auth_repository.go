package ports

import (
	"context"

	"github.com/stockhub/auth-service/internal/core/domain"
)

// UserRepository is the persistence contract of the credential core.
type UserRepository interface {
	// FindUserByEmail returns domain.ErrUserNotFound when no row matches.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	// ExistsByEmail is advisory only; CreateUser's unique constraint decides.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateUser persists user and, when org is non-nil, org in one atomic
	// unit. A duplicate email yields domain.ErrEmailTaken and nothing is
	// written.
	CreateUser(ctx context.Context, user *domain.User, org *domain.Organization) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}
