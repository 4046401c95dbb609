package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stockhub/auth-service/internal/core/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, organization_id, created_at, updated_at`

// UserRepository implements ports.UserRepository on a SQL database.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID             string         `db:"id"`
	Email          string         `db:"email"`
	PasswordHash   string         `db:"password_hash"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	OrganizationID sql.NullString `db:"organization_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.OrganizationID.Valid {
		id := r.OrganizationID.String
		u.OrganizationID = &id
	}
	return u
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`)
	if err := r.db.QueryRowxContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// CreateUser inserts org (when given) and user in a single transaction.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User, org *domain.Organization) error {
	return r.db.TransactionContext(ctx, func(tx *Tx) error {
		if org != nil {
			_, err := tx.ExecContext(ctx,
				tx.Rebind(`INSERT INTO organizations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`),
				org.ID, org.Name, org.CreatedAt.UTC(), org.UpdatedAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("insert organization: %w", WrapError(err))
			}
		}

		var orgID sql.NullString
		if user.OrganizationID != nil {
			orgID = sql.NullString{String: *user.OrganizationID, Valid: true}
		}

		_, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
			orgID, user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
		)
		if err != nil {
			if errors.Is(WrapError(err), ErrDuplicateKey) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		hash, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
