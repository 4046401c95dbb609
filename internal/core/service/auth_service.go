package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/ports"
	"github.com/stockhub/auth-service/internal/core/validation"
)

const (
	defaultStoreTimeout = 5 * time.Second
	maxNameLength       = 100
	maxOrgNameLength    = 200

	// verified against on unknown-email logins so both failure paths cost one hash
	timingDummyPassword = "timing-equaliser-Passw0rd"
)

// AuthConfig holds the tunables of AuthService.
type AuthConfig struct {
	TokenTTL     time.Duration
	StoreTimeout time.Duration
}

// AuthService implements registration, login and subject lookup.
type AuthService struct {
	repo         ports.UserRepository
	hasher       ports.PasswordHasher
	tokens       ports.TokenManager
	tokenTTL     time.Duration
	storeTimeout time.Duration
	dummyHash    string
	now          func() time.Time
	log          zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenManager, log zerolog.Logger, cfg AuthConfig) (*AuthService, error) {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	dummy, err := hasher.Hash(timingDummyPassword)
	if err != nil {
		return nil, fmt.Errorf("precompute dummy hash: %w", err)
	}

	return &AuthService{
		repo:         repo,
		hasher:       hasher,
		tokens:       tokens,
		tokenTTL:     cfg.TokenTTL,
		storeTimeout: cfg.StoreTimeout,
		dummyHash:    dummy,
		now:          time.Now,
		log:          log.With().Str("component", "auth_service").Logger(),
	}, nil
}

// Register validates the input, persists the user (and organization, if
// named) atomically, and issues a token for the new account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	orgName := strings.TrimSpace(in.OrganizationName)

	if verr := validateRegistration(email, in.Password, firstName, lastName, orgName); verr.HasErrors() {
		return nil, verr
	}

	// Advisory only: saves a hash computation for the common duplicate case.
	// CreateUser's unique constraint is what actually guards the email.
	exists, err := s.existsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var org *domain.Organization
	if orgName != "" {
		org = &domain.Organization{
			ID:        uuid.NewString(),
			Name:      orgName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		user.OrganizationID = &org.ID
	}

	if err := s.createUser(ctx, user, org); err != nil {
		return nil, err
	}

	log := s.logger(ctx)
	log.Info().Str("user_id", user.ID).Bool("with_organization", org != nil).Msg("user registered")

	token, expiresAt, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("token issuance failed after registration")
		return nil, err
	}

	return &ports.AuthResult{
		User:         user,
		Organization: org,
		Token:        token,
		ExpiresAt:    expiresAt,
	}, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)

	verr := domain.NewValidationError()
	if email == "" {
		verr.Add("email is required")
	}
	if password == "" {
		verr.Add("password is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	user, err := s.findUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		_, _ = s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	s.logger(ctx).Info().Str("user_id", user.ID).Msg("user logged in")

	return &ports.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Me loads the user a gated request acts as. A subject that no longer
// resolves is treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, subject string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindUserByID(ctx, subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, upstream("find user by id", err)
	}
	return user, nil
}

func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) {
	log := s.logger(ctx)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("password rehash failed")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("storing upgraded password hash failed")
		return
	}
	user.PasswordHash = hash
	log.Info().Str("user_id", user.ID).Msg("password hash upgraded")
}

func (s *AuthService) existsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, upstream("check email", err)
	}
	return exists, nil
}

func (s *AuthService) findUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, upstream("find user by email", err)
	}
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, user *domain.User, org *domain.Organization) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.CreateUser(ctx, user, org); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.ErrEmailTaken
		}
		return upstream("create user", err)
	}
	return nil
}

// logger prefers the request-scoped logger placed on ctx by the HTTP layer.
func (s *AuthService) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}

func upstream(op string, err error) error {
	if errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, op, err)
}

func validateRegistration(email, password, firstName, lastName, orgName string) *domain.ValidationError {
	verr := domain.NewValidationError()

	switch {
	case email == "":
		verr.Add("email is required")
	case !validation.IsValidEmail(email):
		verr.Add("email must be a valid email address")
	}

	if password == "" {
		verr.Add("password is required")
	} else if res := validation.ValidatePassword(password); !res.Valid {
		verr.Add(res.Errors...)
	}

	if firstName == "" {
		verr.Add("firstName is required")
	} else if utf8.RuneCountInString(firstName) > maxNameLength {
		verr.Add(fmt.Sprintf("firstName must be at most %d characters", maxNameLength))
	}

	if lastName == "" {
		verr.Add("lastName is required")
	} else if utf8.RuneCountInString(lastName) > maxNameLength {
		verr.Add(fmt.Sprintf("lastName must be at most %d characters", maxNameLength))
	}

	if utf8.RuneCountInString(orgName) > maxOrgNameLength {
		verr.Add(fmt.Sprintf("organizationName must be at most %d characters", maxOrgNameLength))
	}

	return verr
}
