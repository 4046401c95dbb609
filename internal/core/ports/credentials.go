package ports

import "time"

// PasswordHasher turns passwords into salted adaptive hashes and back.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	NeedsRehash(encoded string) bool
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	Issue(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Verify(token string) (subject string, err error)
}
