// Package credential hashes and verifies account passwords.
//
// New hashes are always Argon2id in PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//
// Hashes written by bcrypt are still accepted by Verify so existing accounts
// keep working; NeedsRehash flags them for an upgrade on next login.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	saltLen = 16
	keyLen  = 32
)

var ErrUnknownHashFormat = errors.New("unknown password hash format")

// Params tunes the Argon2id work factor.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

// DefaultParams follows the OWASP Argon2id baseline.
var DefaultParams = Params{Time: 3, MemoryKiB: 64 * 1024, Threads: 2}

func (p Params) validate() error {
	if p.Time == 0 || p.MemoryKiB < 8*uint32(p.Threads) || p.Threads == 0 {
		return fmt.Errorf("invalid argon2id parameters: t=%d m=%d p=%d", p.Time, p.MemoryKiB, p.Threads)
	}
	return nil
}

// Hasher implements ports.PasswordHasher.
type Hasher struct {
	params Params
}

// NewHasher validates params up front so misconfiguration fails at start.
func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: params}, nil
}

// Hash derives an Argon2id hash with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. A false result with a nil
// error is a plain mismatch; a non-nil error means the stored hash is unusable.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		ph, err := decodePHC(encoded)
		if err != nil {
			return false, err
		}
		candidate := argon2.IDKey([]byte(password), ph.salt, ph.params.Time, ph.params.MemoryKiB, ph.params.Threads, uint32(len(ph.key))) //nolint:gosec // key length is 32
		return subtle.ConstantTimeCompare(ph.key, candidate) == 1, nil

	case isBcrypt(encoded):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt verify: %w", err)
		}
		return true, nil
	}

	return false, ErrUnknownHashFormat
}

// NeedsRehash is true for bcrypt hashes and for Argon2id hashes weaker than
// the configured parameters.
func (h *Hasher) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	ph, err := decodePHC(encoded)
	if err != nil {
		return false
	}
	return ph.params.Time < h.params.Time ||
		ph.params.MemoryKiB < h.params.MemoryKiB ||
		ph.params.Threads < h.params.Threads
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

type phcHash struct {
	params Params
	salt   []byte
	key    []byte
}

func decodePHC(encoded string) (phcHash, error) {
	var ph phcHash

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ph, ErrUnknownHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return ph, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return ph, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &ph.params.MemoryKiB, &ph.params.Time, &ph.params.Threads); err != nil {
		return ph, fmt.Errorf("parsing parameters: %w", err)
	}
	if err := ph.params.validate(); err != nil {
		return ph, fmt.Errorf("%w: %w", ErrUnknownHashFormat, err)
	}

	var err error
	if ph.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return ph, fmt.Errorf("decoding salt: %w", err)
	}
	if ph.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return ph, fmt.Errorf("decoding hash: %w", err)
	}
	if len(ph.key) == 0 {
		return ph, ErrUnknownHashFormat
	}

	return ph, nil
}
