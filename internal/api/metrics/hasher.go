package metrics

import (
	"time"

	"github.com/stockhub/auth-service/internal/core/ports"
)

type instrumentedHasher struct {
	next ports.PasswordHasher
}

// InstrumentHasher records PasswordHashDuration around next.
func InstrumentHasher(next ports.PasswordHasher) ports.PasswordHasher {
	return &instrumentedHasher{next: next}
}

func (h *instrumentedHasher) Hash(password string) (string, error) {
	defer observe("hash", time.Now())
	return h.next.Hash(password)
}

func (h *instrumentedHasher) Verify(password, encoded string) (bool, error) {
	defer observe("verify", time.Now())
	return h.next.Verify(password, encoded)
}

func (h *instrumentedHasher) NeedsRehash(encoded string) bool {
	return h.next.NeedsRehash(encoded)
}

func observe(op string, start time.Time) {
	PasswordHashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
