// Package metrics defines the Prometheus metrics of the auth service. It is
// the single place that names metrics, labels and help strings.
//
// Metrics register with the default registry through promauto when the
// package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Result label values shared by the counters below.
const (
	ResultOK          = "ok"
	ResultInvalid     = "invalid"
	ResultConflict    = "conflict"
	ResultDenied      = "denied"
	ResultError       = "error"
	ResultRateLimited = "rate_limited"
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: ok, invalid, conflict or error
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: ok, invalid, denied, rate_limited or error
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts session gate decisions.
// Label:
//   - result: ok, missing, malformed, bad_signature, expired or error
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures Argon2id derivation time.
// Label:
//   - op: hash or verify
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing and verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)
