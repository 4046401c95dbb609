package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type stubHasher struct{ rehash bool }

func (stubHasher) Hash(string) (string, error) { return "h", nil }
func (stubHasher) Verify(string, string) (bool, error) { return true, nil }
func (s stubHasher) NeedsRehash(string) bool { return s.rehash }

func sampleCount(t *testing.T, op string) uint64 {
	t.Helper()
	var m dto.Metric
	if err := PasswordHashDuration.WithLabelValues(op).(prometheus.Histogram).Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestInstrumentHasher(t *testing.T) {
	h := InstrumentHasher(stubHasher{rehash: true})

	hashBefore, verifyBefore := sampleCount(t, "hash"), sampleCount(t, "verify")

	if got, _ := h.Hash("pw"); got != "h" {
		t.Fatalf("Hash = %q", got)
	}
	if ok, _ := h.Verify("pw", "h"); !ok {
		t.Fatal("Verify should pass through")
	}
	if !h.NeedsRehash("h") {
		t.Fatal("NeedsRehash should pass through")
	}

	if got := sampleCount(t, "hash"); got != hashBefore+1 {
		t.Fatalf("hash samples = %d, want %d", got, hashBefore+1)
	}
	if got := sampleCount(t, "verify"); got != verifyBefore+1 {
		t.Fatalf("verify samples = %d, want %d", got, verifyBefore+1)
	}
}
