package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stockhub/auth-service/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestManager_IssueVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	tok, exp, err := m.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(clock.t.Add(time.Hour)) {
		t.Fatalf("expiresAt = %v", exp)
	}

	clock.Advance(59 * time.Minute)
	sub, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestManager_ExpiredAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	tok, _, err := m.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.Advance(time.Hour + time.Second)
	_, err = m.Verify(tok)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expired error should wrap ErrTokenInvalid")
	}
}

func TestManager_DefaultTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	_, exp, err := m.Issue("user-1", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if got := exp.Sub(clock.t); got != 7*24*time.Hour {
		t.Fatalf("default ttl = %v", got)
	}
}

func TestManager_ClaimsAreCanonical(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	tok, _, _ := m.Issue("user-1", time.Hour)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if len(claims) != 3 {
		t.Fatalf("expected exactly sub/iat/exp, got %v", claims)
	}
	for _, k := range []string{"sub", "iat", "exp"} {
		if _, ok := claims[k]; !ok {
			t.Fatalf("missing claim %s", k)
		}
	}
}

func TestManager_FlippedSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	tok, _, _ := m.Issue("user-1", time.Hour)
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	forged := parts[0] + "." + parts[1] + "." + string(sig)

	_, err := m.Verify(forged)
	if !errors.Is(err, domain.ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("bad signature should wrap ErrTokenInvalid")
	}
}

func TestManager_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)
	other, _ := NewManager(strings.Repeat("z", 32), WithClock(clock.Now))

	tok, _, _ := other.Issue("user-1", time.Hour)
	if _, err := m.Verify(tok); !errors.Is(err, domain.ErrTokenBadSignature) {
		t.Fatalf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestManager_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	for _, in := range []string{"", "abc", "a.b.c", "not-a-token"} {
		if _, err := m.Verify(in); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("Verify(%q) = %v, want ErrTokenMalformed", in, err)
		}
	}
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(clock.t),
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Verify(none); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if _, err := m.Verify(hs512); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("HS512 must be rejected, got %v", err)
	}
}

func TestManager_MissingExpOrSubject(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u"}).SignedString([]byte(testSecret))
	if _, err := m.Verify(noExp); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("token without exp must be rejected, got %v", err)
	}

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if _, err := m.Verify(noSub); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("token without sub must be malformed, got %v", err)
	}
}

func TestNewManager_ShortSecret(t *testing.T) {
	if _, err := NewManager("short"); !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort, got %v", err)
	}
}

func TestManager_IssueEmptySubject(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})
	if _, _, err := m.Issue("", time.Hour); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
