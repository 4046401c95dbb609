package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": strings.Repeat("s", 32),
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Store.Driver != DriverPostgres {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Token.TTL != 7*24*time.Hour {
		t.Fatalf("token ttl = %v", cfg.Token.TTL)
	}
	if cfg.Store.Timeout != 5*time.Second {
		t.Fatalf("store timeout = %v", cfg.Store.Timeout)
	}
	if cfg.Hash.Time != 3 || cfg.Hash.MemoryKiB != 65536 || cfg.Hash.Threads != 2 {
		t.Fatalf("hash params = %+v", cfg.Hash)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default")
	}
	if cfg.TrustProxyHeaders {
		t.Fatalf("proxy headers should not be trusted by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          strings.Repeat("s", 32),
		"STORE_DRIVER":        "sqlite",
		"DATABASE_URL":        "/tmp/auth.db",
		"TOKEN_TTL":           "1h",
		"STORE_TIMEOUT":       "250ms",
		"REDIS_ADDR":          "localhost:6379",
		"TRUST_PROXY_HEADERS": "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.DSN != "/tmp/auth.db" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if cfg.Token.TTL != time.Hour || cfg.Store.Timeout != 250*time.Millisecond {
		t.Fatalf("durations not parsed: %+v", cfg)
	}
	if !cfg.TrustProxyHeaders {
		t.Fatalf("TRUST_PROXY_HEADERS not applied")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   strings.Repeat("s", 32),
		"STORE_DRIVER": "cassandra",
	}))
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected driver error, got %v", err)
	}
}
