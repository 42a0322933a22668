package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("HIVEMART_DB_DSN", "postgres://localhost/hivemart_test")
	t.Setenv("HIVEMART_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Fatal("default env should be dev")
	}
	if cfg.Cart.RemoteKeyPrefix != "hm:cart" {
		t.Fatalf("unexpected remote key prefix: %s", cfg.Cart.RemoteKeyPrefix)
	}
	if cfg.Cart.SyncTimeout != 10*time.Second {
		t.Fatalf("unexpected sync timeout: %s", cfg.Cart.SyncTimeout)
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("HIVEMART_DB_DSN", "")
	t.Setenv("HIVEMART_JWT_SECRET", "test-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DSN is missing")
	}
}

func TestJWTExpiration(t *testing.T) {
	cfg := JWTConfig{ExpirationMinutes: 90}
	if cfg.Expiration() != 90*time.Minute {
		t.Fatalf("unexpected expiration: %s", cfg.Expiration())
	}
	cfg.ExpirationMinutes = 0
	if cfg.Expiration() != 0 {
		t.Fatal("non-positive minutes should disable expiration")
	}
}
