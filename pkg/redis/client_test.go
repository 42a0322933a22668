package redis

import (
	"testing"
	"time"

	"github.com/hivemart/hivemart-backend/pkg/config"
)

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		Password:    "secret",
		DB:          2,
		PoolSize:    5,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("options not applied: %+v", opts)
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	t.Parallel()

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.DB != 1 {
		t.Fatalf("url not parsed: %+v", opts)
	}
}

func TestKeyNamespacing(t *testing.T) {
	t.Parallel()

	if got := Key("cart", "user-1"); got != "hm:cart:user-1" {
		t.Fatalf("unexpected key: %s", got)
	}
}
