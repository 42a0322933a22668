package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hivemart/hivemart-backend/pkg/redis"
)

// ErrRemoteNotFound signals that no remote cart exists for the identity.
// Merge flows treat it as an empty remote cart, not a failure.
var ErrRemoteNotFound = errors.New("cart: remote cart not found")

// RemoteStore is the key-value-by-identity store holding one cart per
// authenticated user.
type RemoteStore interface {
	Get(ctx context.Context, userID string) (RemoteCart, error)
	Upsert(ctx context.Context, userID string, cart RemoteCart) error
}

// RedisRemoteStore keeps remote carts as JSON values keyed by user ID.
type RedisRemoteStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRemoteStore builds a remote store over the shared redis client.
func NewRedisRemoteStore(client *redis.Client, prefix string) (*RedisRemoteStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if prefix == "" {
		prefix = "hm:cart"
	}
	return &RedisRemoteStore{client: client, prefix: prefix}, nil
}

func (r *RedisRemoteStore) key(userID string) string {
	return r.prefix + ":" + userID
}

// Get fetches the remote cart, mapping a missing key to ErrRemoteNotFound.
func (r *RedisRemoteStore) Get(ctx context.Context, userID string) (RemoteCart, error) {
	raw, err := r.client.Get(ctx, r.key(userID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return RemoteCart{}, ErrRemoteNotFound
		}
		return RemoteCart{}, fmt.Errorf("fetch remote cart: %w", err)
	}

	var cart RemoteCart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return RemoteCart{}, fmt.Errorf("decode remote cart: %w", err)
	}
	return cart, nil
}

// Upsert overwrites the remote cart for the identity, stamping UpdatedAt.
func (r *RedisRemoteStore) Upsert(ctx context.Context, userID string, cart RemoteCart) error {
	cart.UpdatedAt = time.Now().UTC()
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode remote cart: %w", err)
	}
	if err := r.client.Set(ctx, r.key(userID), string(raw), 0); err != nil {
		return fmt.Errorf("upsert remote cart: %w", err)
	}
	return nil
}
