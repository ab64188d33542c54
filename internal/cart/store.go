package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	"github.com/angelmondragon/vitrina-backend/pkg/redis"
)

type keyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(storeID, sessionID string) string
}

// Store persists carts as JSON documents with a sliding TTL.
type Store interface {
	Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error
}

// RedisStore keeps carts in Redis.
type RedisStore struct {
	kv  keyValueStore
	ttl time.Duration
	now func() time.Time
}

// NewRedisStore builds a cart store. ttl must be positive.
func NewRedisStore(kv keyValueStore, ttl time.Duration) (*RedisStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &RedisStore{kv: kv, ttl: ttl, now: time.Now}, nil
}

// Load returns the stored cart, or a fresh one when none exists.
func (s *RedisStore) Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(storeID.String(), sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return New(storeID, sessionID), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	cart.StoreID = storeID
	cart.SessionID = sessionID
	if !cart.State.IsValid() {
		cart.State = enums.CheckoutStateBuilding
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return &cart, nil
}

// Save writes the cart and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is required")
	}
	cart.UpdatedAt = s.now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CartKey(cart.StoreID.String(), cart.SessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete removes the cart entirely.
func (s *RedisStore) Delete(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	if err := s.kv.Del(ctx, s.kv.CartKey(storeID.String(), sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
