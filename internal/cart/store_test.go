package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vitrina-backend/pkg/enums"
)

type memoryKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	value, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	if m.err != nil {
		return m.err
	}
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryKV) CartKey(storeID, sessionID string) string {
	return "vt:cart:" + storeID + ":" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	store, err := NewRedisStore(kv, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	storeID := uuid.New()

	c, err := store.Load(ctx, storeID, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, enums.CheckoutStateBuilding, c.State)

	c.Add(testItem(uuid.New(), nil, "20", "2", 2))
	require.NoError(t, store.Save(ctx, c))

	key := kv.CartKey(storeID.String(), "sess-1")
	assert.Equal(t, time.Hour, kv.ttls[key])

	loaded, err := store.Load(ctx, storeID, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.False(t, loaded.UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, storeID, "sess-1"))
	_, ok := kv.values[key]
	assert.False(t, ok)
}

func TestRedisStoreResetsUnknownState(t *testing.T) {
	kv := newMemoryKV()
	store, err := NewRedisStore(kv, time.Minute)
	require.NoError(t, err)

	storeID := uuid.New()
	kv.values[kv.CartKey(storeID.String(), "sess-1")] = `{"state":"bogus"}`

	c, err := store.Load(context.Background(), storeID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStateBuilding, c.State)
	assert.NotNil(t, c.Items)
	assert.Equal(t, storeID, c.StoreID)
}

func TestRedisStorePropagatesErrors(t *testing.T) {
	kv := newMemoryKV()
	kv.err = errors.New("connection refused")
	store, err := NewRedisStore(kv, time.Minute)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), uuid.New(), "sess-1")
	assert.ErrorIs(t, err, kv.err)
	assert.ErrorIs(t, store.Save(context.Background(), New(uuid.New(), "sess-1")), kv.err)
}

func TestNewRedisStoreValidates(t *testing.T) {
	_, err := NewRedisStore(nil, time.Minute)
	assert.Error(t, err)
	_, err = NewRedisStore(newMemoryKV(), 0)
	assert.Error(t, err)
}
