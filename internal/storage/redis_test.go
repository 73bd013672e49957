package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when LIFEDROP_TEST_REDIS_ADDR points at a disposable Redis.
func TestRedisKV(t *testing.T) {
	addr := os.Getenv("LIFEDROP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIFEDROP_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	kv := NewRedisKV(rdb)
	t.Cleanup(func() { _ = kv.Close() })
	require.NoError(t, kv.Ping(ctx))

	key := "lifedrop_test_" + t.Name()
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	_, err := kv.Get(ctx, key)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, key, []byte(`[{"id":"1"}]`)))
	got, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))
}
