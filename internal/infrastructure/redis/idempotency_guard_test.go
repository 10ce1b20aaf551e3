package redis

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIdempotencyGuard_SegundaReservaFalla(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	guard := NewIdempotencyGuard(client)
	key := "test-reserve"
	client.Del(ctx, idempotencyKeyPrefix+key)
	t.Cleanup(func() { client.Del(ctx, idempotencyKeyPrefix+key) })

	ok, err := guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "la misma clave no puede reservarse dos veces")

	ttl, err := client.TTL(ctx, idempotencyKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl.Hours(), 23.0)
}

func TestIdempotencyGuard_ReleasePermiteReintentar(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	guard := NewIdempotencyGuard(client)
	key := "test-release"
	client.Del(ctx, idempotencyKeyPrefix+key)
	t.Cleanup(func() { client.Del(ctx, idempotencyKeyPrefix+key) })

	ok, err := guard.Reserve(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, guard.Release(ctx, key))

	ok, err = guard.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}
