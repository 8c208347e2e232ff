package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisStateRepository) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisStateRepository(client, time.Hour)
}

func TestRedisCheckRateLimit(t *testing.T) {
	_, repo := setupRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := repo.CheckRateLimit(ctx, 42, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
	}

	allowed, err := repo.CheckRateLimit(ctx, 42, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth attempt should be rejected")

	// A different user has their own counter.
	allowed, err = repo.CheckRateLimit(ctx, 43, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimitKeyHasTTL(t *testing.T) {
	mr, repo := setupRedis(t)
	ctx := context.Background()

	_, err := repo.CheckRateLimit(ctx, 42, 3, time.Minute)
	require.NoError(t, err)

	// The counter must carry the window as TTL from the first increment.
	assert.Equal(t, time.Minute, mr.TTL("booking_rate:42"))
}

func TestRedisRateLimitWindowExpires(t *testing.T) {
	mr, repo := setupRedis(t)
	ctx := context.Background()

	allowed, err := repo.CheckRateLimit(ctx, 42, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = repo.CheckRateLimit(ctx, 42, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(2 * time.Minute)

	allowed, err = repo.CheckRateLimit(ctx, 42, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisPing(t *testing.T) {
	mr, repo := setupRedis(t)
	assert.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}

func TestRedisNilClient(t *testing.T) {
	repo := NewRedisStateRepository(nil, time.Hour)
	_, err := repo.CheckRateLimit(context.Background(), 1, 1, time.Minute)
	assert.Error(t, err)
	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}
