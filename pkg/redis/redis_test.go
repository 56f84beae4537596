package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rkive250/MedNotify/config"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)
	c := &Client{
		rdb:    goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		logger: zap.NewNop(),
	}
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, err)
}

func TestBlacklistToken(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	ok, err := c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.BlacklistToken(ctx, "jti-1", time.Minute))

	ok, err = c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = c.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlacklistToken_ExpiredIsNoop(t *testing.T) {
	mr, c := setupTestRedis(t)

	require.NoError(t, c.BlacklistToken(context.Background(), "jti-2", 0))
	assert.False(t, mr.Exists(blacklistPrefix+"jti-2"))
}

func TestCheckRateLimit(t *testing.T) {
	_, c := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := c.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d should be allowed", i+1)
	}

	allowed, err := c.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = c.CheckRateLimit(ctx, "rate_limit:other", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
