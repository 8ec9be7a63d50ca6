package ratelimiter

import (
	"context"
	"medportal/internal/core/domain/logging"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"medportal/internal/db/dbtest"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFixedWindow(t *testing.T) {
	client := dbtest.CreateTestRedisClient(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter := NewRedis(client, logging.NewFakeLogger(), func() time.Time { return now })
	limit := ratelimiter.Limit{Value: 3, Interval: ratelimiter.Hour}
	ctx := context.Background()
	key := "test::" + t.Name()

	for i := 0; i < 3; i++ {
		require.True(t, limiter.CheckLimit(ctx, key, limit).IsAllowed, i)
	}
	require.False(t, limiter.CheckLimit(ctx, key, limit).IsAllowed)
	require.True(t, limiter.CheckLimit(ctx, key+"::other", limit).IsAllowed)

	now = now.Add(time.Hour)
	require.True(t, limiter.CheckLimit(ctx, key, limit).IsAllowed)
}

func TestRedisFailureAllows(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	log := logging.NewFakeLogger()
	limiter := NewRedis(client, log, time.Now)

	result := limiter.CheckLimit(context.Background(), "key", ratelimiter.Limit{Value: 1, Interval: ratelimiter.Minute})

	require.True(t, result.IsAllowed)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}
