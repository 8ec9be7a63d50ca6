package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/logging"
	ratelimiter "medportal/internal/core/domain/rate_limiter"
	"time"

	"github.com/go-redis/redis/v9"
)

type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

// CheckLimit counts calls in fixed windows aligned to the interval. A Redis
// failure lets the call through.
func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	d := limit.Interval.Duration()
	if d <= 0 {
		panic("invalid rate limiting interval")
	}
	window := r.now().UnixNano() / int64(d)
	k := fmt.Sprintf("rate-limit::%s::%d::%d", key, int64(d.Seconds()), window)

	cmds, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, d)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed()
	}
	if err != nil {
		r.log.Error(ctx, "Could not check rate limit due to Redis client error.", logging.Entry("err", err))
		return ratelimiter.Allowed()
	}
	intCmd := cmds[0].(*redis.IntCmd)
	if intCmd.Val() > int64(limit.Value) {
		return ratelimiter.NotAllowed()
	}
	return ratelimiter.Allowed()
}
