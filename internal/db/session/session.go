package session

import (
	"context"
	"errors"
	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/domain/user"
	"strconv"
	"time"

	"github.com/go-redis/redis/v9"
)

const KEY_PREFIX = "session:"

type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepository stores sessions under "session:<token>". A zero
// ttl keeps sessions until they are deleted.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration) *RedisSessionRepository {
	if client == nil {
		panic(e.NewNilArgumentError("client"))
	}
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func (r *RedisSessionRepository) Create(ctx context.Context, input user.CreateSessionInput) error {
	return r.client.Set(ctx, key(input.Token), int64(input.UserID), r.ttl).Err()
}

func (r *RedisSessionRepository) GetUserID(ctx context.Context, token user.SessionToken) (user.ID, error) {
	raw, err := r.client.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return user.ID(0), user.ErrSessionDoesNotExist
	}
	if err != nil {
		return user.ID(0), err
	}
	return parseUserID(raw)
}

func (r *RedisSessionRepository) Delete(ctx context.Context, token user.SessionToken) (user.ID, error) {
	raw, err := r.client.GetDel(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return user.ID(0), user.ErrSessionDoesNotExist
	}
	if err != nil {
		return user.ID(0), err
	}
	return parseUserID(raw)
}

func key(token user.SessionToken) string {
	return KEY_PREFIX + string(token)
}

func parseUserID(raw string) (user.ID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return user.ID(0), err
	}
	return user.ID(id), nil
}
