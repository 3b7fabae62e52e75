package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisSetXXJSON overwrites value only when key still exists and reports
// whether it did.
func RedisSetXXJSON(ctx context.Context, rdb redis.Cmdable, key string, value any, ttl time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return rdb.SetXX(ctx, key, b, ttl).Result()
}

// RedisSetNXJSON stores value only when key is absent and reports whether it did.
func RedisSetNXJSON(ctx context.Context, rdb redis.Cmdable, key string, value any, ttl time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, b, ttl).Result()
}

func RedisGetJSON[T any](ctx context.Context, rdb redis.Cmdable, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

func RedisDel(ctx context.Context, rdb redis.Cmdable, key string) error {
	return rdb.Del(ctx, key).Err()
}
