package tokenstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the token under <prefix>auth_token with no expiry.
type RedisBackend struct {
	client *redis.Client
	key    string
}

func NewRedisBackend(addr, prefix string) *RedisBackend {
	return NewRedisBackendFromClient(redis.NewClient(&redis.Options{Addr: addr}), prefix)
}

func NewRedisBackendFromClient(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, key: prefix + Key}
}

func (r *RedisBackend) Load(ctx context.Context) (string, error) {
	value, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrNoToken
	}
	return value, nil
}

func (r *RedisBackend) Save(ctx context.Context, value string) error {
	return r.client.Set(ctx, r.key, value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
