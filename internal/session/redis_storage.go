package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisStorage struct {
	client  redisKV
	prefix  string
	timeout time.Duration
}

// NewRedisStorage comparte la sesion entre maquinas bajo assistant:session:<profile>:.
func NewRedisStorage(client *redis.Client, profile string) Storage {
	if client == nil {
		return nil
	}
	return newRedisStorage(client, profile)
}

func newRedisStorage(client redisKV, profile string) *redisStorage {
	if profile == "" {
		profile = "default"
	}
	return &redisStorage{
		client:  client,
		prefix:  "assistant:session:" + profile + ":",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisStorage) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStorage) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *redisStorage) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}
