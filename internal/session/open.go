package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"assistant-client/internal/config"
)

// Open construye el Store segun SESSION_BACKEND. El closer libera conexiones.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		return NewStore(NewMemoryStorage(), logger), noop, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctxPing).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return NewStore(NewRedisStorage(client, cfg.SessionProfile), logger), client.Close, nil
	default:
		path := cfg.SessionFile
		if path == "" {
			p, err := DefaultFilePath(cfg.SessionProfile)
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		fs, err := NewFileStorage(path)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("session file", zap.String("path", path))
		return NewStore(fs, logger), noop, nil
	}
}
