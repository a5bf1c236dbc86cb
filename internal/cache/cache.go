// Package cache stores upstream option listings so repeated selections of the
// same continent or country do not spend AccuWeather quota.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"weather-picker/internal/config"
)

// Store is a byte-valued cache with per-entry expiry
type Store interface {
	// Get reports ok=false on a miss; err is reserved for backend failures
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// New builds the store selected by cfg.Backend
func New(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		logger.Info("using in-memory option cache", "ttl", cfg.TTL)
		return NewMemoryStore(cfg.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("using redis option cache", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		return NewRedisStore(client, cfg.TTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
