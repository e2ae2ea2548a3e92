package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"research-desk/config"
)

// Cache is an advisory key/value store. A failed lookup is a miss and a
// failed write is dropped; neither is reported to the caller.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// NewCache builds the backend named by CACHE_BACKEND.
func NewCache(cfg *config.Config, logger *zap.Logger) (Cache, error) {
	log := logger.With(zap.String("cache_backend", cfg.CacheBackend))
	switch cfg.CacheBackend {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(cfg, log), nil
	case "postgres":
		if cfg.CacheDSN == "" {
			return nil, fmt.Errorf("CACHE_DSN is required for the postgres cache")
		}
		return NewPostgresCache(cfg.CacheDSN, log)
	case "none":
		return NopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NopCache) Set(context.Context, string, []byte, time.Duration) {}
