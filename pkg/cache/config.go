package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backends accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes a cache backend.
type Config struct {
	Backend         string        `env:"CACHE_BACKEND" env-default:"memory" yaml:"backend"`
	Prefix          string        `env:"CACHE_PREFIX" env-default:"hostkit" yaml:"prefix"`
	DefaultTTL      time.Duration `env:"CACHE_DEFAULT_TTL" env-default:"1h" yaml:"default_ttl"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" env-default:"1m" yaml:"cleanup_interval"`
	MaxEntries      int           `env:"CACHE_MAX_ENTRIES" env-default:"10000" yaml:"max_entries"`
}

// New builds the backend named by cfg. The Redis backend requires client;
// the memory backend ignores it. name is appended to the key prefix so
// several caches can share one Redis database.
func New[V any](cfg Config, client redis.UniversalClient, name string) (Cache[V], error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return NewMemory[V](
			WithDefaultTTL(cfg.DefaultTTL),
			WithCleanupInterval(cfg.CleanupInterval),
			WithMaxEntries(cfg.MaxEntries),
		), nil
	case BackendRedis:
		if client == nil {
			return nil, ErrNoRedisClient
		}
		return NewRedis[V](client, nil,
			WithPrefix(joinPrefix(cfg.Prefix, name)),
			WithRedisDefaultTTL(cfg.DefaultTTL),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func joinPrefix(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, ":"); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ":")
}
