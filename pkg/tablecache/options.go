package tablecache

import (
	"time"

	"github.com/dmitrymomot/hostkit/pkg/cache"
)

// Options configures the table cache.
type Options struct {
	// Enabled turns caching on; when off every read goes to the database.
	Enabled bool `env:"TABLE_CACHE_ENABLED" env-default:"true" yaml:"enabled"`

	// TTL is how long a loaded table is served before it is reloaded.
	TTL time.Duration `env:"TABLE_CACHE_TTL" env-default:"5m" yaml:"ttl"`

	// MaxRows skips caching for tables that grew beyond this size. Zero means no limit.
	MaxRows int `env:"TABLE_CACHE_MAX_ROWS" env-default:"10000" yaml:"max_rows"`

	// Backend is memory or redis.
	Backend string `env:"TABLE_CACHE_BACKEND" env-default:"memory" yaml:"backend"`

	KeyPrefix string `env:"TABLE_CACHE_KEY_PREFIX" env-default:"tablecache" yaml:"key_prefix"`
}

func (o Options) cacheConfig() cache.Config {
	return cache.Config{
		Backend:         o.Backend,
		Prefix:          o.KeyPrefix,
		DefaultTTL:      o.TTL,
		CleanupInterval: time.Minute,
	}
}
