package redis

import "time"

// Config holds Redis connection settings.
type Config struct {
	// redis:// or rediss:// (TLS) URL, e.g. redis://:secret@localhost:6379/0
	URL string `env:"REDIS_URL" yaml:"url"`

	PoolSize     int           `env:"REDIS_POOL_SIZE" env-default:"10" yaml:"pool_size"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" env-default:"2" yaml:"min_idle_conns"`
	MaxIdleTime  time.Duration `env:"REDIS_MAX_IDLE_TIME" env-default:"10m" yaml:"max_idle_time"`
	MaxLifetime  time.Duration `env:"REDIS_MAX_LIFETIME" env-default:"30m" yaml:"max_lifetime"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s" yaml:"read_timeout"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s" yaml:"write_timeout"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s" yaml:"dial_timeout"`

	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" env-default:"3" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" env-default:"2s" yaml:"retry_interval"`
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
