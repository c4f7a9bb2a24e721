package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	log  *slog.Logger
	name string
}

// WithLogger logs failed connection attempts.
func WithLogger(log *slog.Logger) Option {
	return func(o *openOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClientName sets the name reported by CLIENT LIST.
func WithClientName(name string) Option {
	return func(o *openOptions) {
		o.name = name
	}
}

// Open creates a client from cfg and pings it. While the server is
// unreachable it retries cfg.RetryAttempts times, waiting n*RetryInterval
// before attempt n.
func Open(ctx context.Context, cfg Config, opts ...Option) (redis.UniversalClient, error) {
	o := openOptions{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	ropts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	ropts.ClientName = o.name

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, time.Duration(attempt-1)*cfg.RetryInterval); err != nil {
				return nil, errors.Join(ErrUnreachable, err)
			}
		}

		client := redis.NewClient(ropts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		o.log.WarnContext(ctx, "redis not reachable",
			slog.Int("attempt", attempt),
			slog.Int("of", attempts),
			slog.Any("error", lastErr),
		)
	}
	return nil, errors.Join(ErrUnreachable, lastErr)
}

// clientOptions parses cfg.URL and overlays the pool settings that are set.
func clientOptions(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	o, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	setPositive(&o.PoolSize, cfg.PoolSize)
	o.MinIdleConns = cfg.MinIdleConns
	setPositive(&o.ConnMaxIdleTime, cfg.MaxIdleTime)
	setPositive(&o.ConnMaxLifetime, cfg.MaxLifetime)
	setPositive(&o.ReadTimeout, cfg.ReadTimeout)
	setPositive(&o.WriteTimeout, cfg.WriteTimeout)
	setPositive(&o.DialTimeout, cfg.DialTimeout)
	return o, nil
}

func setPositive[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
