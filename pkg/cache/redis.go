package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// WithRedisDefaultTTL is the lifetime used for Set with a zero ttl.
// Default 1h.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// WithPrefix stores keys as "prefix:key".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) { o.prefix = prefix }
}

// scanBatch is the SCAN COUNT hint and the UNLINK batch size used by Clear.
const scanBatch = 100

// Redis is a Cache kept in Redis. Values are encoded with a Codec, so V
// must survive that round trip.
type Redis[V any] struct {
	client redis.UniversalClient
	codec  Codec[V]
	opts   redisOptions
}

// NewRedis uses JSONCodec when codec is nil. The caller keeps ownership of
// client.
func NewRedis[V any](client redis.UniversalClient, codec Codec[V], opts ...RedisOption) *Redis[V] {
	r := &Redis[V]{client: client, codec: codec, opts: redisOptions{defaultTTL: time.Hour}}
	for _, opt := range opts {
		opt(&r.opts)
	}
	if r.codec == nil {
		r.codec = JSONCodec[V]{}
	}
	return r
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			err = ErrNotFound
		}
		return zero, err
	}
	return r.codec.Unmarshal(b)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	b, err := r.codec.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	// go-redis treats 0 as "no expiry".
	return r.client.Set(ctx, r.key(key), b, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis[V]) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	return n > 0, err
}

// Clear unlinks every key under the prefix. With no prefix it flushes the
// current database.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.opts.prefix+":*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close only releases GetOrSet bookkeeping. Close the client itself with
// redis.Shutdown.
func (r *Redis[V]) Close() error {
	groups.Delete(r)
	return nil
}

func (r *Redis[V]) key(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var _ Cache[any] = (*Redis[any])(nil)
