package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of one type under string keys.
//
// The ttl passed to Set follows one convention across backends: positive
// values expire after that long, zero means the backend default and
// negative values never expire.
type Cache[V any] interface {
	// Get fails with ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) error
	Close() error
}

// Codec turns values into bytes for backends that store bytes.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSONCodec is the default Codec.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Marshal(v V) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return b, nil
}

func (JSONCodec[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Loader produces the value for a missing key and how long to keep it.
type Loader[V any] func(ctx context.Context) (V, time.Duration, error)

// groups holds one singleflight.Group per cache instance.
var groups sync.Map

func group(c any) *singleflight.Group {
	g, _ := groups.LoadOrStore(c, new(singleflight.Group))
	return g.(*singleflight.Group)
}

// LoadTimeout bounds a load started by GetOrSet. The load is detached from
// the cancellation of the caller that started it, so it needs its own limit.
const LoadTimeout = time.Minute

// GetOrSet reads key from c, calling load on a miss and storing what it
// returns. Concurrent misses on the same cache and key wait for one load.
// A failed load is returned to every waiter and nothing is stored.
//
// The load keeps running when the caller that started it goes away; each
// caller stops waiting when its own ctx ends.
//
// c must be comparable, which pointer backends such as *Memory are.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load Loader[V]) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	flight := group(c).DoChan(key, func() (res any, err error) {
		// DoChan re-panics on its own goroutine, which would end the process.
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrLoadPanicked, p)
			}
		}()

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		v, ttl, err := load(lctx)
		if err != nil {
			return nil, err
		}
		// Stored before the flight ends, so late callers find it cached.
		_ = c.Set(lctx, key, v, ttl)
		return v, nil
	})

	select {
	case r := <-flight:
		v, _ := r.Val.(V)
		return v, r.Err
	case <-ctx.Done():
		var zero V
		return zero, context.Cause(ctx)
	}
}

// Forget detaches callers arriving after it from a load already running
// for key, so they start a new one.
func Forget[V any](c Cache[V], key string) {
	group(c).Forget(key)
}
