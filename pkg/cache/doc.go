// Package cache is a typed key-value cache with two backends.
//
// [Memory] lives in process: entries expire individually, an optional
// bound evicts the least recently used entry, and [Memory.Stats] reports
// hits and misses. [Redis] encodes values with a [Codec] ([JSONCodec] by
// default) and namespaces keys with a prefix. [New] chooses between them
// from a [Config], which is how pkg/tablecache builds its caches:
//
//	countries, err := cache.New[[]Country](cfg, redisClient, "countries")
//
// A zero ttl in Set means the backend default, a negative one means no
// expiry.
//
// [GetOrSet] is read-through caching where concurrent misses for one key
// share a single load:
//
//	u, err := cache.GetOrSet(ctx, users, id, func(ctx context.Context) (User, time.Duration, error) {
//		u, err := store.FindUser(ctx, id)
//		return u, 10 * time.Minute, err
//	})
package cache
