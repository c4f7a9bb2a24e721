// Package tablecache keeps small, read-mostly tables (countries, plans,
// feature flags) in a cache and serves them without a database round trip.
//
// A [Factory] holds the shared [Options] and the database runner. Each
// call to [For] registers a table and returns a typed handle whose rows are
// loaded with a read-only envelope call and stored in the memory or Redis
// backend of package cache:
//
//	tables := tablecache.NewFactory(cfg.TableCache, runner, tablecache.WithRedis(client))
//	countries, err := tablecache.For[Country](tables, "countries",
//		tablecache.WithKey(func(c Country) string { return c.Code }),
//		tablecache.WithQuery[Country](func(ds *goqu.SelectDataset) *goqu.SelectDataset {
//			return ds.Order(goqu.I("name").Asc())
//		}),
//	)
//
//	c, ok, err := countries.Get(ctx, "DE")
//
// Concurrent misses share a single load. Writers call Invalidate after
// changing a table. With Enabled set to false every read queries the
// database directly.
package tablecache
