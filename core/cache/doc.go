// Package cache provides the read-through lookup machinery used by the catalog service.
//
// The package is split into four cooperating parts:
//
//  1. Store: a sharded, capacity-bounded LRU holding immutable entries. An entry is either a
//     value loaded from upstream or a negative marker recording that the key is known absent.
//  2. Resolver: deduplicates and normalizes batch key lists and realigns batch results with the
//     caller's original key sequence.
//  3. Engine: resolves keys against the Store and, on a miss, loads them through a Loader. At
//     most one upstream load per key is in flight; concurrent callers attach to it.
//  4. Coordinator: the batch entry points (ordered, unordered and flattened) built on top of an
//     Engine and a Resolver.
//
// # Misses
//
// A miss is a normal outcome, never an error. Lookups report it through a boolean and the
// batch helpers substitute the caller's default value (ordered) or drop the key (unordered).
// The only error a lookup returns is the caller's own context error.
//
// # Usage
//
//	store := cache.NewStore[string, models.Vintage](cfg.Cache, cache.StringHasher)
//	engine := cache.NewEngine("vintage", store, loader, cfg.Cache, logger, metrics)
//	coord := cache.NewCoordinator(engine, cache.TrimResolver())
//
//	v, found, err := engine.Lookup(ctx, "7")
//	titles, err := coord.Ordered(ctx, []string{"7", "999", "7"}, models.Vintage{})
package cache
