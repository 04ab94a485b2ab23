// Package catalog serves the vintage catalog through read-through caches.
//
// Two caches back every operation: vintage records keyed by vintage id, and wine indexes
// (the ordered vintage ids of a wine) keyed by wine id. Both load misses from the
// configured upstream (see package upstream).
//
// # Operations
//
// Service implements the lookups of the caching service. Single-key lookups return a
// fixed default on a miss ({} for a record, "" for a title, 0 for a price, "0" for an
// id, an empty list for id lists). Ordered batch lookups return one entry per requested
// id, duplicates and defaults included. Unordered batch lookups return only what was
// found for the distinct ids, in completion order. Flattened lookups concatenate per-wine
// lists in request order.
//
// The best vintage of a wine is the one with the highest rating, ties going to the lowest
// id. High-rated vintages are those rated at or above catalog.high_rated_threshold.
//
// # Transports
//
// GRPCServer adapts Service to the caching gRPC service. Feature registers the HTTP
// admin routes (lookups, cache stats and invalidation) on the Fiber server.
package catalog
