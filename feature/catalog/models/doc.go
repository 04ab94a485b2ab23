// Package models defines the catalog records served by the cache.
//
// A Vintage keeps the upstream JSON payload verbatim. Scalar attributes (title, price,
// wine id, rating) are projected from it on read through configurable gjson paths, so
// upstream schemas with nested or renamed fields need no code change.
//
// Record and VintageRow are the import and SQL shapes of the same data.
package models
