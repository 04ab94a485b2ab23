// Package upstream implements the authoritative catalog stores the cache reads through to.
//
// Three drivers share the Upstream interface:
//   - SQL: the vintages table over gorm (MySQL or SQLite), batched with IN queries
//   - Object: one JSON object per vintage and per wine index in a MinIO/S3 bucket
//   - Redis: JSON strings and id lists, batched with MGET
//
// Absent records are reported as not found, never as errors. Failures to reach the store
// wrap ErrUnavailable. Every driver also implements Importer for seeding.
package upstream
