// Package kv connects to Redis for the Redis catalog upstream.
//
// Connect parses a redis:// URL, dials with a bounded timeout and pings before
// returning. Key builds the colon separated key names used throughout the service.
package kv
