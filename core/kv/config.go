package kv

import "time"

// Config holds configuration for the Redis connection.
type Config struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379/0").
	URL string `mapstructure:"url" default:"redis://localhost:6379/0"`
	// KeyPrefix namespaces every key the service reads or writes.
	KeyPrefix string `mapstructure:"key_prefix" default:"catalog"`
	// DialTimeout bounds connection setup and the initial ping.
	DialTimeout time.Duration `mapstructure:"dial_timeout" default:"5s"`
}
