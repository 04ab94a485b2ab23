package cache

import "time"

// Config holds configuration for the lookup caches.
type Config struct {
	// Capacity is the maximum number of entries per store, split evenly across shards.
	Capacity int `mapstructure:"capacity" default:"100000"`
	// Shards is the number of independently locked store partitions.
	Shards int `mapstructure:"shards" default:"16"`
	// TTL is how long a loaded entry stays fresh. Zero keeps entries until evicted.
	TTL time.Duration `mapstructure:"ttl" default:"0s"`
	// NegativeTTL is how long a known-absent key is remembered. Zero disables negative caching.
	NegativeTTL time.Duration `mapstructure:"negative_ttl" default:"30s"`
	// FetchTimeout bounds a single upstream load, retries included.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" default:"10s"`
	// MaxRetries is the number of retries after a failed upstream load.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryInterval is the initial backoff between retries.
	RetryInterval time.Duration `mapstructure:"retry_interval" default:"100ms"`
	// Parallelism is the maximum number of concurrent upstream calls per batch.
	Parallelism int `mapstructure:"parallelism" default:"8"`
	// BatchSize is the maximum number of keys per batched upstream call.
	BatchSize int `mapstructure:"batch_size" default:"500"`
}

// withDefaults fills zero values that would otherwise make the cache unusable.
func (c Config) withDefaults() Config {
	if c.Capacity <= 0 {
		c.Capacity = 100000
	}
	if c.Shards <= 0 {
		c.Shards = 16
	}
	if c.Shards > c.Capacity {
		c.Shards = c.Capacity
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 100 * time.Millisecond
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 8
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	return c
}
