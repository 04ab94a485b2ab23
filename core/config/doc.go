// Package config provides configuration management for the cache service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults are declared next to each setting with a `default`
// struct tag.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: gRPC address, HTTP admin port, message size limits
//   - Log: Logging level and format
//   - Database: SQL upstream connection (mysql or sqlite)
//   - Storage: S3/MinIO upstream credentials and bucket
//   - Redis: Redis upstream URL and key prefix
//   - Cache: capacity, TTLs, retries and parallelism of the lookup caches
//   - Catalog: upstream driver selection and record field paths
//
// Environment variables map onto nested keys by replacing dots with underscores,
// e.g. CACHE_NEGATIVE_TTL sets cache.negative_ttl.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.GRPCAddress)
package config
