package catalog

import "cache-service/feature/catalog/models"

// Config holds configuration for the catalog feature.
type Config struct {
	// Upstream selects the authoritative store (sql, object, redis).
	Upstream string `mapstructure:"upstream" default:"sql"`
	// HighRatedThreshold is the minimum rating of a high-rated vintage.
	HighRatedThreshold float64 `mapstructure:"high_rated_threshold" default:"80"`
	// VintagePrefix is the object key prefix of vintage records.
	VintagePrefix string `mapstructure:"vintage_prefix" default:"vintages"`
	// WinePrefix is the object key prefix of wine indexes.
	WinePrefix string `mapstructure:"wine_prefix" default:"wines"`
	// Fields locates projected attributes inside vintage records.
	Fields models.Fields `mapstructure:"fields"`
}
