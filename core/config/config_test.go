package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddress)
	assert.Equal(t, 1<<30, cfg.Server.MaxMessageBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 100000, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Cache.NegativeTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Cache.RetryInterval)
	assert.Equal(t, "sql", cfg.Catalog.Upstream)
	assert.Equal(t, 80.0, cfg.Catalog.HighRatedThreshold)
	assert.Equal(t, "title", cfg.Catalog.Fields.TitlePath)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CACHE_NEGATIVE_TTL", "5s")
	t.Setenv("CACHE_CAPACITY", "42")
	t.Setenv("CATALOG_UPSTREAM", "redis")
	t.Setenv("CATALOG_FIELDS_RATING", "ratings.average")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Cache.NegativeTTL)
	assert.Equal(t, 42, cfg.Cache.Capacity)
	assert.Equal(t, "redis", cfg.Catalog.Upstream)
	assert.Equal(t, "ratings.average", cfg.Catalog.Fields.RatingPath)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_GRPC_ADDRESS=:6000\nLOG_FORMAT=console\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("SERVER_GRPC_ADDRESS")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.Server.GRPCAddress)
	assert.Equal(t, "console", cfg.Log.Format)
}
