package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"cache-service/core/config"
	"cache-service/core/database"
	"cache-service/core/kv"
	"cache-service/core/rpc"
	"cache-service/feature/catalog"
	"cache-service/feature/catalog/upstream"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenUpstream(t *testing.T) {
	ctx := context.Background()

	t.Run("SQL", func(t *testing.T) {
		cfg := &config.Config{
			Database: database.Config{Driver: "sqlite", Name: ":memory:"},
			Catalog:  catalog.Config{Upstream: upstream.DriverSQL},
		}
		store, closeStore, err := openUpstream(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &upstream.SQL{}, store)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Redis:   kv.Config{URL: "redis://" + mr.Addr() + "/0", KeyPrefix: "test"},
			Catalog: catalog.Config{Upstream: upstream.DriverRedis},
		}
		store, closeStore, err := openUpstream(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &upstream.Redis{}, store)
	})

	t.Run("Unsupported", func(t *testing.T) {
		cfg := &config.Config{Catalog: catalog.Config{Upstream: "ftp"}}
		_, _, err := openUpstream(ctx, cfg, zap.NewNop())
		assert.ErrorContains(t, err, `unsupported catalog upstream "ftp"`)
	})
}

func TestCallMethod_ArgumentErrors(t *testing.T) {
	ctx := context.Background()

	_, err := callMethod(ctx, nil, "get_everything", nil)
	assert.ErrorContains(t, err, `unknown method "get_everything"`)

	_, err = callMethod(ctx, nil, rpc.MethodGetVintageByID, []string{"7", "8"})
	assert.ErrorContains(t, err, "takes exactly one id, got 2")

	_, err = callMethod(ctx, nil, rpc.MethodGetBestVintageIDByWineID, nil)
	assert.ErrorContains(t, err, "takes exactly one id, got 0")
}

func TestRootCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range RootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"start", "query", "migrate", "check", "seed"})
}

func TestCheckUpstream(t *testing.T) {
	ctx := context.Background()

	t.Run("SQLMissingTable", func(t *testing.T) {
		cfg := &config.Config{
			Database: database.Config{Driver: "sqlite", Name: ":memory:"},
			Catalog:  catalog.Config{Upstream: upstream.DriverSQL},
		}
		assert.Error(t, checkUpstream(ctx, cfg))
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Redis:   kv.Config{URL: "redis://" + mr.Addr() + "/0"},
			Catalog: catalog.Config{Upstream: upstream.DriverRedis},
		}
		assert.NoError(t, checkUpstream(ctx, cfg))
	})

	t.Run("SQL", func(t *testing.T) {
		dbCfg := database.Config{Driver: "sqlite", Name: filepath.Join(t.TempDir(), "catalog.db")}
		store, closeDB, err := openSQL(dbCfg)
		require.NoError(t, err)
		require.NoError(t, store.Migrate())
		closeDB()

		cfg := &config.Config{Database: dbCfg, Catalog: catalog.Config{Upstream: upstream.DriverSQL}}
		assert.NoError(t, checkUpstream(ctx, cfg))
	})

	t.Run("Unsupported", func(t *testing.T) {
		cfg := &config.Config{Catalog: catalog.Config{Upstream: "ftp"}}
		assert.ErrorContains(t, checkUpstream(ctx, cfg), "unsupported")
	})
}

func TestOpenSQL_CloserReleasesPool(t *testing.T) {
	store, closeDB, err := openSQL(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate())

	closeDB()
	assert.ErrorContains(t, store.Migrate(), "closed")
}
