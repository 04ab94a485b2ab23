package cmd

import (
	"context"
	"fmt"

	"cache-service/core/config"
	"cache-service/core/database"
	"cache-service/core/kv"
	"cache-service/core/logger"
	"cache-service/core/storage"
	"cache-service/feature/catalog/upstream"

	"go.uber.org/zap"
)

// openUpstream connects to the catalog selected by catalog.upstream. The returned func
// releases the connection.
func openUpstream(ctx context.Context, cfg *config.Config, l *zap.Logger) (upstream.Store, func(), error) {
	switch cfg.Catalog.Upstream {
	case upstream.DriverSQL:
		store, closeDB, err := openSQL(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		l.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))
		return store, closeDB, nil

	case upstream.DriverObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		l.Info("Using object storage catalog", zap.String("bucket", cfg.Storage.Bucket))
		store := upstream.NewObject(client, cfg.Storage.Bucket, cfg.Catalog.VintagePrefix, cfg.Catalog.WinePrefix)
		return store, func() {}, nil

	case upstream.DriverRedis:
		client, err := kv.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		l.Info("Connected to Redis catalog", zap.String("prefix", cfg.Redis.KeyPrefix))
		return upstream.NewRedis(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported catalog upstream %q", cfg.Catalog.Upstream)
	}
}

// openSQL connects to the SQL catalog. The returned func closes the connection pool.
func openSQL(cfg database.Config) (*upstream.SQL, func(), error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return upstream.NewSQL(db), func() { _ = sqlDB.Close() }, nil
}

// loadEnvironment loads configuration and builds the logger every command starts with.
func loadEnvironment() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
