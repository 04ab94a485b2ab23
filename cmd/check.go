package cmd

import (
	"context"
	"fmt"
	"strings"

	"cache-service/core/config"
	"cache-service/core/kv"
	"cache-service/core/storage"
	"cache-service/feature/catalog/upstream"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd verifies the configured catalog is reachable and shaped the way lookups expect.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured catalog upstream",
	Long: `Checks the catalog selected by CATALOG_UPSTREAM:
  sql     the vintages table exists with every column lookups read
  object  the bucket exists
  redis   the server answers a ping`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadEnvironment()
		if err != nil {
			return err
		}

		if err := checkUpstream(cmd.Context(), cfg); err != nil {
			return err
		}
		l.Info("Catalog upstream OK", zap.String("upstream", cfg.Catalog.Upstream))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func checkUpstream(ctx context.Context, cfg *config.Config) error {
	switch cfg.Catalog.Upstream {
	case upstream.DriverSQL:
		store, closeDB, err := openSQL(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB()

		missing, err := store.Check()
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("vintages table is missing columns: %s", strings.Join(missing, ", "))
		}
		return nil

	case upstream.DriverObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("bucket %s does not exist", cfg.Storage.Bucket)
		}
		return nil

	case upstream.DriverRedis:
		client, err := kv.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		return client.Close()

	default:
		return fmt.Errorf("unsupported catalog upstream %q", cfg.Catalog.Upstream)
	}
}
