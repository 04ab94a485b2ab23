package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the vintages table of the SQL catalog.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the vintages table in the SQL catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadEnvironment()
		if err != nil {
			return err
		}

		store, closeDB, err := openSQL(cfg.Database)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		l.Info("Catalog schema is up to date", zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
