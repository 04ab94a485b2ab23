package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd imports vintage records into the configured catalog.
var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import vintage records into the catalog",
	Long: `Reads a JSON array of vintage records and writes them to the catalog selected by
CATALOG_UPSTREAM. Every record needs an "id"; its wine is read from the configured
wine id field. Existing records with the same id are replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadEnvironment()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read records: %w", err)
		}
		records, err := cfg.Catalog.Fields.ParseRecords(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		store, closeStore, err := openUpstream(cmd.Context(), cfg, l)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Import(cmd.Context(), records); err != nil {
			return fmt.Errorf("failed to import records: %w", err)
		}
		l.Info("Imported records", zap.Int("count", len(records)), zap.String("upstream", cfg.Catalog.Upstream))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
