// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections based on
// the application's configuration. The SQL catalog upstream is built on top of it.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the database
// before returning. SQLite is used for local runs and tests (Name ":memory:").
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect and MissingColumns
// compares them against the columns a model expects. The check command uses it to
// verify the vintages table before the service starts serving from it.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "vintages", []string{"id", "wine_id", "payload"})
package database
