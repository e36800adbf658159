package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/iocache"
	"github.com/huangsam/localcache/internal/outwriter"
	"github.com/spf13/cobra"
)

// statusCmd shows store statistics.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics and connection info",
	Long: `Show the configured backend, whether it is reachable, and how many entries it
holds by state (valid, legacy, invalid), together with the newest and oldest
entry times and the storage size.

Examples:
  localcache status
  LOCALCACHE_BACKEND=postgresql LOCALCACHE_DB_CONNECT="host=... dbname=..." localcache status`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		status, err := c.Status(cmd.Context())
		if err != nil {
			return err
		}
		if status.Backend == "unknown" {
			status.Backend = string(cfg.Backend)
		}
		return outwriter.NewOutWriter().WriteStatus(status, cfg)
	},
}

// clearCmd empties the store.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached entries",
	Long: `Remove every key except the ones matched by --preserve.

With --all the whole store is dropped instead:
For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the entries and migration tables
For S3/GCS: Deletes every object under the prefix

Examples:
  localcache clear --preserve settings
  localcache clear --all`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			// The store must be closed before its file or tables go away
			iocache.CloseStores()
			if err := iocache.ClearStore(cmd.Context(), cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stderr, "Dropped %s store\n", cfg.Backend)
			return nil
		}

		values, _ := cmd.Flags().GetStringSlice("preserve")
		c, err := openCache()
		if err != nil {
			return err
		}
		removed, err := c.Clear(cmd.Context(), contract.ParsePreserved(values))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "Removed %d entries\n", removed)
		return nil
	},
}

// exportCmd writes the inventory to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store inventory to a Parquet file",
	Long: `Write one row per stored key (key, state, timestamp, size) to a Parquet file.

Examples:
  localcache export --output-file entries.parquet`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		return iocache.ExecuteExport(cmd.Context(), c, cfg.OutputFile, os.Stdout)
	},
}

// storeCmd groups schema management for SQL backends.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the store schema",
	Long: `Manage the schema of SQL-backed stores.

Subcommands:
  migrate - Move the entries table to a schema version`,
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the entries table schema",
	Long: `Apply or roll back schema migrations for the sqlite, mysql and postgresql backends.

Stores migrate to the latest version on their own when opened. Use this to roll
back or to pin a version.

Examples:
  localcache store migrate
  localcache store migrate --to 1
  localcache store migrate --to 0`,
	PreRunE: storeConfigSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		to, _ := cmd.Flags().GetInt("to")
		return iocache.Migrate(cfg.Backend, cfg.DBConnect, to, os.Stdout)
	},
}
