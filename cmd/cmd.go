// Package cmd defines the command-line interface for localcache.
package cmd

import (
	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or memory or s3 or gcs or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (sqlite file path, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("bucket", "", "Bucket name for the s3 and gcs backends")
	rootCmd.PersistentFlags().String("prefix", "", "Object key prefix for the s3 and gcs backends (default \"localcache/\")")
	rootCmd.PersistentFlags().String("region", "", "AWS region for the s3 backend")
	rootCmd.PersistentFlags().String("endpoint", "", "Custom endpoint for the s3 and gcs backends (e.g. a local emulator)")
	rootCmd.PersistentFlags().Int("quota-bytes", 0, "Byte quota for the memory backend (0 = unlimited)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", contract.DefaultWidth, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored states in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Preserve flags; only prune binds its copy to Viper so config files apply
	for _, c := range []*cobra.Command{pruneCmd, clearCmd} {
		c.Flags().StringSlice("preserve", nil, "Keys never removed: exact keys, prefixes ending in '/', or globs")
	}
	pruneCmd.Flags().Int("max-entries", contract.DefaultMaxEntries, "Number of valid entries to keep")
	if err := viper.BindPFlags(pruneCmd.Flags()); err != nil {
		contract.LogFatal("Error binding prune flags", err)
	}
	clearCmd.Flags().Bool("all", false, "Drop the whole store (database file, tables or objects) instead of removing keys")

	// Local flags read directly by their commands
	listCmd.Flags().IntP("limit", "l", 0, "Number of entries to display (0 = all)")
	storeMigrateCmd.Flags().Int("to", -1, "Target schema version (-1 = latest, 0 = roll back everything)")
}
