package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/huangsam/localcache/internal/iocache"
	"github.com/huangsam/localcache/internal/localcache"
	"github.com/huangsam/localcache/internal/log"
	"github.com/huangsam/localcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global store manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "localcache",
	Short: "Inspect and maintain a timestamped key/value cache.",
	Long: `Localcache keeps JSON values under string keys, each stamped with the time it was
written, and bounds the store by pruning the oldest entries.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	log.InitLogger()

	// Set environment variable prefix
	viper.SetEnvPrefix("LOCALCACHE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("max-entries", contract.DefaultMaxEntries)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
}

// loadConfig reads the config file and unmarshals all resolved values into input.
func loadConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the configured store.
func sharedSetup(ctx context.Context, _ *cobra.Command, _ []string) error {
	// 1. Merge defaults, file, env, and flags.
	if err := loadConfig(); err != nil {
		return err
	}

	// 2. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 3. Initialize the store with validated config
	if err := iocache.InitStores(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// storeConfigSetup validates only the backend settings and does not open the store.
// Schema migrations use it so the store does not migrate itself first.
func storeConfigSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	return contract.ValidateBackend(cfg, input)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".localcache") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// openCache wraps the managed store in a LocalCache.
func openCache() (*localcache.LocalCache, error) {
	if storeManager == nil {
		return nil, errors.New("store manager is not configured")
	}
	store := storeManager.GetStore()
	if store == nil {
		return nil, errors.New("store is not initialized")
	}
	return localcache.New(store), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
