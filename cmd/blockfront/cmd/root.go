// Package cmd implements the CLI commands for blockfront.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/observability"
	"github.com/jmylchreest/blockfront/internal/version"
)

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

var (
	// cfgFile holds the config file path from CLI flag.
	cfgFile string
	// cfg is loaded before any command that needs it runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "blockfront",
	Short:   "Page builder storefront server",
	Version: version.Short(),
	Long: `blockfront renders storefront pages composed in a visual page builder,
with product and collection data from a commerce storefront API.

It serves one or more sites from a single process, each with its own
domains, locales and base theme, and exposes an editor API describing
the registered components and design tokens.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Annotations[skipConfig] == "true" {
			return nil
		}
		return initConfig()
	}

	// These flags are not bound to viper. They override the config and
	// environment values only when explicitly set.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// initConfig loads the configuration and configures the default logger.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format) when explicitly provided
//  2. Environment variables (BLOCKFRONT_LOGGING_LEVEL, BLOCKFRONT_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, json)
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		loaded.Logging.Level = strings.ToLower(level)
	}
	if flags.Changed("log-format") {
		format, _ := flags.GetString("log-format")
		loaded.Logging.Format = strings.ToLower(format)
	}
	if loaded.Logging.Level == "warning" {
		loaded.Logging.Level = "warn"
	}

	cfg = loaded
	observability.SetDefault(observability.NewLoggerWithWriter(cfg.Logging, os.Stderr))
	return nil
}
