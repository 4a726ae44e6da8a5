package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/observability"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing blockfront configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration in YAML format, with secrets masked.

Without a config file this shows the defaults. You can redirect the
output to a file to create a configuration template:

  blockfront config dump > config.yaml

Configuration can be set via:
  - Config file (config.yaml, ./configs/config.yaml, /etc/blockfront/config.yaml)
  - Environment variables (BLOCKFRONT_SERVER_PORT, BLOCKFRONT_DATABASE_DSN, etc.)
  - Command-line flags (for some options)

Environment variables use the BLOCKFRONT_ prefix and underscores for nesting.
Example: server.port -> BLOCKFRONT_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(cmd *cobra.Command, _ []string) error {
	masked, ok := observability.Redact(*cfg).(config.Config)
	if !ok {
		return fmt.Errorf("masking configuration secrets")
	}

	data, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# blockfront configuration")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out, "# Durations use Go syntax: 30s, 15m, 168h")
	fmt.Fprintln(out, "# Cron schedules have a leading seconds field: \"0 */15 * * * *\"")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out, "# Environment variable overrides:")
	fmt.Fprintln(out, "#   BLOCKFRONT_SERVER_HOST, BLOCKFRONT_SERVER_PORT")
	fmt.Fprintln(out, "#   BLOCKFRONT_DATABASE_DRIVER, BLOCKFRONT_DATABASE_DSN")
	fmt.Fprintln(out, "#   BLOCKFRONT_REVALIDATE_SECRET")
	fmt.Fprintln(out, "#   BLOCKFRONT_LOGGING_LEVEL, BLOCKFRONT_LOGGING_FORMAT")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(data))
	return nil
}
