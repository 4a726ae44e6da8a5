package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Component registry commands",
}

var registryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the editor manifest as JSON",
	Long: `Print the component manifest the editor loads: every registered
component with its inputs, the insert menus and the design tokens.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry(cfg.Design)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(reg.Manifest(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling manifest: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registryCmd)
	registryCmd.AddCommand(registryExportCmd)
}
