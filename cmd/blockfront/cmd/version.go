package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/blockfront/internal/version"
)

var (
	versionJSON bool
	versionHost bool
)

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Long:        "Print the version, commit, and build date of blockfront.",
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := struct {
			version.Info
			Host *version.HostInfo `json:"host,omitempty"`
		}{Info: version.GetInfo()}

		if versionHost {
			h, err := version.Host(cmd.Context())
			if err != nil {
				return err
			}
			out.Host = &h
		}

		if versionJSON {
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		if out.Host != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "host: %s (%s %s, kernel %s)\n",
				out.Host.Hostname, out.Host.Platform, out.Host.PlatformVersion, out.Host.KernelVersion)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output version information as JSON")
	versionCmd.Flags().BoolVar(&versionHost, "host", false, "include details of the host")
	rootCmd.AddCommand(versionCmd)
}
