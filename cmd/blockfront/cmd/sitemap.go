package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var sitemapSite string

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print the sitemap of a site",
	Long: `Fetch every page, article, product and collection of a site and
print its sitemap.xml to stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, slog.Default())
		if err != nil {
			return err
		}
		defer a.close()

		st := a.sites.Default()
		if sitemapSite != "" {
			var ok bool
			if st, ok = a.sites.Get(sitemapSite); !ok {
				return fmt.Errorf("unknown site %q", sitemapSite)
			}
		}

		set, err := a.paths.Sitemap(cmd.Context(), st)
		if err != nil {
			return fmt.Errorf("building sitemap for %s: %w", st.ID, err)
		}
		return set.Write(cmd.OutOrStdout())
	},
}

func init() {
	sitemapCmd.Flags().StringVar(&sitemapSite, "site", "", "site ID (default is the first configured site)")
	rootCmd.AddCommand(sitemapCmd)
}
