package cmd

import (
	"fmt"
	"time"

	"github.com/iwvelando/fincalculate/internal/routes"
	"github.com/iwvelando/fincalculate/internal/site"
	"github.com/spf13/cobra"
)

var (
	generateOutputDir string
	generateBaseURL   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the static site",
	Long: `Renders one HTML page per route plus sitemap.xml and robots.txt into the
site output directory.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateOutputDir, "out", "", "output directory override")
	generateCmd.Flags().StringVar(&generateBaseURL, "base-url", "", "absolute site origin override")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := site.Options{
		BaseURL:   app.conf.Site.BaseURL,
		SiteName:  siteName(),
		OutputDir: app.conf.Site.OutputDir,
	}
	if generateOutputDir != "" {
		opts.OutputDir = generateOutputDir
	}
	if generateBaseURL != "" {
		opts.BaseURL = generateBaseURL
	}

	rs, err := routes.NewEnumerator(app.catalog, app.logger).WithSiteName(siteName()).Enumerate(time.Now())
	if err != nil {
		return fmt.Errorf("failed to enumerate routes: %w", err)
	}
	generator := site.NewGenerator(opts, app.logger)
	if err := generator.Generate(rs); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(rs), generator.Options().OutputDir)
	return err
}
