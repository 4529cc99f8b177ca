// Package cmd implements the fincalculate command line.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/iwvelando/fincalculate/internal/catalog"
	"github.com/iwvelando/fincalculate/internal/config"
	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	cfgFile      string
	envFile      string
	logLevel     string
	outputFormat string
)

// app holds what every subcommand needs once the root pre-run has finished.
var app struct {
	conf    *config.Configuration
	logger  *zap.Logger
	catalog *catalog.Catalog
}

var rootCmd = &cobra.Command{
	Use:   "fincalculate",
	Short: "Personal finance calculators",
	Long: `fincalculate evaluates 25 personal finance calculators and publishes them
as a static site or a JSON API.

Commands:
  calc      evaluate one calculator
  export    evaluate worked examples into a report
  batch     evaluate a spreadsheet of inputs
  routes    list every page of the site
  generate  render the static site
  serve     run the HTTP API`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", "", "output format override: pretty, csv, xlsx, pdf")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	conf, err := config.LoadConfiguration(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", cfgFile, err)
	}
	warnings, err := conf.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cmd.setup"),
		)
	}

	cat, err := loadCatalog(conf.Site.CatalogFile)
	if err != nil {
		return err
	}

	app.conf = conf
	app.logger = logger
	app.catalog = cat
	return nil
}

// loadEnvFile exports the variables of a dotenv file. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}

// siteName is the configured site name, falling back to the catalog's.
func siteName() string {
	if app.conf != nil && app.conf.Site.Name != "" {
		return app.conf.Site.Name
	}
	return app.catalog.SiteName
}

// resolveOutputFormat applies the CLI override over the configured format.
func resolveOutputFormat(override string) string {
	if override != "" {
		return override
	}
	if outputFormat != "" {
		return outputFormat
	}
	if app.conf != nil && app.conf.Output.Format != "" {
		return app.conf.Output.Format
	}
	return constants.OutputFormatPretty
}
