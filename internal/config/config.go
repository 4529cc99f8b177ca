// Package config defines the application configuration and loads it from a
// YAML file and FINCALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/fincalculate/pkg/constants"
	"github.com/iwvelando/fincalculate/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for fincalculate.
type Configuration struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
	Site    SiteConfig    `mapstructure:"site" yaml:"site,omitempty"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server,omitempty"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, xlsx, pdf
}

// SiteConfig controls static site generation.
type SiteConfig struct {
	BaseURL     string `mapstructure:"baseURL" yaml:"baseURL,omitempty"`
	Name        string `mapstructure:"name" yaml:"name,omitempty"`
	OutputDir   string `mapstructure:"outputDir" yaml:"outputDir,omitempty"`
	CatalogFile string `mapstructure:"catalogFile" yaml:"catalogFile,omitempty"` // empty uses the embedded catalog
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Address     string  `mapstructure:"address" yaml:"address,omitempty"`
	RateLimit   float64 `mapstructure:"rateLimit" yaml:"rateLimit,omitempty"` // requests per second per client, 0 disables
	Burst       int     `mapstructure:"burst" yaml:"burst,omitempty"`
	StaticDir   string  `mapstructure:"staticDir" yaml:"staticDir,omitempty"` // empty serves site.outputDir
	MaxBodySize string  `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"`
}

// CacheConfig selects the calculation result cache.
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" yaml:"backend,omitempty"` // memory, redis, none
	RedisAddr string        `mapstructure:"redisAddr" yaml:"redisAddr,omitempty"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("site.baseURL", constants.DefaultBaseURL)
	v.SetDefault("site.name", constants.DefaultSiteName)
	v.SetDefault("site.outputDir", constants.DefaultOutputDir)
	v.SetDefault("site.catalogFile", "")
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.rateLimit", constants.DefaultRateLimit)
	v.SetDefault("server.burst", constants.DefaultRateBurst)
	v.SetDefault("server.staticDir", "")
	v.SetDefault("server.maxBodySize", "64K")
	v.SetDefault("cache.backend", constants.CacheBackendMemory)
	v.SetDefault("cache.redisAddr", constants.DefaultRedisAddr)
	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
}

// LoadConfiguration loads the YAML configuration at configPath. A missing file
// is not an error; defaults apply. FINCALC_* environment variables override
// file values, e.g. FINCALC_SERVER_ADDRESS for server.address.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &configuration, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Site: SiteConfig{
			BaseURL:   constants.DefaultBaseURL,
			Name:      constants.DefaultSiteName,
			OutputDir: constants.DefaultOutputDir,
		},
		Server: ServerConfig{
			Address:     constants.DefaultServerAddress,
			RateLimit:   constants.DefaultRateLimit,
			Burst:       constants.DefaultRateBurst,
			MaxBodySize: "64K",
		},
		Cache: CacheConfig{
			Backend:   constants.CacheBackendMemory,
			RedisAddr: constants.DefaultRedisAddr,
			TTL:       time.Hour,
		},
	}
}

// StaticDir is the directory served by the HTTP server.
func (c *Configuration) StaticDir() string {
	if c.Server.StaticDir != "" {
		return c.Server.StaticDir
	}
	return c.Site.OutputDir
}

// MaxBodyBytes is the parsed server.maxBodySize, falling back to the default.
func (c *Configuration) MaxBodyBytes() int64 {
	size, err := ParseSize(c.Server.MaxBodySize)
	if err != nil || size <= 0 {
		return constants.DefaultMaxBodyBytes
	}
	return size
}

// Validate returns an error for values that cannot be used and a warning for
// each value that is usable but probably unintended.
func (c *Configuration) Validate() ([]string, error) {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return nil, fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateCacheBackend(c.Cache.Backend); err != nil {
		return nil, err
	}
	base, err := url.Parse(c.Site.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("site.baseURL must be an absolute URL, got %q", c.Site.BaseURL)
	}
	if _, err := ParseSize(c.Server.MaxBodySize); err != nil {
		return nil, fmt.Errorf("invalid server.maxBodySize: %w", err)
	}

	var warnings []string
	if base.Scheme != "https" {
		warnings = append(warnings, fmt.Sprintf("site.baseURL %s does not use https; canonical links will not", c.Site.BaseURL))
	}
	if base.Path != "" && base.Path != "/" {
		warnings = append(warnings, fmt.Sprintf("site.baseURL %s has a path; routes are appended to it", c.Site.BaseURL))
	}
	if c.Server.RateLimit <= 0 {
		warnings = append(warnings, "server.rateLimit is not positive; rate limiting is disabled")
	} else if c.Server.Burst < 1 {
		warnings = append(warnings, fmt.Sprintf("server.burst %d is below 1; every request will be rejected", c.Server.Burst))
	}
	if c.Cache.Backend != constants.CacheBackendNone && c.Cache.TTL <= 0 {
		warnings = append(warnings, "cache.ttl is not positive; cached results never expire")
	}
	if c.Cache.Backend == constants.CacheBackendRedis && c.Cache.RedisAddr == "" {
		warnings = append(warnings, fmt.Sprintf("cache.redisAddr is empty; using %s", constants.DefaultRedisAddr))
	}
	return warnings, nil
}
