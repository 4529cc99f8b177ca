// Package constants provides shared constants for the fincalculate application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyDecimalPlaces is the number of decimals currency is rounded to
	CurrencyDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Simulation limits
const (
	// MaxSimulationMonths bounds the month-by-month simulations (50 years).
	MaxSimulationMonths = 600

	// RequiredMonthlyHorizonMonths is the fixed horizon used for the savings
	// goal "required monthly" figure (5 years).
	RequiredMonthlyHorizonMonths = 60
)

// Tax and retirement assumptions
const (
	// SocialSecurityWageBase is the 2024 cap on wages subject to the 12.4%
	// Social Security portion of self-employment tax.
	SocialSecurityWageBase = 168600.0

	// AdditionalMedicareThreshold is the income above which the 0.9%
	// additional Medicare tax applies.
	AdditionalMedicareThreshold = 200000.0

	// IRAContributionLimit is the 2024 annual IRA contribution limit.
	IRAContributionLimit = 7000.0

	// FullRetirementAge is the Social Security full retirement age.
	FullRetirementAge = 67

	// LifeExpectancy is the age used for lifetime benefit estimates.
	LifeExpectancy = 85

	// MaxCreditedWorkYears caps the years of earnings credited to a benefit.
	MaxCreditedWorkYears = 35

	// SafeWithdrawalRate is the 4% rule used for retirement income.
	SafeWithdrawalRate = 0.04
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"

	// OutputFormatPDF is the PDF report output format
	OutputFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FINCALC"
)

// Site defaults
const (
	// DefaultBaseURL is the absolute origin used for canonical and JSON-LD URLs
	DefaultBaseURL = "https://fincalculate.com"

	// DefaultSiteName is the site name used in OpenGraph tags
	DefaultSiteName = "FinCalculate"

	// DefaultOutputDir is where generated pages are written
	DefaultOutputDir = "dist"

	// RootPath is the path of the index route
	RootPath = "/us/"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultRateLimit is the default sustained requests per second per client
	DefaultRateLimit = 5.0

	// DefaultRateBurst is the default burst size per client
	DefaultRateBurst = 10

	// DefaultMaxBodyBytes bounds calculate request bodies (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024
)

// Cache defaults
const (
	// CacheBackendMemory keeps results in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps results in Redis
	CacheBackendRedis = "redis"

	// CacheBackendNone disables result caching
	CacheBackendNone = "none"

	// DefaultRedisAddr is the default Redis address
	DefaultRedisAddr = "localhost:6379"

	// DefaultCacheTTL is the default lifetime of cached results
	DefaultCacheTTL = "1h"
)
