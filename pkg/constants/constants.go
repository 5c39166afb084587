// Package constants provides shared constants for the pricing-audit application.
package constants

// DateLayout is the calendar-date format used by the priced-data UI and is
// also the format expected in config files.
const DateLayout = "01/02/2006"

// Pricing constants
const (
	// PriceTolerance is the absolute tolerance for list-price comparisons
	PriceTolerance = 0.01

	// FactorTolerance is the absolute tolerance for markup-factor comparisons
	FactorTolerance = 0.001

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultSeedBasePrice is substituted for a null or zero current base
	// price before the USD calculation runs. Carried over from the upstream
	// recompute job; confirm with the pricing team before changing.
	DefaultSeedBasePrice = 100.0

	// NoPricingAction is the placeholder code used when a record carries no
	// resolved pricing action
	NoPricingAction = "None"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultEnvFile is the dotenv overlay read before the config file
	DefaultEnvFile = ".env"
)

// Trigger and callback defaults
const (
	// DefaultCallbackAddress is the default listen address for the workflow
	// callback server
	DefaultCallbackAddress = ":5087"

	// DefaultTriggerRetries is how many times a remote trigger is attempted
	// before giving up
	DefaultTriggerRetries = 5
)
