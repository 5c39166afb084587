// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/datetime"
	"github.com/spriced-qa/pricing-audit/pkg/refdata"
)

// Configuration holds all configuration for pricing-audit.
type Configuration struct {
	Audit       AuditConfig       `yaml:"audit"`
	Environment EnvironmentConfig `yaml:"environment,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// AuditConfig describes one audit run: the reference date the date-gated
// rules evaluate against, the captured records per region, and optional
// inline reference data used when no database is configured.
type AuditConfig struct {
	ReferenceDate string          `yaml:"referenceDate"`
	Regions       []RegionPlan    `yaml:"regions"`
	Reference     ReferenceConfig `yaml:"reference,omitempty"`
}

// RegionPlan carries the raw captured field values for one part/region. The
// acquisition tooling writes them as the UI rendered them; parsing into
// typed nullable values happens at load time.
type RegionPlan struct {
	Region      string `yaml:"region"`
	ProductCode string `yaml:"productCode"`

	CurrentLocal       string `yaml:"currentLocal,omitempty"`
	FutureLocal        string `yaml:"futureLocal,omitempty"`
	FutureLocalEffDate string `yaml:"futureLocalEffDate,omitempty"`
	CalculatedLocal    string `yaml:"calculatedLocal,omitempty"`

	CurrentUSD       string `yaml:"currentUsd,omitempty"`
	FutureUSD        string `yaml:"futureUsd,omitempty"`
	FutureUSDEffDate string `yaml:"futureUsdEffDate,omitempty"`
	CalculatedUSD    string `yaml:"calculatedUsd,omitempty"`

	CurrentBasePrice string `yaml:"currentBasePrice,omitempty"`
	FutureBasePrice  string `yaml:"futureBasePrice,omitempty"`
	PublishBasePrice string `yaml:"publishBasePrice,omitempty"`

	PublishBasePriceEffDate string `yaml:"publishBasePriceEffDate,omitempty"`
	CurrentBasePriceEffDate string `yaml:"currentBasePriceEffDate,omitempty"`

	LPOverrideFlag string `yaml:"lpOverrideFlag,omitempty"`

	// Markup factors captured from the list-pricing record and its owning
	// markup record; the audit checks they agree.
	LPMarkupFactor string `yaml:"lpMarkupFactor,omitempty"`
	CMMarkupFactor string `yaml:"cmMarkupFactor,omitempty"`

	ChinaAction string `yaml:"chinaAction,omitempty"`
	DNAction    string `yaml:"dnAction,omitempty"`
	PVCAction   string `yaml:"pvcAction,omitempty"`

	Approver1 string `yaml:"approver1,omitempty"`
	Approver2 string `yaml:"approver2,omitempty"`
	Approver3 string `yaml:"approver3,omitempty"`
	Approver4 string `yaml:"approver4,omitempty"`

	Stocking *StockingPlan `yaml:"stocking,omitempty"`
	PVC      *PVCPlan      `yaml:"pvc,omitempty"`
}

// StockingPlan carries the captured stocking-segment inputs for a part.
type StockingPlan struct {
	CertificationLevel string `yaml:"certificationLevel,omitempty"`
	AnnualVolume       string `yaml:"annualVolume,omitempty"`
	SuggestedSegment   string `yaml:"suggestedSegment,omitempty"`
}

// PVCPlan carries the staged PVC action and the downstream state captured
// before and after the propagation run.
type PVCPlan struct {
	PublishCode   string `yaml:"publishCode,omitempty"`
	PublishDate   string `yaml:"publishDate,omitempty"`
	FutureCode    string `yaml:"futureCode,omitempty"`
	FutureDate    string `yaml:"futureDate,omitempty"`
	EffectiveCode string `yaml:"effectiveCode,omitempty"`
	EffectiveDate string `yaml:"effectiveDate,omitempty"`

	Before PVCStatePlan `yaml:"before"`
	After  PVCStatePlan `yaml:"after"`
}

// PVCStatePlan is one captured downstream PVC state.
type PVCStatePlan struct {
	CurrentPVC string `yaml:"currentPvc,omitempty"`
	PublishPVC string `yaml:"publishPvc,omitempty"`
	FuturePVC  string `yaml:"futurePvc,omitempty"`
	FutureDate string `yaml:"futureDate,omitempty"`
}

// ReferenceConfig is inline reference data for runs without database access.
type ReferenceConfig struct {
	Factors       map[string]FactorConfig `yaml:"factors,omitempty"`
	ExchangeRates map[string]float64      `yaml:"exchangeRates,omitempty"`
	Thresholds    ThresholdConfig         `yaml:"thresholds,omitempty"`
	AllowFlags    map[string]string       `yaml:"allowFlags,omitempty"`
}

// FactorConfig holds one region's markup factors.
type FactorConfig struct {
	USDFactor   float64 `yaml:"usdFactor"`
	LocalFactor float64 `yaml:"localFactor"`
}

// ThresholdConfig holds the per-level escalation thresholds, in percent.
type ThresholdConfig struct {
	Level1 float64 `yaml:"level1"`
	Level2 float64 `yaml:"level2"`
}

// EnvironmentConfig collects the external-system coordinates: scheduler,
// callback listener, database, and the SSH jump host in front of it.
// Credentials come from the environment (.env overlay) rather than the
// config file.
type EnvironmentConfig struct {
	SchedulerURL    string         `yaml:"schedulerUrl,omitempty"`
	Workflow        string         `yaml:"workflow,omitempty"`
	CallbackAddress string         `yaml:"callbackAddress,omitempty"`
	CallbackURL     string         `yaml:"callbackUrl,omitempty"`
	Database        DatabaseConfig `yaml:"database,omitempty"`
	SSH             SSHConfig      `yaml:"ssh,omitempty"`
}

// DatabaseConfig holds the pricing-database coordinates.
type DatabaseConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslMode,omitempty"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, sslMode)
}

// SSHConfig holds the jump-host coordinates for the database tunnel.
type SSHConfig struct {
	Host     string `yaml:"host,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	KeyFile  string `yaml:"keyFile,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the working directory is applied
// first so credentials referenced via environment variables resolve.
func LoadConfiguration(configPath string) (*Configuration, error) {
	// Missing .env is fine; it only exists on workstations.
	_ = godotenv.Load(constants.DefaultEnvFile)

	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Snapshot converts the inline reference data into a refdata snapshot.
func (r ReferenceConfig) Snapshot() *refdata.Snapshot {
	snap := &refdata.Snapshot{
		Factors:         make(map[string]refdata.RegionFactor, len(r.Factors)),
		ExchangeRates:   make(map[string]float64, len(r.ExchangeRates)),
		ThresholdLevel1: r.Thresholds.Level1,
		ThresholdLevel2: r.Thresholds.Level2,
		AllowFlags:      make(map[string]string, len(r.AllowFlags)),
	}
	for region, f := range r.Factors {
		snap.Factors[strings.ToUpper(strings.TrimSpace(region))] = refdata.RegionFactor{
			USDFactor:   f.USDFactor,
			LocalFactor: f.LocalFactor,
		}
	}
	for region, rate := range r.ExchangeRates {
		snap.ExchangeRates[strings.ToUpper(strings.TrimSpace(region))] = rate
	}
	for code, flag := range r.AllowFlags {
		snap.AllowFlags[code] = flag
	}
	return snap
}

// ValidateConfiguration checks the loaded configuration for problems an
// audit run would otherwise hit halfway through, returning warnings for the
// soft ones.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Audit.ReferenceDate != "" {
		if _, err := datetime.ParseDate(c.Audit.ReferenceDate); err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid audit.referenceDate %q, expected %s",
				c.Audit.ReferenceDate, constants.DateLayout))
		}
	}
	if len(c.Audit.Regions) == 0 {
		warnings = append(warnings, "no regions configured; nothing to audit")
	}
	for i, plan := range c.Audit.Regions {
		if strings.TrimSpace(plan.Region) == "" {
			warnings = append(warnings, fmt.Sprintf("audit.regions[%d] has no region name", i))
		}
		if strings.TrimSpace(plan.ProductCode) == "" {
			warnings = append(warnings, fmt.Sprintf("audit.regions[%d] has no product code", i))
		}
	}
	if c.Output.Format != "" &&
		c.Output.Format != constants.OutputFormatPretty &&
		c.Output.Format != constants.OutputFormatCSV {
		warnings = append(warnings, fmt.Sprintf("unknown output format %q", c.Output.Format))
	}

	return warnings
}
