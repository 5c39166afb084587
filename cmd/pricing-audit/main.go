package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spriced-qa/pricing-audit/internal/audit"
	"github.com/spriced-qa/pricing-audit/internal/config"
	"github.com/spriced-qa/pricing-audit/internal/server"
	"github.com/spriced-qa/pricing-audit/internal/trigger"
	"github.com/spriced-qa/pricing-audit/internal/tunnel"
	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"github.com/spriced-qa/pricing-audit/pkg/datetime"
	"github.com/spriced-qa/pricing-audit/pkg/refdata"
	"github.com/spriced-qa/pricing-audit/pkg/report"
	"github.com/spriced-qa/pricing-audit/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// callbackWait bounds how long we wait for the remote recompute workflow to
// post its completion callback.
const callbackWait = 10 * time.Minute

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// loadReference resolves the reference-data snapshot: from the pricing
// database (through the SSH tunnel when configured) or from the inline
// reference block in the config file. Database runs also return the
// list-pricing/markup pairs for the factor consistency check.
func loadReference(ctx context.Context, conf *config.Configuration, logger *zap.Logger) (*refdata.Snapshot, []refdata.MarkupPair, error) {
	db := conf.Environment.Database
	if db.Host == "" {
		return conf.Audit.Reference.Snapshot(), nil, nil
	}

	if conf.Environment.SSH.Host != "" {
		tun, err := tunnel.Open(tunnel.Config{
			Host:       conf.Environment.SSH.Host,
			User:       conf.Environment.SSH.User,
			Password:   conf.Environment.SSH.Password,
			KeyFile:    conf.Environment.SSH.KeyFile,
			RemoteAddr: fmt.Sprintf("%s:%d", db.Host, db.Port),
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open database tunnel: %w", err)
		}
		defer func() {
			_ = tun.Close()
		}()

		host, portStr, err := net.SplitHostPort(tun.Addr())
		if err != nil {
			return nil, nil, fmt.Errorf("parse tunnel address %s: %w", tun.Addr(), err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, nil, fmt.Errorf("parse tunnel port %s: %w", portStr, err)
		}
		db.Host = host
		db.Port = port
	}

	provider, err := refdata.NewPostgresProvider(db.DSN(), logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = provider.Close()
	}()

	snapshot, err := provider.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	pairs, err := provider.MarkupPairs(ctx, 10)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, pairs, nil
}

// runRecompute fires the remote recompute workflow and waits for its
// completion callback so the audited records are fresh.
func runRecompute(ctx context.Context, conf *config.Configuration, logger *zap.Logger) error {
	env := conf.Environment
	if env.SchedulerURL == "" || env.Workflow == "" {
		return nil
	}

	listener := server.NewListener(env.CallbackAddress, logger)
	if err := listener.Start(); err != nil {
		return fmt.Errorf("start callback listener: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = listener.Shutdown(shutdownCtx)
	}()

	callbackURL := env.CallbackURL
	if callbackURL == "" {
		callbackURL = fmt.Sprintf("http://%s", listener.Addr())
	}

	t := trigger.New(env.SchedulerURL, logger)
	if err := t.RunWorkflow(ctx, env.Workflow, callbackURL); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, callbackWait)
	defer cancel()
	workflow, err := listener.Wait(waitCtx)
	if err != nil {
		return err
	}
	logger.Info("recompute workflow completed",
		zap.String("op", "main"),
		zap.String("workflow", workflow),
	)
	return nil
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	skipRecompute := flag.Bool("skip-recompute", false, "skip triggering the remote recompute workflow")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Resolve the reference date anchoring the date-gated rules.
	referenceDate := datetime.Day(time.Now())
	if conf.Audit.ReferenceDate != "" {
		referenceDate, err = datetime.ParseDate(conf.Audit.ReferenceDate)
		if err != nil {
			logger.Fatal("failed to parse audit reference date",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	ctx := context.Background()

	// Refresh the records before auditing them, unless told otherwise.
	if !*skipRecompute {
		if err := runRecompute(ctx, conf, logger); err != nil {
			logger.Fatal("failed to run recompute workflow",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	reference, markupPairs, err := loadReference(ctx, conf, logger)
	if err != nil {
		logger.Fatal("failed to load reference data",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Evaluate every configured region against the rule engine.
	auditor := audit.New(reference, referenceDate, logger)
	results, err := auditor.Run(ctx, conf.Audit.Regions)
	if err != nil {
		logger.Fatal("failed to run audit",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	results.Merge(audit.MarkupConsistency(markupPairs))

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		report.PrettyFormat(results)
	case constants.OutputFormatCSV:
		report.CsvFormat(results)
	}

	if !results.Passed() {
		logger.Error("audit finished with failures",
			zap.String("op", "main"),
			zap.Int("failures", results.Failures()),
		)
		os.Exit(1)
	}
}
