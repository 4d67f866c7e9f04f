// Package main provides the validator_agent CLI and HTTP API server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/config"
	"github.com/jonathan/experience-validator/internal/logging"
)

var (
	logJSON    bool
	debugLog   bool
	configPath string

	// Set by the root pre-run hook before any subcommand executes
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "validator_agent",
	Short: "Professional experience validator",
	Long: "validator_agent extracts employment records from OCR text of labour cards and decides " +
		"whether they satisfy a course's experience requirements, from the command line or over REST.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&logJSON, "json", false, "Emit JSON logs")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file")
}

// setup loads configuration (file, then environment) and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	l, err := logging.New(logJSON || cfg.LogJSON, debugLog || cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
