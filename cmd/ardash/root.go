package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/ardash/internal/config"
	"github.com/gyeh/ardash/internal/exitcode"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "ardash",
	Short: "Healthcare accounts-receivable prioritization dashboard",
	Long:  "Builds AR prioritization reports from the payments API (or a built-in sample source when no key is configured), serves them over HTTP, and exports the filtered table.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.APIKey, "api-key", os.Getenv("ARDASH_API_KEY"), "Payments API key (or set ARDASH_API_KEY); sample data is used when unset")
	pf.StringVar(&cfg.APIBase, "api-base", config.DefaultAPIBase, "Payments API base URL")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string for the snapshot archive (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.Float64Var(&cfg.MinScore, "min-score", config.DefaultMinScore, "Priority score threshold in [0,1]")
	pf.StringVar(&cfgFile, "config", "", "Path to YAML config with min_score and payer_risk overrides")
}

// resolveConfig merges the optional YAML file into cfg and validates the
// result. An explicit --min-score flag beats the file value.
func resolveConfig(cmd *cobra.Command, log zerolog.Logger) {
	if cfgFile != "" {
		flagMin := cfg.MinScore
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
		if cmd.Flags().Changed("min-score") {
			cfg.MinScore = flagMin
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
}

func sourceKind() string {
	if cfg.RemoteEnabled() {
		return "remote"
	}
	return "mock"
}
