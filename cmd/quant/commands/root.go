package commands

import (
	"github.com/spf13/cobra"

	"github.com/wonny/astroquant/pkg/config"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "astroquant - 점성술 기반 종목 리서치 백엔드",
	Long: `astroquant Unified CLI

Synthetic horoscopes per symbol → feature extraction → weighted scoring →
ranking, with synthetic price statistics and a backtest comparison.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant api
  go run ./cmd/quant horoscope TCS --seed 42
  go run ./cmd/quant rank TCS INFY RELIANCE --top 2
  go run ./cmd/quant research run TCS INFY
  go run ./cmd/quant scoring-config validate config/scoring.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scoring rules YAML (default: SCORING_CONFIG or built-in)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")
}

// loadConfig reads env config and applies global flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("env") {
		cfg.Env = env
	}
	if configFile != "" {
		cfg.ScoringConfigPath = configFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
