package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/config"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Replay a signal strategy against a price series",
	Long: `Backtester simulates a single-instrument trading strategy over a
historical or synthetic price series and reports the resulting equity curve.

Signals are acted on one bar late: a signal computed on bar i's close
trades at bar i+1's price. Orders fill in full with no fees or slippage.

Commands:
  run     - run one backtest
  sweep   - run the same backtest over several lookback windows
  config  - generate or validate configuration files
  version - print the version`,
	SilenceUsage: true,
}

var (
	cfgPath  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
}

// loadConfig reads --config if given, otherwise starts from defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
