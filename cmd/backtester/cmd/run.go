package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	ilog "github.com/rustyeddy/backtester/internal/log"
	"github.com/rustyeddy/backtester/pkg/id"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backtest",
	Long: `Run a strategy over a price series and print the equity summary.

Settings come from --config (or the built-in defaults) and any flag given
on the command line overrides the matching config value.

Examples:
  backtester run
  backtester run --strategy vol-breakout --window 30 --unit-size 50
  backtester run --csv data/spy.csv --symbol SPY --abort-on-reject`,
	RunE: runRun,
}

var (
	runStrategy      string
	runWindow        int
	runUnitSize      int64
	runCash          float64
	runAllowShort    bool
	runCSV           string
	runSymbol        string
	runBars          int
	runSeed          int64
	runAbortOnReject bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "", "strategy name (flat, vol-breakout)")
	runCmd.Flags().IntVarP(&runWindow, "window", "w", 0, "strategy lookback window")
	runCmd.Flags().Int64VarP(&runUnitSize, "unit-size", "u", 0, "shares per unit of signal")
	runCmd.Flags().Float64VarP(&runCash, "cash", "b", 0, "starting cash")
	runCmd.Flags().BoolVar(&runAllowShort, "allow-short", false, "allow the position to go negative")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "read prices from a time,price CSV instead of generating them")
	runCmd.Flags().StringVar(&runSymbol, "symbol", "", "symbol label for the series")
	runCmd.Flags().IntVar(&runBars, "bars", 0, "synthetic: number of bars")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "synthetic: random seed")
	runCmd.Flags().BoolVar(&runAbortOnReject, "abort-on-reject", false, "stop the run at the first rejected order")
}

// applyRunFlags copies explicitly set flags over the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("strategy") {
		cfg.Strategy.Name = runStrategy
	}
	if f.Changed("window") {
		cfg.Strategy.Window = runWindow
	}
	if f.Changed("unit-size") {
		cfg.Engine.UnitSize = runUnitSize
	}
	if f.Changed("cash") {
		cfg.Account.Cash = runCash
	}
	if f.Changed("allow-short") {
		cfg.Account.AllowShort = runAllowShort
	}
	if f.Changed("csv") {
		cfg.Data.Source = "csv"
		cfg.Data.CSVPath = runCSV
	}
	if f.Changed("symbol") {
		cfg.Data.Symbol = runSymbol
	}
	if f.Changed("bars") {
		cfg.Data.Synthetic.Bars = runBars
	}
	if f.Changed("seed") {
		cfg.Data.Synthetic.Seed = runSeed
	}
	if f.Changed("abort-on-reject") {
		policy := backtest.SkipRejected
		if runAbortOnReject {
			policy = backtest.AbortOnReject
		}
		cfg.Engine.OnReject = policy.String()
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger, err := ilog.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runID := id.New()
	log := logger.With(zap.String("run_id", runID), zap.String("strategy", cfg.Strategy.Name))

	series, err := loadSeries(cfg)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	log.Info("prices loaded", zap.String("source", cfg.Data.Source), zap.Int("bars", len(series)))

	res, runErr := runOnce(cfg, series, cfg.Strategy.Window, log)
	if runErr != nil && res.Len() == 0 {
		return fmt.Errorf("backtest: %w", runErr)
	}

	policy, _ := backtest.ParseRejectPolicy(cfg.Engine.OnReject)
	s := backtest.Summarize(res, cfg.Account.Cash)
	s.RunID = runID
	s.Strategy = cfg.Strategy.Name
	s.Symbol = cfg.Data.Symbol
	s.UnitSize = cfg.Engine.UnitSize
	s.Policy = policy
	backtest.PrintSummary(cmd.OutOrStdout(), s)

	if runErr != nil {
		return fmt.Errorf("backtest stopped early: %w", runErr)
	}
	return nil
}
