package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	ilog "github.com/rustyeddy/backtester/internal/log"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one backtest per lookback window",
	Long: `Sweep runs the configured strategy once for every window in --windows
over the same price series. Each run gets its own ledger; runs execute in
parallel and are reported in the order the windows were given.

Example:
  backtester sweep --windows 10,20,40,80 --parallel 4`,
	RunE: runSweep,
}

var (
	sweepWindows  []int
	sweepParallel int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntSliceVar(&sweepWindows, "windows", []int{10, 20, 40}, "lookback windows to try")
	sweepCmd.Flags().IntVarP(&sweepParallel, "parallel", "p", runtime.NumCPU(), "maximum concurrent runs")
}

type sweepRow struct {
	Window int
	backtest.Summary
	Err error
}

// sweep runs every window against series. A failing window is reported in
// its row and does not cancel the others.
func sweep(cfg *config.Config, series market.Series, windows []int, parallel int, log *zap.Logger) []sweepRow {
	rows := make([]sweepRow, len(windows))

	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			res, err := runOnce(cfg, series, w, log.With(zap.Int("window", w)))
			rows[i] = sweepRow{Window: w, Summary: backtest.Summarize(res, cfg.Account.Cash), Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if len(sweepWindows) == 0 {
		return fmt.Errorf("sweep: --windows is empty")
	}

	logger, err := ilog.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.With(zap.String("run_id", id.New()), zap.String("strategy", cfg.Strategy.Name))

	series, err := loadSeries(cfg)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	rows := sweep(cfg, series, sweepWindows, sweepParallel, log)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s %8s %8s %14s %9s %9s %8s\n", "window", "orders", "rejected", "equity", "return%", "maxdd%", "sharpe")
	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(out, "%-8d error: %v\n", r.Window, r.Err)
			continue
		}
		fmt.Fprintf(out, "%-8d %8d %8d %14.2f %9.2f %9.2f %8.2f\n",
			r.Window, r.Orders, r.Rejected, r.FinalEquity, r.TotalReturn*100, r.MaxDrawdown*100, r.SharpeRatio)
	}
	return nil
}
