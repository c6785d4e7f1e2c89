package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/broker"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategy"
)

// loadSeries fetches the configured price series through a PriceLoader so
// file input is deduplicated, sorted and checked the same way as
// generated input.
func loadSeries(cfg *config.Config) (market.Series, error) {
	var (
		raw market.Series
		err error
	)
	switch cfg.Data.Source {
	case "csv":
		raw, err = market.LoadCSV(cfg.Data.CSVPath)
	case "synthetic":
		var opts market.SyntheticOptions
		opts, err = cfg.Data.Synthetic.Options()
		if err == nil {
			raw, err = market.Synthetic(opts)
		}
	default:
		err = fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
	if err != nil {
		return nil, err
	}

	symbol := cfg.Data.Symbol
	if symbol == "" {
		symbol = "DEFAULT"
	}
	pl := market.NewPriceLoader()
	if err := pl.Register(symbol, raw); err != nil {
		return nil, err
	}
	return pl.Get(symbol)
}

// runOnce performs a single backtest with a fresh ledger.
func runOnce(cfg *config.Config, series market.Series, window int, log *zap.Logger) (backtest.Result, error) {
	ledger, err := broker.NewLedger(cfg.Account.Cash, cfg.Account.AllowShort)
	if err != nil {
		return backtest.Result{}, err
	}
	strat, err := strategy.ByName(cfg.Strategy.Name, window)
	if err != nil {
		return backtest.Result{}, err
	}
	policy, err := backtest.ParseRejectPolicy(cfg.Engine.OnReject)
	if err != nil {
		return backtest.Result{}, err
	}

	return backtest.Run(series, strat, ledger, cfg.Engine.UnitSize,
		backtest.WithLogger(log),
		backtest.WithRejectPolicy(policy),
	)
}
