package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategy"
)

// Config represents a complete backtest run configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// AccountConfig seeds the ledger
type AccountConfig struct {
	Cash       float64 `json:"cash" yaml:"cash"`
	AllowShort bool    `json:"allow_short" yaml:"allow_short"`
}

// EngineConfig controls order sizing and rejection handling
type EngineConfig struct {
	UnitSize int64  `json:"unit_size" yaml:"unit_size"`
	OnReject string `json:"on_reject" yaml:"on_reject"` // "skip" or "abort"
}

// StrategyConfig selects a strategy by name
type StrategyConfig struct {
	Name   string `json:"name" yaml:"name"`
	Window int    `json:"window,omitempty" yaml:"window,omitempty"`
}

// DataConfig describes where prices come from
type DataConfig struct {
	Source    string          `json:"source" yaml:"source"` // "synthetic" or "csv"
	Symbol    string          `json:"symbol" yaml:"symbol"`
	CSVPath   string          `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	Synthetic SyntheticConfig `json:"synthetic" yaml:"synthetic"`
}

// SyntheticConfig parameterizes the GBM price generator
type SyntheticConfig struct {
	Bars  int     `json:"bars" yaml:"bars"`
	Start float64 `json:"start" yaml:"start"`
	Mu    float64 `json:"mu" yaml:"mu"`
	Sigma float64 `json:"sigma" yaml:"sigma"`
	Seed  int64   `json:"seed" yaml:"seed"`
	From  string  `json:"from" yaml:"from"` // YYYY-MM-DD
	Step  string  `json:"step" yaml:"step"` // e.g. "24h", "1h"
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Encoding    string `json:"encoding" yaml:"encoding"` // "console" or "json"
	Development bool   `json:"development" yaml:"development"`
}

// Options converts the synthetic block into generator options
func (s SyntheticConfig) Options() (market.SyntheticOptions, error) {
	opts := market.SyntheticOptions{
		N:     s.Bars,
		Start: s.Start,
		Mu:    s.Mu,
		Sigma: s.Sigma,
		Seed:  s.Seed,
		From:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Step:  24 * time.Hour,
	}
	if s.From != "" {
		t, err := time.Parse(time.DateOnly, s.From)
		if err != nil {
			return opts, fmt.Errorf("synthetic.from: %w", err)
		}
		opts.From = t
	}
	if s.Step != "" {
		d, err := time.ParseDuration(s.Step)
		if err != nil {
			return opts, fmt.Errorf("synthetic.step: %w", err)
		}
		opts.Step = d
	}
	return opts, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate reports every problem with the configuration at once
func (c *Config) Validate() error {
	var err error

	if c.Account.Cash < 0 {
		err = multierr.Append(err, errors.New("account.cash must not be negative"))
	}
	if c.Engine.UnitSize <= 0 {
		err = multierr.Append(err, errors.New("engine.unit_size must be positive"))
	}
	if _, perr := backtest.ParseRejectPolicy(c.Engine.OnReject); perr != nil {
		err = multierr.Append(err, errors.New("engine.on_reject must be 'skip' or 'abort'"))
	}
	if _, serr := strategy.ByName(c.Strategy.Name, c.Strategy.Window); serr != nil {
		err = multierr.Append(err, fmt.Errorf("strategy: %w", serr))
	}

	switch c.Data.Source {
	case "synthetic":
		s := c.Data.Synthetic
		if s.Bars < 0 {
			err = multierr.Append(err, errors.New("data.synthetic.bars must not be negative"))
		}
		if s.Start <= 0 {
			err = multierr.Append(err, errors.New("data.synthetic.start must be positive"))
		}
		if s.Sigma < 0 {
			err = multierr.Append(err, errors.New("data.synthetic.sigma must not be negative"))
		}
		if _, oerr := s.Options(); oerr != nil {
			err = multierr.Append(err, fmt.Errorf("data.%w", oerr))
		}
	case "csv":
		if c.Data.CSVPath == "" {
			err = multierr.Append(err, errors.New("data.csv_path required for csv source"))
		}
	default:
		err = multierr.Append(err, errors.New("data.source must be 'synthetic' or 'csv'"))
	}

	switch c.Logging.Encoding {
	case "", "console", "json":
	default:
		err = multierr.Append(err, errors.New("logging.encoding must be 'console' or 'json'"))
	}

	return err
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Cash: 1_000_000,
		},
		Engine: EngineConfig{
			UnitSize: 100,
			OnReject: "skip",
		},
		Strategy: StrategyConfig{
			Name:   "vol-breakout",
			Window: strategy.DefaultWindow,
		},
		Data: DataConfig{
			Source: "synthetic",
			Symbol: "SYNTH",
			Synthetic: SyntheticConfig{
				Bars:  252,
				Start: 100,
				Sigma: 0.01,
				Seed:  1,
				From:  "2000-01-01",
				Step:  "24h",
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
