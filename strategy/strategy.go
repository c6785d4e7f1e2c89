package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/backtester/market"
)

var (
	ErrSeriesTooShort  = errors.New("series too short for lookback")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidParams   = errors.New("invalid strategy parameters")
)

// Strategy turns a full price history into one signal per bar:
// +1 long, 0 flat, -1 short.
//
// The signal at index i must depend only on bars 0..i. The backtest engine
// lags signals by one bar before acting on them.
type Strategy interface {
	Signals(prices market.Series) ([]int, error)
}

// Func adapts a plain function to the Strategy interface.
type Func func(prices market.Series) ([]int, error)

func (f Func) Signals(prices market.Series) ([]int, error) { return f(prices) }

// Flat never trades.
type Flat struct{}

func (Flat) Signals(prices market.Series) ([]int, error) {
	return make([]int, len(prices)), nil
}

// Fixed replays a canned signal sequence regardless of prices.
type Fixed []int

func (f Fixed) Signals(prices market.Series) ([]int, error) {
	out := make([]int, len(f))
	copy(out, f)
	return out, nil
}

// Names lists the strategies ByName understands.
var Names = []string{"flat", "vol-breakout"}

// ByName builds a strategy from its CLI/config name.
func ByName(name string, window int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flat", "noop", "none":
		return Flat{}, nil

	case "vol-breakout", "volatility-breakout", "breakout":
		return NewVolatilityBreakout(window)

	default:
		return nil, fmt.Errorf("%q (supported: %s): %w", name, strings.Join(Names, ", "), ErrUnknownStrategy)
	}
}
