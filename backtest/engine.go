package backtest

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/broker"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategy"
)

var (
	ErrSignalLength  = errors.New("signal length does not match price series")
	ErrOrderRejected = errors.New("order rejected")
)

// RejectPolicy decides what a run does when the broker refuses an order.
type RejectPolicy int

const (
	// SkipRejected records the rejection, leaves the broker as it was and
	// moves on to the next bar.
	SkipRejected RejectPolicy = iota
	// AbortOnReject stops the run at the first rejection.
	AbortOnReject
)

func (p RejectPolicy) String() string {
	switch p {
	case SkipRejected:
		return "skip"
	case AbortOnReject:
		return "abort"
	default:
		return fmt.Sprintf("RejectPolicy(%d)", int(p))
	}
}

// ParseRejectPolicy maps "skip" / "abort" to a policy. Empty means skip.
func ParseRejectPolicy(s string) (RejectPolicy, error) {
	switch s {
	case "", "skip":
		return SkipRejected, nil
	case "abort":
		return AbortOnReject, nil
	default:
		return 0, fmt.Errorf("reject policy %q: %w", s, broker.ErrInvalidArgument)
	}
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithRejectPolicy(p RejectPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// Engine replays a price series through a strategy and a broker.
//
// Each bar acts on the previous bar's signal: the target position is
// signal[i-1]*unitSize and at most one market order closes the gap
// between target and the broker's current position, filled at bar i's
// price. Bar 0 always targets a flat position.
type Engine struct {
	strat    strategy.Strategy
	broker   broker.Broker
	unitSize int64
	policy   RejectPolicy
	log      *zap.Logger
}

func NewEngine(strat strategy.Strategy, b broker.Broker, unitSize int64, opts ...Option) (*Engine, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: strategy is required: %w", broker.ErrInvalidArgument)
	}
	if b == nil {
		return nil, fmt.Errorf("backtest: broker is required: %w", broker.ErrInvalidArgument)
	}
	if unitSize <= 0 {
		return nil, fmt.Errorf("backtest: unit size %d must be positive: %w", unitSize, broker.ErrInvalidArgument)
	}

	e := &Engine{
		strat:    strat,
		broker:   b,
		unitSize: unitSize,
		policy:   SkipRejected,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run is shorthand for NewEngine followed by Engine.Run.
func Run(prices market.Series, strat strategy.Strategy, b broker.Broker, unitSize int64, opts ...Option) (Result, error) {
	e, err := NewEngine(strat, b, unitSize, opts...)
	if err != nil {
		return Result{}, err
	}
	return e.Run(prices)
}

// Run executes one pass over prices in time order.
//
// An empty series returns an empty Result without consulting the strategy
// or the broker. Strategy errors are returned as-is (wrapped). Under
// SkipRejected a broker rejection never stops the run; under AbortOnReject
// the partial Result up to and including the failing bar is returned with
// an error wrapping both ErrOrderRejected and the broker's error.
func (e *Engine) Run(prices market.Series) (Result, error) {
	n := len(prices)
	if n == 0 {
		return Result{}, nil
	}
	if err := prices.CheckPrices(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w: %w", broker.ErrInvalidArgument, err)
	}

	raw, err := e.strat.Signals(prices.Clone())
	if err != nil {
		return Result{}, fmt.Errorf("backtest: signals: %w", err)
	}
	if len(raw) != n {
		return Result{}, fmt.Errorf("backtest: got %d signals for %d bars: %w", len(raw), n, ErrSignalLength)
	}

	res := newResult(n)
	res.RawSignal = append(res.RawSignal, raw...)

	log := e.log.With(zap.Int("bars", n), zap.Int64("unit_size", e.unitSize))
	log.Debug("backtest start",
		zap.Float64("cash", e.broker.Cash()),
		zap.Int64("position", e.broker.Position()),
	)

	for i, bar := range prices {
		exec := 0
		if i > 0 {
			exec = raw[i-1]
		}
		target, delta, ok := orderDelta(exec, e.unitSize, e.broker.Position())
		if !ok {
			return res, fmt.Errorf("backtest: step %d: signal %d x unit size %d against position %d overflows: %w",
				i, exec, e.unitSize, e.broker.Position(), broker.ErrInvalidArgument)
		}

		var rejected error
		if delta != 0 {
			side, qty := broker.Buy, delta
			if delta < 0 {
				side, qty = broker.Sell, -delta
			}

			err := e.broker.MarketOrder(side, qty, bar.Price)
			res.Orders = append(res.Orders, OrderAttempt{
				Step:     i,
				Time:     bar.Time,
				Side:     side,
				Quantity: qty,
				Price:    bar.Price,
				Err:      err,
			})
			if err != nil {
				rejected = err
				log.Warn("order rejected",
					zap.Int("step", i),
					zap.Stringer("side", side),
					zap.Int64("qty", qty),
					zap.Float64("price", bar.Price),
					zap.Error(err),
				)
			} else {
				log.Debug("order filled",
					zap.Int("step", i),
					zap.Stringer("side", side),
					zap.Int64("qty", qty),
					zap.Float64("price", bar.Price),
				)
			}
		}

		eq, err := e.broker.Equity(bar.Price)
		if err != nil {
			return res, fmt.Errorf("backtest: step %d: %w", i, err)
		}
		res.record(bar, exec, target, e.broker.Cash(), e.broker.Position(), eq)

		if rejected != nil && e.policy == AbortOnReject {
			res.RawSignal = res.RawSignal[:res.Len()]
			return res, fmt.Errorf("backtest: step %d: %w: %w", i, ErrOrderRejected, rejected)
		}
	}

	log.Debug("backtest done",
		zap.Int("orders", len(res.Orders)),
		zap.Int("rejected", res.Rejected()),
		zap.Float64("equity", res.Equity[n-1]),
	)
	return res, nil
}

// orderDelta returns the target position and the order needed to reach it
// from pos. ok is false when either does not fit in an int64.
func orderDelta(signal int, unitSize, pos int64) (target, delta int64, ok bool) {
	sig := int64(signal)
	target = sig * unitSize
	if sig != 0 && target/sig != unitSize {
		return 0, 0, false
	}
	if (pos < 0 && target > math.MaxInt64+pos) || (pos > 0 && target < math.MinInt64+pos) {
		return 0, 0, false
	}
	delta = target - pos
	if delta == math.MinInt64 {
		return 0, 0, false
	}
	return target, delta, true
}
