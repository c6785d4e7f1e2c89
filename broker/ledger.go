package broker

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Ledger holds cash and a signed share position for a single instrument.
// Orders fill immediately and completely at the given price with no fees.
// A rejected order leaves the ledger untouched.
//
// Ledger is not safe for concurrent use; a backtest run owns it.
type Ledger struct {
	cash       decimal.Decimal
	position   int64
	allowShort bool
}

var _ Broker = (*Ledger)(nil)

// NewLedger returns a flat ledger funded with initialCash.
func NewLedger(initialCash float64, allowShort bool) (*Ledger, error) {
	if math.IsNaN(initialCash) || math.IsInf(initialCash, 0) {
		return nil, fmt.Errorf("new ledger: cash %v is not finite: %w", initialCash, ErrInvalidArgument)
	}
	if initialCash < 0 {
		return nil, fmt.Errorf("new ledger: cash %v is negative: %w", initialCash, ErrInvalidArgument)
	}
	return &Ledger{
		cash:       decimal.NewFromFloat(initialCash),
		allowShort: allowShort,
	}, nil
}

func (l *Ledger) Cash() float64 {
	return l.cash.InexactFloat64()
}

func (l *Ledger) Position() int64 { return l.position }

func (l *Ledger) AllowShort() bool { return l.allowShort }

// MarketOrder buys or sells qty shares at price.
//
// BUY fails with ErrInsufficientFunds when cash cannot cover qty*price.
// SELL fails with ErrInsufficientShares when shorting is disabled and the
// position is smaller than qty. An order whose fill would overflow the
// position is rejected with ErrInvalidArgument.
func (l *Ledger) MarketOrder(side Side, qty int64, price float64) error {
	if !side.valid() {
		return fmt.Errorf("market order: side %v: %w", side, ErrInvalidArgument)
	}
	if qty <= 0 {
		return fmt.Errorf("market order: qty %d must be positive: %w", qty, ErrInvalidArgument)
	}
	if err := checkPrice(price); err != nil {
		return fmt.Errorf("market order: %w", err)
	}

	notional := decimal.NewFromInt(qty).Mul(decimal.NewFromFloat(price))

	switch side {
	case Buy:
		if l.position > 0 && qty > math.MaxInt64-l.position {
			return fmt.Errorf("market order: buy %d on position %d overflows: %w",
				qty, l.position, ErrInvalidArgument)
		}
		if l.cash.LessThan(notional) {
			return fmt.Errorf("market order: buy %d @ %v needs %s, have %s: %w",
				qty, price, notional.String(), l.cash.String(), ErrInsufficientFunds)
		}
		l.cash = l.cash.Sub(notional)
		l.position += qty
	case Sell:
		if l.position < 0 && qty > l.position-math.MinInt64 {
			return fmt.Errorf("market order: sell %d on position %d overflows: %w",
				qty, l.position, ErrInvalidArgument)
		}
		if !l.allowShort && l.position < qty {
			return fmt.Errorf("market order: sell %d with position %d: %w",
				qty, l.position, ErrInsufficientShares)
		}
		l.cash = l.cash.Add(notional)
		l.position -= qty
	}
	return nil
}

// Equity marks the ledger to market: cash + position*price.
func (l *Ledger) Equity(price float64) (float64, error) {
	if err := checkPrice(price); err != nil {
		return 0, fmt.Errorf("equity: %w", err)
	}
	eq := l.cash.Add(decimal.NewFromInt(l.position).Mul(decimal.NewFromFloat(price)))
	return eq.InexactFloat64(), nil
}

func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price %v is not finite: %w", price, ErrInvalidArgument)
	}
	if price <= 0 {
		return fmt.Errorf("price %v must be positive: %w", price, ErrInvalidArgument)
	}
	return nil
}
