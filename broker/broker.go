package broker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Broker is the order-accounting surface the backtest engine drives.
// Ledger is the reference implementation.
type Broker interface {
	MarketOrder(side Side, qty int64, price float64) error
	Cash() float64
	Position() int64
	Equity(price float64) (float64, error)
}

// Side of a market order.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return fmt.Sprintf("Side(%d)", int8(s))
	}
}

func (s Side) valid() bool {
	return s == Buy || s == Sell
}
