package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/broker"
	"github.com/rustyeddy/backtester/market"
)

// OrderAttempt is one market order the engine submitted. Err is nil when
// the broker filled it.
type OrderAttempt struct {
	Step     int
	Time     time.Time
	Side     broker.Side
	Quantity int64
	Price    float64
	Err      error
}

func (o OrderAttempt) Filled() bool { return o.Err == nil }

// Result is the equity curve of a run plus the per-bar series that
// produced it. All per-bar slices are aligned with the input price series,
// or with its first Len bars when a run stops early.
type Result struct {
	Times  []time.Time
	Prices []float64

	RawSignal  []int   // strategy output
	ExecSignal []int   // RawSignal lagged by one bar; what was acted on
	Target     []int64 // ExecSignal * unit size

	Cash     []float64
	Position []int64
	Equity   []float64

	Orders []OrderAttempt
}

func newResult(n int) Result {
	return Result{
		Times:      make([]time.Time, 0, n),
		Prices:     make([]float64, 0, n),
		RawSignal:  make([]int, 0, n),
		ExecSignal: make([]int, 0, n),
		Target:     make([]int64, 0, n),
		Cash:       make([]float64, 0, n),
		Position:   make([]int64, 0, n),
		Equity:     make([]float64, 0, n),
	}
}

func (r *Result) record(bar market.Bar, exec int, target int64, cash float64, pos int64, eq float64) {
	r.Times = append(r.Times, bar.Time)
	r.Prices = append(r.Prices, bar.Price)
	r.ExecSignal = append(r.ExecSignal, exec)
	r.Target = append(r.Target, target)
	r.Cash = append(r.Cash, cash)
	r.Position = append(r.Position, pos)
	r.Equity = append(r.Equity, eq)
}

// Len is the number of recorded bars.
func (r Result) Len() int { return len(r.Equity) }

// FinalEquity is the last point of the curve; ok is false for an empty run.
func (r Result) FinalEquity() (eq float64, ok bool) {
	if len(r.Equity) == 0 {
		return 0, false
	}
	return r.Equity[len(r.Equity)-1], true
}

func (r Result) Filled() int {
	n := 0
	for _, o := range r.Orders {
		if o.Filled() {
			n++
		}
	}
	return n
}

func (r Result) Rejected() int { return len(r.Orders) - r.Filled() }
