package market

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// PriceLoader is an in-memory price provider keyed by symbol.
// Stored series are normalized on the way in and copied on the way out.
type PriceLoader struct {
	mu   sync.RWMutex
	data map[string]Series
}

func NewPriceLoader() *PriceLoader {
	return &PriceLoader{data: make(map[string]Series)}
}

// Register stores prices for symbol. Bars with a duplicate timestamp keep
// the first occurrence, then the series is sorted by time.
func (pl *PriceLoader) Register(symbol string, prices Series) error {
	if symbol == "" {
		return fmt.Errorf("register: empty symbol: %w", ErrInvalidSeries)
	}

	seen := make(map[int64]struct{}, len(prices))
	ser := make(Series, 0, len(prices))
	for _, b := range prices {
		k := b.Time.UnixNano()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		ser = append(ser, b)
	}
	sort.SliceStable(ser, func(i, j int) bool { return ser[i].Time.Before(ser[j].Time) })

	if err := ser.Validate(); err != nil {
		return fmt.Errorf("register %s: %w", symbol, err)
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.data[symbol] = ser
	return nil
}

// Get returns a copy of the series registered for symbol.
func (pl *PriceLoader) Get(symbol string) (Series, error) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()
	ser, ok := pl.data[symbol]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", symbol, ErrUnknownSymbol)
	}
	return ser.Clone(), nil
}

// SyntheticOptions parameterizes a geometric Brownian motion path.
// Mu and Sigma are per-step drift and volatility of log returns.
type SyntheticOptions struct {
	N     int
	Start float64
	Mu    float64
	Sigma float64
	Seed  int64
	From  time.Time
	Step  time.Duration
}

func DefaultSyntheticOptions() SyntheticOptions {
	return SyntheticOptions{
		N:     252,
		Start: 100,
		Sigma: 0.01,
		From:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Step:  24 * time.Hour,
	}
}

// Synthetic generates a log-normal price path: p_i = start * exp(sum r_0..r_i)
// with r ~ N(mu, sigma). The same options always yield the same path.
func Synthetic(opts SyntheticOptions) (Series, error) {
	if opts.N < 0 {
		return nil, fmt.Errorf("synthetic: n %d is negative: %w", opts.N, ErrInvalidSeries)
	}
	if opts.Start <= 0 || math.IsNaN(opts.Start) || math.IsInf(opts.Start, 0) {
		return nil, fmt.Errorf("synthetic: start %v must be positive: %w", opts.Start, ErrInvalidSeries)
	}
	if opts.Sigma < 0 {
		return nil, fmt.Errorf("synthetic: sigma %v is negative: %w", opts.Sigma, ErrInvalidSeries)
	}
	if opts.Step <= 0 {
		opts.Step = 24 * time.Hour
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	out := make(Series, opts.N)
	cum := 0.0
	for i := range out {
		cum += opts.Mu + opts.Sigma*rng.NormFloat64()
		out[i] = Bar{
			Time:  opts.From.Add(time.Duration(i) * opts.Step),
			Price: opts.Start * math.Exp(cum),
		}
	}
	return out, nil
}
