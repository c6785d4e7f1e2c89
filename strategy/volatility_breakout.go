package strategy

import (
	"fmt"
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/rustyeddy/backtester/market"
)

const DefaultWindow = 20

// VolatilityBreakout goes long when a bar's return exceeds the trailing
// volatility and short when it falls below minus that volatility.
//
// Volatility at bar i is the sample standard deviation of the Window
// simple returns ending at bar i-1, so bar i's own return never feeds the
// threshold it is compared against. Bars without a full window signal 0.
type VolatilityBreakout struct {
	Window int
}

func NewVolatilityBreakout(window int) (*VolatilityBreakout, error) {
	if window == 0 {
		window = DefaultWindow
	}
	if window < 2 {
		return nil, fmt.Errorf("vol-breakout: window %d must be at least 2: %w", window, ErrInvalidParams)
	}
	return &VolatilityBreakout{Window: window}, nil
}

func (v *VolatilityBreakout) Signals(prices market.Series) ([]int, error) {
	w := v.Window
	if w < 2 {
		return nil, fmt.Errorf("vol-breakout: window %d must be at least 2: %w", w, ErrInvalidParams)
	}

	n := len(prices)
	if n == 0 {
		return []int{}, nil
	}
	if n <= w {
		return nil, fmt.Errorf("vol-breakout: length of prices %d must be greater than window %d: %w", n, w, ErrSeriesTooShort)
	}

	p := prices.Prices()
	rets := make([]float64, n-1)
	for k := range rets {
		rets[k] = p[k+1]/p[k] - 1
	}

	// talib reports population deviation; rescale to the sample estimator.
	sd := talib.StdDev(rets, w, 1)
	bessel := math.Sqrt(float64(w) / float64(w-1))

	sig := make([]int, n)
	for i := w + 1; i < n; i++ {
		vol := sd[i-2] * bessel
		r := rets[i-1]
		switch {
		case r > vol:
			sig[i] = 1
		case r < -vol:
			sig[i] = -1
		}
	}
	return sig, nil
}
