package strategy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/market"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func daily(prices ...float64) market.Series {
	return market.FromPrices(t0, 24*time.Hour, prices...)
}

func TestFlat(t *testing.T) {
	t.Parallel()

	sig, err := Flat{}.Signals(daily(1, 2, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0}, sig)
}

func TestFixedReturnsCopy(t *testing.T) {
	t.Parallel()

	f := Fixed{0, 1, -1}
	sig, err := f.Signals(daily(1, 2, 3))
	require.NoError(t, err)
	sig[0] = 7
	assert.Equal(t, Fixed{0, 1, -1}, f)
}

func TestFunc(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := Func(func(market.Series) ([]int, error) { return nil, boom })
	_, err := s.Signals(daily(1))
	assert.ErrorIs(t, err, boom)
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("noop", 0)
	require.NoError(t, err)
	assert.IsType(t, Flat{}, s)

	s, err = ByName(" Vol-Breakout ", 0)
	require.NoError(t, err)
	require.IsType(t, &VolatilityBreakout{}, s)
	assert.Equal(t, DefaultWindow, s.(*VolatilityBreakout).Window)

	_, err = ByName("vol-breakout", 1)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = ByName("martingale", 0)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestVolatilityBreakoutSignals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prices []float64
		want   []int
	}{
		{
			name:   "upside breakout",
			prices: []float64{100, 101, 100, 101, 100, 110},
			want:   []int{0, 0, 0, 0, 0, 1},
		},
		{
			name:   "downside breakout",
			prices: []float64{100, 101, 100, 101, 100, 90},
			want:   []int{0, 0, 0, 0, 0, -1},
		},
		{
			name:   "constant prices",
			prices: []float64{50, 50, 50, 50, 50, 50, 50},
			want:   []int{0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := NewVolatilityBreakout(3)
			require.NoError(t, err)

			sig, err := v.Signals(daily(tt.prices...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, sig)
		})
	}
}

func TestVolatilityBreakoutTooShort(t *testing.T) {
	t.Parallel()

	v, err := NewVolatilityBreakout(20)
	require.NoError(t, err)

	_, err = v.Signals(daily(100, 101, 102))
	assert.ErrorIs(t, err, ErrSeriesTooShort)
	assert.Contains(t, err.Error(), "length of prices")

	sig, err := v.Signals(nil)
	require.NoError(t, err)
	assert.Empty(t, sig)
}

func TestVolatilityBreakoutBadWindow(t *testing.T) {
	t.Parallel()

	v := &VolatilityBreakout{Window: 1}
	_, err := v.Signals(daily(1, 2, 3))
	assert.ErrorIs(t, err, ErrInvalidParams)
}

// Truncating the history must not change any earlier signal.
func TestVolatilityBreakoutUsesOnlyPastPrices(t *testing.T) {
	t.Parallel()

	opts := market.DefaultSyntheticOptions()
	opts.N = 120
	opts.Seed = 7
	opts.Sigma = 0.02
	series, err := market.Synthetic(opts)
	require.NoError(t, err)

	v, err := NewVolatilityBreakout(10)
	require.NoError(t, err)

	full, err := v.Signals(series)
	require.NoError(t, err)
	require.Len(t, full, len(series))

	for _, k := range []int{11, 30, 64, 119} {
		part, err := v.Signals(series[:k])
		require.NoError(t, err)
		assert.Equal(t, full[:k], part, "prefix %d", k)
	}

	for _, s := range full {
		assert.Contains(t, []int{-1, 0, 1}, s)
	}
}
