package market

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		series  Series
		wantErr bool
	}{
		{"empty", nil, false},
		{"rising", FromPrices(t0, time.Hour, 1, 2, 3), false},
		{"zero price", FromPrices(t0, time.Hour, 1, 0, 3), true},
		{"nan price", FromPrices(t0, time.Hour, 1, math.NaN()), true},
		{"inf price", FromPrices(t0, time.Hour, math.Inf(1)), true},
		{"repeated time", Series{{t0, 1}, {t0, 2}}, true},
		{"backwards time", Series{{t0.Add(time.Hour), 1}, {t0, 2}}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.series.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeries)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeriesCloneIsIndependent(t *testing.T) {
	s := FromPrices(t0, time.Hour, 10, 11)
	c := s.Clone()
	c[0].Price = 99

	assert.Equal(t, 10.0, s[0].Price)
	assert.Equal(t, []float64{99, 11}, c.Prices())
	assert.Equal(t, t0.Add(time.Hour), c[1].Time)
	assert.Nil(t, Series(nil).Clone())
}

func TestPriceLoaderRegister(t *testing.T) {
	pl := NewPriceLoader()

	in := Series{
		{t0.Add(2 * time.Hour), 12},
		{t0, 10},
		{t0.Add(time.Hour), 11},
		{t0, 99}, // duplicate timestamp, dropped
	}
	require.NoError(t, pl.Register("XYZ", in))

	got, err := pl.Get("XYZ")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, got.Prices())

	// The caller's copy is untouched and Get hands out copies.
	assert.Equal(t, 12.0, in[0].Price)
	got[0].Price = -1
	again, _ := pl.Get("XYZ")
	assert.Equal(t, 10.0, again[0].Price)
}

func TestPriceLoaderErrors(t *testing.T) {
	pl := NewPriceLoader()

	_, err := pl.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	assert.ErrorIs(t, pl.Register("", nil), ErrInvalidSeries)
	assert.ErrorIs(t, pl.Register("BAD", FromPrices(t0, time.Hour, 1, -2)), ErrInvalidSeries)
}

func TestSyntheticDeterministic(t *testing.T) {
	opts := DefaultSyntheticOptions()
	opts.N = 50
	opts.Seed = 42

	a, err := Synthetic(opts)
	require.NoError(t, err)
	b, err := Synthetic(opts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 50)
	assert.NoError(t, a.Validate())
	assert.Equal(t, opts.From, a[0].Time)
	assert.Equal(t, opts.From.Add(24*time.Hour), a[1].Time)
}

func TestSyntheticZeroVolatility(t *testing.T) {
	s, err := Synthetic(SyntheticOptions{N: 3, Start: 100, Mu: 0.1, Step: time.Minute})
	require.NoError(t, err)

	for i, b := range s {
		assert.InDelta(t, 100*math.Exp(0.1*float64(i+1)), b.Price, 1e-9)
	}
}

func TestSyntheticRejectsBadOptions(t *testing.T) {
	for _, opts := range []SyntheticOptions{
		{N: -1, Start: 100},
		{N: 5, Start: 0},
		{N: 5, Start: 100, Sigma: -0.1},
	} {
		_, err := Synthetic(opts)
		assert.ErrorIs(t, err, ErrInvalidSeries, "%+v", opts)
	}
}

func TestReadCSV(t *testing.T) {
	in := `time,price
2024-01-01T00:00:00Z,100.5

2024-01-02,101
2024-01-03T00:00:00.5Z,102.25,extra
`
	s, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, []float64{100.5, 101, 102.25}, s.Prices())
	assert.Equal(t, t0.Add(24*time.Hour), s[1].Time)
	assert.Equal(t, 500*time.Millisecond, s[2].Time.Sub(t0.Add(48*time.Hour)))
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("yesterday,100\n"))
	assert.ErrorIs(t, err, ErrInvalidSeries)

	_, err = ReadCSV(strings.NewReader("2024-01-01,abc\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader("2024-01-01\n"))
	assert.ErrorIs(t, err, ErrInvalidSeries)
}
