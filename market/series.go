package market

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidSeries = errors.New("invalid price series")

// Bar is one price observation.
type Bar struct {
	Time  time.Time
	Price float64
}

// Series is a time-ordered sequence of bars for a single instrument.
type Series []Bar

// Clone returns an independent copy of s.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Prices returns the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Price
	}
	return out
}

// CheckPrices reports the first bar whose price is not positive and finite.
func (s Series) CheckPrices() error {
	for i, b := range s {
		if math.IsNaN(b.Price) || math.IsInf(b.Price, 0) || b.Price <= 0 {
			return fmt.Errorf("bar %d (%s): price %v: %w", i, b.Time.Format(time.RFC3339), b.Price, ErrInvalidSeries)
		}
	}
	return nil
}

// Validate checks prices and that timestamps strictly increase.
func (s Series) Validate() error {
	if err := s.CheckPrices(); err != nil {
		return err
	}
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("bar %d (%s) not after bar %d (%s): %w",
				i, s[i].Time.Format(time.RFC3339), i-1, s[i-1].Time.Format(time.RFC3339), ErrInvalidSeries)
		}
	}
	return nil
}

// FromPrices builds a series with one bar per step starting at start.
func FromPrices(start time.Time, step time.Duration, prices ...float64) Series {
	out := make(Series, len(prices))
	for i, p := range prices {
		out[i] = Bar{Time: start.Add(time.Duration(i) * step), Price: p}
	}
	return out
}
