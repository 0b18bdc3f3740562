// Package indicator derives trend, slope, and threshold values from an
// instrument's daily price history.
//
// Compute is a pure function over one ordered bar series: no portfolio
// state, no side effects. That keeps per-instrument work trivially
// parallelizable in the scan.
package indicator

import (
	"errors"

	"trend-scannerv1/internal/model"
)

// ErrInsufficientHistory is returned when a series is too short for the
// configured windows. Callers skip the instrument; this is not a run error.
var ErrInsufficientHistory = errors.New("insufficient price history")

// Params configures the trend computation. The zero value is not usable;
// start from DefaultParams.
type Params struct {
	LongWindow   int     // long moving-average window, default 150
	SmoothWindow int     // smoothing window over the long MA, default 5
	EntryBuffer  float64 // entry threshold fraction above the long MA
	ExitBuffer   float64 // exit threshold fraction below the long MA
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		LongWindow:   150,
		SmoothWindow: 5,
		EntryBuffer:  0.01,
		ExitBuffer:   0.01,
	}
}

// MinBars returns the minimum series length for a defined snapshot.
// The margin past LongWindow+SmoothWindow keeps the smoothed average off
// its warm-up edge.
func (p Params) MinBars() int {
	return p.LongWindow + p.SmoothWindow + 5
}

// Compute derives a TrendSnapshot for the most recent bar of a chronological
// series. Returns ErrInsufficientHistory when fewer than MinBars bars are
// available.
//
// Both moving averages are unweighted arithmetic means. Slope is the long MA
// minus its smoothed copy; SlopeBps rescales it by the close into basis
// points. Thresholds always use the current long MA, never a lagged value.
func Compute(bars []model.PriceBar, p Params) (model.TrendSnapshot, error) {
	if len(bars) < p.MinBars() {
		return model.TrendSnapshot{}, ErrInsufficientHistory
	}

	long := NewSMA(p.LongWindow)
	smooth := NewSMA(p.SmoothWindow)
	for _, b := range bars {
		long.Update(b.Close)
		if long.Ready() {
			smooth.Update(long.Value())
		}
	}

	last := bars[len(bars)-1]
	slope := long.Value() - smooth.Value()

	return model.TrendSnapshot{
		Symbol:         last.Symbol,
		Close:          last.Close,
		LongMA:         long.Value(),
		SmoothedMA:     smooth.Value(),
		Slope:          slope,
		SlopeBps:       slope / last.Close * 10000,
		EntryThreshold: long.Value() * (1 + p.EntryBuffer),
		ExitThreshold:  long.Value() * (1 - p.ExitBuffer),
	}, nil
}
