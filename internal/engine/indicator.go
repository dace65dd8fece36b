package engine

import (
	"fmt"
	"math"
)

// BandValue is the (middle, upper, lower) triple emitted once per price
// after the window has filled.
type BandValue struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// RollingBands computes a moving average with standard-deviation bands
// over a fixed window of closing prices. The window is a preallocated
// circular buffer with rolling sums, so each push is O(1). The deviation
// is the population standard deviation: the window is a fully-known
// sample, not an estimate of a larger one.
type RollingBands struct {
	period     int
	multiplier float64
	buf        []float64
	idx        int
	count      int
	sum        float64
	sumSquares float64
}

func NewRollingBands(period int, multiplier float64) (*RollingBands, error) {
	if period < MinPeriod || period > MaxPeriod {
		return nil, fmt.Errorf("%w: got %d, want %d-%d", ErrPeriodOutOfRange, period, MinPeriod, MaxPeriod)
	}
	if multiplier < MinMultiplier || multiplier > MaxMultiplier {
		return nil, fmt.Errorf("%w: got %v, want %v-%v", ErrMultiplierOutOfRange, multiplier, MinMultiplier, MaxMultiplier)
	}
	return &RollingBands{
		period:     period,
		multiplier: multiplier,
		buf:        make([]float64, period),
	}, nil
}

// Push consumes the next closing price in temporal order. The bool is
// false until period prices have been seen; from then on every push
// returns the band over the most recent period prices.
func (r *RollingBands) Push(price float64) (BandValue, bool) {
	if r.count >= r.period {
		old := r.buf[r.idx]
		r.sum -= old
		r.sumSquares -= old * old
	}
	r.buf[r.idx] = price
	r.sum += price
	r.sumSquares += price * price
	r.idx = (r.idx + 1) % r.period
	r.count++

	if r.count < r.period {
		return BandValue{}, false
	}

	n := float64(r.period)
	mean := r.sum / n
	variance := r.sumSquares/n - mean*mean
	if variance < 0 {
		// rounding on near-constant windows can push this slightly negative
		variance = 0
	}
	dev := math.Sqrt(variance) * r.multiplier
	return BandValue{
		Middle: mean,
		Upper:  mean + dev,
		Lower:  mean - dev,
	}, true
}

// Ready reports whether the window has filled.
func (r *RollingBands) Ready() bool {
	return r.count >= r.period
}
