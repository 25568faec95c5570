package engine

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/lixenwraith/cellframe/status"
)

// minPeriod caps the estimate for iterations shorter than the clock can resolve
const minPeriod = time.Microsecond

// RateMeter estimates iterations per second from the mean of the most recent
// iteration periods. The value is an approximation for display, not a
// measurement. Observe must be called from a single goroutine; Rate from any.
type RateMeter struct {
	samples []float64
	next    int
	rate    status.AtomicFloat
}

// NewRateMeter keeps the last window periods; window < 1 means 1
func NewRateMeter(window int) *RateMeter {
	return &RateMeter{samples: make([]float64, 0, max(window, 1))}
}

// Observe records one iteration period and returns the updated rate
func (m *RateMeter) Observe(period time.Duration) float64 {
	s := max(period, minPeriod).Seconds()
	if len(m.samples) < cap(m.samples) {
		m.samples = append(m.samples, s)
	} else {
		m.samples[m.next] = s
		m.next = (m.next + 1) % len(m.samples)
	}

	r := 1 / stat.Mean(m.samples, nil)
	m.rate.Store(r)
	return r
}

// Rate returns the last estimate, 0 before any observation
func (m *RateMeter) Rate() float64 {
	return m.rate.Load()
}
