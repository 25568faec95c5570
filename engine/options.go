package engine

import (
	"context"
	"time"

	"github.com/lixenwraith/cellframe/status"
)

const (
	MinRate = 1
	MaxRate = 1000

	DefaultTickRate  = 60
	DefaultFrameRate = 60
	DefaultStopGrace = 50 * time.Millisecond
)

// Option configures a Loop at construction
type Option func(*Loop)

// WithContext ties the loop to ctx; cancelling it stops the loop
func WithContext(ctx context.Context) Option {
	return func(l *Loop) {
		l.ctx = ctx
	}
}

// WithTickRate sets the target update cadence in iterations per second
func WithTickRate(rate int) Option {
	return func(l *Loop) {
		l.SetTickRate(rate)
	}
}

// WithFrameRate sets the target draw cadence in iterations per second
func WithFrameRate(rate int) Option {
	return func(l *Loop) {
		l.SetFrameRate(rate)
	}
}

// WithFitToViewport resizes the render context on every resize event
func WithFitToViewport(fit bool) Option {
	return func(l *Loop) {
		l.fit = fit
	}
}

// WithStopGrace bounds how long Stop waits for the cadences to exit
func WithStopGrace(d time.Duration) Option {
	return func(l *Loop) {
		l.grace = max(d, 0)
	}
}

// WithTitle sets the terminal title at start
func WithTitle(title string) Option {
	return func(l *Loop) {
		l.title = title
	}
}

// WithRegistry publishes loop diagnostics into reg
func WithRegistry(reg *status.Registry) Option {
	return func(l *Loop) {
		l.reg = reg
	}
}

func clampRate(rate int) int {
	return min(max(rate, MinRate), MaxRate)
}
