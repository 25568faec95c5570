package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/status"
	"github.com/lixenwraith/cellframe/terminal"
)

// State is the lifecycle stage of a Loop
type State int32

const (
	Starting State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	}
	return "unknown"
}

// ErrStarted is returned by Start on a loop that has already left Starting
var ErrStarted = errors.New("engine: loop already started")

// rateWindow is the number of periods averaged by the rate meters
const rateWindow = 16

// Loop drives the update, draw and input cadences of an application.
// The cadences share nothing but the hooks and the render context.
type Loop struct {
	dev   terminal.Device
	rc    *render.Context
	hooks Hooks

	tickRate  atomic.Int64
	frameRate atomic.Int64
	fit       bool
	grace     time.Duration
	title     string

	state atomic.Int32
	mouse atomic.Int64 // x in the high half, y in the low half

	ticks  *RateMeter
	frames *RateMeter

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
	stopOnce sync.Once

	reg       *status.Registry
	statState *status.AtomicString
	statTick  *status.AtomicFloat
	statFrame *status.AtomicFloat
	statCalls *atomic.Int64
	statInput *atomic.Int64
}

// New creates a loop in the Starting state. rc must render to dev.
func New(dev terminal.Device, rc *render.Context, hooks Hooks, opts ...Option) *Loop {
	l := &Loop{
		dev:    dev,
		rc:     rc,
		hooks:  hooks,
		fit:    true,
		grace:  DefaultStopGrace,
		ticks:  NewRateMeter(rateWindow),
		frames: NewRateMeter(rateWindow),
		done:   make(chan struct{}),
	}
	l.tickRate.Store(DefaultTickRate)
	l.frameRate.Store(DefaultFrameRate)

	for _, opt := range opts {
		opt(l)
	}
	if l.ctx == nil {
		l.ctx = context.Background()
	}
	l.ctx, l.cancel = context.WithCancel(l.ctx)
	if l.reg == nil {
		l.reg = status.NewRegistry()
	}

	l.statState = l.reg.Strings.Get("loop.state")
	l.statTick = l.reg.Floats.Get("loop.tick_rate")
	l.statFrame = l.reg.Floats.Get("loop.frame_rate")
	l.statCalls = l.reg.Ints.Get("render.draw_calls")
	l.statInput = l.reg.Ints.Get("input.events")
	l.statState.Store(Starting.String())
	return l
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	l.statState.Store(s.String())
}

// Context returns the render context handed to Draw
func (l *Loop) Context() *render.Context {
	return l.rc
}

// Registry returns the diagnostics registry the loop publishes into
func (l *Loop) Registry() *status.Registry {
	return l.reg
}

// SetTickRate changes the update target, clamped to [MinRate, MaxRate];
// it applies from the next iteration
func (l *Loop) SetTickRate(rate int) {
	l.tickRate.Store(int64(clampRate(rate)))
}

// SetFrameRate changes the draw target, clamped to [MinRate, MaxRate]
func (l *Loop) SetFrameRate(rate int) {
	l.frameRate.Store(int64(clampRate(rate)))
}

func (l *Loop) TargetTickRate() int  { return int(l.tickRate.Load()) }
func (l *Loop) TargetFrameRate() int { return int(l.frameRate.Load()) }

// TickRate returns the achieved updates per second
func (l *Loop) TickRate() float64 { return l.ticks.Rate() }

// FrameRate returns the achieved draws per second
func (l *Loop) FrameRate() float64 { return l.frames.Rate() }

// MousePosition returns the position of the last mouse event
func (l *Loop) MousePosition() render.Point {
	v := l.mouse.Load()
	return render.Point{X: int(int32(v >> 32)), Y: int(int32(v))}
}

func (l *Loop) storeMouse(x, y int) {
	l.mouse.Store(int64(x)<<32 | int64(uint32(int32(y))))
}

// Start initializes the terminal and launches the three cadences.
// It returns once they are running; use Wait to block until they exit.
func (l *Loop) Start() error {
	if !l.state.CompareAndSwap(int32(Starting), int32(Running)) {
		return ErrStarted
	}

	if err := l.dev.Init(); err != nil {
		l.setState(Stopping)
		l.cancel()
		close(l.done)
		return fmt.Errorf("engine: init terminal: %w", err)
	}
	core.SetCrashTerminal(l.dev)
	if l.title != "" {
		l.dev.SetTitle(l.title)
	}
	l.rc.FitToViewport()
	l.reg.Bools.Get("input.native").Store(l.dev.NativeInput())
	l.statState.Store(Running.String())

	g, gctx := errgroup.WithContext(l.ctx)

	g.Go(core.Guard("update", func() error {
		return l.cadence(gctx, &l.tickRate, l.ticks, l.statTick, l.hooks.Update)
	}))
	g.Go(core.Guard("draw", func() error {
		return l.cadence(gctx, &l.frameRate, l.frames, l.statFrame, func() {
			l.hooks.Draw(l.rc)
			l.statCalls.Store(int64(l.rc.LastDrawCalls()))
		})
	}))
	g.Go(core.Guard("input", func() error {
		return l.input(gctx)
	}))

	// A blocked PollEvent only returns for an event, so wake it on shutdown
	go func() {
		<-gctx.Done()
		l.setState(Stopping)
		l.dev.Interrupt()
	}()

	go func() {
		l.err = g.Wait()
		l.cancel()
		l.dev.Fini()
		core.SetCrashTerminal(nil)
		log.Printf("engine: loop stopped after %d frames", l.rc.Frames())
		close(l.done)
	}()

	log.Printf("engine: loop running, tick %d/s, frame %d/s, native input %v",
		l.TargetTickRate(), l.TargetFrameRate(), l.dev.NativeInput())
	return nil
}

// Stop moves the loop to Stopping, signals every cadence and waits up to the
// grace period for them to exit. Safe to call repeatedly and from hooks.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		prev := State(l.state.Swap(int32(Stopping)))
		l.statState.Store(Stopping.String())
		l.cancel()
		if prev == Starting {
			close(l.done)
		}
	})

	if l.grace <= 0 {
		return
	}
	t := time.NewTimer(l.grace)
	defer t.Stop()
	select {
	case <-l.done:
	case <-t.C:
	}
}

// Wait blocks until every cadence has exited and the terminal is restored.
// The error is the first cadence failure, a recovered hook panic included.
func (l *Loop) Wait() error {
	<-l.done
	return l.err
}

// Done is closed once the loop has fully stopped
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run starts the loop and waits for it to stop
func (l *Loop) Run() error {
	if err := l.Start(); err != nil {
		return err
	}
	return l.Wait()
}

// cadence runs step at the target rate read from rate on every iteration.
// An iteration that overruns its budget starts the next one without sleeping.
func (l *Loop) cadence(ctx context.Context, rate *atomic.Int64, meter *RateMeter, published *status.AtomicFloat, step func()) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	last := time.Now()
	for l.State() == Running {
		if ctx.Err() != nil {
			return nil
		}

		start := time.Now()
		step()

		budget := time.Second / time.Duration(rate.Load())
		if rem := budget - time.Since(start); rem > 0 {
			timer.Reset(rem)
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil
			}
		}

		now := time.Now()
		published.Store(meter.Observe(now.Sub(last)))
		last = now
	}
	return nil
}

// input dispatches device events until the loop stops or the device closes
func (l *Loop) input(ctx context.Context) error {
	for l.State() == Running && ctx.Err() == nil {
		ev := l.dev.PollEvent()
		switch ev.Type {
		case terminal.EventKey:
			l.statInput.Add(1)
			l.hooks.Key(ev.Key)
		case terminal.EventMouse:
			l.statInput.Add(1)
			l.storeMouse(ev.Mouse.X, ev.Mouse.Y)
			l.hooks.Mouse(ev.Mouse)
		case terminal.EventResize:
			if l.fit {
				l.rc.FitToViewport()
			}
		case terminal.EventError:
			return fmt.Errorf("engine: input: %w", ev.Err)
		case terminal.EventClosed:
			// nil from an errgroup member does not cancel its siblings
			l.cancel()
			return nil
		}
	}
	return nil
}
