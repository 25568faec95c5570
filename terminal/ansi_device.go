package terminal

import (
	"bufio"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// escapeTimeout separates a standalone ESC from the start of a sequence
const escapeTimeout = 50 * time.Millisecond

// ANSI is a Device writing escape sequences to a raw-mode tty and reading
// keys with a blocking poll loop. It reports keyboard events only.
type ANSI struct {
	mu     sync.Mutex
	out    *bufio.Writer
	title  *termenv.Output
	tty    backend
	parser keyParser

	cx, cy      int
	cursorValid bool
	colors      Colors
	colorsValid bool

	// Input state, touched only by PollEvent
	buf     []byte
	pending []Event

	resizeCh    chan Event
	interrupted atomic.Bool
	closed      atomic.Bool
	finiOnce    sync.Once
}

// NewANSI creates an ANSI device on the process stdin/stdout
func NewANSI() *ANSI {
	return newANSI(os.Stdout, newBackend())
}

func newANSI(w io.Writer, tty backend) *ANSI {
	out := bufio.NewWriterSize(w, 64*1024)
	return &ANSI{
		out:      out,
		title:    termenv.NewOutput(out),
		tty:      tty,
		buf:      make([]byte, 0, 256),
		resizeCh: make(chan Event, 1),
	}
}

func (a *ANSI) Init() error {
	if err := a.tty.Init(); err != nil {
		return err
	}

	a.mu.Lock()
	a.out.Write(csiAltScreenEnter)
	a.out.Write(csiCursorHide)
	a.out.Write(csiAutoWrapOff)
	a.out.Write(csiReset)
	a.out.Write(csiClear)
	a.out.Flush()
	a.cursorValid = false
	a.colorsValid = false
	a.mu.Unlock()

	a.tty.OnResize(func(w, h int) {
		ev := Event{Type: EventResize, Width: w, Height: h}
		// Keep only the latest size
		select {
		case <-a.resizeCh:
		default:
		}
		select {
		case a.resizeCh <- ev:
		default:
		}
	})
	return nil
}

func (a *ANSI) Fini() {
	a.finiOnce.Do(func() {
		a.closed.Store(true)

		a.mu.Lock()
		a.out.Write(csiReset)
		a.out.Write(csiCursorShow)
		a.out.Write(csiAutoWrapOn)
		a.out.Write(csiAltScreenExit)
		a.out.Flush()
		a.mu.Unlock()

		a.tty.Fini()
	})
}

func (a *ANSI) Size() (int, int) {
	return a.tty.Size()
}

// AutoWraps is false: Init disables DECAWM
func (a *ANSI) AutoWraps() bool {
	return false
}

func (a *ANSI) Clear(c Colors) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.setColorsLocked(c)
	a.out.Write(csiClear)
	a.cx, a.cy = 0, 0
	a.cursorValid = true
}

func (a *ANSI) SetCursor(x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cursorValid && a.cx == x && a.cy == y {
		return
	}
	writeCursorPos(a.out, x, y)
	a.cx, a.cy = x, y
	a.cursorValid = true
}

func (a *ANSI) SetColors(c Colors) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setColorsLocked(c)
}

func (a *ANSI) setColorsLocked(c Colors) {
	if a.colorsValid && a.colors == c {
		return
	}
	writeColors(a.out, c)
	a.colors = c
	a.colorsValid = true
}

func (a *ANSI) WriteString(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.out.WriteString(s)
	a.cx += runewidth.StringWidth(s)
}

func (a *ANSI) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out.Flush()
}

func (a *ANSI) SetTitle(title string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.title.SetWindowTitle(title)
	a.out.Flush()
}

func (a *ANSI) Bell() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.out.Write(bel)
	a.out.Flush()
}

func (a *ANSI) NativeInput() bool {
	return false
}

func (a *ANSI) Interrupt() {
	a.interrupted.Store(true)
}

// PollEvent blocks on the tty until a key, resize or interrupt is available
func (a *ANSI) PollEvent() Event {
	for {
		if len(a.pending) > 0 {
			ev := a.pending[0]
			a.pending = a.pending[1:]
			return ev
		}
		if a.closed.Load() {
			return Event{Type: EventClosed}
		}
		if a.interrupted.Swap(false) {
			return Event{Type: EventInterrupt}
		}
		select {
		case ev := <-a.resizeCh:
			a.mu.Lock()
			a.cursorValid = false
			a.mu.Unlock()
			return ev
		default:
		}

		data, err := a.tty.Read(escapeTimeout)
		if err != nil {
			return Event{Type: EventError, Err: err}
		}

		if len(data) == 0 {
			// Timeout: a lone ESC is the Escape key, other leftovers are dropped
			if len(a.buf) == 1 && a.buf[0] == 0x1b {
				a.buf = a.buf[:0]
				return keyEvent(KeyEscape, 0, ModNone)
			}
			a.buf = a.buf[:0]
			continue
		}

		a.buf = append(a.buf, data...)
		consumed := a.parser.parse(a.buf, func(ev Event) {
			a.pending = append(a.pending, ev)
		})
		if consumed >= len(a.buf) {
			a.buf = a.buf[:0]
		} else if consumed > 0 {
			n := copy(a.buf, a.buf[consumed:])
			a.buf = a.buf[:n]
		}
	}
}
