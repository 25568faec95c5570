package core

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/cellframe/terminal"
)

// Finalizer restores a terminal; terminal.Device satisfies it
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
)

// SetCrashTerminal registers the terminal restored before a crash report
// is printed; nil unregisters
func SetCrashTerminal(f Finalizer) {
	crashMu.Lock()
	crashTerminal = f
	crashMu.Unlock()
}

func restoreTerminal() {
	crashMu.Lock()
	f := crashTerminal
	crashMu.Unlock()

	if f != nil {
		f.Fini()
		return
	}
	terminal.EmergencyReset(os.Stdout)
}

// PanicError carries a recovered panic out of a guarded goroutine
type PanicError struct {
	Name  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Name, e.Value)
}

// Guard wraps fn so a panic restores the terminal, is logged with its stack
// and is returned as a *PanicError instead of killing the process
func Guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				restoreTerminal()
				pe := &PanicError{Name: name, Value: r, Stack: debug.Stack()}
				log.Printf("%v\n%s", pe, pe.Stack)
				err = pe
			}
		}()
		return fn()
	}
}

// HandleCrash restores the terminal, prints r with a stack trace and exits.
// Call it from a deferred recover in main.
func HandleCrash(r any) {
	if r == nil {
		return
	}
	restoreTerminal()

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

// Go runs fn on a new goroutine and returns a channel closed when fn returns.
// A panic in fn is fatal: it is logged under name and handed to HandleCrash.
func Go(name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("%s: panic: %v", name, r)
				HandleCrash(r)
			}
		}()
		fn()
	}()
	return done
}
