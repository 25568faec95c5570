package terminal

import "time"

// backend abstracts the platform tty underneath the ANSI device
type backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	// Read waits up to timeout for input; nil data with nil error means timeout
	Read(timeout time.Duration) ([]byte, error)
	// OnResize registers a handler invoked from a signal goroutine
	OnResize(handler func(width, height int))
}
