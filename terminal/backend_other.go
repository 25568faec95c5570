//go:build !unix

package terminal

import (
	"fmt"
	"time"
)

type stubBackend struct{}

func newBackend() backend {
	return stubBackend{}
}

func (stubBackend) Init() error {
	return fmt.Errorf("ANSI device needs a unix tty, enable native input instead")
}

func (stubBackend) Fini() {}

func (stubBackend) Size() (int, int) { return 80, 24 }

func (stubBackend) Read(timeout time.Duration) ([]byte, error) {
	time.Sleep(timeout)
	return nil, nil
}

func (stubBackend) OnResize(func(width, height int)) {}
