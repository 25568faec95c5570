//go:build unix

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	inFd    int
	outFd   int
	oldTerm *term.State
	buf     []byte

	resizeStop chan struct{}
	resizeDone chan struct{}
}

func newBackend() backend {
	return &unixBackend{
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, 256),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.resizeStop != nil {
		close(b.resizeStop)
		<-b.resizeDone
		b.resizeStop = nil
	}
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(b.outFd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		if w, h, err := term.GetSize(b.outFd); err == nil {
			return w, h
		}
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

func (b *unixBackend) Read(timeout time.Duration) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(b.inFd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("poll stdin: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	rn, err := unix.Read(b.inFd, b.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return nil, nil
		}
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if rn == 0 {
		return nil, fmt.Errorf("stdin closed")
	}

	out := make([]byte, rn)
	copy(out, b.buf[:rn])
	return out, nil
}

func (b *unixBackend) OnResize(handler func(width, height int)) {
	b.resizeStop = make(chan struct{})
	b.resizeDone = make(chan struct{})

	go func() {
		defer close(b.resizeDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-b.resizeStop:
				return
			case <-sigCh:
				handler(b.Size())
			}
		}
	}()
}
