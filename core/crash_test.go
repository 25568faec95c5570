package core

import (
	"errors"
	"testing"
	"time"
)

type finiCounter struct {
	calls int
}

func (f *finiCounter) Fini() { f.calls++ }

func TestGuardRecoversPanic(t *testing.T) {
	fc := &finiCounter{}
	SetCrashTerminal(fc)
	defer SetCrashTerminal(nil)

	err := Guard("draw", func() error {
		panic("boom")
	})()

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PanicError, got %v", err)
	}
	if pe.Name != "draw" || pe.Value != "boom" {
		t.Errorf("Expected draw/boom, got %s/%v", pe.Name, pe.Value)
	}
	if len(pe.Stack) == 0 {
		t.Error("Expected a captured stack")
	}
	if fc.calls != 1 {
		t.Errorf("Expected terminal restored once, got %d", fc.calls)
	}
}

func TestGuardPassesErrors(t *testing.T) {
	fc := &finiCounter{}
	SetCrashTerminal(fc)
	defer SetCrashTerminal(nil)

	sentinel := errors.New("closed")
	if err := Guard("input", func() error { return sentinel })(); !errors.Is(err, sentinel) {
		t.Errorf("Expected %v, got %v", sentinel, err)
	}
	if err := Guard("input", func() error { return nil })(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if fc.calls != 0 {
		t.Errorf("Expected no terminal restore, got %d", fc.calls)
	}
}

func TestGoRunsAndSignalsDone(t *testing.T) {
	ran := false
	done := Go("worker", func() { ran = true })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for goroutine")
	}
	if !ran {
		t.Error("Expected fn to run before done closed")
	}
}
