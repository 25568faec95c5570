package main

import (
	"fmt"
	"testing"

	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
)

func TestDescribeKey(t *testing.T) {
	tests := []struct {
		ev   terminal.KeyEvent
		want string
	}{
		{terminal.KeyEvent{Pressed: true, Key: terminal.KeyRune, Rune: 'a'}, "KEY: 'a'"},
		{terminal.KeyEvent{Pressed: true, Key: terminal.KeyRune, Rune: 'c', Modifiers: terminal.ModCtrl}, "KEY: ctrl+'c'"},
		{terminal.KeyEvent{Pressed: true, Key: terminal.KeyRune, Rune: 'ж'}, "KEY: U+0436"},
		{terminal.KeyEvent{Pressed: true, Key: terminal.KeyF5, Modifiers: terminal.ModShift}, "KEY: shift+f5"},
	}
	for _, tt := range tests {
		if got := describeKey(tt.ev); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestDescribeMouse(t *testing.T) {
	ev := terminal.MouseEvent{X: 3, Y: 4, Action: terminal.MouseScrolled, Scroll: -1, Modifiers: terminal.ModAlt}
	if got, want := describeMouse(ev), "MOUSE: none scrolled @ (3,4) scroll -1 alt"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestInspectorDrag(t *testing.T) {
	in := &inspector{obj: render.Pt(5, 5), placed: true}

	in.mouse(terminal.MouseEvent{X: 1, Y: 1, Buttons: terminal.ButtonLeft, Action: terminal.MousePressed})
	if in.dragging {
		t.Fatal("Expected no drag when pressing away from the marker")
	}

	in.mouse(terminal.MouseEvent{X: 7, Y: 5, Buttons: terminal.ButtonLeft, Action: terminal.MousePressed})
	in.mouse(terminal.MouseEvent{X: 10, Y: 2, Buttons: terminal.ButtonLeft, Action: terminal.MouseMoved})
	if !in.dragging || in.obj != render.Pt(10, 2) {
		t.Errorf("Expected marker dragged to (10,2), got %v dragging=%v", in.obj, in.dragging)
	}

	in.mouse(terminal.MouseEvent{X: 10, Y: 2, Action: terminal.MouseReleased})
	in.mouse(terminal.MouseEvent{X: 0, Y: 0, Action: terminal.MouseMoved})
	if in.dragging || in.obj != render.Pt(10, 2) {
		t.Errorf("Expected marker to stay after release, got %v", in.obj)
	}

	// press, press, release logged; motion is not
	if len(in.events) != 3 {
		t.Errorf("Expected 3 logged events, got %d", len(in.events))
	}
}

func TestInspectorLogBounded(t *testing.T) {
	in := &inspector{}
	stops := 0
	for i := 0; i < maxLog+5; i++ {
		in.key(terminal.KeyEvent{Pressed: true, Key: terminal.KeyRune, Rune: rune('a' + i)}, func() { stops++ })
	}
	if len(in.events) != maxLog {
		t.Fatalf("Expected %d events, got %d", maxLog, len(in.events))
	}
	if want := fmt.Sprintf("KEY: '%c'", 'a'+maxLog+4); in.events[maxLog-1] != want {
		t.Errorf("Expected newest %q last, got %q", want, in.events[maxLog-1])
	}

	in.key(terminal.KeyEvent{Pressed: true, Key: terminal.KeyRune, Rune: 'q', Modifiers: terminal.ModCtrl}, func() { stops++ })
	if stops != 1 {
		t.Errorf("Expected ctrl+q to stop once, got %d", stops)
	}
}
