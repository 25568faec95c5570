package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
)

const maxLog = 10

// inspector logs decoded input and lets the user drag a marker around
type inspector struct {
	mu       sync.Mutex
	events   []string
	obj      render.Point
	placed   bool
	dragging bool
}

func (in *inspector) add(s string) {
	if len(in.events) >= maxLog {
		copy(in.events, in.events[1:])
		in.events = in.events[:maxLog-1]
	}
	in.events = append(in.events, s)
}

func (in *inspector) key(ev terminal.KeyEvent, stop func()) {
	in.mu.Lock()
	in.add(describeKey(ev))
	in.mu.Unlock()

	quit := ev.Key == terminal.KeyEscape ||
		ev.Key == terminal.KeyRune && ev.Modifiers&terminal.ModCtrl != 0 && (ev.Rune == 'c' || ev.Rune == 'q')
	if ev.Pressed && quit {
		stop()
	}
}

func (in *inspector) mouse(ev terminal.MouseEvent) {
	in.mu.Lock()
	defer in.mu.Unlock()

	pos := render.Pt(ev.X, ev.Y)
	switch ev.Action {
	case terminal.MousePressed:
		if ev.Buttons == terminal.ButtonLeft && pos.In(in.obj, in.obj.Add(render.Pt(2, 0))) {
			in.dragging = true
		}
	case terminal.MouseReleased:
		in.dragging = false
	case terminal.MouseMoved:
		if in.dragging {
			in.obj = pos
		}
		// motion floods the log
		return
	}
	in.add(describeMouse(ev))
}

func (in *inspector) draw(rc *render.Context) {
	in.mu.Lock()
	defer in.mu.Unlock()

	title := terminal.Colors{Fg: terminal.White, Bg: terminal.DarkBlue}
	text := terminal.Colors{Fg: terminal.Gray, Bg: terminal.ColorDefault}

	rc.Batch(func(cv *render.Canvas) {
		cv.Clear()
		w, h := cv.Width(), cv.Height()
		if !in.placed {
			in.obj = render.Pt(w/2, h/2)
			in.placed = true
		}

		cv.AddRectangle(" ", title, render.Pt(0, 0), render.Pt(w-1, 0))
		cv.SetAnchor(render.Anchor{H: render.Center, V: render.Top})
		cv.Add("Input Test - press keys, click, drag the [X] - Esc quits", render.Pt(0, 0), title)
		cv.SetAnchor(render.DefaultAnchor)

		cv.AddBorder(render.DefaultBorder, text, render.Pt(0, 1), render.Pt(w-1, h-2))
		for i, e := range in.events {
			if 2+i >= h-2 {
				break
			}
			cv.Add(e, render.Pt(2, 2+i), text)
		}

		marker := terminal.Colors{Fg: terminal.Green, Bg: terminal.DarkGray}
		if in.dragging {
			marker.Fg = terminal.Yellow
		}
		cv.Add("[X]", in.obj, marker)

		status := fmt.Sprintf("Size: %dx%d | Object: (%d,%d) | Dragging: %v", w, h, in.obj.X, in.obj.Y, in.dragging)
		cv.SetAnchor(render.Anchor{H: render.Left, V: render.Bottom})
		cv.Add(status, render.Pt(1, 0), text)
		cv.SetAnchor(render.DefaultAnchor)
	})
	rc.Render()
}

func describeKey(ev terminal.KeyEvent) string {
	name := ev.Key.String()
	if ev.Key == terminal.KeyRune {
		if ev.Rune >= 0x20 && ev.Rune < 0x7f {
			name = fmt.Sprintf("'%c'", ev.Rune)
		} else {
			name = fmt.Sprintf("U+%04X", ev.Rune)
		}
	}
	mods := ""
	if ev.Modifiers != terminal.ModNone {
		mods = ev.Modifiers.String() + "+"
	}
	return fmt.Sprintf("KEY: %s%s", mods, name)
}

func describeMouse(ev terminal.MouseEvent) string {
	s := fmt.Sprintf("MOUSE: %s %s @ (%d,%d)", ev.Buttons, ev.Action, ev.X, ev.Y)
	if ev.Scroll != 0 {
		s += fmt.Sprintf(" scroll %+d", ev.Scroll)
	}
	if ev.Modifiers != terminal.ModNone {
		s += " " + ev.Modifiers.String()
	}
	return s
}

func run(ctx context.Context, native bool) error {
	log.SetOutput(io.Discard)

	var dev terminal.Device = terminal.NewANSI()
	if native {
		s, err := terminal.NewScreen()
		if err != nil {
			return fmt.Errorf("create terminal: %w", err)
		}
		dev = s
	}

	in := &inspector{}
	rc := render.NewContext(dev, terminal.HostColors(), render.Options{Fast: true})

	var loop *engine.Loop
	hooks := engine.HookFuncs{
		OnDraw:  in.draw,
		OnKey:   func(ev terminal.KeyEvent) { in.key(ev, loop.Stop) },
		OnMouse: in.mouse,
	}
	loop = engine.New(dev, rc, hooks, engine.WithContext(ctx), engine.WithTitle("input test"))
	return loop.Run()
}

func main() {
	defer func() { core.HandleCrash(recover()) }()

	var native bool
	cmd := &cobra.Command{
		Use:          "input-test",
		Short:        "Show decoded key and mouse events",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), native)
		},
	}
	cmd.Flags().BoolVar(&native, "native-input", true, "use the native event source with mouse support")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
