package engine

import (
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
)

// Hooks is the application side of a Loop. Update and Draw run on their own
// cadences, Key and Mouse on the input cadence; the four may run concurrently.
type Hooks interface {
	Update()
	// Draw issues drawing calls on ctx and is expected to end with ctx.Render
	Draw(ctx *render.Context)
	Key(ev terminal.KeyEvent)
	Mouse(ev terminal.MouseEvent)
}

// HookFuncs adapts plain functions to Hooks; nil fields are skipped
type HookFuncs struct {
	OnUpdate func()
	OnDraw   func(ctx *render.Context)
	OnKey    func(ev terminal.KeyEvent)
	OnMouse  func(ev terminal.MouseEvent)
}

func (h HookFuncs) Update() {
	if h.OnUpdate != nil {
		h.OnUpdate()
	}
}

func (h HookFuncs) Draw(ctx *render.Context) {
	if h.OnDraw != nil {
		h.OnDraw(ctx)
	}
}

func (h HookFuncs) Key(ev terminal.KeyEvent) {
	if h.OnKey != nil {
		h.OnKey(ev)
	}
}

func (h HookFuncs) Mouse(ev terminal.MouseEvent) {
	if h.OnMouse != nil {
		h.OnMouse(ev)
	}
}
