package main

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/status"
	"github.com/lixenwraith/cellframe/terminal"
)

// swatch pairs a brush color with the darker cursor shown while it is selected
type swatch struct {
	brush, cursor terminal.Color
}

var swatches = map[rune]swatch{
	'1': {terminal.Red, terminal.DarkRed},
	'2': {terminal.Yellow, terminal.DarkYellow},
	'3': {terminal.Green, terminal.DarkGreen},
	'4': {terminal.Blue, terminal.DarkBlue},
	'5': {terminal.Magenta, terminal.DarkMagenta},
}

type menuItem struct {
	label string
	x     int
}

var menu = []menuItem{
	{" File ", 1},
	{" Edit ", 8},
	{" Help ", 15},
}

var barColors = terminal.Colors{Fg: terminal.Black, Bg: terminal.Gray}

// ringer is the part of audio.Bell the painter uses
type ringer interface {
	Ring()
}

// painter is a mouse paint program: left button draws, right erases,
// middle clears, both left and right abandon the current stroke
type painter struct {
	mu sync.Mutex

	pixels    map[render.Point]terminal.Color
	stroke    []render.Point
	discard   bool
	swatch    swatch
	cursor    terminal.Color
	pressed   bool
	mouse     render.Point
	showStats bool
	flash     bool

	bell  ringer
	stop  func()
	reg   *status.Registry
	rates func() (tick, frame float64)
}

func newPainter(bell ringer) *painter {
	sw := swatches['3']
	return &painter{
		pixels:    make(map[render.Point]terminal.Color),
		swatch:    sw,
		cursor:    sw.cursor,
		showStats: true,
		bell:      bell,
		stop:      func() {},
		reg:       status.NewRegistry(),
		rates:     func() (float64, float64) { return 0, 0 },
	}
}

// attach connects the painter to the loop driving it
func (p *painter) attach(l *engine.Loop) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop = l.Stop
	p.reg = l.Registry()
	p.rates = func() (float64, float64) { return l.TickRate(), l.FrameRate() }
}

func (p *painter) Update() {
	p.mu.Lock()
	n := len(p.pixels)
	s := len(p.stroke)
	p.mu.Unlock()

	p.reg.Ints.Get("paint.pixels").Store(int64(n))
	p.reg.Ints.Get("paint.stroke").Store(int64(s))
}

func (p *painter) Key(ev terminal.KeyEvent) {
	if !ev.Pressed {
		return
	}
	if ev.Key == terminal.KeyEscape {
		p.stop()
		return
	}
	if ev.Key != terminal.KeyRune {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.Rune == 'q' {
		p.showStats = !p.showStats
		return
	}
	if sw, ok := swatches[ev.Rune]; ok {
		p.swatch = sw
		p.cursor = sw.cursor
	}
}

func (p *painter) Mouse(ev terminal.MouseEvent) {
	pos := render.Pt(ev.X, ev.Y)

	p.mu.Lock()
	p.mouse = pos
	switch ev.Action {
	case terminal.MousePressed, terminal.MouseDoublePressed:
		p.pressed = true
	case terminal.MouseReleased:
		p.pressed = false
	}

	ring := false
	switch ev.Buttons {
	case terminal.ButtonNone:
		p.cursor = p.swatch.cursor
		p.commitLocked()
	case terminal.ButtonLeft:
		p.cursor = terminal.Cyan
		p.extendLocked(pos)
	case terminal.ButtonRight:
		p.cursor = terminal.DarkCyan
		delete(p.pixels, pos)
	case terminal.ButtonMiddle:
		p.cursor = terminal.Gray
		if len(p.pixels) > 0 {
			clear(p.pixels)
			p.flash = true
			ring = true
		}
	case terminal.ButtonLeftRight:
		p.stroke = p.stroke[:0]
		p.discard = true
	}
	p.mu.Unlock()

	if ring {
		p.bell.Ring()
	}
}

// extendLocked appends pos to the stroke, filling the gap a fast drag leaves
func (p *painter) extendLocked(pos render.Point) {
	if n := len(p.stroke); n > 0 {
		last := p.stroke[n-1]
		if last == pos {
			return
		}
		if render.HorizontalDistance(last, pos) > 1 || render.VerticalDistance(last, pos) > 1 {
			p.stroke = append(p.stroke, render.Path(last, pos)[1:]...)
			return
		}
	}
	p.stroke = append(p.stroke, pos)
}

func (p *painter) commitLocked() {
	if !p.discard {
		for _, pt := range p.stroke {
			p.pixels[pt] = p.swatch.brush
		}
	}
	p.discard = false
	p.stroke = p.stroke[:0]
}

func (p *painter) Draw(rc *render.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.flash {
		rc.SetDefaultColors(terminal.Colors{Fg: terminal.ColorDefault, Bg: terminal.Gray})
		p.flash = false
	} else {
		rc.ResetDefaultColors()
	}

	tick, frame := p.rates()
	rc.Batch(func(cv *render.Canvas) {
		cv.Clear()

		for pt, c := range p.pixels {
			cv.Add(" ", pt, terminal.Colors{Fg: terminal.ColorDefault, Bg: c})
		}
		brush := terminal.Colors{Fg: terminal.ColorDefault, Bg: p.swatch.brush}
		for _, pt := range p.stroke {
			cv.Add(" ", pt, brush)
		}

		p.drawMenu(cv)
		if p.showStats {
			p.drawStats(cv, tick, frame)
		}
		p.drawHelp(cv)

		cv.Add(" ", p.mouse, terminal.Colors{Fg: terminal.ColorDefault, Bg: p.cursor})
	})
	rc.Render()
}

func (p *painter) drawMenu(cv *render.Canvas) {
	cv.AddRectangle(" ", barColors, render.Pt(0, 0), render.Pt(cv.Width()-1, 0))
	for _, item := range menu {
		at := render.Pt(item.x, 0)
		colors := barColors
		if p.mouse.In(at, render.Pt(item.x+len(item.label)-1, 0)) {
			colors = terminal.Colors{Fg: terminal.White, Bg: terminal.DarkGray}
			if p.pressed {
				colors.Fg = terminal.Black
			}
		}
		cv.Add(item.label, at, colors)
	}

	cv.SetAnchor(render.Anchor{H: render.Right, V: render.Top})
	cv.Add(fmt.Sprintf(" %d %d ", p.mouse.X, p.mouse.Y), render.Pt(0, 0), barColors)
	cv.SetAnchor(render.DefaultAnchor)
}

func (p *painter) drawStats(cv *render.Canvas, tick, frame float64) {
	dim := terminal.Colors{Fg: terminal.DarkGray, Bg: terminal.ColorDefault}
	y := 2
	cv.Print(fmt.Sprintf("tick rate ....: %.1f", tick), render.Pt(1, y))
	cv.Print(fmt.Sprintf("frame rate ...: %.1f", frame), render.Pt(1, y+1))
	y += 2
	for _, e := range p.reg.Snapshot() {
		cv.Add(fmt.Sprintf("%-14s %s", e.Name, e.Value), render.Pt(1, y), dim)
		y++
	}
}

func (p *painter) drawHelp(cv *render.Canvas) {
	cv.SetAnchor(render.Anchor{H: render.Left, V: render.Bottom})
	cv.Print(" colors:   (1)   (2)   (3)   (4)   (5)  stats: q  quit: esc ", render.Pt(0, 0))
	for i, r := range "12345" {
		cv.Add(" ", render.Pt(9+6*i, 0), terminal.Colors{Fg: terminal.ColorDefault, Bg: swatches[r].brush})
	}
	cv.SetAnchor(render.DefaultAnchor)
}
