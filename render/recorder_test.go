package render

import (
	"github.com/lixenwraith/cellframe/terminal"
)

// recorder is an in-memory terminal that keeps the visible grid and counts calls
type recorder struct {
	width, height int
	wraps         bool

	screen  [][]Cell
	x, y    int
	colors  terminal.Colors
	clears  int
	flushes int
	writes  []write
}

type write struct {
	x, y   int
	text   string
	colors terminal.Colors
}

func newRecorder(width, height int) *recorder {
	r := &recorder{width: width, height: height}
	r.Clear(terminal.Colors{Fg: terminal.Gray, Bg: terminal.Black})
	r.clears = 0
	return r
}

func (r *recorder) Init() error      { return nil }
func (r *recorder) Fini()            {}
func (r *recorder) Size() (int, int) { return r.width, r.height }
func (r *recorder) AutoWraps() bool  { return r.wraps }

func (r *recorder) Clear(c terminal.Colors) {
	r.screen = make([][]Cell, r.height)
	for y := range r.screen {
		r.screen[y] = make([]Cell, r.width)
		for x := range r.screen[y] {
			r.screen[y][x] = Cell{Glyph: ' ', Colors: c}
		}
	}
	r.x, r.y = 0, 0
	r.clears++
}

func (r *recorder) SetCursor(x, y int)          { r.x, r.y = x, y }
func (r *recorder) SetColors(c terminal.Colors) { r.colors = c }

func (r *recorder) WriteString(s string) {
	r.writes = append(r.writes, write{x: r.x, y: r.y, text: s, colors: r.colors})
	for _, g := range s {
		if r.y >= 0 && r.y < r.height && r.x >= 0 && r.x < r.width {
			r.screen[r.y][r.x] = Cell{Glyph: g, Colors: r.colors}
		}
		r.x++
	}
}

func (r *recorder) Flush()                    { r.flushes++ }
func (r *recorder) SetTitle(string)           {}
func (r *recorder) Bell()                     {}
func (r *recorder) NativeInput() bool         { return false }
func (r *recorder) PollEvent() terminal.Event { return terminal.Event{Type: terminal.EventClosed} }
func (r *recorder) Interrupt()                {}
func (r *recorder) reset()                    { r.writes = nil }

func (r *recorder) glyphs(y int) string {
	g := make([]rune, len(r.screen[y]))
	for i, c := range r.screen[y] {
		g[i] = c.Glyph
	}
	return string(g)
}
