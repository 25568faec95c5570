package render

import (
	"unicode/utf8"

	"github.com/lixenwraith/cellframe/terminal"
)

// bresenham walks the integer line from a to b. Steep lines swap axes, the
// walk always runs from lower to higher x, so emission order may be b to a.
func bresenham(a, b Point, emit func(Point)) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := -1
	if y0 < y1 {
		ystep = 1
	}

	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			emit(Point{X: y, Y: x})
		} else {
			emit(Point{X: x, Y: y})
		}
		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}
}

// circleOctants walks the midpoint circle and emits the eight reflections of
// each step, offset by center
func circleOctants(center Point, radius int, emit func(Point)) {
	x, y := radius, 0
	err := 1 - x
	for x >= y {
		emit(Point{X: center.X + x, Y: center.Y + y})
		emit(Point{X: center.X + y, Y: center.Y + x})
		emit(Point{X: center.X - x, Y: center.Y + y})
		emit(Point{X: center.X - y, Y: center.Y + x})
		emit(Point{X: center.X - x, Y: center.Y - y})
		emit(Point{X: center.X - y, Y: center.Y - x})
		emit(Point{X: center.X + x, Y: center.Y - y})
		emit(Point{X: center.X + y, Y: center.Y - x})
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// pattern cycles through the runes of a fill string
type pattern struct {
	runes []rune
	i     int
}

func newPattern(fill string) *pattern {
	r := []rune(fill)
	if len(r) == 0 {
		r = []rune{' '}
	}
	return &pattern{runes: r}
}

func (p *pattern) next() string {
	r := p.runes[p.i]
	p.i = (p.i + 1) % len(p.runes)
	return string(r)
}

// repeat returns n runes of the pattern, cycling from its start
func (p *pattern) repeat(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, 0, n*utf8.UTFMax)
	for i := 0; i < n; i++ {
		buf = utf8.AppendRune(buf, p.runes[i%len(p.runes)])
	}
	return string(buf)
}

// DrawLine rasterizes a line, one pattern rune per cell, cycling the pattern
func (fb *FrameBuffer) DrawLine(from, to Point, fill string, c terminal.Colors, a Anchor) {
	p := newPattern(fill)
	bresenham(from, to, func(pt Point) {
		fb.WriteText(p.next(), pt, c, a)
	})
}

// DrawCircle writes fill at every point of a midpoint circle
func (fb *FrameBuffer) DrawCircle(center Point, radius int, fill string, c terminal.Colors, a Anchor) {
	if radius < 0 {
		return
	}
	circleOctants(center, radius, func(pt Point) {
		fb.WriteText(fill, pt, c, a)
	})
}

// DrawRectangle fills every row of the normalized rectangle with the pattern
func (fb *FrameBuffer) DrawRectangle(fill string, c terminal.Colors, c1, c2 Point, a Anchor) {
	lo, hi := normalize(c1, c2)
	run := newPattern(fill).repeat(hi.X - lo.X + 1)
	for y := lo.Y; y <= hi.Y; y++ {
		fb.WriteText(run, Point{X: lo.X, Y: y}, c, a)
	}
}

// DrawRectangleBorder draws the four edges, then the four corners over them
func (fb *FrameBuffer) DrawRectangleBorder(b Border, c terminal.Colors, c1, c2 Point, a Anchor) {
	tl, br := normalize(c1, c2)
	tr := Point{X: br.X, Y: tl.Y}
	bl := Point{X: tl.X, Y: br.Y}

	fb.DrawLine(tl, tr, b.Top, c, a)
	fb.DrawLine(tr, br, b.Right, c, a)
	fb.DrawLine(bl, br, b.Bottom, c, a)
	fb.DrawLine(tl, bl, b.Left, c, a)

	fb.WriteText(b.TopLeft, tl, c, a)
	fb.WriteText(b.TopRight, tr, c, a)
	fb.WriteText(b.BottomRight, br, c, a)
	fb.WriteText(b.BottomLeft, bl, c, a)
}

// Border holds the glyphs of a rectangle outline
type Border struct {
	Top, Right, Bottom, Left string
	TopLeft, TopRight        string
	BottomRight, BottomLeft  string
}

// DefaultBorder is a double top edge over single sides and bottom
var DefaultBorder = Border{
	Top:         "═",
	Right:       "│",
	Bottom:      "─",
	Left:        "│",
	TopLeft:     "╒",
	TopRight:    "╕",
	BottomRight: "┘",
	BottomLeft:  "└",
}
