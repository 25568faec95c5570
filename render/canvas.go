package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"github.com/lixenwraith/cellframe/terminal"
)

// Canvas is the drawing surface of a Context. Obtain one through
// Context.Batch; it must not be retained after the callback returns.
// Every operation is a no-op until the Context has a viewport size.
type Canvas struct {
	fb     *FrameBuffer
	anchor Anchor
}

// WideGlyph stands in for runes that would span two terminal columns
const WideGlyph = '?'

// cellText composes text to NFC so every remaining rune maps to exactly one
// cell: zero-width runes are dropped and double-width runes become WideGlyph
func cellText(s string) string {
	s = norm.NFC.String(s)
	if !strings.ContainsFunc(s, misfit) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch runewidth.RuneWidth(r) {
		case 0:
			return -1
		case 1:
			return r
		}
		return WideGlyph
	}, s)
}

func misfit(r rune) bool {
	return runewidth.RuneWidth(r) != 1
}

// SetAnchor applies a to subsequent operations until changed or the next render
func (c *Canvas) SetAnchor(a Anchor) {
	c.anchor = a
}

func (c *Canvas) Anchor() Anchor {
	return c.anchor
}

// Width returns the grid width, 0 before initialization
func (c *Canvas) Width() int {
	if c.fb == nil {
		return 0
	}
	return c.fb.Width()
}

// Height returns the grid height, 0 before initialization
func (c *Canvas) Height() int {
	if c.fb == nil {
		return 0
	}
	return c.fb.Height()
}

// Add writes text at an anchor-relative position
func (c *Canvas) Add(text string, at Point, colors terminal.Colors) {
	if c.fb == nil {
		return
	}
	c.fb.WriteText(cellText(text), at, colors, c.anchor)
}

// Print writes text in the default colors
func (c *Canvas) Print(text string, at Point) {
	c.Add(text, at, terminal.DefaultColors)
}

// AddLine draws a line cycling the runes of fill
func (c *Canvas) AddLine(fill string, colors terminal.Colors, from, to Point) {
	if c.fb == nil {
		return
	}
	c.fb.DrawLine(from, to, cellText(fill), colors, c.anchor)
}

// AddShape draws a polyline through start and points; with no further
// points it writes fill at start
func (c *Canvas) AddShape(fill string, colors terminal.Colors, start Point, points ...Point) {
	if c.fb == nil {
		return
	}
	fill = cellText(fill)
	if len(points) == 0 {
		c.fb.WriteText(fill, start, colors, c.anchor)
		return
	}
	last := start
	for _, p := range points {
		c.fb.DrawLine(last, p, fill, colors, c.anchor)
		last = p
	}
}

func (c *Canvas) AddCircle(fill string, colors terminal.Colors, center Point, radius int) {
	if c.fb == nil {
		return
	}
	c.fb.DrawCircle(center, radius, cellText(fill), colors, c.anchor)
}

func (c *Canvas) AddRectangle(fill string, colors terminal.Colors, c1, c2 Point) {
	if c.fb == nil {
		return
	}
	c.fb.DrawRectangle(cellText(fill), colors, c1, c2, c.anchor)
}

// AddRectangleBorder draws an outline with per-edge and per-corner glyphs
func (c *Canvas) AddRectangleBorder(top, right, bottom, left, topLeft, topRight, bottomRight, bottomLeft string, colors terminal.Colors, c1, c2 Point) {
	c.AddBorder(Border{
		Top:         top,
		Right:       right,
		Bottom:      bottom,
		Left:        left,
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomRight: bottomRight,
		BottomLeft:  bottomLeft,
	}, colors, c1, c2)
}

func (c *Canvas) AddBorder(b Border, colors terminal.Colors, c1, c2 Point) {
	if c.fb == nil {
		return
	}
	b = Border{
		Top:         cellText(b.Top),
		Right:       cellText(b.Right),
		Bottom:      cellText(b.Bottom),
		Left:        cellText(b.Left),
		TopLeft:     cellText(b.TopLeft),
		TopRight:    cellText(b.TopRight),
		BottomRight: cellText(b.BottomRight),
		BottomLeft:  cellText(b.BottomLeft),
	}
	c.fb.DrawRectangleBorder(b, colors, c1, c2, c.anchor)
}

// Clear discards all cell content; the previous-frame snapshot is kept
func (c *Canvas) Clear() {
	if c.fb == nil {
		return
	}
	c.fb.Reset()
}

// Cell returns the current cell at x, y
func (c *Canvas) Cell(x, y int) (Cell, bool) {
	if c.fb == nil {
		return Cell{}, false
	}
	return c.fb.Cell(x, y)
}
