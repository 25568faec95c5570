package render

import (
	"github.com/lixenwraith/cellframe/terminal"
)

// Row is one horizontal line of cells; its length is len(r)
type Row []Cell

// NewRow creates a row of length filled cells
func NewRow(length int, fill Cell) Row {
	if length < 0 {
		length = 0
	}
	r := make(Row, length)
	for i := range r {
		r[i] = fill
	}
	return r
}

// Resize grows the row with fill cells or truncates it from the tail
func (r *Row) Resize(length int, fill Cell) {
	if length < 0 {
		length = 0
	}
	cur := len(*r)
	switch {
	case length == cur:
		return
	case length < cur:
		*r = (*r)[:length:length]
	default:
		grown := make(Row, length)
		copy(grown, *r)
		for i := cur; i < length; i++ {
			grown[i] = fill
		}
		*r = grown
	}
}

// Write overwrites cells starting at start, one per rune, in c with any
// ColorDefault component taken from def. Runes landing outside the row are dropped.
func (r Row) Write(text string, start int, c, def terminal.Colors) {
	c = c.Resolve(def)
	i := start
	for _, g := range text {
		if i >= 0 && i < len(r) {
			r[i] = Cell{Glyph: g, Colors: c}
		}
		i++
	}
}

// Equal reports whether both rows have the same length and identical cells
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

func (r Row) clone() Row {
	c := make(Row, len(r))
	copy(c, r)
	return c
}

// String returns the row glyphs
func (r Row) String() string {
	g := make([]rune, len(r))
	for i, c := range r {
		g[i] = c.Glyph
	}
	return string(g)
}
