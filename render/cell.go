package render

import (
	"github.com/lixenwraith/cellframe/terminal"
)

// Cell is one glyph with concrete colors; ColorDefault never survives construction
type Cell struct {
	Glyph  rune
	Colors terminal.Colors
}

// NewCell resolves ColorDefault components against def at construction time
func NewCell(glyph rune, c terminal.Colors, def terminal.Colors) Cell {
	return Cell{Glyph: glyph, Colors: c.Resolve(def)}
}

// Blank returns the default cell for the given default colors
func Blank(def terminal.Colors) Cell {
	return Cell{Glyph: ' ', Colors: def}
}
