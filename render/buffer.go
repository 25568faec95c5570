package render

import (
	"strings"
	"unicode/utf8"

	"github.com/lixenwraith/cellframe/terminal"
)

// Options selects the repaint policy of FrameBuffer.Render
type Options struct {
	// Fast skips rows identical to the last rendered frame
	Fast bool
	// ShowLineUpdates paints changed rows on DarkRed; ignored when Fast is set
	ShowLineUpdates bool
}

// highlightBg marks repainted rows when ShowLineUpdates is active
const highlightBg = terminal.DarkRed

// FrameBuffer is a grid of equal-length rows plus a snapshot of the last
// rendered grid. It is not safe for concurrent use; Context serializes access.
type FrameBuffer struct {
	width  int
	height int
	rows   []Row
	blank  Cell

	snapshot   []Row // nil before the first render
	lastWidth  int
	lastHeight int
	lastViewW  int
	lastViewH  int
	drawCalls  int
}

// NewFrameBuffer allocates a width x height grid of blank cells
func NewFrameBuffer(width, height int, defaults terminal.Colors) *FrameBuffer {
	fb := &FrameBuffer{blank: Blank(defaults)}
	fb.width, fb.height = clampDim(width), clampDim(height)
	fb.rows = fb.allocate()
	return fb
}

func clampDim(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func (fb *FrameBuffer) allocate() []Row {
	rows := make([]Row, fb.height)
	for y := range rows {
		rows[y] = NewRow(fb.width, fb.blank)
	}
	return rows
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

// Defaults returns the colors ColorDefault currently resolves to
func (fb *FrameBuffer) Defaults() terminal.Colors {
	return fb.blank.Colors
}

// SetDefaults changes the default colors for cells constructed from now on.
// Existing cells keep their colors.
func (fb *FrameBuffer) SetDefaults(c terminal.Colors) {
	fb.blank = Blank(c.Resolve(fb.blank.Colors))
}

// Cell returns the cell at x, y; ok is false outside the grid
func (fb *FrameBuffer) Cell(x, y int) (Cell, bool) {
	if y < 0 || y >= fb.height || x < 0 || x >= fb.width {
		return Cell{}, false
	}
	return fb.rows[y][x], true
}

// Row returns a copy of row y, nil outside the grid
func (fb *FrameBuffer) Row(y int) Row {
	if y < 0 || y >= fb.height {
		return nil
	}
	return fb.rows[y].clone()
}

// DrawCalls returns the draw-call count of the last render
func (fb *FrameBuffer) DrawCalls() int {
	return fb.drawCalls
}

// Resize appends or truncates rows and resizes every kept row to width.
// Content inside both the old and new bounds is preserved.
func (fb *FrameBuffer) Resize(width, height int) {
	width, height = clampDim(width), clampDim(height)
	if width == fb.width && height == fb.height {
		return
	}

	if height < len(fb.rows) {
		fb.rows = fb.rows[:height:height]
	}
	for y := range fb.rows {
		fb.rows[y].Resize(width, fb.blank)
	}
	for len(fb.rows) < height {
		fb.rows = append(fb.rows, NewRow(width, fb.blank))
	}

	fb.width, fb.height = width, height
}

// Reset reallocates the grid at the current size; the snapshot is kept so
// the next render still diffs against what the terminal shows
func (fb *FrameBuffer) Reset() {
	fb.rows = fb.allocate()
}

// WriteText places text at an anchor-relative coordinate. Rows outside the
// grid are skipped; columns outside the row are clipped by Row.Write.
func (fb *FrameBuffer) WriteText(text string, at Point, c terminal.Colors, a Anchor) {
	mx, my := a.margins(fb.width, fb.height, utf8.RuneCountInString(text))
	y := my + at.Y
	if y < 0 || y >= fb.height {
		return
	}
	fb.rows[y].Write(text, mx+at.X, c, fb.blank.Colors)
}

// Render repaints dev from the grid and returns the number of draw calls.
// Unchanged rows are skipped in fast mode; a change of grid or viewport
// size since the last render forces a full clear and redraw.
func (fb *FrameBuffer) Render(dev terminal.Device, opts Options) int {
	fb.drawCalls = 0
	if fb.height == 0 {
		return 0
	}

	vw, vh := dev.Size()
	full := fb.lastWidth != fb.width || fb.lastHeight != fb.height ||
		fb.lastViewW != vw || fb.lastViewH != vh

	if full {
		dev.Clear(fb.blank.Colors)
	}

	var run strings.Builder
	rows := min(fb.height, vh)
	for y := 0; y < rows; y++ {
		row := fb.rows[y]

		limit := vw
		if dev.AutoWraps() && y == vh-1 {
			limit = vw - 1
		}
		n := max(min(len(row), limit), 0)

		unchanged := !full && y < len(fb.snapshot) && row.Equal(fb.snapshot[y])
		if unchanged && opts.Fast {
			continue
		}

		dev.SetCursor(0, y)
		fb.drawCalls += emitRuns(dev, row[:n], !opts.Fast && opts.ShowLineUpdates && !unchanged, &run)
	}
	dev.Flush()

	fb.lastWidth, fb.lastHeight = fb.width, fb.height
	fb.lastViewW, fb.lastViewH = vw, vh

	fb.snapshot = make([]Row, len(fb.rows))
	for y, r := range fb.rows {
		fb.snapshot[y] = r.clone()
	}
	return fb.drawCalls
}

// emitRuns writes cells as same-color runs and returns the run count.
// A space whose background matches the running background joins the run.
func emitRuns(dev terminal.Device, cells Row, highlight bool, run *strings.Builder) int {
	if len(cells) == 0 {
		return 0
	}

	calls := 0
	cur := cells[0].Colors
	flush := func() {
		c := cur
		if highlight {
			c.Bg = highlightBg
		}
		dev.SetColors(c)
		dev.WriteString(run.String())
		run.Reset()
		calls++
	}

	for _, cell := range cells {
		g := cell.Glyph
		// Invisible glyph: keep the cell, drop the ink
		if cell.Colors.Fg == cell.Colors.Bg {
			g = ' '
		}
		if cell.Colors != cur && !(g == ' ' && cell.Colors.Bg == cur.Bg) {
			flush()
			cur = cell.Colors
		}
		run.WriteRune(g)
	}
	flush()
	return calls
}
