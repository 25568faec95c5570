package render

// Point is a cell coordinate, origin top-left, y growing downward.
// Points may be negative or beyond the grid; writes clip silently.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add offsets p by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// In reports whether p lies inside the rectangle spanned by two corners, edges included
func (p Point) In(c1, c2 Point) bool {
	lo, hi := normalize(c1, c2)
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// HorizontalDistance is |a.X - b.X|
func HorizontalDistance(a, b Point) int {
	return abs(a.X - b.X)
}

// VerticalDistance is |a.Y - b.Y|
func VerticalDistance(a, b Point) int {
	return abs(a.Y - b.Y)
}

// Path returns the cells a line from a to b covers, ordered from a to b
func Path(a, b Point) []Point {
	var pts []Point
	bresenham(a, b, func(p Point) {
		pts = append(pts, p)
	})
	if len(pts) > 0 && pts[0] != a {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts
}

// normalize returns the top-left and bottom-right corners of the rectangle
func normalize(c1, c2 Point) (Point, Point) {
	if c1.X > c2.X {
		c1.X, c2.X = c2.X, c1.X
	}
	if c1.Y > c2.Y {
		c1.Y, c2.Y = c2.Y, c1.Y
	}
	return c1, c2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// HAlign is the horizontal reference of an anchor
type HAlign uint8

const (
	Left HAlign = iota
	Center
	Right
)

// VAlign is the vertical reference of an anchor
type VAlign uint8

const (
	Top VAlign = iota
	Middle
	Bottom
)

// Anchor declares how coordinates are translated before writing.
// The zero value is Left/Top.
type Anchor struct {
	H HAlign
	V VAlign
}

// DefaultAnchor is Left/Top
var DefaultAnchor = Anchor{H: Left, V: Top}

// margins returns the column and row offsets for a text of textLen cells
func (a Anchor) margins(width, height, textLen int) (int, int) {
	mx, my := 0, 0
	switch a.H {
	case Center:
		mx = width/2 - textLen/2
	case Right:
		mx = width - textLen
	}
	switch a.V {
	case Middle:
		my = height / 2
	case Bottom:
		my = height - 1
	}
	return mx, my
}
