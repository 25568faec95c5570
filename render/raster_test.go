package render

import (
	"testing"

	"github.com/lixenwraith/cellframe/terminal"
)

func TestDrawLineCyclesPattern(t *testing.T) {
	fb := NewFrameBuffer(6, 1, whiteOnBlack)
	fb.DrawLine(Pt(0, 0), Pt(4, 0), "ab", whiteOnBlack, DefaultAnchor)
	if got := fb.Row(0).String(); got != "ababa " {
		t.Errorf("Expected %q, got %q", "ababa ", got)
	}
}

func TestBresenhamEndpoints(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		n    int
	}{
		{"horizontal", Pt(0, 0), Pt(5, 0), 6},
		{"vertical", Pt(2, 7), Pt(2, 1), 7},
		{"diagonal", Pt(0, 0), Pt(4, 4), 5},
		{"steep", Pt(1, 0), Pt(3, 9), 10},
		{"shallow reversed", Pt(9, 3), Pt(0, 0), 10},
		{"single", Pt(3, 3), Pt(3, 3), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := Path(tt.a, tt.b)
			if len(pts) != tt.n {
				t.Fatalf("Expected %d points, got %d", tt.n, len(pts))
			}
			if pts[0] != tt.a || pts[len(pts)-1] != tt.b {
				t.Errorf("Expected path %v..%v, got %v..%v", tt.a, tt.b, pts[0], pts[len(pts)-1])
			}
			// Consecutive cells touch
			for i := 1; i < len(pts); i++ {
				if HorizontalDistance(pts[i], pts[i-1]) > 1 || VerticalDistance(pts[i], pts[i-1]) > 1 {
					t.Errorf("Expected adjacent cells, got %v then %v", pts[i-1], pts[i])
				}
			}
		})
	}
}

func TestBresenhamExactCells(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want []Point
	}{
		{"shallow tie", Pt(0, 0), Pt(4, 1), []Point{{0, 0}, {1, 0}, {2, 0}, {3, 1}, {4, 1}}},
		{"steep reversed", Pt(2, 5), Pt(0, 0), []Point{{2, 5}, {2, 4}, {1, 3}, {1, 2}, {0, 1}, {0, 0}}},
		{"descending", Pt(0, 2), Pt(4, 0), []Point{{0, 2}, {1, 2}, {2, 1}, {3, 1}, {4, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Path(tt.a, tt.b)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestCircleExactCells(t *testing.T) {
	offsets := []Point{
		{5, 0}, {-5, 0}, {0, 5}, {0, -5},
		{5, 1}, {5, -1}, {-5, 1}, {-5, -1}, {1, 5}, {1, -5}, {-1, 5}, {-1, -5},
		{5, 2}, {5, -2}, {-5, 2}, {-5, -2}, {2, 5}, {2, -5}, {-2, 5}, {-2, -5},
		{4, 3}, {4, -3}, {-4, 3}, {-4, -3}, {3, 4}, {3, -4}, {-3, 4}, {-3, -4},
	}
	center := Pt(10, 10)
	want := map[Point]bool{}
	for _, o := range offsets {
		want[center.Add(o)] = true
	}

	got := map[Point]bool{}
	emitted := 0
	circleOctants(center, 5, func(p Point) {
		got[p] = true
		emitted++
	})

	if emitted != 32 {
		t.Errorf("Expected 32 emitted points over 4 steps, got %d", emitted)
	}
	if len(got) != len(want) {
		t.Errorf("Expected %d distinct cells, got %d", len(want), len(got))
	}
	for p := range want {
		if !got[p] {
			t.Errorf("Expected cell %v on the circle", p)
		}
	}
	for p := range got {
		if !want[p] {
			t.Errorf("Unexpected cell %v on the circle", p)
		}
	}
}

func TestCircleOctantSymmetry(t *testing.T) {
	for _, r := range []int{0, 1, 3, 5} {
		set := map[Point]bool{}
		circleOctants(Pt(0, 0), r, func(p Point) { set[p] = true })

		for p := range set {
			mirrors := []Point{
				{X: -p.X, Y: p.Y},
				{X: p.X, Y: -p.Y},
				{X: p.Y, Y: p.X},
			}
			for _, m := range mirrors {
				if !set[m] {
					t.Errorf("Radius %d: expected mirror %v of %v", r, m, p)
				}
			}
		}
		if !set[Pt(r, 0)] || !set[Pt(0, -r)] {
			t.Errorf("Radius %d: expected axis points", r)
		}
	}
}

func TestDrawCircleNegativeRadius(t *testing.T) {
	fb := NewFrameBuffer(5, 5, whiteOnBlack)
	fb.DrawCircle(Pt(2, 2), -1, "o", whiteOnBlack, DefaultAnchor)
	for y := 0; y < 5; y++ {
		if got := fb.Row(y).String(); got != "     " {
			t.Errorf("Expected untouched row %d, got %q", y, got)
		}
	}
}

func TestDrawRectangle(t *testing.T) {
	fb := NewFrameBuffer(5, 4, whiteOnBlack)
	fb.DrawRectangle("xy", whiteOnBlack, Pt(3, 2), Pt(1, 1), DefaultAnchor)

	want := []string{"     ", " xyx ", " xyx ", "     "}
	for y, w := range want {
		if got := fb.Row(y).String(); got != w {
			t.Errorf("Row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestDrawRectangleBorderCorners(t *testing.T) {
	fb := NewFrameBuffer(6, 4, whiteOnBlack)
	fb.DrawRectangleBorder(DefaultBorder, whiteOnBlack, Pt(5, 3), Pt(0, 0), DefaultAnchor)

	want := []string{"╒════╕", "│    │", "│    │", "└────┘"}
	for y, w := range want {
		if got := fb.Row(y).String(); got != w {
			t.Errorf("Row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestPointIn(t *testing.T) {
	tests := []struct {
		p      Point
		c1, c2 Point
		want   bool
	}{
		{Pt(1, 1), Pt(0, 0), Pt(2, 2), true},
		{Pt(1, 1), Pt(2, 2), Pt(0, 0), true},
		{Pt(1, 1), Pt(2, 0), Pt(0, 2), true},
		{Pt(2, 2), Pt(0, 0), Pt(2, 2), true},
		{Pt(3, 1), Pt(0, 0), Pt(2, 2), false},
		{Pt(1, -1), Pt(2, 0), Pt(0, 2), false},
	}

	for _, tt := range tests {
		if got := tt.p.In(tt.c1, tt.c2); got != tt.want {
			t.Errorf("Expected %v.In(%v, %v) = %v, got %v", tt.p, tt.c1, tt.c2, tt.want, got)
		}
	}
}

func TestPointHelpers(t *testing.T) {
	p := Pt(2, 3).Add(Pt(-5, 1))
	if p != Pt(-3, 4) {
		t.Errorf("Expected (-3,4), got %v", p)
	}
	if d := HorizontalDistance(Pt(-3, 0), Pt(4, 9)); d != 7 {
		t.Errorf("Expected horizontal distance 7, got %d", d)
	}
	if d := VerticalDistance(Pt(-3, 0), Pt(4, 9)); d != 9 {
		t.Errorf("Expected vertical distance 9, got %d", d)
	}
}

func TestWritesOutsideGridClip(t *testing.T) {
	fb := NewFrameBuffer(3, 2, whiteOnBlack)
	fb.DrawLine(Pt(-4, -1), Pt(6, 3), "#", terminal.Colors{Fg: terminal.Red, Bg: terminal.ColorDefault}, DefaultAnchor)
	fb.WriteText("zzz", Pt(0, 9), whiteOnBlack, DefaultAnchor)

	if fb.Width() != 3 || fb.Height() != 2 {
		t.Errorf("Expected grid to stay 3x2, got %dx%d", fb.Width(), fb.Height())
	}
	for y := 0; y < 2; y++ {
		if len(fb.Row(y)) != 3 {
			t.Errorf("Expected row %d to keep length 3, got %d", y, len(fb.Row(y)))
		}
	}
}
