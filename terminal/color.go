package terminal

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Color is one of the sixteen console palette colors, or ColorDefault
type Color uint8

// Palette order follows the classic console enumeration, not SGR order
const (
	Black Color = iota
	DarkBlue
	DarkGreen
	DarkCyan
	DarkRed
	DarkMagenta
	DarkYellow
	Gray
	DarkGray
	Blue
	Green
	Cyan
	Red
	Magenta
	Yellow
	White

	// ColorDefault resolves to the current default foreground or background
	// at the moment a cell is constructed
	ColorDefault
)

var colorNames = [...]string{
	Black:        "black",
	DarkBlue:     "darkblue",
	DarkGreen:    "darkgreen",
	DarkCyan:     "darkcyan",
	DarkRed:      "darkred",
	DarkMagenta:  "darkmagenta",
	DarkYellow:   "darkyellow",
	Gray:         "gray",
	DarkGray:     "darkgray",
	Blue:         "blue",
	Green:        "green",
	Cyan:         "cyan",
	Red:          "red",
	Magenta:      "magenta",
	Yellow:       "yellow",
	White:        "white",
	ColorDefault: "default",
}

// xtermIndex maps console colors to xterm 16-color palette indices
var xtermIndex = [...]uint8{
	Black:       0,
	DarkRed:     1,
	DarkGreen:   2,
	DarkYellow:  3,
	DarkBlue:    4,
	DarkMagenta: 5,
	DarkCyan:    6,
	Gray:        7,
	DarkGray:    8,
	Red:         9,
	Green:       10,
	Yellow:      11,
	Blue:        12,
	Magenta:     13,
	Cyan:        14,
	White:       15,
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// Valid reports whether c is a palette color or ColorDefault
func (c Color) Valid() bool {
	return c <= ColorDefault
}

// Palette returns the xterm 16-color index, ok is false for ColorDefault
func (c Color) Palette() (idx int, ok bool) {
	if c >= ColorDefault {
		return 0, false
	}
	return int(xtermIndex[c]), true
}

// ParseColor accepts a palette name, case and separator insensitive
func ParseColor(name string) (Color, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
	for i, s := range colorNames {
		if s == n {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

// Colors is a foreground/background pair
type Colors struct {
	Fg Color
	Bg Color
}

// DefaultColors is the pair every field of which is the ColorDefault sentinel
var DefaultColors = Colors{Fg: ColorDefault, Bg: ColorDefault}

// Resolve replaces ColorDefault components with the matching component of def
func (c Colors) Resolve(def Colors) Colors {
	if c.Fg == ColorDefault {
		c.Fg = def.Fg
	}
	if c.Bg == ColorDefault {
		c.Bg = def.Bg
	}
	return c
}

func (c Colors) String() string {
	return c.Fg.String() + "/" + c.Bg.String()
}

// HostColors guesses the host terminal's default pair from its background luminance.
// Must be called before the device enters raw mode since the query reads stdin.
func HostColors() Colors {
	if termenv.HasDarkBackground() {
		return Colors{Fg: White, Bg: Black}
	}
	return Colors{Fg: Black, Bg: White}
}
