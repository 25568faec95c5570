package terminal

import (
	"bufio"
	"io"
)

// Pre-allocated escape fragments
var (
	csi      = []byte("\x1b[")
	csiReset = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc")

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM off keeps the cursor at the right margin instead of wrapping
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	csiDefaultFg = []byte("\x1b[39m")
	csiDefaultBg = []byte("\x1b[49m")

	bel = []byte{0x07}
)

// writeInt writes a non-negative integer without allocation
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 && i > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos writes CUP for a 0-indexed position
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeColors writes one SGR sequence selecting both colors.
// Palette 0-7 use 30-37/40-47, 8-15 use the bright 90-97/100-107 range.
func writeColors(w *bufio.Writer, c Colors) {
	if c.Fg == ColorDefault {
		w.Write(csiDefaultFg)
	} else if idx, ok := c.Fg.Palette(); ok {
		w.Write(csi)
		if idx < 8 {
			writeInt(w, 30+idx)
		} else {
			writeInt(w, 90+idx-8)
		}
		w.WriteByte('m')
	}
	if c.Bg == ColorDefault {
		w.Write(csiDefaultBg)
	} else if idx, ok := c.Bg.Palette(); ok {
		w.Write(csi)
		if idx < 8 {
			writeInt(w, 40+idx)
		} else {
			writeInt(w, 100+idx-8)
		}
		w.WriteByte('m')
	}
}

// EmergencyReset restores a sane terminal state without device bookkeeping
func EmergencyReset(w io.Writer) {
	w.Write(csiReset)
	w.Write(csiCursorShow)
	w.Write(csiAutoWrapOn)
	w.Write(csiAltScreenExit)
	w.Write(csiRIS)
}
