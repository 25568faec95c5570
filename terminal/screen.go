package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Screen is a Device backed by a tcell screen; it delivers keys and mouse
type Screen struct {
	screen tcell.Screen

	mu     sync.Mutex
	cx, cy int
	style  tcell.Style

	mouse    mouseDecoder
	finiOnce sync.Once
}

// NewScreen creates a Screen on the controlling terminal
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewScreenFrom(s), nil
}

// NewScreenFrom wraps an existing tcell screen, e.g. a simulation screen
func NewScreenFrom(s tcell.Screen) *Screen {
	return &Screen{screen: s, style: tcell.StyleDefault}
}

func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	s.screen.EnableMouse()
	s.screen.HideCursor()
	s.screen.Clear()
	return nil
}

func (s *Screen) Fini() {
	s.finiOnce.Do(s.screen.Fini)
}

func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// AutoWraps is false: tcell never scrolls on the bottom-right cell
func (s *Screen) AutoWraps() bool {
	return false
}

func (s *Screen) Clear(c Colors) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.style = tcellStyle(c)
	s.screen.SetStyle(s.style)
	s.screen.Clear()
	s.cx, s.cy = 0, 0
}

func (s *Screen) SetCursor(x, y int) {
	s.mu.Lock()
	s.cx, s.cy = x, y
	s.mu.Unlock()
}

func (s *Screen) SetColors(c Colors) {
	s.mu.Lock()
	s.style = tcellStyle(c)
	s.mu.Unlock()
}

func (s *Screen) WriteString(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range text {
		s.screen.SetContent(s.cx, s.cy, r, nil, s.style)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		s.cx += w
	}
}

func (s *Screen) Flush() {
	s.screen.Show()
}

func (s *Screen) SetTitle(title string) {
	s.screen.SetTitle(title)
}

func (s *Screen) Bell() {
	s.screen.Beep()
}

func (s *Screen) NativeInput() bool {
	return true
}

func (s *Screen) Interrupt() {
	s.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// PollEvent translates the next tcell event; unhandled kinds are skipped
func (s *Screen) PollEvent() Event {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return Event{Type: EventClosed}
		case *tcell.EventKey:
			return Event{Type: EventKey, Key: decodeTcellKey(ev)}
		case *tcell.EventMouse:
			x, y := ev.Position()
			return Event{Type: EventMouse, Mouse: s.mouse.decode(x, y, ev.Buttons(), ev.Modifiers(), ev.When())}
		case *tcell.EventResize:
			s.screen.Sync()
			w, h := ev.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		case *tcell.EventInterrupt:
			return Event{Type: EventInterrupt}
		case *tcell.EventError:
			return Event{Type: EventError, Err: ev}
		}
	}
}

func tcellColor(c Color) tcell.Color {
	if idx, ok := c.Palette(); ok {
		return tcell.PaletteColor(idx)
	}
	return tcell.ColorDefault
}

func tcellStyle(c Colors) tcell.Style {
	return tcell.StyleDefault.Foreground(tcellColor(c.Fg)).Background(tcellColor(c.Bg))
}

// tcellKeys maps named tcell keys; Ctrl+letter is handled separately
var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

func decodeTcellKey(ev *tcell.EventKey) KeyEvent {
	mods := DecodeModifiers(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		return KeyEvent{Pressed: true, Key: KeyRune, Rune: ev.Rune(), Modifiers: mods}
	}
	if named, ok := tcellKeys[k]; ok {
		return KeyEvent{Pressed: true, Key: named, Modifiers: mods}
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyEvent{Pressed: true, Key: KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Modifiers: mods | ModCtrl}
	}
	return KeyEvent{Pressed: true, Key: KeyNone, Modifiers: mods}
}
