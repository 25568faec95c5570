package terminal

import (
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt // posted by Device.Interrupt to unblock PollEvent
	EventError
	EventClosed
)

// KeyEvent is a normalized keyboard event
type KeyEvent struct {
	Pressed   bool
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// MouseEvent is a normalized mouse event with absolute cell position
type MouseEvent struct {
	X, Y      int
	Buttons   MouseButton
	Action    MouseAction
	Scroll    int // +1 wheel up, -1 wheel down, 0 otherwise
	Modifiers Modifier
}

// Event is one input or host notification delivered by Device.PollEvent
type Event struct {
	Type   EventType
	Key    KeyEvent
	Mouse  MouseEvent
	Width  int // EventResize
	Height int // EventResize
	Err    error
}

func keyEvent(k Key, r rune, mod Modifier) Event {
	return Event{Type: EventKey, Key: KeyEvent{Pressed: true, Key: k, Rune: r, Modifiers: mod}}
}

// keyParser converts raw terminal bytes into key events
type keyParser struct{}

// parse decodes as many complete events from data as possible and returns
// the consumed byte count; an incomplete trailing sequence is left unconsumed
func (p keyParser) parse(data []byte, emit func(Event)) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		switch {
		case b >= 0x20 && b < 0x7f:
			emit(keyEvent(KeyRune, rune(b), ModNone))
			i++

		case b == 0x1b:
			if i+1 >= n {
				return i
			}
			consumed, ev := p.parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			if ev.Key.Key != KeyNone {
				emit(ev)
			}
			i += consumed

		case b < 0x20:
			emit(p.parseControl(b))
			i++

		case b == 0x7f:
			emit(keyEvent(KeyBackspace, 0, ModNone))
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			r, size := utf8.DecodeRune(data[i:])
			if r != utf8.RuneError {
				emit(keyEvent(KeyRune, r, ModNone))
			}
			i += size
		}
	}
	return i
}

// parseEscape returns 0 consumed on an incomplete sequence
func (p keyParser) parseEscape(data []byte) (int, Event) {
	switch c := data[1]; {
	case c == 0x1b:
		return 2, keyEvent(KeyEscape, 0, ModAlt)
	case c == '[':
		return p.parseCSI(data)
	case c == 'O':
		if len(data) < 3 {
			return 0, Event{}
		}
		if k, ok := ss3Keys[data[2]]; ok {
			return 3, keyEvent(k, 0, ModNone)
		}
		return 3, Event{}
	case c < 0x20:
		ev := p.parseControl(c)
		ev.Key.Modifiers |= ModAlt
		return 2, ev
	case c < 0x7f:
		return 2, keyEvent(KeyRune, rune(c), ModAlt)
	}
	return 1, keyEvent(KeyEscape, 0, ModNone)
}

// parseCSI decodes ESC [ params final, reading the modifier parameter
// through the xterm decode table
func (p keyParser) parseCSI(data []byte) (int, Event) {
	const maxLen = 16

	end := 2
	for ; end < len(data) && end < maxLen; end++ {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			break
		}
		if b < 0x20 || b > 0x7e {
			return end, Event{}
		}
	}
	if end >= maxLen {
		return end, Event{}
	}
	if end >= len(data) {
		return 0, Event{}
	}
	final := data[end]
	params := parseParams(data[2:end])
	consumed := end + 1

	mod := ModNone
	if len(params) >= 2 {
		mod = DecodeXtermModifier(params[1])
	}

	if final == '~' {
		if len(params) == 0 {
			return consumed, Event{}
		}
		if k, ok := csiTildeKeys[params[0]]; ok {
			return consumed, keyEvent(k, 0, mod)
		}
		return consumed, Event{}
	}

	if k, ok := csiFinalKeys[final]; ok {
		if k == KeyBacktab {
			mod |= ModShift
		}
		return consumed, keyEvent(k, 0, mod)
	}
	return consumed, Event{}
}

// parseParams splits "1;5" into integers; non-digit bytes (private markers) are skipped
func parseParams(b []byte) []int {
	if len(b) == 0 {
		return nil
	}
	params := make([]int, 0, 2)
	cur, seen := 0, false
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			cur = cur*10 + int(c-'0')
			seen = true
		case c == ';':
			params = append(params, cur)
			cur, seen = 0, false
		}
	}
	if seen || len(params) > 0 {
		params = append(params, cur)
	}
	return params
}

// parseControl maps C0 control bytes; Ctrl+letter is reported as the letter with ModCtrl
func (p keyParser) parseControl(b byte) Event {
	switch b {
	case 0x00:
		return keyEvent(KeyRune, ' ', ModCtrl)
	case 0x08:
		return keyEvent(KeyBackspace, 0, ModNone)
	case 0x09:
		return keyEvent(KeyTab, 0, ModNone)
	case 0x0a, 0x0d:
		return keyEvent(KeyEnter, 0, ModNone)
	case 0x1b:
		return keyEvent(KeyEscape, 0, ModNone)
	}
	if b >= 0x01 && b <= 0x1a {
		return keyEvent(KeyRune, rune('a'+b-1), ModCtrl)
	}
	// 0x1c-0x1f: Ctrl+\ ] ^ _
	return keyEvent(KeyRune, rune(b+0x40), ModCtrl)
}
