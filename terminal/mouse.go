package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// MouseButton is the set of pressed buttons as reported by a mouse event
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonLeftRight
	ButtonMiddle

	// ButtonUnknown marks a button pattern the decode table does not cover
	ButtonUnknown
)

func (b MouseButton) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonLeftRight:
		return "left+right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// MouseAction is the kind of a mouse event
type MouseAction uint8

const (
	MouseReleased MouseAction = iota // no button transition to report
	MousePressed
	MouseDoublePressed
	MouseMoved // motion, with or without held buttons
	MouseScrolled
)

func (a MouseAction) String() string {
	switch a {
	case MouseReleased:
		return "released"
	case MousePressed:
		return "pressed"
	case MouseDoublePressed:
		return "double_pressed"
	case MouseMoved:
		return "moved"
	case MouseScrolled:
		return "scrolled"
	default:
		return "unknown"
	}
}

// tcellButtons decodes tcell button masks after wheel bits are stripped
var tcellButtons = map[tcell.ButtonMask]MouseButton{
	tcell.ButtonNone:              ButtonNone,
	tcell.Button1:                 ButtonLeft,
	tcell.Button2:                 ButtonRight,
	tcell.Button1 | tcell.Button2: ButtonLeftRight,
	tcell.Button3:                 ButtonMiddle,
}

const wheelMask = tcell.WheelUp | tcell.WheelDown | tcell.WheelLeft | tcell.WheelRight

// DecodeButtons maps a tcell button mask to a MouseButton and a signed scroll
// magnitude (+1 wheel up, -1 wheel down)
func DecodeButtons(mask tcell.ButtonMask) (MouseButton, int) {
	scroll := 0
	switch {
	case mask&tcell.WheelUp != 0:
		scroll = 1
	case mask&tcell.WheelDown != 0:
		scroll = -1
	}
	if b, ok := tcellButtons[mask&^wheelMask]; ok {
		return b, scroll
	}
	return ButtonUnknown, scroll
}

// tcellModifiers decodes tcell modifier masks; meta combinations are unknown
var tcellModifiers = map[tcell.ModMask]Modifier{
	tcell.ModNone:                                ModNone,
	tcell.ModShift:                               ModShift,
	tcell.ModAlt:                                 ModAlt,
	tcell.ModCtrl:                                ModCtrl,
	tcell.ModShift | tcell.ModAlt:                ModShift | ModAlt,
	tcell.ModShift | tcell.ModCtrl:               ModShift | ModCtrl,
	tcell.ModAlt | tcell.ModCtrl:                 ModAlt | ModCtrl,
	tcell.ModShift | tcell.ModAlt | tcell.ModCtrl: ModShift | ModAlt | ModCtrl,
}

// DecodeModifiers maps a tcell modifier mask to a Modifier set
func DecodeModifiers(mask tcell.ModMask) Modifier {
	if m, ok := tcellModifiers[mask]; ok {
		return m
	}
	return ModUnknown
}

// doubleClickWindow is the longest gap between two presses counted as a double press
const doubleClickWindow = 500 * time.Millisecond

// mouseDecoder turns button-state snapshots into press/release/move transitions
type mouseDecoder struct {
	buttons   MouseButton
	lastPress time.Time
	lastX     int
	lastY     int
}

func (d *mouseDecoder) decode(x, y int, mask tcell.ButtonMask, mods tcell.ModMask, when time.Time) MouseEvent {
	buttons, scroll := DecodeButtons(mask)
	ev := MouseEvent{
		X:         x,
		Y:         y,
		Buttons:   buttons,
		Scroll:    scroll,
		Modifiers: DecodeModifiers(mods),
	}

	switch {
	case scroll != 0:
		ev.Action = MouseScrolled
	case buttons == ButtonNone && d.buttons != ButtonNone:
		ev.Action = MouseReleased
	case buttons != ButtonNone && buttons != d.buttons:
		ev.Action = MousePressed
		if buttons == ButtonLeft && x == d.lastX && y == d.lastY && when.Sub(d.lastPress) < doubleClickWindow {
			ev.Action = MouseDoublePressed
			d.lastPress = time.Time{}
		} else {
			d.lastPress = when
		}
		d.lastX, d.lastY = x, y
	default:
		ev.Action = MouseMoved
	}

	if scroll == 0 {
		d.buttons = buttons
	}
	return ev
}
