package terminal

// Device is the host terminal as seen by the renderer and the input cadence.
// Output methods are called only from the render path, which is serialized by
// the caller; PollEvent is called only from the input cadence. Interrupt may
// be called from any goroutine.
type Device interface {
	// Init prepares the terminal (raw mode, alternate screen, hidden cursor)
	Init() error
	// Fini restores the terminal; safe to call more than once
	Fini()

	// Size returns the current viewport in cells
	Size() (width, height int)
	// AutoWraps reports whether writing the bottom-right cell scrolls the screen
	AutoWraps() bool

	// Clear fills the viewport with spaces in the given colors and homes the cursor
	Clear(c Colors)
	// SetCursor moves the write position, 0-indexed
	SetCursor(x, y int)
	// SetColors selects colors for subsequent writes; ColorDefault selects the host default
	SetColors(c Colors)
	// WriteString writes text at the cursor and advances it
	WriteString(s string)
	// Flush pushes pending output to the host
	Flush()

	SetTitle(title string)
	Bell()

	// NativeInput reports whether PollEvent delivers mouse events
	NativeInput() bool
	// PollEvent blocks until the next event; EventClosed once finalized
	PollEvent() Event
	// Interrupt wakes a blocked PollEvent with an EventInterrupt
	Interrupt()
}
