package render

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/cellframe/terminal"
)

// Context owns the frame buffer, default colors and anchor of one render
// target. A single mutex serializes every drawing call and every render
// pass, so a render never diffs a grid another goroutine is mutating.
type Context struct {
	mu       sync.Mutex
	dev      terminal.Device
	canvas   Canvas
	defaults terminal.Colors
	host     terminal.Colors
	opts     Options

	lastDrawCalls atomic.Int64
	frames        atomic.Uint64
}

// NewContext creates a Context rendering to dev. host is the pair
// ResetDefaultColors returns to; ColorDefault components fall back to White/Black.
// The buffer is created by the first SetViewportSize or FitToViewport.
func NewContext(dev terminal.Device, host terminal.Colors, opts Options) *Context {
	host = host.Resolve(terminal.Colors{Fg: terminal.White, Bg: terminal.Black})
	return &Context{
		dev:      dev,
		defaults: host,
		host:     host,
		opts:     opts,
	}
}

// Device returns the render target
func (c *Context) Device() terminal.Device {
	return c.dev
}

// Batch runs fn with the lock held, for drawing bursts that must land in
// the same frame
func (c *Context) Batch(fn func(cv *Canvas)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.canvas)
}

// SetViewportSize creates the buffer on first use and resizes it afterwards
func (c *Context) SetViewportSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewportSizeLocked(width, height)
}

func (c *Context) setViewportSizeLocked(width, height int) {
	if c.canvas.fb == nil {
		c.canvas.fb = NewFrameBuffer(width, height, c.defaults)
		return
	}
	c.canvas.fb.Resize(width, height)
}

// FitToViewport sizes the buffer to the device viewport
func (c *Context) FitToViewport() {
	w, h := c.dev.Size()
	c.SetViewportSize(w, h)
}

// Size returns the buffer dimensions, zero before initialization
func (c *Context) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas.Width(), c.canvas.Height()
}

// SetDefaultColors changes what ColorDefault resolves to and clears the
// buffer; ColorDefault components of colors keep the current default
func (c *Context) SetDefaultColors(colors terminal.Colors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDefaultsLocked(colors.Resolve(c.defaults))
}

// ResetDefaultColors restores the host defaults and clears the buffer
func (c *Context) ResetDefaultColors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDefaultsLocked(c.host)
}

func (c *Context) setDefaultsLocked(colors terminal.Colors) {
	c.defaults = colors
	if c.canvas.fb != nil {
		c.canvas.fb.SetDefaults(colors)
		c.canvas.fb.Reset()
	}
}

func (c *Context) DefaultColors() terminal.Colors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaults
}

func (c *Context) SetOptions(o Options) {
	c.mu.Lock()
	c.opts = o
	c.mu.Unlock()
}

func (c *Context) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

func (c *Context) SetAnchor(a Anchor) {
	c.mu.Lock()
	c.canvas.SetAnchor(a)
	c.mu.Unlock()
}

func (c *Context) Add(text string, at Point, colors terminal.Colors) {
	c.mu.Lock()
	c.canvas.Add(text, at, colors)
	c.mu.Unlock()
}

func (c *Context) Print(text string, at Point) {
	c.mu.Lock()
	c.canvas.Print(text, at)
	c.mu.Unlock()
}

func (c *Context) AddLine(fill string, colors terminal.Colors, from, to Point) {
	c.mu.Lock()
	c.canvas.AddLine(fill, colors, from, to)
	c.mu.Unlock()
}

func (c *Context) AddShape(fill string, colors terminal.Colors, start Point, points ...Point) {
	c.mu.Lock()
	c.canvas.AddShape(fill, colors, start, points...)
	c.mu.Unlock()
}

func (c *Context) AddCircle(fill string, colors terminal.Colors, center Point, radius int) {
	c.mu.Lock()
	c.canvas.AddCircle(fill, colors, center, radius)
	c.mu.Unlock()
}

func (c *Context) AddRectangle(fill string, colors terminal.Colors, c1, c2 Point) {
	c.mu.Lock()
	c.canvas.AddRectangle(fill, colors, c1, c2)
	c.mu.Unlock()
}

func (c *Context) AddRectangleBorder(top, right, bottom, left, topLeft, topRight, bottomRight, bottomLeft string, colors terminal.Colors, c1, c2 Point) {
	c.mu.Lock()
	c.canvas.AddRectangleBorder(top, right, bottom, left, topLeft, topRight, bottomRight, bottomLeft, colors, c1, c2)
	c.mu.Unlock()
}

func (c *Context) AddBorder(b Border, colors terminal.Colors, c1, c2 Point) {
	c.mu.Lock()
	c.canvas.AddBorder(b, colors, c1, c2)
	c.mu.Unlock()
}

// Clear discards the current grid content without touching the snapshot
func (c *Context) Clear() {
	c.mu.Lock()
	c.canvas.Clear()
	c.mu.Unlock()
}

// Cell returns the current cell at x, y
func (c *Context) Cell(x, y int) (Cell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas.Cell(x, y)
}

// Render diffs the grid to the device, resets the anchor to Left/Top and
// returns the draw-call count; 0 before initialization
func (c *Context) Render() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.canvas.fb == nil {
		return 0
	}
	n := c.canvas.fb.Render(c.dev, c.opts)
	c.canvas.anchor = DefaultAnchor
	c.lastDrawCalls.Store(int64(n))
	c.frames.Add(1)
	return n
}

// LastDrawCalls returns the draw-call count of the most recent render
func (c *Context) LastDrawCalls() int {
	return int(c.lastDrawCalls.Load())
}

// Frames returns the number of completed renders
func (c *Context) Frames() uint64 {
	return c.frames.Load()
}
