// Package decor tracks auxiliary panes and the focus decorations
// drawn around them. Focus is exclusive: decorating one pane removes
// the accent ring from every other pane.
package decor

import (
	"context"
	"sync"

	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/render/core"
)

// Ring glyphs. These pass through the display fallback pipeline like
// any other box-drawing text.
const (
	ringTopLeft     = '┌'
	ringTopRight    = '┐'
	ringBottomLeft  = '└'
	ringBottomRight = '┘'
	ringHorizontal  = '─'
	ringVertical    = '│'
)

// RingGlyphs returns the glyphs DrawRing uses, so callers can probe
// display support before drawing.
func RingGlyphs() string {
	return string([]rune{
		ringTopLeft, ringTopRight, ringBottomLeft,
		ringBottomRight, ringHorizontal, ringVertical,
	})
}

// Pane describes a tracked auxiliary pane.
type Pane struct {
	ID      string
	Title   string
	Rect    core.ScreenRect
	Focused bool
}

// Config holds decoration colors.
type Config struct {
	// AccentColor is the ring color for the focused pane.
	AccentColor core.Color

	// FrameColor is the ring color for unfocused panes.
	FrameColor core.Color
}

// DefaultConfig returns the default decoration colors.
func DefaultConfig() Config {
	return Config{
		AccentColor: core.ColorFromRGB(255, 135, 0),
		FrameColor:  core.ColorFromRGB(98, 98, 98),
	}
}

// Tracker manages pane decoration state.
type Tracker struct {
	mu sync.RWMutex

	// panes contains all tracked panes, keyed by ID.
	panes map[string]*Pane

	// order contains pane IDs in open order, which is paint order.
	order []string

	// focusedID is the pane currently carrying the accent ring.
	focusedID string

	config Config
}

// NewTracker creates a tracker with the given decoration config.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		panes:  make(map[string]*Pane),
		config: config,
	}
}

// Config returns the current configuration.
func (t *Tracker) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// SetConfig updates the configuration.
func (t *Tracker) SetConfig(config Config) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = config
}

// Open starts tracking a pane. Returns false if the ID is already
// tracked.
func (t *Tracker) Open(id, title string, rect core.ScreenRect) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.panes[id]; ok {
		return false
	}

	t.panes[id] = &Pane{ID: id, Title: title, Rect: rect}
	t.order = append(t.order, id)
	return true
}

// Close stops tracking a pane. Returns false if the ID is unknown.
func (t *Tracker) Close(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.panes[id]; !ok {
		return false
	}

	delete(t.panes, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if t.focusedID == id {
		t.focusedID = ""
	}
	return true
}

// Focus moves the accent ring to the given pane. Every other pane
// loses its ring. Returns the previously focused ID and whether the
// target exists.
func (t *Tracker) Focus(id string) (prev string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pane, exists := t.panes[id]
	if !exists {
		return t.focusedID, false
	}

	prev = t.focusedID
	if prev == id {
		return prev, true
	}

	if prevPane, ok := t.panes[prev]; ok {
		prevPane.Focused = false
	}
	pane.Focused = true
	t.focusedID = id
	return prev, true
}

// Blur removes the accent ring from all panes.
func (t *Tracker) Blur() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pane, ok := t.panes[t.focusedID]; ok {
		pane.Focused = false
	}
	t.focusedID = ""
}

// Resize updates a pane's region. Returns false if the ID is unknown.
func (t *Tracker) Resize(id string, rect core.ScreenRect) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	pane, ok := t.panes[id]
	if !ok {
		return false
	}
	pane.Rect = rect
	return true
}

// Get returns a copy of a tracked pane.
func (t *Tracker) Get(id string) (Pane, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pane, ok := t.panes[id]
	if !ok {
		return Pane{}, false
	}
	return *pane, true
}

// Panes returns copies of all tracked panes in open order.
func (t *Tracker) Panes() []Pane {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Pane, 0, len(t.order))
	for _, id := range t.order {
		if pane, ok := t.panes[id]; ok {
			result = append(result, *pane)
		}
	}
	return result
}

// Focused returns a copy of the focused pane, if any.
func (t *Tracker) Focused() (Pane, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pane, ok := t.panes[t.focusedID]
	if !ok {
		return Pane{}, false
	}
	return *pane, true
}

// Count returns the number of tracked panes.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.panes)
}

// Clear removes all panes.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.panes = make(map[string]*Pane)
	t.order = nil
	t.focusedID = ""
}

// RingStyle returns the border style for a pane.
func (t *Tracker) RingStyle(focused bool) core.Style {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if focused {
		return core.NewStyle(t.config.AccentColor).Bold()
	}
	return core.NewStyle(t.config.FrameColor)
}

// DrawRing draws a pane's decoration ring into a grid. Cells outside
// the grid are clipped by the grid itself.
func DrawRing(grid *core.Grid, rect core.ScreenRect, style core.Style) {
	if rect.Width() < 2 || rect.Height() < 2 {
		return
	}

	top := rect.Top
	bottom := rect.Bottom - 1
	left := rect.Left
	right := rect.Right - 1

	set := func(x, y int, r rune) {
		grid.Set(x, y, core.NewStyledCell(r, style))
	}

	set(left, top, ringTopLeft)
	set(right, top, ringTopRight)
	set(left, bottom, ringBottomLeft)
	set(right, bottom, ringBottomRight)

	for x := left + 1; x < right; x++ {
		set(x, top, ringHorizontal)
		set(x, bottom, ringHorizontal)
	}
	for y := top + 1; y < bottom; y++ {
		set(left, y, ringVertical)
		set(right, y, ringVertical)
	}
}

// Bind subscribes the tracker to pane events on the bus.
func (t *Tracker) Bind(bus *event.Bus) (*event.Subscription, error) {
	return bus.SubscribeFunc("pane.*", func(_ context.Context, e any) error {
		t.Apply(e)
		return nil
	})
}

// Apply updates tracker state from a pane event. Non-pane events are
// ignored.
func (t *Tracker) Apply(e any) {
	switch ev := e.(type) {
	case event.PaneOpened:
		t.Open(ev.ID, ev.Title, core.ScreenRect{})
	case event.PaneClosed:
		t.Close(ev.ID)
	case event.PaneFocused:
		t.Focus(ev.ID)
	case event.PaneResized:
		if pane, ok := t.Get(ev.ID); ok {
			rect := core.RectFromSize(pane.Rect.Top, pane.Rect.Left, ev.Height, ev.Width)
			t.Resize(ev.ID, rect)
		}
	}
}
