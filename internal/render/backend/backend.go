// Package backend provides the render surface abstraction for the
// gallery. The production backend wraps tcell; Sim models a surface
// with a configurable glyph repertoire for tests and for exercising
// the transliteration fallback paths.
package backend

import "github.com/dshills/termgallery/internal/render/core"

// CursorStyle defines how the cursor appears.
type CursorStyle int

const (
	CursorDefault CursorStyle = iota
	CursorBlinkingBlock
	CursorSteadyBlock
	CursorBlinkingUnderline
	CursorSteadyUnderline
	CursorBlinkingBar
	CursorSteadyBar
	CursorHidden
)

// String returns a human-readable cursor style name.
func (c CursorStyle) String() string {
	switch c {
	case CursorDefault:
		return "default"
	case CursorBlinkingBlock:
		return "blinking block"
	case CursorSteadyBlock:
		return "steady block"
	case CursorBlinkingUnderline:
		return "blinking underline"
	case CursorSteadyUnderline:
		return "steady underline"
	case CursorBlinkingBar:
		return "blinking bar"
	case CursorSteadyBar:
		return "steady bar"
	case CursorHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// VisibleCursorStyles lists the styles the cursor demo can apply.
func VisibleCursorStyles() []CursorStyle {
	return []CursorStyle{
		CursorDefault,
		CursorBlinkingBlock,
		CursorSteadyBlock,
		CursorBlinkingUnderline,
		CursorSteadyUnderline,
		CursorBlinkingBar,
		CursorSteadyBar,
	}
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Focus event fields
	Focused bool
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlF
	KeyCtrlL
	KeyCtrlU
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend defines the interface for render surfaces.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current surface dimensions.
	Size() (width, height int)

	// OnResize registers a callback for resize events.
	OnResize(callback func(width, height int))

	// SetCell sets a single cell at the given position.
	// Positions outside the surface are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at the given position.
	// Returns an empty cell for positions outside the surface.
	GetCell(x, y int) core.Cell

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear clears the entire surface with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// SetCursorStyle changes the cursor appearance.
	SetCursorStyle(style CursorStyle)

	// PollEvent waits for and returns the next event.
	// This is a blocking call.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)

	// HasTrueColor returns true if the surface supports 24-bit color.
	HasTrueColor() bool

	// CanDisplay reports whether the surface can render the rune
	// natively, without registered fallback substitutions. Valid only
	// after Init.
	CanDisplay(r rune) bool

	// RegisterFallback registers a substitution string the surface may
	// use when asked to draw a rune it cannot render.
	RegisterFallback(r rune, sub string)

	// Beep produces an audible or visual bell.
	Beep()

	// EnableMouse enables mouse event reporting.
	EnableMouse()

	// DisableMouse disables mouse event reporting.
	DisableMouse()

	// Suspend suspends the surface (for shell escape).
	Suspend() error

	// Resume resumes from suspension.
	Resume() error
}
