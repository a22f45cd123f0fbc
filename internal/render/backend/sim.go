package backend

import (
	"github.com/dshills/termgallery/internal/render/core"
)

// Sim is an in-memory backend. Tests use it as the render surface, and
// its glyph repertoire can be narrowed to exercise the transliteration
// fallback paths against a surface that cannot draw box characters.
type Sim struct {
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	cursorStyle   CursorStyle
	resizeHandler func(width, height int)
	events        chan Event
	trueColor     bool
	undisplayable map[rune]bool
	fallbacks     map[rune]string
	beeps         int
}

// NewSim creates a simulated backend with the given dimensions.
// Every rune is displayable and true color is on until configured
// otherwise.
func NewSim(width, height int) *Sim {
	return &Sim{
		width:         width,
		height:        height,
		events:        make(chan Event, 100),
		trueColor:     true,
		undisplayable: make(map[rune]bool),
		fallbacks:     make(map[rune]string),
	}
}

// SetUndisplayable marks runes the simulated surface cannot render.
func (b *Sim) SetUndisplayable(runes ...rune) {
	for _, r := range runes {
		b.undisplayable[r] = true
	}
}

// SetUndisplayableRange marks a half-open code point range [lo, hi) as
// unrenderable.
func (b *Sim) SetUndisplayableRange(lo, hi rune) {
	for r := lo; r < hi; r++ {
		b.undisplayable[r] = true
	}
}

// SetTrueColor configures the reported color capability.
func (b *Sim) SetTrueColor(on bool) {
	b.trueColor = on
}

func (b *Sim) Init() error {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
	return nil
}

// Shutdown wakes a blocked PollEvent caller with an empty event, the
// way the terminal backend's event stream ends after Fini.
func (b *Sim) Shutdown() {
	select {
	case b.events <- Event{}:
	default:
	}
}

func (b *Sim) Size() (int, int) {
	return b.width, b.height
}

func (b *Sim) OnResize(callback func(width, height int)) {
	b.resizeHandler = callback
}

func (b *Sim) SetCell(x, y int, cell core.Cell) {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

func (b *Sim) GetCell(x, y int) core.Cell {
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *Sim) Fill(rect core.ScreenRect, cell core.Cell) {
	for y := rect.Top; y < rect.Bottom && y < b.height; y++ {
		for x := rect.Left; x < rect.Right && x < b.width; x++ {
			if x >= 0 && y >= 0 {
				b.cells[y][x] = cell
			}
		}
	}
}

func (b *Sim) Clear() {
	empty := core.EmptyCell()
	for y := range b.cells {
		for x := range b.cells[y] {
			b.cells[y][x] = empty
		}
	}
}

func (b *Sim) Show() {}

func (b *Sim) ShowCursor(x, y int) {
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *Sim) HideCursor() {
	b.cursorVisible = false
}

func (b *Sim) SetCursorStyle(style CursorStyle) {
	b.cursorStyle = style
}

func (b *Sim) PollEvent() Event {
	return <-b.events
}

func (b *Sim) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

func (b *Sim) HasTrueColor() bool { return b.trueColor }

func (b *Sim) CanDisplay(r rune) bool {
	return !b.undisplayable[r]
}

func (b *Sim) RegisterFallback(r rune, sub string) {
	b.fallbacks[r] = sub
}

func (b *Sim) Beep() { b.beeps++ }

func (b *Sim) EnableMouse()  {}
func (b *Sim) DisableMouse() {}

func (b *Sim) Suspend() error { return nil }
func (b *Sim) Resume() error  { return nil }

// CursorPosition returns the current cursor position for testing.
func (b *Sim) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// CursorStyleValue returns the current cursor style for testing.
func (b *Sim) CursorStyleValue() CursorStyle {
	return b.cursorStyle
}

// FallbackFor returns the registered fallback for a rune, if any.
func (b *Sim) FallbackFor(r rune) (string, bool) {
	sub, ok := b.fallbacks[r]
	return sub, ok
}

// RowString returns the text content of a row with trailing spaces
// trimmed, for content assertions.
func (b *Sim) RowString(y int) string {
	if y < 0 || y >= b.height || b.cells == nil {
		return ""
	}
	s := core.StringFromCells(b.cells[y])
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}

// Beeps returns the number of bell requests, for testing.
func (b *Sim) Beeps() int { return b.beeps }

// Resize simulates a terminal resize.
func (b *Sim) Resize(width, height int) {
	b.width = width
	b.height = height
	b.cells = make([][]core.Cell, height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
	if b.resizeHandler != nil {
		b.resizeHandler(width, height)
	}
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
