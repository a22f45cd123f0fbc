package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/termgallery/internal/decor"
	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/translit"
)

// ErrSectionOverflow is returned when a section writes more rows than
// its staging budget allows.
var ErrSectionOverflow = errors.New("section exceeds row budget")

// GlyphError reports a rune the display refused at write time.
type GlyphError struct {
	Rune rune
}

// Error returns the error message.
func (e *GlyphError) Error() string {
	return fmt.Sprintf("glyph %q not displayable", e.Rune)
}

// Segment is a styled run of text within one line.
type Segment struct {
	Text  string
	Style core.Style
}

// Context is passed to section render funcs. Writes go to a
// section-local staging grid; the composer flushes the grid into the
// document only after the render succeeds.
type Context struct {
	// Width is the content width in cells.
	Width int

	// CanDisplay probes whether the surface can show a rune natively.
	// Nil when the surface cannot be probed (dump mode, uninitialized
	// backends).
	CanDisplay func(rune) bool

	// Display accepts or rejects a rune at write time. Nil accepts
	// everything. A non-nil rejection makes the current write fail so
	// the section can roll back and retry.
	Display func(rune) error

	// HasTrueColor reports 24-bit color support.
	HasTrueColor bool

	// ForceASCII forces transliteration regardless of capability.
	ForceASCII bool

	// Bus publishes gallery events. May be nil.
	Bus *event.Bus

	// Panes tracks pane decorations. May be nil.
	Panes *decor.Tracker

	grid  *core.Grid
	row   int
	marks []Mark
}

// newContext creates a context over a fresh staging grid.
func newContext(width, rows int) *Context {
	return &Context{
		Width: width,
		grid:  core.NewGrid(width, rows),
	}
}

// Rows returns the number of rows written so far.
func (c *Context) Rows() int {
	return c.row
}

// Line writes one row from styled segments and advances. Rejected
// glyphs fail the whole line; nothing is rolled back here, callers use
// Snapshot/Restore for that.
func (c *Context) Line(segs ...Segment) error {
	if c.row >= c.grid.Height() {
		return ErrSectionOverflow
	}

	col := 0
	for _, seg := range segs {
		if c.Display != nil {
			for _, r := range seg.Text {
				if err := c.Display(r); err != nil {
					return fmt.Errorf("row %d: %w", c.row, err)
				}
			}
		}
		col += c.grid.WriteString(col, c.row, seg.Text, seg.Style)
	}
	c.row++
	return nil
}

// Print writes one unstyled line.
func (c *Context) Print(text string) error {
	return c.Line(Segment{Text: text, Style: core.DefaultStyle()})
}

// Printf formats and writes one unstyled line.
func (c *Context) Printf(format string, args ...any) error {
	return c.Print(fmt.Sprintf(format, args...))
}

// Styled writes one line in a single style.
func (c *Context) Styled(text string, style core.Style) error {
	return c.Line(Segment{Text: text, Style: style})
}

// Note writes a dim line and marks it for the gutter.
func (c *Context) Note(text string) error {
	c.marks = append(c.marks, Mark{Line: c.row, Kind: MarkNote})
	return c.Styled(text, core.DefaultStyle().Dim())
}

// MarkFallback marks the current row as degraded for the gutter.
func (c *Context) MarkFallback() {
	c.marks = append(c.marks, Mark{Line: c.row, Kind: MarkFallback})
}

// Block stages height rows through a scratch grid so sections can draw
// two-dimensionally (pane rings, boxes). The scratch rows are copied
// into the section at the current position after draw returns, subject
// to the same Display acceptance as Line.
func (c *Context) Block(height int, draw func(g *core.Grid)) error {
	if height < 0 {
		height = 0
	}
	if c.row+height > c.grid.Height() {
		return ErrSectionOverflow
	}

	scratch := core.NewGrid(c.Width, height)
	draw(scratch)

	if c.Display != nil {
		for y := 0; y < height; y++ {
			for _, cell := range scratch.Row(y) {
				if cell.IsContinuation() {
					continue
				}
				if err := c.Display(cell.Rune); err != nil {
					return fmt.Errorf("row %d: %w", c.row+y, err)
				}
			}
		}
	}

	for y := 0; y < height; y++ {
		for x, cell := range scratch.Row(y) {
			c.grid.Set(x, c.row+y, cell)
		}
	}
	c.row += height
	return nil
}

// Checkpoint captures context state for rollback.
type Checkpoint struct {
	grid  *core.Grid
	row   int
	marks int
}

// Snapshot captures the staging grid and write position.
func (c *Context) Snapshot() *Checkpoint {
	return &Checkpoint{
		grid:  c.grid.Snapshot(),
		row:   c.row,
		marks: len(c.marks),
	}
}

// Restore rolls the context back to a checkpoint. Rows written after
// the snapshot are discarded.
func (c *Context) Restore(cp *Checkpoint) {
	if cp == nil {
		return
	}
	c.grid.Restore(cp.grid)
	c.row = cp.row
	c.marks = c.marks[:cp.marks]
}

// DisplayText resolves s against the display policy: forced ASCII
// transliterates unconditionally; otherwise a probe decides; an
// unprobeable surface returns s optimistically so a guarded write can
// still catch rejections.
func (c *Context) DisplayText(s string) (string, bool) {
	if c.ForceASCII {
		return translit.Transliterate(s), true
	}
	return translit.ForDisplay(s, c.CanDisplay)
}

// RenderTable writes multi-line box-drawing text under the full display
// policy. A probe decides up front when one is available; without a
// probe the raw glyphs are attempted row by row and rolled back on the
// first write-time rejection. A substitution marks the first degraded
// row for the gutter and publishes a display fallback event for the
// named section. Forced ASCII substitutes without marking.
func (c *Context) RenderTable(section, text string) error {
	resolved, substituted := c.DisplayText(text)

	if substituted {
		if !c.ForceASCII {
			c.noteFallback(section, firstSubstituted(text))
		}
		return c.printAll(resolved)
	}

	if c.CanDisplay != nil || c.Display == nil {
		// The probe approved the raw glyphs, or nothing can reject
		// them later.
		return c.printAll(resolved)
	}

	cp := c.Snapshot()
	err := c.printAll(resolved)
	if err == nil {
		return nil
	}
	var ge *GlyphError
	if !errors.As(err, &ge) {
		return err
	}
	c.Restore(cp)
	c.noteFallback(section, ge.Rune)
	return c.printAll(translit.Transliterate(text))
}

// printAll writes a multi-line string one row at a time.
func (c *Context) printAll(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if err := c.Print(line); err != nil {
			return err
		}
	}
	return nil
}

// noteFallback records a degradation in the gutter and on the bus.
func (c *Context) noteFallback(section string, glyph rune) {
	c.MarkFallback()
	c.Publish(event.DisplayFallback{Section: section, Glyph: glyph})
}

// firstSubstituted returns the first rune of s the fallback table
// rewrites.
func firstSubstituted(s string) rune {
	for _, r := range s {
		if translit.Classify(r) != r {
			return r
		}
	}
	return 0
}

// Publish sends an event when a bus is wired, and is a no-op without
// one.
func (c *Context) Publish(e any) {
	if c.Bus == nil {
		return
	}
	_ = c.Bus.Publish(context.Background(), e)
}
