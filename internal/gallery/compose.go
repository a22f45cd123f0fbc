package gallery

import (
	"errors"
	"fmt"

	"github.com/dshills/termgallery/internal/decor"
	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/render/core"
)

// DefaultSectionRows is the per-section staging budget when Options
// does not set one.
const DefaultSectionRows = 96

// ErrNoWidth is returned when composition is attempted without a
// positive content width.
var ErrNoWidth = errors.New("compose: content width must be positive")

// SectionError reports a section whose render failed. The document is
// still complete; the section is represented by a note line.
type SectionError struct {
	Section string
	Err     error
}

// Error returns the error message.
func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q: %v", e.Section, e.Err)
}

// Unwrap returns the underlying error.
func (e *SectionError) Unwrap() error {
	return e.Err
}

// Options configures composition.
type Options struct {
	// Width is the content width in cells.
	Width int

	// SectionRows is the staging budget per section. Zero means
	// DefaultSectionRows.
	SectionRows int

	// CanDisplay probes display capability. May be nil.
	CanDisplay func(rune) bool

	// Display accepts runes at write time. May be nil.
	Display func(rune) error

	// HasTrueColor reports 24-bit color support.
	HasTrueColor bool

	// ForceASCII forces transliteration everywhere.
	ForceASCII bool

	// Bus publishes gallery events. May be nil.
	Bus *event.Bus

	// Panes tracks pane decorations. May be nil.
	Panes *decor.Tracker
}

// Compose renders each section into its own staging grid and flushes
// successful renders into a document. A section that returns an error
// or panics contributes a single dim note line; its staged rows are
// discarded so the document never carries partial output. The returned
// error joins all section failures and leaves the document usable.
func Compose(sections []Section, opts Options) (*Document, error) {
	if opts.Width <= 0 {
		return nil, ErrNoWidth
	}
	rows := opts.SectionRows
	if rows <= 0 {
		rows = DefaultSectionRows
	}

	doc := &Document{width: opts.Width}
	titleStyle := core.DefaultStyle().Bold()
	noteStyle := core.DefaultStyle().Dim()

	var failures []error
	for i, s := range sections {
		ctx := newContext(opts.Width, rows)
		ctx.CanDisplay = opts.CanDisplay
		ctx.Display = opts.Display
		ctx.HasTrueColor = opts.HasTrueColor
		ctx.ForceASCII = opts.ForceASCII
		ctx.Bus = opts.Bus
		ctx.Panes = opts.Panes

		err := runRender(s, ctx)

		doc.marks = append(doc.marks, Mark{
			Name: s.Name,
			Line: len(doc.lines),
			Kind: MarkSection,
		})
		title := fmt.Sprintf("%d. %s", i+1, s.Title)
		doc.lines = append(doc.lines, core.CellsFromString(title, titleStyle))
		if s.Describe != "" {
			doc.lines = append(doc.lines, core.CellsFromString(s.Describe, noteStyle))
		}
		doc.lines = append(doc.lines, nil)

		if err != nil {
			failures = append(failures, &SectionError{Section: s.Name, Err: err})
			note := fmt.Sprintf("[section %s unavailable]", s.Name)
			doc.lines = append(doc.lines, core.CellsFromString(note, noteStyle))
			doc.lines = append(doc.lines, nil)
			continue
		}

		offset := len(doc.lines)
		for y := 0; y < ctx.Rows(); y++ {
			doc.lines = append(doc.lines, ctx.grid.Row(y))
		}
		for _, m := range ctx.marks {
			m.Name = s.Name
			m.Line += offset
			doc.marks = append(doc.marks, m)
		}
		doc.lines = append(doc.lines, nil)
	}

	if len(failures) > 0 {
		return doc, errors.Join(failures...)
	}
	return doc, nil
}

// runRender calls a section render under a recover boundary.
func runRender(s Section, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	return s.Render(ctx)
}
