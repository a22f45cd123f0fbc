package gallery

import (
	"github.com/dshills/termgallery/internal/render/core"
)

// MarkKind classifies document marks.
type MarkKind uint8

const (
	// MarkSection anchors a section's first line for navigation.
	MarkSection MarkKind = iota

	// MarkNote flags an informational line.
	MarkNote

	// MarkFallback flags a line where display fallback was applied.
	MarkFallback
)

// Mark anchors a gutter sign or navigation target to a document line.
type Mark struct {
	// Name is the section name for MarkSection, empty otherwise.
	Name string

	// Line is the document line the mark is attached to.
	Line int

	// Kind classifies the mark.
	Kind MarkKind
}

// Document is the composed gallery content the view scrolls through.
type Document struct {
	width int
	lines [][]core.Cell
	marks []Mark
}

// Width returns the content width the document was composed for.
func (d *Document) Width() int {
	return d.width
}

// LineCount returns the number of document lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LineCells returns the cells of line i, or nil when out of range.
// The returned slice is shared; callers must not modify it.
func (d *Document) LineCells(i int) []core.Cell {
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	return d.lines[i]
}

// LineText returns the text of line i with trailing spaces trimmed.
func (d *Document) LineText(i int) string {
	s := core.StringFromCells(d.LineCells(i))
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	return s[:end]
}

// Marks returns all marks in line order.
func (d *Document) Marks() []Mark {
	return d.marks
}

// MarksForLine returns the marks attached to a line.
func (d *Document) MarksForLine(line int) []Mark {
	var out []Mark
	for _, m := range d.marks {
		if m.Line == line {
			out = append(out, m)
		}
	}
	return out
}

// SectionMarks returns only the section anchors, in document order.
func (d *Document) SectionMarks() []Mark {
	var out []Mark
	for _, m := range d.marks {
		if m.Kind == MarkSection {
			out = append(out, m)
		}
	}
	return out
}

// MarkAt returns the section whose region contains the line: the last
// section anchor at or before it.
func (d *Document) MarkAt(line int) (Mark, bool) {
	var found Mark
	ok := false
	for _, m := range d.marks {
		if m.Kind != MarkSection {
			continue
		}
		if m.Line > line {
			break
		}
		found = m
		ok = true
	}
	return found, ok
}

// NextMark returns the first section anchor after the line.
func (d *Document) NextMark(line int) (Mark, bool) {
	for _, m := range d.marks {
		if m.Kind == MarkSection && m.Line > line {
			return m, true
		}
	}
	return Mark{}, false
}

// PrevMark returns the last section anchor before the line.
func (d *Document) PrevMark(line int) (Mark, bool) {
	var found Mark
	ok := false
	for _, m := range d.marks {
		if m.Kind != MarkSection || m.Line >= line {
			continue
		}
		found = m
		ok = true
	}
	return found, ok
}
