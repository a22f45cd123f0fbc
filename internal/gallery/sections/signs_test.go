package sections

import (
	"strings"
	"testing"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
)

func TestSignsInlineMargin(t *testing.T) {
	doc := composeOne(t, Signs(), gallery.Options{Width: 60})

	note := findLine(doc, "this line carries a real note mark, visible in the margin")
	if note < 0 {
		t.Fatalf("note line missing:\n%s", docText(doc))
	}
	noted := false
	for _, m := range doc.MarksForLine(note) {
		if m.Kind == gallery.MarkNote {
			noted = true
		}
	}
	if !noted {
		t.Errorf("note line carries no note mark")
	}

	// The inline margin starts after the note and a blank line.
	block := note + 2

	row0 := doc.LineCells(block)
	if row0[0].Rune != '>' {
		t.Errorf("section sign = %q, want '>'", row0[0].Rune)
	}
	if row0[4].Rune != '1' {
		t.Errorf("line number at column 4 = %q, want '1'", row0[4].Rune)
	}
	if !strings.HasSuffix(doc.LineText(block), "The margin tracks the document:") {
		t.Errorf("demo text missing after margin: %q", doc.LineText(block))
	}

	if r := doc.LineCells(block + 2)[0].Rune; r != '*' {
		t.Errorf("note sign = %q, want '*'", r)
	}
	if r := doc.LineCells(block + 4)[0].Rune; r != '!' {
		t.Errorf("fallback sign = %q, want '!'", r)
	}
}

func TestSignsCurrentLineHighlight(t *testing.T) {
	doc := composeOne(t, Signs(), gallery.Options{Width: 60})

	note := findLine(doc, "this line carries a real note mark, visible in the margin")
	if note < 0 {
		t.Fatalf("note line missing")
	}
	block := note + 2

	current := doc.LineCells(block + 1)
	if current[4].Rune != '2' {
		t.Fatalf("current line number = %q, want '2'", current[4].Rune)
	}
	if !current[4].Style.Attributes.Has(core.AttrBold) {
		t.Errorf("current line number not highlighted")
	}

	other := doc.LineCells(block)
	if !other[4].Style.Attributes.Has(core.AttrDim) {
		t.Errorf("inactive line number not dimmed")
	}
}

func TestSignsFillerRows(t *testing.T) {
	doc := composeOne(t, Signs(), gallery.Options{Width: 60})

	note := findLine(doc, "this line carries a real note mark, visible in the margin")
	if note < 0 {
		t.Fatalf("note line missing")
	}
	filler := note + 2 + len(signDemoLines)

	cells := doc.LineCells(filler)
	if cells[4].Rune != '~' {
		t.Errorf("filler rune = %q, want '~'", cells[4].Rune)
	}
	if doc.LineText(filler) != "    ~" {
		t.Errorf("filler line = %q, want %q", doc.LineText(filler), "    ~")
	}
}
