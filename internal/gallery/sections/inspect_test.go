package sections

import (
	"strings"
	"testing"

	"github.com/dshills/termgallery/internal/gallery"
)

func TestInspectCapableDisplay(t *testing.T) {
	doc := composeOne(t, Inspect(), gallery.Options{
		Width:      80,
		CanDisplay: func(rune) bool { return true },
	})
	text := docText(doc)

	for _, want := range []string{
		"BOX DRAWINGS LIGHT HORIZONTAL",
		"LATIN SMALL LETTER A",
		"PARTY POPPER",
		"U+2500",
		"U+256C",
		"U+4E07",
		"U+1F389",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
	if n := countMarks(doc, gallery.MarkFallback); n != 0 {
		t.Errorf("fallback marks = %d, want 0", n)
	}
}

func TestInspectClassColumn(t *testing.T) {
	doc := composeOne(t, Inspect(), gallery.Options{
		Width:      80,
		CanDisplay: func(rune) bool { return true },
	})

	// The double vertical bar substitutes to a dash, identity runes
	// show a placeholder class.
	tests := []struct {
		point string
		class string
	}{
		{"U+2500", " -  "},
		{"U+2551", " -  "},
		{"U+2550", " =  "},
		{"U+256D", " /  "},
		{"U+2573", " X  "},
		{"U+0061", " .  "},
	}
	for _, tt := range tests {
		found := false
		for i := 0; i < doc.LineCount(); i++ {
			line := doc.LineText(i)
			if strings.HasPrefix(line, tt.point) && strings.Contains(line, tt.class) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no row for %s with class %q", tt.point, strings.TrimSpace(tt.class))
		}
	}
}

func TestInspectProbeSubstitutesGlyphColumn(t *testing.T) {
	doc := composeOne(t, Inspect(), gallery.Options{
		Width:      80,
		CanDisplay: asciiOnly,
	})
	text := docText(doc)

	for _, r := range text {
		if r >= 0x2500 && r < 0x2580 {
			t.Fatalf("box-drawing rune %q leaked past the probe", r)
		}
	}
	// 18 box-drawing rows substitute; the two wide identity runes fail
	// the probe without a usable substitution and stay marked.
	if n := countMarks(doc, gallery.MarkFallback); n != 20 {
		t.Errorf("fallback marks = %d, want 20", n)
	}
}

func TestInspectRejectingSurface(t *testing.T) {
	doc := composeOne(t, Inspect(), gallery.Options{
		Width:   80,
		Display: rejectNonASCII,
	})
	text := docText(doc)

	for _, r := range text {
		if r >= 0x80 {
			t.Fatalf("non-ASCII rune %q survived a rejecting surface", r)
		}
	}
	// Wide identity runes degrade to a placeholder so their metadata
	// rows survive.
	if !strings.Contains(text, "U+4E07   ?") {
		t.Errorf("missing placeholder row for U+4E07:\n%s", text)
	}
	if !strings.Contains(text, "U+1F389  ?") {
		t.Errorf("missing placeholder row for U+1F389:\n%s", text)
	}
}
