package sections

import (
	"testing"

	"github.com/dshills/termgallery/internal/gallery"
)

func TestCursorsListsStyles(t *testing.T) {
	doc := composeOne(t, Cursors(), gallery.Options{Width: 60})

	for _, want := range []string{
		"1. default",
		"2. blinking block",
		"4. blinking underline",
		"7. steady bar",
	} {
		if findLine(doc, want) < 0 {
			t.Errorf("missing style row %q:\n%s", want, docText(doc))
		}
	}
}

func TestScriptedListsNames(t *testing.T) {
	doc := composeOne(t, Scripted([]string{"waves", "maze"}), gallery.Options{Width: 60})
	if findLine(doc, "1. waves") < 0 {
		t.Errorf("missing scripted name waves:\n%s", docText(doc))
	}
	if findLine(doc, "2. maze") < 0 {
		t.Errorf("missing scripted name maze:\n%s", docText(doc))
	}
}

func TestScriptedEmpty(t *testing.T) {
	doc := composeOne(t, Scripted(nil), gallery.Options{Width: 60})
	if findLine(doc, "no scripts loaded; drop .lua files in the script directory") < 0 {
		t.Errorf("missing empty note:\n%s", docText(doc))
	}
}
