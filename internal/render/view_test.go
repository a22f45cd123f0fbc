package render

import (
	"strings"
	"testing"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/backend"
)

// newTestBackend creates and initializes a Sim backend.
func newTestBackend(t *testing.T, width, height int) *backend.Sim {
	t.Helper()
	b := backend.NewSim(width, height)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return b
}

// composeDoc builds a document from a single section whose render
// prints the given lines.
func composeDoc(t *testing.T, title string, lines ...string) *gallery.Document {
	t.Helper()
	return composeSections(t, gallery.Section{
		Name:  strings.ToLower(title),
		Title: title,
		Render: func(ctx *gallery.Context) error {
			for _, line := range lines {
				if err := ctx.Print(line); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

func composeSections(t *testing.T, sections ...gallery.Section) *gallery.Document {
	t.Helper()
	doc, err := gallery.Compose(sections, gallery.Options{Width: 60})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return doc
}

// longDoc builds a document with n numbered content lines.
func longDoc(t *testing.T, n int) *gallery.Document {
	t.Helper()
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return composeDoc(t, "Long", lines...)
}

func TestDefaultViewOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.ShowGutter {
		t.Error("expected gutter enabled by default")
	}
	if !opts.SmoothScroll {
		t.Error("expected smooth scroll enabled by default")
	}
	if opts.ScrollMarginTop != 2 || opts.ScrollMarginBottom != 2 {
		t.Errorf("expected margins 2/2, got %d/%d", opts.ScrollMarginTop, opts.ScrollMarginBottom)
	}
	if opts.MaxFPS != 60 {
		t.Errorf("expected MaxFPS 60, got %d", opts.MaxFPS)
	}
}

func TestNewView(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())

	w, h := v.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size 80x24, got %dx%d", w, h)
	}
	if !v.NeedsRedraw() {
		t.Error("new view should need an initial draw")
	}
	if v.Document() != nil {
		t.Error("new view should have no document")
	}
}

func TestViewRenderDocument(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	v.RenderNow()

	if got := sim.RowString(0); got != ">   1 1. Demo" {
		t.Errorf("row 0 = %q, want %q", got, ">   1 1. Demo")
	}
	if got := sim.RowString(2); got != "    3 hello" {
		t.Errorf("row 2 = %q, want %q", got, "    3 hello")
	}
	if v.NeedsRedraw() {
		t.Error("RenderNow should clear the dirty flag")
	}
	if v.FrameCount() != 1 {
		t.Errorf("expected frame count 1, got %d", v.FrameCount())
	}
}

func TestViewFillerRows(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	v.RenderNow()

	// Document has 4 lines; rows past it show the filler.
	if got := sim.RowString(10); got != "    ~" {
		t.Errorf("filler row = %q, want %q", got, "    ~")
	}
}

func TestViewNoGutter(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	opts := DefaultOptions()
	opts.ShowGutter = false
	v := New(sim, opts)
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	v.RenderNow()

	if got := sim.RowString(0); got != "1. Demo" {
		t.Errorf("row 0 = %q, want %q", got, "1. Demo")
	}
}

func TestViewSignGlyphs(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeSections(t, gallery.Section{
		Name:  "demo",
		Title: "Demo",
		Render: func(ctx *gallery.Context) error {
			if err := ctx.Print("plain"); err != nil {
				return err
			}
			return ctx.Note("hint")
		},
	}))

	v.RenderNow()

	if got := sim.RowString(0); got != ">   1 1. Demo" {
		t.Errorf("section row = %q, want %q", got, ">   1 1. Demo")
	}
	if got := sim.RowString(3); got != "*   4 hint" {
		t.Errorf("note row = %q, want %q", got, "*   4 hint")
	}
}

func TestViewFooterDefault(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	v.RenderNow()

	footer := sim.RowString(23)
	if !strings.Contains(footer, "termgallery") {
		t.Errorf("footer = %q, want app name", footer)
	}
	if !strings.HasSuffix(footer, "100%") {
		t.Errorf("footer = %q, want 100%% for a short document", footer)
	}
}

func TestViewFooterStatus(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))
	v.SetStatus(Status{
		Section:      "boxes",
		SectionIndex: 2,
		SectionCount: 5,
		ASCII:        true,
		Message:      "config reloaded",
	})

	v.RenderNow()

	footer := sim.RowString(23)
	if !strings.Contains(footer, " boxes 2/5 ") {
		t.Errorf("footer = %q, want section position", footer)
	}
	if !strings.Contains(footer, "[ascii]") {
		t.Errorf("footer = %q, want ascii marker", footer)
	}
	if !strings.Contains(footer, "config reloaded") {
		t.Errorf("footer = %q, want message", footer)
	}
}

func TestViewFooterPercent(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))

	v.RenderNow()
	if footer := sim.RowString(23); !strings.HasSuffix(footer, "0%") {
		t.Errorf("footer at top = %q, want 0%%", footer)
	}

	v.ScrollToBottom(false)
	v.RenderNow()
	if footer := sim.RowString(23); !strings.HasSuffix(footer, "100%") {
		t.Errorf("footer at bottom = %q, want 100%%", footer)
	}
}

func TestViewScrollBy(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.RenderNow()

	v.ScrollBy(5, false)

	if !v.NeedsRedraw() {
		t.Error("ScrollBy should mark redraw needed")
	}
	if top := v.Viewport().TopLine(); top != 5 {
		t.Errorf("expected top line 5, got %d", top)
	}
}

func TestViewReveal(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.RenderNow()

	v.Reveal(60, false)

	if !v.NeedsRedraw() {
		t.Error("Reveal should mark redraw needed")
	}
	if !v.Viewport().IsLineVisible(60) {
		t.Error("line 60 should be visible after Reveal")
	}
}

func TestViewHomeEnd(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))

	v.ScrollToBottom(false)
	if top := v.Viewport().TopLine(); top == 0 {
		t.Error("ScrollToBottom should move off the top")
	}

	v.ScrollToTop(false)
	if top := v.Viewport().TopLine(); top != 0 {
		t.Errorf("expected top line 0 after ScrollToTop, got %d", top)
	}
}

func TestViewPageScroll(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.RenderNow()

	v.PageDown(false)
	afterDown := v.Viewport().TopLine()
	if afterDown <= 0 {
		t.Errorf("expected PageDown to advance, top line %d", afterDown)
	}

	v.PageUp(false)
	if top := v.Viewport().TopLine(); top != 0 {
		t.Errorf("expected PageUp to return to 0, got %d", top)
	}
}

func TestViewFrameRateLimiting(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	v.Render()
	firstCount := v.FrameCount()

	v.MarkDirty()
	v.Render()
	secondCount := v.FrameCount()

	if secondCount > firstCount {
		t.Error("immediate second render should be rate-limited")
	}
}

func TestViewUpdate(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))
	v.RenderNow()

	if v.Update(0.016) {
		t.Error("Update without changes should not need redraw")
	}
}

func TestViewUpdateAnimatesScroll(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.RenderNow()

	v.ScrollTo(50, true)
	if !v.Update(0.016) {
		t.Error("Update during animation should need redraw")
	}

	for i := 0; i < 1000 && v.Viewport().IsAnimating(); i++ {
		v.Update(0.016)
		v.RenderNow()
	}

	if top := v.Viewport().TopLine(); top != 50 {
		t.Errorf("expected animation to settle at 50, got %d", top)
	}
}

func TestViewCursorParksOnActiveLine(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.SetStatus(Status{Section: "long", ActiveLine: 0})

	v.RenderNow()
	x, y, visible := sim.CursorPosition()
	if !visible {
		t.Fatal("cursor should be visible on the active line")
	}
	if x != 0 || y != 0 {
		t.Errorf("expected cursor at 0,0, got %d,%d", x, y)
	}

	v.ScrollTo(80, false)
	v.RenderNow()
	if _, _, visible := sim.CursorPosition(); visible {
		t.Error("cursor should hide when the active line scrolls away")
	}
}

func TestViewResize(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))
	v.RenderNow()

	sim.Resize(100, 30)

	if !v.NeedsRedraw() {
		t.Error("resize should mark redraw needed")
	}
	w, h := v.Size()
	if w != 100 || h != 30 {
		t.Errorf("expected size 100x30, got %dx%d", w, h)
	}

	v.RenderNow()
	if got := sim.RowString(0); got != ">   1 1. Demo" {
		t.Errorf("row 0 after resize = %q, want %q", got, ">   1 1. Demo")
	}
}

func TestViewSetDocumentKeepsScroll(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(longDoc(t, 100))
	v.ScrollTo(50, false)

	v.SetDocument(longDoc(t, 100))
	if top := v.Viewport().TopLine(); top != 50 {
		t.Errorf("expected scroll kept at 50 across recompose, got %d", top)
	}

	v.SetDocument(composeDoc(t, "Short", "one"))
	if top := v.Viewport().TopLine(); top != 0 {
		t.Errorf("expected scroll clamped to 0 for a short document, got %d", top)
	}
}

func TestViewSetOptions(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))
	v.RenderNow()

	opts := v.Options()
	opts.ShowGutter = false
	v.SetOptions(opts)

	if !v.NeedsRedraw() {
		t.Error("SetOptions should mark redraw needed")
	}
	if v.Options().ShowGutter {
		t.Error("expected gutter disabled after SetOptions")
	}

	v.RenderNow()
	if got := sim.RowString(0); got != "1. Demo" {
		t.Errorf("row 0 without gutter = %q, want %q", got, "1. Demo")
	}
}

func TestViewEmptyDocument(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())

	v.RenderNow()

	if v.FrameCount() != 1 {
		t.Errorf("expected frame count 1, got %d", v.FrameCount())
	}
	if footer := sim.RowString(23); !strings.Contains(footer, "termgallery") {
		t.Errorf("footer = %q, want app name", footer)
	}
}

func TestViewGutterWidth(t *testing.T) {
	sim := newTestBackend(t, 80, 24)
	v := New(sim, DefaultOptions())
	v.SetDocument(composeDoc(t, "Demo", "hello"))

	if w := v.GutterWidth(); w != 6 {
		t.Errorf("expected gutter width 6, got %d", w)
	}
}
