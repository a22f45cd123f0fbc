package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termgallery/internal/render/core"
)

func TestSimCellRoundTrip(t *testing.T) {
	b := NewSim(10, 4)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	cell := core.NewStyledCell('x', core.NewStyle(core.ColorRed).Bold())
	b.SetCell(2, 1, cell)

	got := b.GetCell(2, 1)
	if !got.Equals(cell) {
		t.Errorf("GetCell = %+v, want %+v", got, cell)
	}

	// Out-of-range access.
	b.SetCell(99, 0, cell)
	if got := b.GetCell(99, 0); !got.Equals(core.EmptyCell()) {
		t.Errorf("out-of-range GetCell = %+v, want empty", got)
	}
}

func TestSimCanDisplay(t *testing.T) {
	b := NewSim(10, 4)

	if !b.CanDisplay('─') {
		t.Error("default Sim should display everything")
	}

	b.SetUndisplayable('─', '│')
	if b.CanDisplay('─') || b.CanDisplay('│') {
		t.Error("undisplayable runes should not be displayable")
	}
	if !b.CanDisplay('x') {
		t.Error("other runes should stay displayable")
	}

	b.SetUndisplayableRange(0x2550, 0x2580)
	if b.CanDisplay(0x2554) {
		t.Error("range-marked rune should not be displayable")
	}
	if !b.CanDisplay(0x2500) {
		t.Error("rune below range should stay displayable")
	}
}

func TestSimFallbackRegistry(t *testing.T) {
	b := NewSim(10, 4)

	b.RegisterFallback('─', "-")

	if sub, ok := b.FallbackFor('─'); !ok || sub != "-" {
		t.Errorf("FallbackFor = (%q, %v), want (\"-\", true)", sub, ok)
	}
	if _, ok := b.FallbackFor('│'); ok {
		t.Error("unregistered rune should have no fallback")
	}
}

func TestSimCursor(t *testing.T) {
	b := NewSim(10, 4)

	b.ShowCursor(3, 2)
	if x, y, visible := b.CursorPosition(); x != 3 || y != 2 || !visible {
		t.Errorf("cursor = (%d,%d,%v), want (3,2,true)", x, y, visible)
	}

	b.HideCursor()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor should be hidden")
	}

	b.SetCursorStyle(CursorSteadyBar)
	if got := b.CursorStyleValue(); got != CursorSteadyBar {
		t.Errorf("cursor style = %v, want steady bar", got)
	}
}

func TestSimEvents(t *testing.T) {
	b := NewSim(10, 4)

	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("polled event = %+v", ev)
	}
}

func TestSimResize(t *testing.T) {
	b := NewSim(10, 4)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var gotW, gotH int
	b.OnResize(func(w, h int) { gotW, gotH = w, h })

	b.Resize(20, 8)

	if gotW != 20 || gotH != 8 {
		t.Errorf("resize handler got (%d,%d), want (20,8)", gotW, gotH)
	}
	if w, h := b.Size(); w != 20 || h != 8 {
		t.Errorf("Size = (%d,%d), want (20,8)", w, h)
	}
	if ev := b.PollEvent(); ev.Type != EventResize || ev.Width != 20 {
		t.Errorf("resize event = %+v", ev)
	}
}

func TestSimRowString(t *testing.T) {
	b := NewSim(10, 2)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i, r := range "hi" {
		b.SetCell(i, 0, core.NewCell(r))
	}

	if got := b.RowString(0); got != "hi" {
		t.Errorf("RowString(0) = %q, want %q", got, "hi")
	}
	if got := b.RowString(5); got != "" {
		t.Errorf("RowString out of range = %q, want empty", got)
	}
}

func TestConvertStyleRoundTrip(t *testing.T) {
	styles := []core.Style{
		core.DefaultStyle(),
		core.NewStyle(core.ColorFromRGB(10, 20, 30)).Bold().Underline(),
		core.DefaultStyle().WithBackground(core.ColorFromIndex(42)).Dim(),
		core.NewStyle(core.ColorFromIndex(7)).Reverse(),
	}

	for _, s := range styles {
		got := convertTcellStyle(convertStyle(s))
		if !got.Equals(s) {
			t.Errorf("style round trip: got %+v, want %+v", got, s)
		}
	}
}

func TestConvertTcellColor(t *testing.T) {
	if got := convertTcellColor(tcell.ColorDefault); !got.IsDefault() {
		t.Errorf("default color = %+v", got)
	}

	idx := convertTcellColor(tcell.PaletteColor(42))
	if !idx.Indexed || idx.R != 42 {
		t.Errorf("palette color = %+v, want index 42", idx)
	}

	rgb := convertTcellColor(tcell.NewRGBColor(255, 128, 64))
	if rgb.Indexed || rgb.R != 255 || rgb.G != 128 || rgb.B != 64 {
		t.Errorf("rgb color = %+v, want (255,128,64)", rgb)
	}
}

func TestConvertKeyRoundTrip(t *testing.T) {
	keys := []Key{
		KeyEscape, KeyEnter, KeyTab, KeyBackspace, KeyHome, KeyEnd,
		KeyPageUp, KeyPageDown, KeyUp, KeyDown, KeyLeft, KeyRight,
		KeyCtrlB, KeyCtrlC, KeyCtrlD, KeyCtrlF, KeyCtrlL, KeyCtrlU,
	}

	for _, k := range keys {
		if got := convertKey(convertToTcellKey(k)); got != k {
			t.Errorf("key round trip: got %v, want %v", got, k)
		}
	}
}

func TestCursorStyleString(t *testing.T) {
	if got := CursorSteadyBlock.String(); got != "steady block" {
		t.Errorf("String = %q", got)
	}
	if got := CursorStyle(99).String(); got != "unknown" {
		t.Errorf("String = %q", got)
	}
	if n := len(VisibleCursorStyles()); n != 7 {
		t.Errorf("VisibleCursorStyles count = %d, want 7", n)
	}
}
