package sections

import (
	"errors"

	"github.com/dshills/termgallery/internal/decor"
	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/translit"
)

const (
	paneWidth  = 20
	paneHeight = 5
	maxPanes   = 6
)

// Panes returns the pane decoration section. It drives the tracker
// through bus events and draws the resulting focus rings inline.
func Panes() gallery.Section {
	return gallery.Section{
		Name:     "panes",
		Title:    "Pane decorations",
		Describe: "focus rings react to pane events on the bus",
		Render:   renderPanes,
	}
}

func renderPanes(ctx *gallery.Context) error {
	if ctx.Bus == nil || ctx.Panes == nil {
		return ctx.Note("pane tracking is not wired in this mode")
	}

	seedPanes(ctx)
	canvasHeight := layoutPanes(ctx)

	panes := ctx.Panes.Panes()
	focused := "none"
	if f, ok := ctx.Panes.Focused(); ok {
		focused = f.ID
	}
	if err := ctx.Printf("tracked panes: %d, focused: %s", len(panes), focused); err != nil {
		return err
	}
	if err := ctx.Note("keys: o opens a pane, x closes it, f moves focus"); err != nil {
		return err
	}
	if err := ctx.Print(""); err != nil {
		return err
	}
	if len(panes) == 0 {
		return nil
	}

	return renderPaneCanvas(ctx, canvasHeight)
}

// seedPanes opens the initial demo panes through the bus, so the
// tracker subscription does the actual bookkeeping.
func seedPanes(ctx *gallery.Context) {
	if ctx.Panes.Count() > 0 {
		return
	}
	ctx.Publish(event.PaneOpened{ID: "help", Title: "help"})
	ctx.Publish(event.PaneOpened{ID: "log", Title: "log"})
	ctx.Publish(event.PaneFocused{ID: "help"})
}

// layoutPanes tiles tracked panes into the inline canvas and returns
// the canvas height. Panes beyond the display cap get an empty rect,
// which DrawRing skips.
func layoutPanes(ctx *gallery.Context) int {
	perRow := (ctx.Width - 1) / (paneWidth + 2)
	if perRow < 1 {
		perRow = 1
	}

	panes := ctx.Panes.Panes()
	shown := len(panes)
	if shown > maxPanes {
		shown = maxPanes
	}

	for i, p := range panes {
		if i >= shown {
			ctx.Panes.Resize(p.ID, core.ScreenRect{})
			continue
		}
		top := 1 + (i/perRow)*(paneHeight+1)
		left := 1 + (i%perRow)*(paneWidth+2)
		ctx.Panes.Resize(p.ID, core.RectFromSize(top, left, paneHeight, paneWidth))
	}

	if shown == 0 {
		return 0
	}
	rows := (shown + perRow - 1) / perRow
	return 1 + rows*(paneHeight+1)
}

// renderPaneCanvas draws the rings under the display policy. Ring
// glyphs are box-drawing, so the same probe/attempt/transliterate
// ladder applies as for tables.
func renderPaneCanvas(ctx *gallery.Context, height int) error {
	drawRaw := func(g *core.Grid) { drawPaneRings(g, ctx.Panes) }
	drawASCII := func(g *core.Grid) {
		drawPaneRings(g, ctx.Panes)
		transliterateGrid(g)
	}

	if ctx.ForceASCII {
		return ctx.Block(height, drawASCII)
	}

	if ctx.CanDisplay != nil {
		for _, r := range decor.RingGlyphs() {
			if !ctx.CanDisplay(r) {
				noteCanvasFallback(ctx, r)
				return ctx.Block(height, drawASCII)
			}
		}
		return ctx.Block(height, drawRaw)
	}

	err := ctx.Block(height, drawRaw)
	if err == nil {
		return nil
	}
	var ge *gallery.GlyphError
	if !errors.As(err, &ge) {
		return err
	}
	noteCanvasFallback(ctx, ge.Rune)
	return ctx.Block(height, drawASCII)
}

func drawPaneRings(g *core.Grid, tracker *decor.Tracker) {
	for _, p := range tracker.Panes() {
		style := tracker.RingStyle(p.Focused)
		decor.DrawRing(g, p.Rect, style)

		title := " " + p.Title + " "
		if core.StringWidth(title)+2 <= p.Rect.Width() {
			g.WriteString(p.Rect.Left+1, p.Rect.Top, title, style)
		}
	}
}

// transliterateGrid rewrites box-drawing cells in place.
func transliterateGrid(g *core.Grid) {
	for y := 0; y < g.Height(); y++ {
		for x, cell := range g.Row(y) {
			if cell.IsContinuation() {
				continue
			}
			if sub := translit.Classify(cell.Rune); sub != cell.Rune {
				cell.Rune = sub
				g.Set(x, y, cell)
			}
		}
	}
}

func noteCanvasFallback(ctx *gallery.Context, glyph rune) {
	ctx.MarkFallback()
	ctx.Publish(event.DisplayFallback{Section: "panes", Glyph: glyph})
}
