// Package render draws a composed gallery document onto a backend
// surface: gutter with line numbers and signs, the document lines, a
// status footer, and smooth scrolling through the viewport.
package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/backend"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/render/gutter"
	"github.com/dshills/termgallery/internal/render/viewport"
)

// Options configures the document view.
type Options struct {
	// ShowGutter draws line numbers and the sign column.
	ShowGutter bool

	// SmoothScroll animates scroll movement.
	SmoothScroll bool

	// ScrollMarginTop and ScrollMarginBottom keep lines visible around
	// the line being revealed.
	ScrollMarginTop    int
	ScrollMarginBottom int

	// MaxFPS caps the render rate. Zero means 60.
	MaxFPS int
}

// DefaultOptions returns the standard view configuration.
func DefaultOptions() Options {
	return Options{
		ShowGutter:         true,
		SmoothScroll:       true,
		ScrollMarginTop:    2,
		ScrollMarginBottom: 2,
		MaxFPS:             60,
	}
}

// Status is the footer content, owned by the application.
type Status struct {
	// Section is the active section name.
	Section string

	// SectionIndex is 1-based; SectionCount the total.
	SectionIndex int
	SectionCount int

	// ActiveLine is the document line of the active section title. The
	// cursor parks there when visible.
	ActiveLine int

	// ASCII reports that forced transliteration is on.
	ASCII bool

	// Message is a transient notice (config reloads, script errors).
	Message string
}

// View renders a gallery document. All methods are safe for concurrent
// use.
type View struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	width   int
	height  int

	doc *gallery.Document
	vp  *viewport.Viewport
	gut *gutter.Gutter

	status Status

	lastFrame   time.Time
	minFrame    time.Duration
	frames      uint64
	needsRedraw bool
	fullRedraw  bool
}

// New creates a view on an initialized backend.
func New(b backend.Backend, opts Options) *View {
	if opts.MaxFPS <= 0 {
		opts.MaxFPS = 60
	}
	width, height := b.Size()

	v := &View{
		opts:        opts,
		backend:     b,
		width:       width,
		height:      height,
		vp:          viewport.New(width, contentRows(height)),
		gut:         gutter.New(gutterConfig(opts)),
		lastFrame:   time.Now(),
		minFrame:    time.Second / time.Duration(opts.MaxFPS),
		needsRedraw: true,
		fullRedraw:  true,
	}
	v.vp.SetMargins(opts.ScrollMarginTop, opts.ScrollMarginBottom)
	v.vp.SetSmoothScroll(opts.SmoothScroll)

	b.OnResize(v.Resize)
	return v
}

func gutterConfig(opts Options) gutter.Config {
	cfg := gutter.DefaultConfig()
	if !opts.ShowGutter {
		cfg.ShowSigns = false
		cfg.ShowLineNumbers = false
	}
	return cfg
}

// contentRows returns the rows left for document content after the
// footer. A one-row surface has no footer.
func contentRows(height int) int {
	if height < 2 {
		return height
	}
	return height - 1
}

// SetDocument installs a freshly composed document. The scroll
// position is kept where possible so recomposition does not jump.
func (v *View) SetDocument(doc *gallery.Document) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.doc = doc
	if doc != nil {
		v.vp.SetLineCount(doc.LineCount())
		maxTop := doc.LineCount() - contentRows(v.height)
		if maxTop < 0 {
			maxTop = 0
		}
		if v.vp.TopLine() > maxTop {
			v.vp.ScrollTo(maxTop, false)
		}
		v.gut.SetLineCount(doc.LineCount())
		v.gut.SetSignProvider(docSigns{doc})
	} else {
		v.vp.SetLineCount(0)
		v.gut.SetLineCount(0)
		v.gut.SetSignProvider(nil)
	}
	v.needsRedraw = true
	v.fullRedraw = true
}

// Document returns the installed document.
func (v *View) Document() *gallery.Document {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doc
}

// Viewport exposes the scroll state for read access.
func (v *View) Viewport() *viewport.Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vp
}

// Options returns the current view options.
func (v *View) Options() Options {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts
}

// SetOptions applies new options, for config reloads.
func (v *View) SetOptions(opts Options) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if opts.MaxFPS <= 0 {
		opts.MaxFPS = 60
	}
	v.opts = opts
	v.minFrame = time.Second / time.Duration(opts.MaxFPS)
	v.vp.SetMargins(opts.ScrollMarginTop, opts.ScrollMarginBottom)
	v.vp.SetSmoothScroll(opts.SmoothScroll)
	v.gut.SetConfig(gutterConfig(opts))
	v.needsRedraw = true
	v.fullRedraw = true
}

// SetStatus replaces the footer content.
func (v *View) SetStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = s
	v.gut.SetCurrentLine(s.ActiveLine)
	v.needsRedraw = true
}

// Status returns the current footer content.
func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// ScrollBy moves the viewport by a number of lines.
func (v *View) ScrollBy(delta int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.ScrollBy(delta, smooth)
	v.needsRedraw = true
}

// ScrollTo jumps the viewport to a line.
func (v *View) ScrollTo(line int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.ScrollTo(line, smooth)
	v.needsRedraw = true
}

// Reveal scrolls the minimum needed to bring a line into view,
// honoring the margins.
func (v *View) Reveal(line int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.EnsureVisible(line, smooth)
	v.needsRedraw = true
}

// PageUp scrolls up a page.
func (v *View) PageUp(smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.PageUp(smooth)
	v.needsRedraw = true
}

// PageDown scrolls down a page.
func (v *View) PageDown(smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.PageDown(smooth)
	v.needsRedraw = true
}

// ScrollToTop jumps to the first line.
func (v *View) ScrollToTop(smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.ScrollToTop(smooth)
	v.needsRedraw = true
}

// ScrollToBottom jumps so the last page is visible.
func (v *View) ScrollToBottom(smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vp.ScrollToBottom(smooth)
	v.needsRedraw = true
}

// MarkDirty schedules a redraw.
func (v *View) MarkDirty() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.needsRedraw = true
}

// Resize adapts to a new surface size.
func (v *View) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
	v.vp.Resize(width, contentRows(height))
	v.needsRedraw = true
	v.fullRedraw = true
}

// Size returns the surface dimensions.
func (v *View) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// GutterWidth returns the width of the gutter column.
func (v *View) GutterWidth() int {
	return v.gut.Width()
}

// NeedsRedraw reports whether the next Render will draw.
func (v *View) NeedsRedraw() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.needsRedraw
}

// Update advances scroll animation. dt is in seconds. It reports
// whether the display needs redrawing.
func (v *View) Update(dt float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.vp.Update(dt) {
		v.needsRedraw = true
	}
	return v.needsRedraw
}

// Render draws a frame if one is due, respecting the FPS cap.
func (v *View) Render() {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.Sub(v.lastFrame) < v.minFrame {
		return
	}
	v.lastFrame = now

	if !v.needsRedraw {
		return
	}
	v.render()
}

// RenderNow draws immediately, ignoring the FPS cap.
func (v *View) RenderNow() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.render()
	v.lastFrame = time.Now()
}

// FrameCount returns the number of frames drawn.
func (v *View) FrameCount() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// render draws the full surface. Callers hold the lock.
func (v *View) render() {
	rows := contentRows(v.height)
	if v.doc == nil {
		v.backend.Clear()
		v.backend.HideCursor()
		v.renderFooter(rows)
		v.backend.Show()
		v.needsRedraw = false
		v.fullRedraw = false
		v.frames++
		return
	}

	if v.fullRedraw {
		v.backend.Clear()
	}

	top := v.vp.TopLine()
	for row := 0; row < rows; row++ {
		v.renderRow(top+row, row)
	}
	v.renderFooter(rows)
	v.renderCursor(top, rows)

	v.backend.Show()
	v.needsRedraw = false
	v.fullRedraw = false
	v.frames++
}

// renderRow draws the gutter and content of one document line at a
// screen row.
func (v *View) renderRow(line, row int) {
	exists := line >= 0 && line < v.doc.LineCount()

	gutterWidth := 0
	if v.opts.ShowGutter {
		for x, cell := range v.gut.RenderLine(line, exists) {
			v.backend.SetCell(x, row, core.NewStyledCell(cell.Rune, signStyle(cell.Style)))
		}
		gutterWidth = v.gut.Width()
	}

	var cells []core.Cell
	if exists {
		cells = v.doc.LineCells(line)
	}
	empty := core.EmptyCell()
	for x := 0; gutterWidth+x < v.width; x++ {
		cell := empty
		if x < len(cells) {
			cell = cells[x]
		}
		v.backend.SetCell(gutterWidth+x, row, cell)
	}
}

// renderFooter draws the status bar on the bottom row.
func (v *View) renderFooter(row int) {
	if v.height < 2 {
		return
	}

	bar := core.DefaultStyle().Reverse()
	left := v.statusLeft()
	right := fmt.Sprintf(" %3d%% ", v.scrollPercent())

	cells := core.CellsFromString(left, bar)
	for x := 0; x < v.width; x++ {
		cell := core.NewStyledCell(' ', bar)
		if x < len(cells) {
			cell = cells[x]
		}
		v.backend.SetCell(x, row, cell)
	}
	rightCells := core.CellsFromString(right, bar)
	start := v.width - len(rightCells)
	for i, cell := range rightCells {
		v.backend.SetCell(start+i, row, cell)
	}
}

func (v *View) statusLeft() string {
	s := v.status
	text := " termgallery "
	if s.Section != "" {
		text = fmt.Sprintf(" %s %d/%d ", s.Section, s.SectionIndex, s.SectionCount)
	}
	if s.ASCII {
		text += "[ascii] "
	}
	if s.Message != "" {
		text += s.Message + " "
	}
	return text
}

// scrollPercent reports how far down the viewport sits, 0 at the top
// and 100 when the end is visible.
func (v *View) scrollPercent() int {
	lines := 0
	if v.doc != nil {
		lines = v.doc.LineCount()
	}
	denom := lines - contentRows(v.height)
	if denom <= 0 {
		return 100
	}
	pct := v.vp.TopLine() * 100 / denom
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// renderCursor parks the terminal cursor on the active section title so
// cursor style changes are visible, and hides it when scrolled away.
func (v *View) renderCursor(top, rows int) {
	row := v.status.ActiveLine - top
	if row < 0 || row >= rows {
		v.backend.HideCursor()
		return
	}
	v.backend.ShowCursor(0, row)
}

// signStyle maps abstract gutter styles onto the view palette. The
// signs section demo uses the same colors so the inline rendering
// matches the real margin.
func signStyle(s gutter.CellStyle) core.Style {
	switch s {
	case gutter.StyleCurrentLine:
		return core.DefaultStyle().Bold()
	case gutter.StyleDim:
		return core.DefaultStyle().Dim()
	case gutter.StyleSection:
		return core.NewStyle(core.ColorFromRGB(255, 135, 0))
	case gutter.StyleNote:
		return core.NewStyle(core.ColorFromRGB(95, 175, 255))
	case gutter.StyleFallback:
		return core.NewStyle(core.ColorFromRGB(255, 95, 95)).Bold()
	default:
		return core.DefaultStyle()
	}
}

// docSigns adapts document marks to the gutter sign interface.
type docSigns struct {
	doc *gallery.Document
}

// SignsForLine returns the document marks on a line as gutter signs.
func (d docSigns) SignsForLine(line int) []gutter.Sign {
	marks := d.doc.MarksForLine(line)
	if len(marks) == 0 {
		return nil
	}
	signs := make([]gutter.Sign, 0, len(marks))
	for _, m := range marks {
		kind := gutter.SignNone
		switch m.Kind {
		case gallery.MarkSection:
			kind = gutter.SignSection
		case gallery.MarkNote:
			kind = gutter.SignNote
		case gallery.MarkFallback:
			kind = gutter.SignFallback
		}
		if kind != gutter.SignNone {
			signs = append(signs, gutter.Sign{Line: line, Kind: kind})
		}
	}
	return signs
}
