// Package viewport tracks the visible window over the gallery
// document and animates scrolling.
package viewport

import (
	"math"
	"sync"
)

// Viewport represents the visible portion of the document. The
// document never scrolls horizontally; lines are composed to the
// content width.
type Viewport struct {
	mu sync.RWMutex

	// First visible document line
	topLine int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep revealed lines this far from the edges)
	marginTop    int
	marginBottom int

	// Scroll animation state
	targetTopLine int
	animating     bool
	smoothScroll  bool

	// Total document lines
	lineCount int
}

// New creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func New(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return &Viewport{
		width:        width,
		height:       height,
		marginTop:    2,
		marginBottom: 2,
		smoothScroll: true,
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

// bottomLine returns the last visible line (internal, no lock).
func (v *Viewport) bottomLine() int {
	bottom := v.topLine + v.height - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = v.lineCount - 1
	}
	return bottom
}

// Resize updates the viewport size.
// Width and height are clamped to a minimum of 1.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	v.width = width
	v.height = height
}

// SetLineCount sets the total number of document lines and clamps the
// scroll position to the new range.
func (v *Viewport) SetLineCount(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if count < 0 {
		count = 0
	}
	v.lineCount = count

	if v.lineCount > 0 && v.topLine >= v.lineCount {
		v.topLine = v.lineCount - 1
	}
	if v.lineCount == 0 {
		v.topLine = 0
	}
	if v.targetTopLine >= v.lineCount {
		v.targetTopLine = v.topLine
		v.animating = false
	}
}

// LineCount returns the total number of document lines.
func (v *Viewport) LineCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lineCount
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(top, bottom int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop = top
	v.marginBottom = bottom
}

// Margins returns the current scroll margins.
func (v *Viewport) Margins() (top, bottom int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.marginTop, v.marginBottom
}

// SetSmoothScroll enables or disables smooth scrolling.
func (v *Viewport) SetSmoothScroll(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.smoothScroll = enabled
}

// SmoothScroll returns whether smooth scrolling is enabled.
func (v *Viewport) SmoothScroll() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.smoothScroll
}

// VisibleRange returns the range of visible document lines, inclusive.
func (v *Viewport) VisibleRange() (start, end int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine, v.bottomLine()
}

// IsLineVisible returns true if the line is within the viewport.
func (v *Viewport) IsLineVisible(line int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line <= v.bottomLine()
}

// LineToRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToRow(line int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line > v.bottomLine() {
		return -1
	}
	return line - v.topLine
}

// RowToLine converts a screen row to a document line, clamped to the
// document.
func (v *Viewport) RowToLine(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if row < 0 {
		return v.topLine
	}
	line := v.topLine + row
	if v.lineCount > 0 && line >= v.lineCount {
		line = v.lineCount - 1
	}
	return line
}

// IsAnimating returns true if a scroll animation is in progress.
func (v *Viewport) IsAnimating() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.animating
}

// ScrollTo scrolls to show the given line at the top.
func (v *Viewport) ScrollTo(line int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTo(line, smooth)
}

// scrollTo performs the scroll (must hold lock).
func (v *Viewport) scrollTo(line int, smooth bool) {
	if line < 0 {
		line = 0
	}
	if v.lineCount > 0 && line >= v.lineCount {
		line = v.lineCount - 1
	}

	if smooth && v.smoothScroll {
		v.targetTopLine = line
		v.animating = true
	} else {
		v.topLine = line
		v.targetTopLine = line
		v.animating = false
	}
}

// ScrollBy scrolls by a delta number of lines.
func (v *Viewport) ScrollBy(deltaLines int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	base := v.topLine
	if v.animating {
		base = v.targetTopLine
	}
	v.scrollTo(base+deltaLines, smooth)
}

// EnsureVisible scrolls minimally so the line sits inside the scroll
// margins. Returns true if scrolling occurred.
func (v *Viewport) EnsureVisible(line int, smooth bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if line < 0 {
		line = 0
	}
	if v.lineCount > 0 && line >= v.lineCount {
		line = v.lineCount - 1
	}

	target := v.topLine
	need := false

	if line < v.topLine+v.marginTop {
		target = line - v.marginTop
		if target < 0 {
			target = 0
		}
		need = true
	} else if line > v.bottomLine()-v.marginBottom {
		if v.height > v.marginBottom {
			target = line - v.height + v.marginBottom + 1
		} else {
			target = line
		}
		need = true
	}

	if need {
		v.scrollTo(target, smooth)
	}
	return need
}

// CenterOn centers the viewport on the given line.
func (v *Viewport) CenterOn(line int, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := line - v.height/2
	if v.lineCount > v.height && target > v.lineCount-v.height {
		target = v.lineCount - v.height
	}
	v.scrollTo(target, smooth)
}

// Update advances scroll animation by dt seconds.
// Returns true if the viewport moved.
func (v *Viewport) Update(dt float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.animating {
		return false
	}

	diff := float64(v.targetTopLine - v.topLine)
	if math.Abs(diff) < 0.5 {
		moved := v.topLine != v.targetTopLine
		v.topLine = v.targetTopLine
		v.animating = false
		return moved
	}

	// Exponential approach: cover a fixed fraction of the remaining
	// distance per frame so convergence does not depend on distance.
	factor := 1.0 - math.Pow(0.1, dt*10)
	move := diff * factor

	// Move at least one line to prevent stalling.
	if math.Abs(move) < 1.0 {
		if diff > 0 {
			move = 1.0
		} else {
			move = -1.0
		}
	}

	if math.Abs(move) >= math.Abs(diff) {
		v.topLine = v.targetTopLine
	} else {
		v.topLine += int(move)
	}

	if v.topLine == v.targetTopLine {
		v.animating = false
	}
	return true
}

// StopAnimation stops any ongoing scroll animation.
func (v *Viewport) StopAnimation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.animating = false
	v.targetTopLine = v.topLine
}

// PageUp scrolls up by one page (viewport height minus overlap).
func (v *Viewport) PageUp(smooth bool) {
	v.ScrollBy(-v.pageSize(), smooth)
}

// PageDown scrolls down by one page (viewport height minus overlap).
func (v *Viewport) PageDown(smooth bool) {
	v.ScrollBy(v.pageSize(), smooth)
}

// pageSize returns the page scroll distance, keeping 2 lines of
// overlap.
func (v *Viewport) pageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	size := v.height - 2
	if size < 1 {
		size = 1
	}
	return size
}

// HalfPageUp scrolls up by half a page.
func (v *Viewport) HalfPageUp(smooth bool) {
	v.ScrollBy(-v.halfPageSize(), smooth)
}

// HalfPageDown scrolls down by half a page.
func (v *Viewport) HalfPageDown(smooth bool) {
	v.ScrollBy(v.halfPageSize(), smooth)
}

func (v *Viewport) halfPageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	size := v.height / 2
	if size < 1 {
		size = 1
	}
	return size
}

// ScrollToTop scrolls to the top of the document.
func (v *Viewport) ScrollToTop(smooth bool) {
	v.ScrollTo(0, smooth)
}

// ScrollToBottom scrolls so the last page of the document is visible.
func (v *Viewport) ScrollToBottom(smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	target := 0
	if v.lineCount > v.height {
		target = v.lineCount - v.height
	}
	v.scrollTo(target, smooth)
}

// Clone returns a copy of the viewport state for inspection.
func (v *Viewport) Clone() *Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return &Viewport{
		topLine:       v.topLine,
		width:         v.width,
		height:        v.height,
		marginTop:     v.marginTop,
		marginBottom:  v.marginBottom,
		targetTopLine: v.targetTopLine,
		animating:     v.animating,
		smoothScroll:  v.smoothScroll,
		lineCount:     v.lineCount,
	}
}
