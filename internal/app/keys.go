package app

import (
	"fmt"

	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/render/backend"
)

// handleEvent routes one backend event. Key handlers may return
// ErrQuit to stop the loop.
func (a *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return a.handleKey(ev)
	case backend.EventResize:
		// The view already resized through its backend callback; the
		// document still has to re-wrap to the new width.
		a.composeDocument()
	case backend.EventMouse:
		a.handleMouse(ev)
	}
	return nil
}

func (a *Application) handleKey(ev backend.Event) error {
	a.clearMessage()

	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyRune:
		return a.handleRune(ev.Rune)
	case backend.KeyUp:
		a.scrollBy(-1)
	case backend.KeyDown:
		a.scrollBy(1)
	case backend.KeyPageUp, backend.KeyCtrlB:
		a.view.PageUp(a.smooth())
		a.trackScroll()
	case backend.KeyPageDown, backend.KeyCtrlF:
		a.view.PageDown(a.smooth())
		a.trackScroll()
	case backend.KeyCtrlU:
		a.scrollBy(-a.halfPage())
	case backend.KeyCtrlD:
		a.scrollBy(a.halfPage())
	case backend.KeyHome:
		a.view.ScrollToTop(a.smooth())
		a.trackScroll()
	case backend.KeyEnd:
		a.view.ScrollToBottom(a.smooth())
		a.trackScroll()
	case backend.KeyCtrlL:
		a.composeDocument()
	}
	return nil
}

func (a *Application) handleRune(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'j':
		a.scrollBy(1)
	case 'k':
		a.scrollBy(-1)
	case 'n':
		a.stepSection(1)
	case 'p':
		a.stepSection(-1)
	case 'g':
		a.view.ScrollToTop(a.smooth())
		a.trackScroll()
	case 'G':
		a.view.ScrollToBottom(a.smooth())
		a.trackScroll()
	case 'a':
		a.toggleASCII()
	case 'c':
		a.cycleCursor()
	case 'o':
		a.openPane()
	case 'x':
		a.closePane()
	case 'f':
		a.cycleFocus()
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		a.activateSection(int(r-'1'), a.smooth(), true)
	}
	return nil
}

func (a *Application) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		a.scrollBy(-a.wheelLines())
	case backend.MouseWheelDown:
		a.scrollBy(a.wheelLines())
	}
}

func (a *Application) scrollBy(lines int) {
	a.view.ScrollBy(lines, a.smooth())
	a.trackScroll()
}

func (a *Application) stepSection(delta int) {
	a.mu.Lock()
	idx := a.active + delta
	a.mu.Unlock()
	a.activateSection(idx, a.smooth(), true)
}

// smooth reads the animation setting back from the view, which tracks
// the live config.
func (a *Application) smooth() bool {
	return a.view.Options().SmoothScroll
}

func (a *Application) halfPage() int {
	_, h := a.view.Size()
	n := (h - 1) / 2
	if n < 1 {
		n = 1
	}
	return n
}

func (a *Application) wheelLines() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.cfg.Scroll.WheelLines
	if n <= 0 {
		n = 3
	}
	return n
}

// toggleASCII flips forced transliteration and recomposes so every
// section re-renders under the new policy.
func (a *Application) toggleASCII() {
	a.mu.Lock()
	a.ascii = !a.ascii
	if a.ascii {
		a.message = "ascii forced"
	} else {
		a.message = "ascii " + a.cfg.Display.Fallback
	}
	a.composeLocked()
	a.mu.Unlock()
}

// cycleCursor steps the terminal cursor through the visible styles.
func (a *Application) cycleCursor() {
	styles := backend.VisibleCursorStyles()

	a.mu.Lock()
	a.cursorStyle = (a.cursorStyle + 1) % len(styles)
	style := styles[a.cursorStyle]
	a.message = "cursor: " + style.String()
	b := a.backend
	a.syncStatusLocked()
	a.mu.Unlock()

	b.SetCursorStyle(style)
}

func (a *Application) beep() {
	a.mu.Lock()
	b := a.backend
	a.mu.Unlock()
	if b != nil {
		b.Beep()
	}
}

// onPanesSection reports whether navigation currently sits on the
// panes section, the only place pane keys make sense.
func (a *Application) onPanesSection() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return false
	}
	marks := a.doc.SectionMarks()
	return a.active >= 0 && a.active < len(marks) && marks[a.active].Name == "panes"
}

// openPane opens a demo pane through the bus. The tracker and the
// panes section react to the event; nothing here touches them
// directly.
func (a *Application) openPane() {
	if !a.onPanesSection() {
		a.beep()
		return
	}

	a.mu.Lock()
	a.paneSeq++
	id := fmt.Sprintf("pane%d", a.paneSeq)
	a.mu.Unlock()

	a.publish(event.PaneOpened{ID: id, Title: id})
	a.publish(event.PaneFocused{ID: id})
}

// closePane closes the most recently opened pane.
func (a *Application) closePane() {
	if !a.onPanesSection() {
		a.beep()
		return
	}

	panes := a.panes.Panes()
	if len(panes) == 0 {
		a.beep()
		return
	}
	a.publish(event.PaneClosed{ID: panes[len(panes)-1].ID})
}

// cycleFocus moves pane focus to the next pane in open order.
func (a *Application) cycleFocus() {
	if !a.onPanesSection() {
		a.beep()
		return
	}

	panes := a.panes.Panes()
	if len(panes) == 0 {
		a.beep()
		return
	}

	next := panes[0]
	prev := ""
	if cur, ok := a.panes.Focused(); ok {
		prev = cur.ID
		for i, p := range panes {
			if p.ID == cur.ID {
				next = panes[(i+1)%len(panes)]
				break
			}
		}
	}
	a.publish(event.PaneFocused{ID: next.ID, PrevID: prev})
}

func (a *Application) clearMessage() {
	a.mu.Lock()
	if a.message != "" {
		a.message = ""
		a.syncStatusLocked()
	}
	a.mu.Unlock()
}
