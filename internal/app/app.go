// Package app wires the gallery together: configuration, logging, the
// event bus, scripted sections, the composed document and the render
// loop. Application owns component lifecycles; every other package
// stays usable on its own.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/termgallery/internal/config"
	"github.com/dshills/termgallery/internal/config/watcher"
	"github.com/dshills/termgallery/internal/decor"
	"github.com/dshills/termgallery/internal/event"
	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/gallery/sections"
	"github.com/dshills/termgallery/internal/render"
	"github.com/dshills/termgallery/internal/render/backend"
	"github.com/dshills/termgallery/internal/script"
)

// eventQueueSize is the input event buffer between the poll goroutine
// and the event loop.
const eventQueueSize = 100

// Options configures the application.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string

	// ScriptDir overrides the script directory from the config.
	ScriptDir string

	// ForceASCII starts with ASCII output forced on, as if the a key
	// had been pressed.
	ForceASCII bool

	// Debug enables debug logging to stderr when no log file is
	// configured.
	Debug bool

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
}

// Application is the top-level gallery coordinator.
type Application struct {
	mu sync.Mutex

	opts       Options
	configPath string

	logger  *Logger
	logFile io.Closer

	cfg *config.Config

	bus     *event.Bus
	panes   *decor.Tracker
	engine  *script.Engine
	watcher *watcher.Watcher
	subs    []*event.Subscription

	backend backend.Backend
	view    *render.View

	sections []gallery.Section
	doc      *gallery.Document

	active      int
	ascii       bool
	message     string
	cursorStyle int
	paneSeq     int

	// pendingCfg and pendingErr carry a reload from the watcher
	// goroutine to the event loop.
	pendingCfg *config.Config
	pendingErr error
	recompose  atomic.Bool

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New builds an application from options. Failures with a sane
// fallback (missing config file, unreadable scripts) degrade with a
// logged warning; failures that leave nothing to run on return an
// InitError.
func New(opts Options) (*Application, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, found, cfgErr := config.Load(configPath)
	if cfg == nil {
		cfg = config.Default()
	}

	logger, logFile, err := newLogger(opts, cfg)
	if err != nil {
		return nil, &InitError{Component: "log", Err: err}
	}
	SetLogger(logger)
	switch {
	case cfgErr != nil:
		logger.Warn("config %s: %v (using defaults)", configPath, cfgErr)
	case found:
		logger.Info("config loaded from %s", configPath)
	default:
		logger.Debug("no config at %s, using defaults", configPath)
	}

	a := &Application{
		opts:       opts,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
		logFile:    logFile,
		ascii:      opts.ForceASCII || cfg.Display.Fallback == config.FallbackAlways,
		done:       make(chan struct{}),
	}

	fail := func(component string, err error) (*Application, error) {
		a.release()
		return nil, &InitError{Component: component, Err: err}
	}

	a.bus = event.NewBus(event.WithPanicHandler(func(_ any, recovered any) {
		logger.WithComponent("bus").Error("handler panic: %v", recovered)
	}))

	a.panes = decor.NewTracker(decor.DefaultConfig())
	sub, err := a.panes.Bind(a.bus)
	if err != nil {
		return fail("decor", err)
	}
	a.subs = append(a.subs, sub)

	if cfg.Gallery.ScriptsEnabled {
		a.engine = script.New(script.WithPrinter(func(msg string) {
			logger.WithComponent("script").Info("%s", msg)
		}))
		dir := opts.ScriptDir
		if dir == "" {
			dir = cfg.ScriptDirFor(configPath)
		}
		if err := a.engine.LoadDir(dir); err != nil {
			logger.Warn("scripts from %s: %v", dir, err)
		} else if n := len(a.engine.Names()); n > 0 {
			logger.Info("loaded %d script sections from %s", n, dir)
		}
	}

	a.sections, err = BuildSections(cfg, a.engine)
	if err != nil {
		return fail("gallery", err)
	}

	if err := a.subscribe(); err != nil {
		return fail("events", err)
	}

	a.watcher = watcher.New()
	if err := a.watcher.Watch(configPath); err != nil {
		logger.Warn("config watch: %v", err)
	}
	a.watcher.OnChange(a.onConfigChange)

	logger.Info("application ready: %d sections", len(a.sections))
	return a, nil
}

// BuildSections assembles the gallery from the configured section
// names plus any scripted sections. An empty name list keeps every
// builtin in default order.
func BuildSections(cfg *config.Config, engine *script.Engine) ([]gallery.Section, error) {
	b := gallery.NewBuilder()
	if len(cfg.Gallery.Sections) == 0 {
		for _, s := range sections.DefaultSections() {
			b.Add(s)
		}
	} else {
		for _, name := range cfg.Gallery.Sections {
			s, ok := sections.ByName(name)
			if !ok {
				return nil, fmt.Errorf("section %q: %w", name, ErrUnknownSection)
			}
			b.Add(s)
		}
	}
	if engine != nil {
		for _, s := range engine.Sections() {
			b.Add(s)
		}
		b.Add(sections.Scripted(engine.Names()))
	}
	return b.Build()
}

// subscribe registers the application's bus handlers. Handlers run
// inside Publish, which can fire while composeLocked holds the mutex,
// so none of them may take a.mu.
func (a *Application) subscribe() error {
	sub, err := a.bus.SubscribeFunc("pane.*", func(_ context.Context, _ any) error {
		a.recompose.Store(true)
		return nil
	})
	if err != nil {
		return err
	}
	a.subs = append(a.subs, sub)

	sub, err = a.bus.SubscribeFunc(event.TopicDisplayFallback, func(_ context.Context, e any) error {
		if fb, ok := e.(event.DisplayFallback); ok {
			a.logger.Info("section %s degraded to ascii (U+%04X)", fb.Section, fb.Glyph)
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.subs = append(a.subs, sub)
	return nil
}

// SetBackend sets the render surface. Call before Run.
func (a *Application) SetBackend(b backend.Backend) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.backend = b
}

// Run initializes the backend and drives the event loop until a quit
// key, Shutdown, or a backend failure. A quit key returns ErrQuit so
// callers can tell a requested exit from a crash.
func (a *Application) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	a.mu.Lock()
	b := a.backend
	a.mu.Unlock()
	if b == nil {
		a.running.Store(false)
		return ErrNoBackend
	}

	if err := b.Init(); err != nil {
		a.running.Store(false)
		return &InitError{Component: "backend", Err: err}
	}
	// Shutdown must run after running flips false so the poll
	// goroutine sees the stop when the wake-up event arrives.
	defer b.Shutdown()
	defer a.running.Store(false)

	b.EnableMouse()

	a.mu.Lock()
	a.view = render.New(b, a.viewOptionsLocked())
	a.composeLocked()
	a.mu.Unlock()
	a.activateSection(0, false, false)

	a.watcher.Start()
	defer a.watcher.Stop()

	a.logger.Info("gallery running")
	return a.eventLoop(b)
}

// eventLoop multiplexes input events against the frame ticker. Config
// reloads and recomposes ride the ticker so all document mutation
// happens on this goroutine.
func (a *Application) eventLoop(b backend.Backend) error {
	events := a.pollEvents(b)
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	a.view.RenderNow()

	last := time.Now()
	for {
		select {
		case <-a.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.safeHandle(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					a.logger.Info("quit requested")
					return ErrQuit
				}
				a.logger.Error("event: %v", err)
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.applyPendingConfig()
			if a.recompose.CompareAndSwap(true, false) {
				a.composeDocument()
			}
			if a.view.Update(dt) {
				a.view.Render()
			}
		}
	}
}

// pollEvents pumps backend events into a channel the select loop can
// read alongside the ticker. The goroutine blocks in PollEvent; Run's
// deferred backend.Shutdown wakes it after running flips false.
func (a *Application) pollEvents(b backend.Backend) <-chan backend.Event {
	events := make(chan backend.Event, eventQueueSize)
	go func() {
		defer close(events)
		for {
			ev := b.PollEvent()
			if !a.running.Load() {
				return
			}
			select {
			case events <- ev:
			case <-a.done:
				return
			default:
				// Queue full; drop. The next frame repaints anyway.
			}
		}
	}()
	return events
}

// safeHandle runs one event through the handlers with a recover
// fence. A panicking handler must not take the terminal down.
func (a *Application) safeHandle(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return a.handleEvent(ev)
}

// viewOptionsLocked derives view options from the active config.
func (a *Application) viewOptionsLocked() render.Options {
	o := render.DefaultOptions()
	o.SmoothScroll = a.cfg.Scroll.Smooth
	o.ScrollMarginTop = a.cfg.Scroll.Margin
	o.ScrollMarginBottom = a.cfg.Scroll.Margin
	return o
}

// composeDocument rebuilds the document at the current content width.
func (a *Application) composeDocument() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.composeLocked()
}

func (a *Application) composeLocked() {
	width, _ := a.view.Size()
	width -= a.view.GutterWidth()
	if width < 1 {
		width = 1
	}
	doc, err := gallery.Compose(a.sections, a.composeOptionsLocked(width))
	if err != nil {
		a.logger.Warn("compose: %v", err)
	}
	a.doc = doc
	if marks := doc.SectionMarks(); a.active >= len(marks) {
		a.active = 0
	}
	a.view.SetDocument(doc)
	a.syncStatusLocked()
}

// composeOptionsLocked resolves the display policy against the
// backend's capabilities.
func (a *Application) composeOptionsLocked(width int) gallery.Options {
	opts := gallery.Options{
		Width: width,
		Bus:   a.bus,
		Panes: a.panes,
	}
	switch a.cfg.Display.TrueColor {
	case config.TrueColorOn:
		opts.HasTrueColor = true
	case config.TrueColorOff:
	default:
		opts.HasTrueColor = a.backend.HasTrueColor()
	}
	switch {
	case a.ascii:
		opts.ForceASCII = true
	case a.cfg.Display.Fallback == config.FallbackNever:
		// No probe: the terminal is trusted with raw glyphs.
	default:
		opts.CanDisplay = a.backend.CanDisplay
	}
	return opts
}

// activateSection scrolls to a section by index and records it as
// active. Out-of-range indexes beep.
func (a *Application) activateSection(idx int, smooth, announce bool) {
	a.mu.Lock()
	if a.doc == nil {
		a.mu.Unlock()
		return
	}
	marks := a.doc.SectionMarks()
	if idx < 0 || idx >= len(marks) {
		b := a.backend
		a.mu.Unlock()
		if b != nil {
			b.Beep()
		}
		return
	}
	a.active = idx
	mark := marks[idx]
	a.view.ScrollTo(mark.Line, smooth)
	a.syncStatusLocked()
	a.mu.Unlock()

	if announce {
		a.publish(event.SectionActivated{Name: mark.Name, Index: idx, Line: mark.Line})
	}
}

// syncStatusLocked pushes footer state into the view.
func (a *Application) syncStatusLocked() {
	s := render.Status{ASCII: a.ascii, Message: a.message}
	if a.doc != nil {
		marks := a.doc.SectionMarks()
		s.SectionCount = len(marks)
		if a.active >= 0 && a.active < len(marks) {
			s.Section = marks[a.active].Name
			s.SectionIndex = a.active + 1
			s.ActiveLine = marks[a.active].Line
		}
	}
	a.view.SetStatus(s)
}

// trackScroll re-derives the active section after a manual scroll so
// the footer follows the viewport.
func (a *Application) trackScroll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.doc == nil {
		return
	}
	mark, ok := a.doc.MarkAt(a.view.Viewport().TopLine())
	if !ok {
		return
	}
	for i, m := range a.doc.SectionMarks() {
		if m.Line == mark.Line {
			if i != a.active {
				a.active = i
				a.syncStatusLocked()
			}
			return
		}
	}
}

// onConfigChange runs on the watcher goroutine. It loads and stashes
// the result; the event loop applies it on the next tick.
func (a *Application) onConfigChange(ev watcher.Event) {
	if ev.Op == watcher.Removed {
		a.logger.Warn("config removed: %s (keeping current settings)", ev.Path)
		return
	}
	cfg, _, err := config.Load(ev.Path)
	a.mu.Lock()
	a.pendingCfg, a.pendingErr = cfg, err
	a.mu.Unlock()
	a.recompose.Store(true)
}

// applyPendingConfig installs a config stashed by onConfigChange. A
// failed reload keeps the previous config and says so in the footer.
// The recompose flag set alongside the stash rebuilds the document
// right after, so this only swaps state.
func (a *Application) applyPendingConfig() {
	a.mu.Lock()
	cfg, err := a.pendingCfg, a.pendingErr
	a.pendingCfg, a.pendingErr = nil, nil
	if cfg == nil && err == nil {
		a.mu.Unlock()
		return
	}
	path := a.configPath

	if err != nil {
		a.message = "config error, kept previous"
		a.syncStatusLocked()
		a.mu.Unlock()
		a.logger.Warn("config reload: %v", err)
		a.publish(event.ConfigReloaded{Path: path, Err: err})
		return
	}

	a.cfg = cfg
	if a.opts.LogLevel == "" && !a.opts.Debug {
		a.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	a.ascii = a.opts.ForceASCII || cfg.Display.Fallback == config.FallbackAlways
	a.view.SetOptions(a.viewOptionsLocked())
	if secs, serr := BuildSections(cfg, a.engine); serr != nil {
		a.logger.Warn("config reload: %v (sections unchanged)", serr)
	} else {
		a.sections = secs
	}
	a.message = "config reloaded"
	a.syncStatusLocked()
	a.mu.Unlock()

	a.logger.Info("config reloaded from %s", path)
	a.publish(event.ConfigReloaded{Path: path})
}

// publish sends an event and logs any handler error.
func (a *Application) publish(ev any) {
	if err := a.bus.Publish(context.Background(), ev); err != nil {
		a.logger.Warn("event handler: %v", err)
	}
}

// Shutdown stops the event loop and releases every component. It is
// safe to call more than once and from any goroutine.
func (a *Application) Shutdown() {
	a.stopOnce.Do(func() {
		a.logger.Info("shutting down")
		close(a.done)
		if a.watcher != nil {
			a.watcher.Stop()
		}
		a.release()
	})
}

// release tears down resources opened by New.
func (a *Application) release() {
	for _, sub := range a.subs {
		sub.Cancel()
	}
	if a.engine != nil {
		a.engine.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// IsRunning reports whether the event loop is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Config returns the active configuration.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Bus returns the event bus.
func (a *Application) Bus() *event.Bus {
	return a.bus
}

// Panes returns the pane tracker.
func (a *Application) Panes() *decor.Tracker {
	return a.panes
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// View returns the document view. Nil before Run.
func (a *Application) View() *render.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Document returns the composed document. Nil before Run.
func (a *Application) Document() *gallery.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

// SectionNames returns the section names in gallery order.
func (a *Application) SectionNames() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, len(a.sections))
	for i, s := range a.sections {
		names[i] = s.Name
	}
	return names
}
