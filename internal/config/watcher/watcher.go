// Package watcher polls files for modification so the application can
// reload configuration and scripts without restarting. Polling keeps
// the dependency surface flat and behaves the same across platforms;
// the interval is coarse because a human edits these files.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Default polling cadence.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultSettle   = 150 * time.Millisecond
)

// Op describes what happened to a watched file.
type Op int

const (
	// Changed means the modification time moved.
	Changed Op = iota

	// Created means a file appeared at a path watched before it
	// existed.
	Created

	// Removed means the file disappeared.
	Removed
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case Changed:
		return "changed"
	case Created:
		return "created"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event reports one settled change to a watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives settled events. Handlers run on the watcher
// goroutine; a panicking handler does not stop the watcher.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithSettle sets how long a change must stay quiet before it is
// reported. Zero reports on the next poll.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.settle = d
		}
	}
}

// Watcher polls a set of files and reports settled changes. A path may
// be watched before the file exists; its appearance is reported as
// Created.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]time.Time
	handlers []Handler
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	interval time.Duration
	settle   time.Duration
}

// New creates a watcher with nothing under watch.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		files:    make(map[string]time.Time),
		interval: DefaultInterval,
		settle:   DefaultSettle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch adds a file. A missing file is watched for creation.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var mod time.Time
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		mod = info.ModTime()
	case os.IsNotExist(err):
		// Keep the zero time; creation will be reported.
	default:
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = mod
	return nil
}

// WatchGlob adds every file in dir matching pattern.
func (w *Watcher) WatchGlob(dir, pattern string) error {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return err
	}
	for _, path := range matches {
		if err := w.Watch(path); err != nil {
			return err
		}
	}
	return nil
}

// Unwatch removes a file from the watch set.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, abs)
	return nil
}

// Watched returns the watched paths, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for path := range w.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// OnChange registers a handler for settled events.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start launches the poll loop. Starting a running watcher is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.running = true

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop halts the poll loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	w.mu.Unlock()

	w.wg.Wait()
}

// Running reports whether the poll loop is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// run polls on a ticker. Raw changes collect in a goroutine-local
// pending map and are emitted once they have been quiet for the settle
// window, so editors that save in several steps produce one event.
func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := make(map[string]Event)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, ev := range w.scan() {
				if old, ok := pending[ev.Path]; ok {
					ev = merge(old, ev)
				}
				pending[ev.Path] = ev
			}
			now := time.Now()
			for path, ev := range pending {
				if now.Sub(ev.Time) >= w.settle {
					delete(pending, path)
					w.emit(ev)
				}
			}
		}
	}
}

// scan compares every watched file against its recorded modification
// time and returns the raw changes.
func (w *Watcher) scan() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []Event
	now := time.Now()
	for path, last := range w.files {
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			if !last.IsZero() {
				w.files[path] = time.Time{}
				events = append(events, Event{Path: path, Op: Removed, Time: now})
			}
		case err != nil:
			// Transient stat failure; retry next poll.
		case last.IsZero():
			w.files[path] = info.ModTime()
			events = append(events, Event{Path: path, Op: Created, Time: now})
		case !info.ModTime().Equal(last):
			w.files[path] = info.ModTime()
			events = append(events, Event{Path: path, Op: Changed, Time: now})
		}
	}
	return events
}

// merge coalesces a new raw event into a pending one. A removal
// followed by a creation settles as a change, which is how editors
// replacing the file on save should read.
func merge(old, next Event) Event {
	op := next.Op
	switch {
	case next.Op == Removed:
		op = Removed
	case old.Op == Removed && next.Op == Created:
		op = Changed
	case old.Op == Created && next.Op == Changed:
		op = Created
	}
	return Event{Path: next.Path, Op: op, Time: next.Time}
}

// emit calls every handler outside the watcher lock.
func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, h := range handlers {
		callHandler(h, ev)
	}
}

func callHandler(h Handler, ev Event) {
	defer func() {
		_ = recover()
	}()
	h(ev)
}
