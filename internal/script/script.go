// Package script hosts user Lua scripts that contribute gallery
// sections. Scripts run in a sandboxed state: only the base, table,
// string and math libraries are open, file and code loaders are
// removed, and every execution runs under a time budget so a runaway
// script cannot hang the application.
package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termgallery/internal/gallery"
)

// DefaultCallTimeout bounds a single script execution.
const DefaultCallTimeout = 2 * time.Second

// ErrEngineClosed is returned when a closed engine is used.
var ErrEngineClosed = errors.New("script engine is closed")

// Option configures an Engine.
type Option func(*Engine)

// WithCallTimeout replaces the per-execution time budget. Non-positive
// values keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithPrinter routes the Lua print global. Output is discarded when no
// printer is set.
func WithPrinter(fn func(string)) Option {
	return func(e *Engine) {
		e.printer = fn
	}
}

// Engine hosts one sandboxed Lua state and the sections its scripts
// register. Methods are safe for concurrent use; execution inside the
// state is serialized by the engine lock.
type Engine struct {
	mu      sync.Mutex
	l       *lua.LState
	closed  bool
	loading bool

	timeout time.Duration
	printer func(string)

	sections []gallery.Section
	seen     map[string]bool
}

// New creates a sandboxed engine ready to load scripts.
func New(opts ...Option) *Engine {
	e := &Engine{
		timeout: DefaultCallTimeout,
		seen:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.l = lua.NewState(lua.Options{SkipOpenLibs: true})
	e.openLibraries()
	e.sandbox()
	e.installAPI()
	return e
}

// openLibraries opens the safe subset of the standard libraries. The
// package library must open first so module registration works.
func (e *Engine) openLibraries() {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		err := e.l.CallByParam(lua.P{
			Fn:      e.l.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			panic(fmt.Sprintf("script: open %s: %v", lib.name, err))
		}
	}
}

// sandbox removes the escape hatches the opened libraries carry: file
// loaders, code loaders and require.
func (e *Engine) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		e.l.SetGlobal(name, lua.LNil)
	}
	if pkg, ok := e.l.GetGlobal(lua.LoadLibName).(*lua.LTable); ok {
		e.l.SetField(pkg, "path", lua.LString(""))
		e.l.SetField(pkg, "cpath", lua.LString(""))
		e.l.SetField(pkg, "loadlib", lua.LNil)
	}
	e.l.SetGlobal("print", e.l.NewFunction(e.luaPrint))
}

// Load executes a script from source. The chunk name appears in error
// messages.
func (e *Engine) Load(name, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return e.runChunk(func() (*lua.LFunction, error) {
		return e.l.Load(strings.NewReader(source), name)
	})
}

// LoadDir executes every .lua file in dir in lexical order. A missing
// directory is not an error. A failing script is reported and skipped;
// the remaining scripts still load.
func (e *Engine) LoadDir(dir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("script dir: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.runChunk(func() (*lua.LFunction, error) {
			return e.l.LoadFile(path)
		}); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Sections returns one gallery section per registered script section,
// in registration order.
func (e *Engine) Sections() []gallery.Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]gallery.Section, len(e.sections))
	copy(out, e.sections)
	return out
}

// Names returns the registered section names in registration order.
func (e *Engine) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.sections))
	for i, s := range e.sections {
		out[i] = s.Name
	}
	return out
}

// Close releases the Lua state. Render funcs handed out earlier fail
// with ErrEngineClosed afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.l.Close()
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// runChunk loads and runs one chunk with registration enabled. The
// caller holds the engine lock.
func (e *Engine) runChunk(load func() (*lua.LFunction, error)) error {
	e.loading = true
	defer func() { e.loading = false }()

	return e.protect(func() error {
		fn, err := load()
		if err != nil {
			return err
		}
		top := e.l.GetTop()
		e.l.Push(fn)
		err = e.l.PCall(0, 0, nil)
		e.l.SetTop(top)
		return err
	})
}

// protect runs a state operation under the execution time budget and a
// panic guard so a misbehaving script cannot take the process down.
// The caller holds the engine lock.
func (e *Engine) protect(run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.l.SetContext(ctx)
	defer e.l.RemoveContext()

	return run()
}

// renderFunc adapts a registered Lua render function to the section
// contract. Failures surface as ordinary render errors so the composer
// isolates the section.
func (e *Engine) renderFunc(name string, fn *lua.LFunction) gallery.RenderFunc {
	return func(ctx *gallery.Context) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return ErrEngineClosed
		}

		err := e.protect(func() error {
			top := e.l.GetTop()
			e.l.Push(fn)
			e.l.Push(e.contextTable(ctx, name))
			callErr := e.l.PCall(1, 0, nil)
			e.l.SetTop(top)
			return callErr
		})
		if err != nil {
			return fmt.Errorf("script %s: %w", name, err)
		}
		return nil
	}
}
