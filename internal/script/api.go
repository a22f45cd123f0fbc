package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/translit"
)

// installAPI registers the gallery and text modules. Scripts register
// sections with
//
//	gallery.section{
//		name = "waves",
//		title = "Sine waves",
//		describe = "optional one-liner",
//		render = function(ctx)
//			ctx:print("plain text, resolved against the display")
//			ctx:box("┌─┐\n└─┘")
//			ctx:note("shown with a margin mark")
//		end,
//	}
//
// and may use text.classify, text.transliterate and text.width as pure
// helpers anywhere.
func (e *Engine) installAPI() {
	l := e.l

	gal := l.NewTable()
	l.SetField(gal, "section", l.NewFunction(e.luaSection))
	l.SetGlobal("gallery", gal)

	txt := l.SetFuncs(l.NewTable(), map[string]lua.LGFunction{
		"classify":      textClassify,
		"transliterate": textTransliterate,
		"width":         textWidth,
	})
	l.SetGlobal("text", txt)
}

// luaSection implements gallery.section{...}. Registration is only
// valid while a chunk loads; the engine lock is already held by the
// caller running the chunk.
func (e *Engine) luaSection(l *lua.LState) int {
	if !e.loading {
		l.RaiseError("gallery.section: sections can only be registered while scripts load")
	}
	spec := l.CheckTable(1)

	name := stringField(l, spec, "name")
	if name == "" {
		l.RaiseError("gallery.section: name is required")
	}
	if e.seen[name] {
		l.RaiseError("gallery.section: duplicate section %q", name)
	}
	fn, ok := l.GetField(spec, "render").(*lua.LFunction)
	if !ok {
		l.RaiseError("gallery.section %q: render must be a function", name)
	}

	title := stringField(l, spec, "title")
	if title == "" {
		title = name
	}

	e.seen[name] = true
	e.sections = append(e.sections, gallery.Section{
		Name:     name,
		Title:    title,
		Describe: stringField(l, spec, "describe"),
		Render:   e.renderFunc(name, fn),
	})
	return 0
}

// contextTable exposes one render context to Lua. Methods accept both
// colon and dot call styles. print resolves text against the display
// policy without marking; box applies the full fallback ladder and
// marks degradations like the builtin box section does.
func (e *Engine) contextTable(ctx *gallery.Context, section string) *lua.LTable {
	t := e.l.NewTable()
	e.l.SetFuncs(t, map[string]lua.LGFunction{
		"print": func(l *lua.LState) int {
			for _, line := range strings.Split(textArg(l), "\n") {
				out, _ := ctx.DisplayText(line)
				if err := ctx.Print(out); err != nil {
					l.RaiseError("print: %v", err)
				}
			}
			return 0
		},
		"note": func(l *lua.LState) int {
			if err := ctx.Note(textArg(l)); err != nil {
				l.RaiseError("note: %v", err)
			}
			return 0
		},
		"box": func(l *lua.LState) int {
			if err := ctx.RenderTable(section, textArg(l)); err != nil {
				l.RaiseError("box: %v", err)
			}
			return 0
		},
		"width": func(l *lua.LState) int {
			l.Push(lua.LNumber(ctx.Width))
			return 1
		},
		"ascii": func(l *lua.LState) int {
			l.Push(lua.LBool(ctx.ForceASCII))
			return 1
		},
	})
	return t
}

// luaPrint replaces the stdout print with one that feeds the configured
// printer, keeping script output off the terminal.
func (e *Engine) luaPrint(l *lua.LState) int {
	if e.printer == nil {
		return 0
	}
	top := l.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, l.ToStringMeta(l.Get(i)).String())
	}
	e.printer(strings.Join(parts, "\t"))
	return 0
}

// textClassify returns the ASCII class of the first rune of s, or the
// rune itself when no substitution applies.
func textClassify(l *lua.LState) int {
	for _, r := range l.CheckString(1) {
		l.Push(lua.LString(string(translit.Classify(r))))
		return 1
	}
	l.Push(lua.LString(""))
	return 1
}

func textTransliterate(l *lua.LState) int {
	l.Push(lua.LString(translit.Transliterate(l.CheckString(1))))
	return 1
}

// textWidth reports the display width of s in terminal cells.
func textWidth(l *lua.LState) int {
	l.Push(lua.LNumber(core.StringWidth(l.CheckString(1))))
	return 1
}

// textArg returns the string argument of a context method, accepting
// both ctx:method(s) and ctx.method(s).
func textArg(l *lua.LState) string {
	if l.GetTop() >= 2 {
		return l.CheckString(2)
	}
	return l.CheckString(1)
}

func stringField(l *lua.LState, tbl *lua.LTable, key string) string {
	if s, ok := l.GetField(tbl, key).(lua.LString); ok {
		return string(s)
	}
	return ""
}
