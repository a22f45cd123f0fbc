package gallery

import (
	"errors"
	"strings"
	"testing"
)

func TestComposeSingleSection(t *testing.T) {
	sections := []Section{{
		Name:     "greeting",
		Title:    "Greeting",
		Describe: "says hello",
		Render: func(ctx *Context) error {
			return ctx.Print("hello")
		},
	}}

	doc, err := Compose(sections, Options{Width: 40})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// title, describe, blank, content, blank
	if doc.LineCount() != 5 {
		t.Fatalf("expected 5 lines, got %d", doc.LineCount())
	}
	if got := doc.LineText(0); got != "1. Greeting" {
		t.Errorf("expected numbered title, got %q", got)
	}
	if got := doc.LineText(1); got != "says hello" {
		t.Errorf("expected describe line, got %q", got)
	}
	if got := doc.LineText(3); got != "hello" {
		t.Errorf("expected content line, got %q", got)
	}
}

func TestComposeSectionMark(t *testing.T) {
	sections := []Section{
		{Name: "a", Title: "A", Render: func(ctx *Context) error { return ctx.Print("aa") }},
		{Name: "b", Title: "B", Render: func(ctx *Context) error { return ctx.Print("bb") }},
	}

	doc, err := Compose(sections, Options{Width: 40})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	marks := doc.SectionMarks()
	if len(marks) != 2 {
		t.Fatalf("expected 2 section marks, got %d", len(marks))
	}
	if marks[0].Name != "a" || marks[0].Line != 0 {
		t.Errorf("expected mark a at line 0, got %+v", marks[0])
	}
	if doc.LineText(marks[1].Line) != "2. B" {
		t.Errorf("second mark should point at B's title, got %q", doc.LineText(marks[1].Line))
	}
}

func TestComposeFailedSection(t *testing.T) {
	wantErr := errors.New("render broke")
	sections := []Section{
		{Name: "good", Title: "Good", Render: func(ctx *Context) error { return ctx.Print("fine") }},
		{Name: "bad", Title: "Bad", Render: func(ctx *Context) error {
			_ = ctx.Print("partial output")
			return wantErr
		}},
		{Name: "after", Title: "After", Render: func(ctx *Context) error { return ctx.Print("still here") }},
	}

	doc, err := Compose(sections, Options{Width: 40})
	if err == nil {
		t.Fatal("expected a joined section error")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected the render error in the chain, got %v", err)
	}
	var se *SectionError
	if !errors.As(err, &se) || se.Section != "bad" {
		t.Errorf("expected SectionError for 'bad', got %v", err)
	}

	// Document is complete: all three sections present
	if len(doc.SectionMarks()) != 3 {
		t.Fatalf("expected 3 section marks, got %d", len(doc.SectionMarks()))
	}

	// The failed section shows the note line and none of its rows
	text := docText(doc)
	if !strings.Contains(text, "[section bad unavailable]") {
		t.Error("expected the unavailable note line")
	}
	if strings.Contains(text, "partial output") {
		t.Error("failed section rows must not reach the document")
	}
	if !strings.Contains(text, "still here") {
		t.Error("sections after a failure must still render")
	}
}

func TestComposePanickingSection(t *testing.T) {
	sections := []Section{
		{Name: "panicky", Title: "Panicky", Render: func(*Context) error {
			panic("boom")
		}},
		{Name: "after", Title: "After", Render: func(ctx *Context) error { return ctx.Print("ok") }},
	}

	doc, err := Compose(sections, Options{Width: 40})
	if err == nil {
		t.Fatal("expected an error from the panicking section")
	}
	if !strings.Contains(err.Error(), "panicked") {
		t.Errorf("expected panic in error chain, got %v", err)
	}
	if !strings.Contains(docText(doc), "[section panicky unavailable]") {
		t.Error("expected the unavailable note line")
	}
	if !strings.Contains(docText(doc), "ok") {
		t.Error("composition must continue after a panic")
	}
}

func TestComposeContentMarksOffset(t *testing.T) {
	sections := []Section{
		{Name: "first", Title: "First", Render: func(ctx *Context) error { return ctx.Print("x") }},
		{Name: "noted", Title: "Noted", Render: func(ctx *Context) error {
			if err := ctx.Print("line one"); err != nil {
				return err
			}
			return ctx.Note("a note")
		}},
	}

	doc, err := Compose(sections, Options{Width: 40})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	var noteMark Mark
	found := false
	for _, m := range doc.Marks() {
		if m.Kind == MarkNote {
			noteMark = m
			found = true
		}
	}
	if !found {
		t.Fatal("expected a note mark in the document")
	}
	if noteMark.Name != "noted" {
		t.Errorf("content marks should carry the section name, got %q", noteMark.Name)
	}
	if got := doc.LineText(noteMark.Line); got != "a note" {
		t.Errorf("note mark should point at the note line, got %q", got)
	}
}

func TestComposeNoWidth(t *testing.T) {
	if _, err := Compose(nil, Options{}); !errors.Is(err, ErrNoWidth) {
		t.Errorf("expected ErrNoWidth, got %v", err)
	}
}

func TestDocumentNavigation(t *testing.T) {
	sections := []Section{
		{Name: "a", Title: "A", Render: func(ctx *Context) error { return ctx.Print("1") }},
		{Name: "b", Title: "B", Render: func(ctx *Context) error { return ctx.Print("2") }},
		{Name: "c", Title: "C", Render: func(ctx *Context) error { return ctx.Print("3") }},
	}

	doc, err := Compose(sections, Options{Width: 40})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	marks := doc.SectionMarks()

	// MarkAt finds the owning section
	if m, ok := doc.MarkAt(marks[1].Line + 1); !ok || m.Name != "b" {
		t.Errorf("expected MarkAt inside b, got %+v ok=%v", m, ok)
	}
	if m, ok := doc.MarkAt(0); !ok || m.Name != "a" {
		t.Errorf("expected MarkAt(0) = a, got %+v ok=%v", m, ok)
	}

	// NextMark / PrevMark step between sections
	if m, ok := doc.NextMark(0); !ok || m.Name != "b" {
		t.Errorf("expected NextMark(0) = b, got %+v ok=%v", m, ok)
	}
	if _, ok := doc.NextMark(marks[2].Line); ok {
		t.Error("no section after the last one")
	}
	if m, ok := doc.PrevMark(marks[2].Line); !ok || m.Name != "b" {
		t.Errorf("expected PrevMark before c = b, got %+v ok=%v", m, ok)
	}
	if _, ok := doc.PrevMark(0); ok {
		t.Error("no section before the first one")
	}
}

func TestDocumentLineTextOutOfRange(t *testing.T) {
	doc := &Document{}
	if doc.LineText(0) != "" {
		t.Error("out-of-range lines should read as empty")
	}
	if doc.LineCells(-1) != nil {
		t.Error("negative index should return nil")
	}
}

func docText(d *Document) string {
	var sb strings.Builder
	for i := 0; i < d.LineCount(); i++ {
		sb.WriteString(d.LineText(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}
