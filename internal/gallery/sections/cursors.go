package sections

import (
	"fmt"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/backend"
	"github.com/dshills/termgallery/internal/render/core"
)

// Cursors returns the cursor style section. The list is static; the
// application applies the styles to the live cursor on demand.
func Cursors() gallery.Section {
	return gallery.Section{
		Name:     "cursors",
		Title:    "Cursor styles",
		Describe: "shapes the terminal cursor can take",
		Render:   renderCursors,
	}
}

func renderCursors(ctx *gallery.Context) error {
	dim := core.DefaultStyle().Dim()
	for i, style := range backend.VisibleCursorStyles() {
		err := ctx.Line(
			gallery.Segment{Text: fmt.Sprintf("%d. ", i+1), Style: dim},
			gallery.Segment{Text: style.String(), Style: core.DefaultStyle()},
		)
		if err != nil {
			return err
		}
	}
	return ctx.Note("press c to cycle the live cursor through these styles")
}
