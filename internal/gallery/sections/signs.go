package sections

import (
	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/render/gutter"
)

var signDemoLines = []string{
	"The margin tracks the document:",
	"a '>' anchors each section,",
	"a '*' marks notes,",
	"and a '!' warns where output",
	"degraded to ASCII fallback.",
	"Rows past the end show '~'.",
}

// demoSigns is a static SignProvider for the inline margin.
type demoSigns map[int][]gutter.Sign

func (d demoSigns) SignsForLine(line int) []gutter.Sign {
	return d[line]
}

// Signs returns the gutter section. It draws a miniature margin inline
// so the sign glyphs can be inspected without scrolling the real one.
func Signs() gallery.Section {
	return gallery.Section{
		Name:     "signs",
		Title:    "Gutter and signs",
		Describe: "line numbers, sign glyphs and the current-line highlight",
		Render:   renderSigns,
	}
}

func renderSigns(ctx *gallery.Context) error {
	if err := ctx.Note("this line carries a real note mark, visible in the margin"); err != nil {
		return err
	}
	if err := ctx.Print(""); err != nil {
		return err
	}

	gut := gutter.New(gutter.DefaultConfig())
	gut.SetLineCount(len(signDemoLines))
	gut.SetCurrentLine(1)
	gut.SetSignProvider(demoSigns{
		0: {{Line: 0, Kind: gutter.SignSection}},
		2: {{Line: 2, Kind: gutter.SignNote}},
		4: {{Line: 4, Kind: gutter.SignFallback}},
	})

	rows := len(signDemoLines) + 2
	return ctx.Block(rows, func(g *core.Grid) {
		for y := 0; y < rows; y++ {
			exists := y < len(signDemoLines)
			for x, cell := range gut.RenderLine(y, exists) {
				g.Set(x, y, core.NewStyledCell(cell.Rune, demoSignStyle(cell.Style)))
			}
			if exists {
				g.WriteString(gut.Width(), y, signDemoLines[y], core.DefaultStyle())
			}
		}
	})
}

// demoSignStyle maps abstract gutter styles onto a fixed demo palette.
// The document view keeps its own mapping.
func demoSignStyle(s gutter.CellStyle) core.Style {
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
