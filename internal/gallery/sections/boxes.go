package sections

import (
	"strings"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/translit"
)

// boxTables are the sample tables, one per box-drawing style.
var boxTables = []struct {
	name  string
	table string
}{
	{"light", "┌─┬─┐\n│ │ │\n├─┼─┤\n└─┴─┘"},
	{"heavy", "┏━┳━┓\n┃ ┃ ┃\n┣━╋━┫\n┗━┻━┛"},
	{"rounded", "╭─┬─╮\n│ │ │\n├─┼─┤\n╰─┴─╯"},
	{"dashed", "┌╌╌┬╌╌┐\n╎  ╎  ╎\n└╌╌┴╌╌┘"},
	{"double", "╔═╦═╗\n║ ║ ║\n╠═╬═╣\n╚═╩═╝"},
}

// classifyStrip holds one distinctive glyph per substitution family.
const classifyStrip = "─│┼━┃╋═║╬╪╫╭╰╳╌╎╸╹"

// Boxes returns the box-drawing fallback section. Each table is shown
// natively when the display can handle it and transliterated to ASCII
// otherwise; fallback use is marked in the gutter and published on the
// bus.
func Boxes() gallery.Section {
	return gallery.Section{
		Name:     "boxes",
		Title:    "Box drawing and ASCII fallback",
		Describe: "tables degrade to -, | and + when glyphs are missing",
		Render:   renderBoxes,
	}
}

func renderBoxes(ctx *gallery.Context) error {
	dim := core.DefaultStyle().Dim()

	for _, bt := range boxTables {
		if err := ctx.Styled(bt.name, dim); err != nil {
			return err
		}
		var err error
		if ctx.ForceASCII && ctx.Display == nil {
			err = renderTableSideBySide(ctx, bt.table)
		} else {
			err = ctx.RenderTable("boxes", bt.table)
		}
		if err != nil {
			return err
		}
		if err := ctx.Print(""); err != nil {
			return err
		}
	}

	return renderClassifyStrip(ctx)
}

// renderTableSideBySide shows the raw table next to its ASCII fallback.
// Only reachable when nothing can reject the raw glyphs.
func renderTableSideBySide(ctx *gallery.Context, table string) error {
	raw := strings.Split(table, "\n")
	sub := strings.Split(translit.Transliterate(table), "\n")
	dim := core.DefaultStyle().Dim()

	for i := range raw {
		err := ctx.Line(
			gallery.Segment{Text: raw[i], Style: core.DefaultStyle()},
			gallery.Segment{Text: "   ->   ", Style: dim},
			gallery.Segment{Text: sub[i], Style: core.DefaultStyle()},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// renderClassifyStrip prints distinctive glyphs above their ASCII
// substitutions.
func renderClassifyStrip(ctx *gallery.Context) error {
	dim := core.DefaultStyle().Dim()
	if err := ctx.Styled("classification", dim); err != nil {
		return err
	}
	if err := ctx.RenderTable("boxes", classifyStrip); err != nil {
		return err
	}

	var sb strings.Builder
	for _, r := range classifyStrip {
		sb.WriteRune(translit.Classify(r))
	}
	return ctx.Print(sb.String())
}
