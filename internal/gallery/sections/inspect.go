package sections

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/runenames"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
	"github.com/dshills/termgallery/internal/translit"
)

// inspectRunes is a cross-section of the fallback table: one glyph per
// rule family plus a few identity cases.
var inspectRunes = []rune{
	'─', // light horizontal
	'┃', // heavy vertical
	'╍', // two-dash horizontal
	'┌', // corner
	'┤', // left tee
	'┬', // top tee
	'╀', // cross
	'═', // double horizontal
	'║', // double vertical
	'╗', // double corner
	'╬', // double cross
	'╪', // mixed cross
	'╫', // mixed cross, vertical double
	'╭', // rounded corner
	'╲', // diagonal
	'╳', // diagonal cross
	'╴', // half line, horizontal
	'╹', // half line, vertical
	'a',
	'万',
	'🎉',
}

const nameField = 34

// Inspect returns the rune inspector section: code point, glyph, cell
// width, ASCII class and Unicode name for a cross-section of runes.
func Inspect() gallery.Section {
	return gallery.Section{
		Name:     "inspect",
		Title:    "Rune inspector",
		Describe: "code point, width, fallback class and name per glyph",
		Render:   renderInspect,
	}
}

func renderInspect(ctx *gallery.Context) error {
	dim := core.DefaultStyle().Dim()

	header := fmt.Sprintf("%-8s %s %-3s %-5s %s", "point", padRight("glyph", 6), "w", "class", "name")
	if err := ctx.Styled(header, dim); err != nil {
		return err
	}

	for _, r := range inspectRunes {
		glyph, substituted := ctx.DisplayText(string(r))
		marked := substituted && !ctx.ForceASCII
		if marked {
			ctx.MarkFallback()
		}

		err := ctx.Print(inspectRow(r, glyph))
		if err != nil {
			var ge *gallery.GlyphError
			if !errors.As(err, &ge) {
				return err
			}
			if !marked {
				ctx.MarkFallback()
			}
			fallback := translit.Transliterate(string(r))
			if fallback == string(r) {
				// Not a box-drawing rune; show a placeholder so the
				// metadata row survives.
				fallback = "?"
			}
			err = ctx.Print(inspectRow(r, fallback))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// inspectRow formats one inspector row for a rune shown as glyph.
func inspectRow(r rune, glyph string) string {
	class := translit.Classify(r)
	classText := string(class)
	if class == r {
		classText = "."
	}

	name := runenames.Name(r)
	if len(name) > nameField {
		name = name[:nameField-3] + "..."
	}

	return fmt.Sprintf("%-8s %s %-3d %-5s %s",
		fmt.Sprintf("U+%04X", r), padRight(glyph, 6), core.RuneWidth(r), classText, name)
}
