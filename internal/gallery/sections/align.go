// Package sections provides the built-in gallery sections.
package sections

import (
	"strconv"
	"strings"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
)

// alignSamples cover the width classes that break byte-based padding.
var alignSamples = []struct {
	label string
	text  string
}{
	{"ascii", "abcdef"},
	{"accented", "café déjà"},
	{"cjk", "万国码样本"},
	{"emoji", "🎉🌍🚀"},
	{"combining", "ééé"},
	{"mixed", "a万b🎉c"},
}

// Align returns the grapheme alignment section. Every sample is padded
// to the same column using measured cell widths, so the closing bars
// line up regardless of byte length.
func Align() gallery.Section {
	return gallery.Section{
		Name:     "align",
		Title:    "Grapheme alignment",
		Describe: "cell-accurate padding from measured widths",
		Render:   renderAlign,
	}
}

func renderAlign(ctx *gallery.Context) error {
	const field = 14
	dim := core.DefaultStyle().Dim()

	ruler := "0123456789"
	for core.StringWidth(ruler) < field {
		ruler += "0123456789"
	}
	if err := ctx.Line(
		gallery.Segment{Text: strings.Repeat(" ", 11), Style: dim},
		gallery.Segment{Text: ruler[:field], Style: dim},
	); err != nil {
		return err
	}

	for _, s := range alignSamples {
		width := core.StringWidth(s.text)
		pad := field - width
		if pad < 0 {
			pad = 0
		}
		err := ctx.Line(
			gallery.Segment{Text: padRight(s.label, 10) + "|", Style: dim},
			gallery.Segment{Text: s.text, Style: core.DefaultStyle()},
			gallery.Segment{Text: strings.Repeat(" ", pad) + "|", Style: dim},
			gallery.Segment{Text: " " + strconv.Itoa(width) + " cells", Style: dim},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// padRight pads s with spaces to the given cell width.
func padRight(s string, width int) string {
	pad := width - core.StringWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
