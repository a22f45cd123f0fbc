package sections

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/termgallery/internal/gallery"
	"github.com/dshills/termgallery/internal/render/core"
)

const rampLabelWidth = 11

// Ramp anchors, chosen far apart in hue so the HCL path is visible.
var (
	rampFrom = colorful.Color{R: 0.15, G: 0.35, B: 0.80}
	rampTo   = colorful.Color{R: 1.00, G: 0.55, B: 0.10}
)

// Swatches returns the color section: gradient ramps rendered as
// background-colored cells, quantized onto the xterm cube when the
// terminal lacks true color.
func Swatches() gallery.Section {
	return gallery.Section{
		Name:     "swatches",
		Title:    "Color ramps",
		Describe: "HCL and HSV gradients, 24-bit or quantized to the 256-color cube",
		Render:   renderSwatches,
	}
}

func renderSwatches(ctx *gallery.Context) error {
	dim := core.DefaultStyle().Dim()

	path := "24-bit direct"
	if !ctx.HasTrueColor {
		path = "256-color cube"
	}
	if err := ctx.Styled("color path: "+path, dim); err != nil {
		return err
	}

	steps := rampSteps(ctx.Width)

	blend := make([]colorful.Color, steps)
	for i := range blend {
		t := float64(i) / float64(steps-1)
		blend[i] = rampFrom.BlendHcl(rampTo, t).Clamped()
	}
	if err := renderRamp(ctx, "HCL blend", blend); err != nil {
		return err
	}

	hues := make([]colorful.Color, steps)
	for i := range hues {
		h := 360 * float64(i) / float64(steps)
		hues[i] = colorful.Hsv(h, 0.85, 0.90)
	}
	if err := renderRamp(ctx, "HSV sweep", hues); err != nil {
		return err
	}

	grays := make([]colorful.Color, steps)
	for i := range grays {
		v := float64(i) / float64(steps-1)
		grays[i] = colorful.Color{R: v, G: v, B: v}
	}
	return renderRamp(ctx, "gray ramp", grays)
}

// renderRamp writes one labeled row of color swatches. Swatches are
// background-colored spaces, so they need no glyph support at all.
func renderRamp(ctx *gallery.Context, label string, colors []colorful.Color) error {
	segs := make([]gallery.Segment, 0, len(colors)+1)
	segs = append(segs, gallery.Segment{
		Text:  padRight(label, rampLabelWidth),
		Style: core.DefaultStyle().Dim(),
	})
	for _, c := range colors {
		segs = append(segs, gallery.Segment{
			Text:  "  ",
			Style: core.DefaultStyle().WithBackground(swatchColor(c, ctx.HasTrueColor)),
		})
	}
	return ctx.Line(segs...)
}

func swatchColor(c colorful.Color, trueColor bool) core.Color {
	r, g, b := c.RGB255()
	if trueColor {
		return core.ColorFromRGB(r, g, b)
	}
	return core.ColorFromIndex(cubeIndex(r, g, b))
}

// cubeIndex maps 8-bit channels onto the xterm 6x6x6 cube
// (indices 16-231).
func cubeIndex(r, g, b uint8) uint8 {
	q := func(v uint8) uint8 {
		return uint8((int(v)*5 + 127) / 255)
	}
	return 16 + 36*q(r) + 6*q(g) + q(b)
}

func rampSteps(width int) int {
	steps := (width - rampLabelWidth) / 2
	if steps > 24 {
		steps = 24
	}
	if steps < 2 {
		steps = 2
	}
	return steps
}
