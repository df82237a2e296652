// Package compose assembles independently sized panel images into a single
// fixed-column grid figure with uniform gutters and optional alphabetic
// panel labels.
package compose

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// labelInset is the offset of the panel letter from the cell's top-left
// corner, in pixels.
const labelInset = 10

// Compose arranges panels row-major into a columns-wide grid. Every cell
// reserves the footprint of the largest panel; smaller panels are anchored
// at the cell's top-left corner, never stretched. Spacing is applied around
// and between every cell, including the outer border.
func Compose(panels []*image.NRGBA, opts figure.ComposeOptions) (*image.NRGBA, error) {
	if len(panels) == 0 {
		return nil, figure.NewParameterError("panels", "at least one panel is required")
	}
	if opts.Columns < 1 {
		return nil, figure.NewParameterError("columns", fmt.Sprintf("%d is less than 1", opts.Columns))
	}
	if opts.Spacing < 0 {
		return nil, figure.NewParameterError("spacing", fmt.Sprintf("%d is negative", opts.Spacing))
	}

	cellW, cellH := 0, 0
	for _, p := range panels {
		if w := p.Bounds().Dx(); w > cellW {
			cellW = w
		}
		if h := p.Bounds().Dy(); h > cellH {
			cellH = h
		}
	}

	rows := (len(panels) + opts.Columns - 1) / opts.Columns
	canvasW := opts.Columns*cellW + (opts.Columns+1)*opts.Spacing
	canvasH := rows*cellH + (rows+1)*opts.Spacing

	canvas := imaging.New(canvasW, canvasH, opts.Background)

	for i, p := range panels {
		row, col := i/opts.Columns, i%opts.Columns
		x := opts.Spacing + col*(cellW+opts.Spacing)
		y := opts.Spacing + row*(cellH+opts.Spacing)
		canvas = imaging.Paste(canvas, p, image.Pt(x, y))

		if opts.AddLabels {
			drawLabel(canvas, x+labelInset, y+labelInset, panelLabel(i), opts)
		}
	}

	return canvas, nil
}

// panelLabel returns the letter for panel index i: 'A' for 0, 'B' for 1 and
// so on. Indexes past 'Z' continue into the following ASCII characters;
// figures with more than 26 panels are not a supported layout.
func panelLabel(i int) string {
	return string(rune('A' + i))
}

func drawLabel(dst *image.NRGBA, x, y int, label string, opts figure.ComposeOptions) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(opts.LabelColor),
		Face: face,
		// Dot is the baseline origin; shift down by the ascent so the
		// glyph's top sits at y.
		Dot: fixed.P(x, y+face.Ascent),
	}
	d.DrawString(label)
}
