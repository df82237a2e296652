// Package tikz generates TikZ markup for biology diagrams from enumerated
// option sets. All generators are pure functions over explicit option
// structs; the option-to-fragment mappings are kept as tables so each entry
// can be tested exhaustively.
package tikz

import (
	"fmt"
	"math"
	"strings"

	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// CellOptions describes a single cell/organelle node.
type CellOptions struct {
	Label     string `json:"label"`
	Color     string `json:"color"` // #rrggbb fill color
	Shape     string `json:"shape"`
	Thickness string `json:"line_thickness"`
	Shadow    bool   `json:"show_shadow"`
	Preset    string `json:"preset"`
}

// LegendItem is one row of a figure legend.
type LegendItem struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Shape string `json:"shape"`
	Style string `json:"style"`
}

// shapeMap maps the user-facing shape names to TikZ node style fragments.
var shapeMap = map[string]string{
	"circle":        "circle",
	"ellipse":       "ellipse",
	"rectangle":     "rectangle",
	"double circle": "circle, double, double distance=2pt",
}

// presets override shape and minimum-size for common diagram elements. A
// preset not listed here keeps the caller's shape with the default size.
var presets = map[string]struct {
	shape   string
	minSize string
}{
	"Receptor": {shape: "rectangle", minSize: "minimum width=1.0cm, minimum height=0.4cm"},
	"Nucleus":  {shape: "circle", minSize: "minimum size=1.5cm"},
}

const defaultMinSize = "minimum size=2.5cm"

var thicknesses = map[string]bool{
	figure.LineThin:       true,
	figure.LineThick:      true,
	figure.LineUltraThick: true,
}

// labelEscaper turns both literal "\n" sequences and real newlines into
// TikZ line breaks.
var labelEscaper = strings.NewReplacer(`\n`, `\\ `, "\n", `\\ `)

// Cell generates a complete TikZ snippet for a single cell node, including
// the \definecolor preamble hint.
func Cell(opts CellOptions) (string, error) {
	if !thicknesses[opts.Thickness] {
		return "", figure.NewParameterError("line_thickness",
			fmt.Sprintf("%q is not one of thin, thick, ultra thick", opts.Thickness))
	}
	c, err := figure.ParseHexColor(opts.Color)
	if err != nil {
		return "", err
	}

	shape := opts.Shape
	minSize := defaultMinSize
	if p, ok := presets[opts.Preset]; ok {
		shape = p.shape
		minSize = p.minSize
	}
	styled, ok := shapeMap[shape]
	if !ok {
		styled = shapeMap["circle"]
	}

	shadow := ""
	if opts.Shadow {
		shadow = ", drop shadow"
	}

	body := fmt.Sprintf(`\begin{tikzpicture}
\node [
    %s,
    draw,
    fill=mycolor!20,
    %s,
    %s,
    inner sep=5pt,
    align=center%s
] (mycell) at (0,0) {%s};
\end{tikzpicture}`, styled, opts.Thickness, minSize, shadow, labelEscaper.Replace(opts.Label))

	hex := strings.ToUpper(fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B))
	return fmt.Sprintf("%% Add this to your preamble:\n\\definecolor{mycolor}{HTML}{%s}\n\n%s", hex, body), nil
}

// Legend generates a stacked legend tikzpicture, one row per item, walking
// down in 0.8 unit steps.
func Legend(items []LegendItem) (string, error) {
	if len(items) == 0 {
		return "", figure.NewParameterError("legend", "at least one legend item is required")
	}

	lines := []string{
		`\begin{tikzpicture}`,
		`\node at (0.3, 0.8) {\textbf{Legend Index}};`,
	}
	for i, item := range items {
		y := math.Round(-0.8*float64(i)*100) / 100
		if y == 0 {
			// math.Round keeps the sign, and %g prints -0; the first row
			// must sit at (0,0).
			y = 0
		}
		c, err := figure.ParseHexColor(item.Color)
		if err != nil {
			return "", err
		}
		hex := strings.ToUpper(fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B))
		style := item.Style
		if style == "" {
			style = "solid"
		}
		shape, ok := shapeMap[item.Shape]
		if !ok {
			shape = shapeMap["circle"]
		}
		lines = append(lines,
			fmt.Sprintf(`\node[%s, draw, %s, fill={[HTML]{%s}!25}, minimum size=0.45cm] at (0,%g) {};`, shape, style, hex, y),
			fmt.Sprintf(`\node[anchor=west] at (0.6,%g) {%s};`, y, item.Label),
		)
	}
	lines = append(lines, `\end{tikzpicture}`)

	return strings.Join(lines, "\n"), nil
}

// Document wraps a TikZ body in a standalone-class document with the
// studio's standard preamble.
func Document(body string) string {
	return fmt.Sprintf(`\documentclass[tikz,border=10pt]{standalone}
\usepackage[svgnames]{xcolor}
\usetikzlibrary{shadows,arrows.meta,positioning,shapes.geometric,calc}
\begin{document}
%s
\end{document}`, body)
}
