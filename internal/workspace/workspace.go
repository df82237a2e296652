// Package workspace serializes the studio's project state so a figure
// production setup can be saved and restored as a JSON blob.
package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/YASH4-HD/bio-tikz-studio/internal/tikz"
	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// Project is the full saveable state of a figure production session.
type Project struct {
	Profile string               `json:"profile"`
	Convert figure.RenderOptions `json:"convert"`
	Compose ComposeState         `json:"compose"`
	Cell    tikz.CellOptions     `json:"cell"`
	Legend  []tikz.LegendItem    `json:"legend,omitempty"`
}

// ComposeState is the JSON-friendly form of figure.ComposeOptions, with
// colors as hex strings.
type ComposeState struct {
	Columns    int    `json:"columns"`
	Spacing    int    `json:"spacing"`
	Background string `json:"background_color"`
	LabelColor string `json:"label_color"`
	AddLabels  bool   `json:"add_labels"`
}

// Default returns a project with the studio's starting configuration.
func Default() Project {
	p := figure.Profiles[figure.DefaultProfile]
	return Project{
		Profile: figure.DefaultProfile,
		Convert: figure.RenderOptions{Scale: p.Scale, AutoCrop: p.AutoCrop},
		Compose: ComposeState{
			Columns:    2,
			Spacing:    20,
			Background: "#ffffff",
			LabelColor: "#000000",
			AddLabels:  true,
		},
		Cell: tikz.CellOptions{
			Label:     "Cell",
			Color:     "#a7c7e7",
			Shape:     "circle",
			Thickness: p.LineThickness,
		},
	}
}

// Export serializes a project as indented JSON.
func Export(p Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export workspace: %w", err)
	}
	return data, nil
}

// Import parses a workspace payload, fills unset fields with defaults and
// validates the result.
func Import(data []byte) (Project, error) {
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("import workspace: %w", err)
	}
	if err := Validate(p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Validate checks every enumerated or ranged option of a project.
func Validate(p Project) error {
	if _, ok := figure.Profiles[p.Profile]; !ok {
		return figure.NewParameterError("profile", fmt.Sprintf("unknown profile %q", p.Profile))
	}
	if p.Convert.Scale < figure.MinScale || p.Convert.Scale > figure.MaxScale {
		return figure.NewParameterError("scale",
			fmt.Sprintf("%g outside valid range [%g, %g]", p.Convert.Scale, figure.MinScale, figure.MaxScale))
	}
	if p.Compose.Columns < 1 {
		return figure.NewParameterError("columns", fmt.Sprintf("%d is less than 1", p.Compose.Columns))
	}
	if p.Compose.Spacing < 0 {
		return figure.NewParameterError("spacing", fmt.Sprintf("%d is negative", p.Compose.Spacing))
	}
	if _, err := figure.ParseHexColor(p.Compose.Background); err != nil {
		return err
	}
	if _, err := figure.ParseHexColor(p.Compose.LabelColor); err != nil {
		return err
	}
	return nil
}

// ComposeOptions converts the JSON-friendly compose state into the options
// struct consumed by the composer.
func (s ComposeState) ComposeOptions() (figure.ComposeOptions, error) {
	bg, err := figure.ParseHexColor(s.Background)
	if err != nil {
		return figure.ComposeOptions{}, err
	}
	lc, err := figure.ParseHexColor(s.LabelColor)
	if err != nil {
		return figure.ComposeOptions{}, err
	}
	return figure.ComposeOptions{
		Columns:    s.Columns,
		Spacing:    s.Spacing,
		Background: bg,
		LabelColor: lc,
		AddLabels:  s.AddLabels,
	}, nil
}
