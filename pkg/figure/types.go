package figure

import "image/color"

// Line thickness options as understood by TikZ.
const (
	LineThin       = "thin"
	LineThick      = "thick"
	LineUltraThick = "ultra thick"
)

// Default dimension caps applied when loading uploaded images. Large
// uploads are downscaled to these bounds before any transform runs.
const (
	MaxAccessibilityDim = 1200
	MaxPanelDim         = 800
)

// RenderOptions controls PDF page rasterization.
type RenderOptions struct {
	// Scale is the pixels-per-page-unit multiplier; scale 1.0 renders at
	// 72 DPI. Valid range is [MinScale, MaxScale].
	Scale    float64 `json:"scale"`
	AutoCrop bool    `json:"auto_crop"`
}

// Valid scale range for rasterization.
const (
	MinScale = 0.1
	MaxScale = 12.0
)

// ComposeOptions controls multi-panel grid assembly.
type ComposeOptions struct {
	Columns    int         `json:"columns"`
	Spacing    int         `json:"spacing"`
	Background color.NRGBA `json:"-"`
	LabelColor color.NRGBA `json:"-"`
	AddLabels  bool        `json:"add_labels"`
}

// Profile bundles the conversion settings of a publication target.
type Profile struct {
	Scale         float64 `json:"scale"`
	AutoCrop      bool    `json:"auto_crop"`
	LineThickness string  `json:"line_thickness"`
}

// Profiles maps publication target names to their conversion settings.
var Profiles = map[string]Profile{
	"Custom":              {Scale: 4, AutoCrop: true, LineThickness: LineThick},
	"Nature Journal":      {Scale: 6, AutoCrop: true, LineThickness: LineThin},
	"Conference Poster":   {Scale: 4, AutoCrop: true, LineThickness: LineUltraThick},
	"Grant/Investor Deck": {Scale: 3, AutoCrop: true, LineThickness: LineThick},
}

// DefaultProfile is used when no profile is requested.
const DefaultProfile = "Custom"
