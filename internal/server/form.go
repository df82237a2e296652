package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// renderOptionsFromForm builds rasterization options from form fields,
// starting from the requested output profile (default "Custom") and letting
// scale/auto_crop fields override it.
func renderOptionsFromForm(r *http.Request) (figure.RenderOptions, error) {
	name := r.FormValue("profile")
	if name == "" {
		name = figure.DefaultProfile
	}
	profile, ok := figure.Profiles[name]
	if !ok {
		return figure.RenderOptions{}, figure.NewParameterError("profile",
			fmt.Sprintf("unknown profile %q", name))
	}

	opts := figure.RenderOptions{Scale: profile.Scale, AutoCrop: profile.AutoCrop}

	if v := r.FormValue("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return figure.RenderOptions{}, figure.NewParameterError("scale",
				fmt.Sprintf("%q is not a number", v))
		}
		opts.Scale = scale
	}
	crop, err := formBool(r, "auto_crop", opts.AutoCrop)
	if err != nil {
		return figure.RenderOptions{}, err
	}
	opts.AutoCrop = crop

	return opts, nil
}

// composeOptionsFromForm builds composition options from form fields, with
// the studio's defaults for anything unset.
func composeOptionsFromForm(r *http.Request) (figure.ComposeOptions, error) {
	opts := figure.ComposeOptions{Columns: 2, Spacing: 20, AddLabels: true}

	var err error
	if opts.Columns, err = formInt(r, "columns", opts.Columns); err != nil {
		return figure.ComposeOptions{}, err
	}
	if opts.Spacing, err = formInt(r, "spacing", opts.Spacing); err != nil {
		return figure.ComposeOptions{}, err
	}
	if opts.AddLabels, err = formBool(r, "add_labels", opts.AddLabels); err != nil {
		return figure.ComposeOptions{}, err
	}

	bg := r.FormValue("background_color")
	if bg == "" {
		bg = "#ffffff"
	}
	if opts.Background, err = figure.ParseHexColor(bg); err != nil {
		return figure.ComposeOptions{}, figure.NewParameterError("background_color",
			fmt.Sprintf("%q is not a #rrggbb value", bg))
	}

	lc := r.FormValue("label_color")
	if lc == "" {
		lc = "#000000"
	}
	if opts.LabelColor, err = figure.ParseHexColor(lc); err != nil {
		return figure.ComposeOptions{}, figure.NewParameterError("label_color",
			fmt.Sprintf("%q is not a #rrggbb value", lc))
	}

	return opts, nil
}

func formInt(r *http.Request, name string, fallback int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, figure.NewParameterError(name, fmt.Sprintf("%q is not an integer", v))
	}
	return n, nil
}

func formBool(r *http.Request, name string, fallback bool) (bool, error) {
	v := r.FormValue(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, figure.NewParameterError(name, fmt.Sprintf("%q is not a boolean", v))
	}
	return b, nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// marshalReport serializes the per-document failure list written into batch
// archives as conversion_report.json.
func marshalReport(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
