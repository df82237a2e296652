package figure

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses a "#rrggbb" (or "rrggbb") color value.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, NewParameterError("color", fmt.Sprintf("%q is not a #rrggbb value", s))
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, NewParameterError("color", fmt.Sprintf("%q is not a #rrggbb value", s))
	}

	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// HexString formats a color as "#rrggbb", dropping alpha.
func HexString(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
