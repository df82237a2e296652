// Package access implements image-accessibility checks for figures: a
// grayscale resilience score estimating legibility after print reproduction,
// and a simulated red-green color-vision-deficiency preview.
package access

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Histogram band boundaries over the 256-bucket luminance histogram.
const (
	lowBand  = 32  // [0, 32)
	midLo    = 96  // mid band [96, 160)
	midHi    = 160
	highBand = 224 // [224, 256)
)

// greenAttenuation is the factor applied to the green channel in the
// color-vision-deficiency preview.
const greenAttenuation = 0.35

// Report holds the resilience score and the luminance band fractions it was
// derived from.
type Report struct {
	Score        float64 `json:"score"`
	LowFraction  float64 `json:"low_fraction"`
	MidFraction  float64 `json:"mid_fraction"`
	HighFraction float64 `json:"high_fraction"`
}

// Score computes the grayscale resilience score of an image. Content at the
// luminance extremes (dark lines on a light background) scores high; heavy
// mid-tone mass, which collapses in grayscale reproduction, is penalized.
// The score is clamped to [0, 100] and rounded to two decimals.
func Score(img image.Image) Report {
	hist := Histogram(img)

	var total, low, mid, high float64
	for i, n := range hist {
		c := float64(n)
		total += c
		switch {
		case i < lowBand:
			low += c
		case i >= midLo && i < midHi:
			mid += c
		case i >= highBand:
			high += c
		}
	}

	if total == 0 {
		return Report{}
	}

	low /= total
	mid /= total
	high /= total

	score := (low+high)*100 - mid*15
	score = math.Round(score*100) / 100
	score = math.Max(0, math.Min(100, score))

	return Report{
		Score:        score,
		LowFraction:  low,
		MidFraction:  mid,
		HighFraction: high,
	}
}

// Histogram builds a 256-bucket intensity histogram of the image's
// luminance channel.
func Histogram(img image.Image) [256]int {
	gray := imaging.Grayscale(img)

	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := gray.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			hist[gray.Pix[off+x*4]]++
		}
	}
	return hist
}

// Grayscale returns the grayscale rendition of an image, as shown in the
// reviewer preview.
func Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// Preview simulates red-green color-vision-deficiency perception by
// attenuating the green channel. This is an approximation for reviewing
// palette choices, not a physiological model.
func Preview(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+1] = uint8(float64(out.Pix[i+1]) * greenAttenuation)
	}
	return out
}
