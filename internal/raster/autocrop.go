package raster

import (
	"image"

	"github.com/disintegration/imaging"
)

// AutoCrop trims img to the bounding box of pixels that differ from the
// background color, sampled at the top-left corner. A perfectly uniform
// image is returned unchanged, never as an empty crop.
func AutoCrop(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	corner := img.PixOffset(b.Min.X, b.Min.Y)
	bgR := img.Pix[corner]
	bgG := img.Pix[corner+1]
	bgB := img.Pix[corner+2]

	minX, minY := w, h
	maxX, maxY := -1, -1

	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if p[0] != bgR || p[1] != bgG || p[2] != bgB {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < 0 {
		// Uniform image: no pixel differs from the background.
		return img
	}

	return imaging.Crop(img, image.Rect(b.Min.X+minX, b.Min.Y+minY, b.Min.X+maxX+1, b.Min.Y+maxY+1))
}
