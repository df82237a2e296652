package figure

import (
	"bytes"
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	_ "image/jpeg"
	_ "image/png"
)

// LoadImage decodes PNG, JPEG or WebP bytes into a fully opaque NRGBA
// image; a transparency channel in the source is dropped. Images with a
// side longer than maxDim are downscaled to fit within maxDim x maxDim,
// preserving aspect ratio; maxDim <= 0 disables the cap. The cap bounds
// memory held for arbitrarily large uploads, it is not part of any
// transform contract.
func LoadImage(r io.Reader, maxDim int) (*image.NRGBA, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data, maxDim)
}

// DecodeImage is LoadImage over an in-memory payload.
func DecodeImage(data []byte, maxDim int) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Fallback: explicit WebP decode
		wimg, werr := webp.Decode(bytes.NewReader(data))
		if werr != nil {
			return nil, &ImageFormatError{Err: err}
		}
		img = wimg
	}

	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		return flatten(imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)), nil
	}

	return flatten(imaging.Clone(img)), nil
}

// flatten drops the transparency channel, keeping the color values.
func flatten(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}
