package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"github.com/YASH4-HD/bio-tikz-studio/pkg/figure"
)

// Page is one rasterized document page.
type Page struct {
	// Index is the zero-based page index within the source document.
	Index int
	Image *image.NRGBA
}

// Document pairs a source name with raw PDF bytes for batch conversion.
type Document struct {
	Name string
	Data []byte
}

// Render rasterizes every page of a PDF at opts.Scale x 72 DPI, in page
// order. Pages are independent: the result of one page never depends on
// another.
func Render(pdf []byte, opts figure.RenderOptions) ([]Page, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, &figure.DocumentError{Err: err}
	}
	defer doc.Close()

	pages := make([]Page, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := renderPage(doc, n, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Index: n, Image: img})
	}

	return pages, nil
}

// RenderPage rasterizes a single page of a PDF.
func RenderPage(pdf []byte, index int, opts figure.RenderOptions) (*image.NRGBA, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, &figure.DocumentError{Err: err}
	}
	defer doc.Close()

	if index < 0 || index >= doc.NumPage() {
		return nil, figure.NewParameterError("page",
			fmt.Sprintf("index %d out of range for %d-page document", index, doc.NumPage()))
	}

	return renderPage(doc, index, opts)
}

func renderPage(doc *fitz.Document, index int, opts figure.RenderOptions) (*image.NRGBA, error) {
	rgba, err := doc.ImageDPI(index, opts.Scale*72)
	if err != nil {
		return nil, &figure.DocumentError{Err: fmt.Errorf("render page %d: %w", index, err)}
	}

	img := opaque(rgba)
	if opts.AutoCrop {
		img = AutoCrop(img)
	}
	return img, nil
}

func validateOptions(opts figure.RenderOptions) error {
	if opts.Scale < figure.MinScale || opts.Scale > figure.MaxScale {
		return figure.NewParameterError("scale",
			fmt.Sprintf("%g outside valid range [%g, %g]", opts.Scale, figure.MinScale, figure.MaxScale))
	}
	return nil
}

// opaque flattens the rendered page to fully opaque RGB.
func opaque(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
