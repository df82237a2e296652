package access

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func uniform(c color.NRGBA) *image.NRGBA {
	return imaging.New(50, 50, c)
}

func TestScore_AllBlack(t *testing.T) {
	report := Score(uniform(color.NRGBA{0, 0, 0, 255}))

	if report.Score != 100.0 {
		t.Errorf("Expected score 100.0 for all-black image, got %v", report.Score)
	}
	if report.LowFraction != 1.0 {
		t.Errorf("Expected low fraction 1.0, got %v", report.LowFraction)
	}
}

func TestScore_AllWhite(t *testing.T) {
	report := Score(uniform(color.NRGBA{255, 255, 255, 255}))

	if report.Score != 100.0 {
		t.Errorf("Expected score 100.0 for all-white image, got %v", report.Score)
	}
	if report.HighFraction != 1.0 {
		t.Errorf("Expected high fraction 1.0, got %v", report.HighFraction)
	}
}

func TestScore_AllMidtone(t *testing.T) {
	// Gray 128 is squarely in the penalized mid band; the raw score is
	// -15, clamped to 0.
	report := Score(uniform(color.NRGBA{128, 128, 128, 255}))

	if report.Score != 0.0 {
		t.Errorf("Expected score 0.0 for mid-tone image, got %v", report.Score)
	}
	if report.MidFraction != 1.0 {
		t.Errorf("Expected mid fraction 1.0, got %v", report.MidFraction)
	}
}

func TestScore_Bounded(t *testing.T) {
	imgs := []*image.NRGBA{
		uniform(color.NRGBA{0, 0, 0, 255}),
		uniform(color.NRGBA{255, 255, 255, 255}),
		uniform(color.NRGBA{128, 128, 128, 255}),
		uniform(color.NRGBA{200, 30, 30, 255}),
		uniform(color.NRGBA{60, 180, 90, 255}),
	}
	for _, img := range imgs {
		report := Score(img)
		if report.Score < 0 || report.Score > 100 {
			t.Errorf("Score %v out of [0, 100]", report.Score)
		}
	}
}

func TestScore_MixedExtremes(t *testing.T) {
	// Half black, half white: low+high = 1.0, mid = 0 -> exactly 100.
	img := imaging.New(10, 10, color.NRGBA{0, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	report := Score(img)
	if report.Score != 100.0 {
		t.Errorf("Expected score 100.0, got %v", report.Score)
	}
}

func TestScore_EmptyImage(t *testing.T) {
	report := Score(image.NewNRGBA(image.Rect(0, 0, 0, 0)))

	if report.Score != 0.0 {
		t.Errorf("Expected score 0.0 for empty image, got %v", report.Score)
	}
}

func TestHistogram_CountsEveryPixel(t *testing.T) {
	img := uniform(color.NRGBA{0, 0, 0, 255})

	hist := Histogram(img)

	total := 0
	for _, n := range hist {
		total += n
	}
	if total != 50*50 {
		t.Errorf("Expected %d histogram entries, got %d", 50*50, total)
	}
	if hist[0] != 50*50 {
		t.Errorf("Expected all pixels in bucket 0, got %d", hist[0])
	}
}

func TestPreview_AttenuatesGreenOnly(t *testing.T) {
	img := uniform(color.NRGBA{100, 200, 50, 255})

	preview := Preview(img)

	c := preview.NRGBAAt(10, 10)
	if c.R != 100 || c.B != 50 {
		t.Errorf("Red/blue channels must be untouched, got %v", c)
	}
	if c.G != 70 { // 200 * 0.35
		t.Errorf("Expected green 70, got %d", c.G)
	}
	if c.A != 255 {
		t.Errorf("Expected opaque preview, got alpha %d", c.A)
	}
}

func TestGrayscale_SingleChannel(t *testing.T) {
	img := uniform(color.NRGBA{200, 30, 30, 255})

	gray := Grayscale(img)

	c := gray.NRGBAAt(5, 5)
	if c.R != c.G || c.G != c.B {
		t.Errorf("Expected equal channels in grayscale output, got %v", c)
	}
}
