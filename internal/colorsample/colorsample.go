package colorsample

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/vbonduro/photofolio/internal/domain"
)

// lightThreshold is the BT.601 luma above which a color counts as light.
const lightThreshold = 128

type Sampler struct{}

func NewSampler() *Sampler {
	return &Sampler{}
}

// SampleFile decodes path and returns its representative color. Decode
// failures return domain.FallbackColor with the error for logging.
func (s *Sampler) SampleFile(path string) (domain.Color, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return domain.FallbackColor, fmt.Errorf("failed to decode image: %w", err)
	}
	return s.Sample(img), nil
}

// Sample box-filters img down to a single pixel, which averages every source
// pixel into one color.
func (s *Sampler) Sample(img image.Image) domain.Color {
	if img == nil || img.Bounds().Empty() {
		return domain.FallbackColor
	}
	px := imaging.Resize(img, 1, 1, imaging.Box)
	r, g, b := px.Pix[0], px.Pix[1], px.Pix[2]
	return domain.Color{R: r, G: g, B: b, Theme: Classify(r, g, b)}
}

// Classify maps a color to the light or dark theme by its BT.601 luma.
func Classify(r, g, b uint8) domain.Theme {
	if Brightness(r, g, b) > lightThreshold {
		return domain.ThemeLight
	}
	return domain.ThemeDark
}

func Brightness(r, g, b uint8) float64 {
	return (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
}
