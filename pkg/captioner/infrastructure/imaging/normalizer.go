package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"kgeyst.com/captioner/pkg/captioner/domain"
)

// Normalizer coerces decoded images into the opaque three-channel representation the caption
// model expects. Transparent pixels are composited over a white background, which is what
// users expect for screenshots and logos with transparency.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) ToRGB(img *domain.Image) *domain.Image {
	if img.Mode == domain.ColorModeRGB {
		return img
	}
	bounds := img.Bitmap.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img.Bitmap, bounds.Min, draw.Over)
	return domain.NewImage(dst, domain.ColorModeRGB, img.Format)
}
