package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"kgeyst.com/captioner/pkg/captioner/domain"
)

func TestToRGBGrayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	gray.SetGray(1, 1, color.Gray{Y: 128})
	img := domain.NewImage(gray, domain.ColorModeGray, "png")

	normalized := NewNormalizer().ToRGB(img)

	require.Equal(t, domain.ColorModeRGB, normalized.Mode)
	require.Equal(t, "png", normalized.Format)
	r, g, b, a := normalized.Bitmap.At(1, 1).RGBA()
	require.Equal(t, r, g)
	require.Equal(t, g, b)
	require.Equal(t, uint32(0xffff), a)
}

func TestToRGBCompositesTransparencyOverWhite(t *testing.T) {
	bitmap := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	bitmap.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255}) // opaque red
	// (1, 1) stays fully transparent
	img := domain.NewImage(bitmap, domain.ColorModeRGBA, "png")

	normalized := NewNormalizer().ToRGB(img)

	require.Equal(t, domain.ColorModeRGB, normalized.Mode)
	r, _, _, _ := normalized.Bitmap.At(0, 0).RGBA()
	require.Equal(t, uint32(0xffff), r)
	r, g, b, _ := normalized.Bitmap.At(1, 1).RGBA()
	require.Equal(t, uint32(0xffff), r, "transparent pixels should become white")
	require.Equal(t, uint32(0xffff), g)
	require.Equal(t, uint32(0xffff), b)
}

func TestToRGBKeepsRGBUntouched(t *testing.T) {
	bitmap := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img := domain.NewImage(bitmap, domain.ColorModeRGB, "jpeg")

	normalized := NewNormalizer().ToRGB(img)

	require.Same(t, img, normalized)
}

func TestToRGBPreservesBounds(t *testing.T) {
	// A bitmap whose bounds don't start at the origin must still normalize cleanly.
	bitmap := image.NewGray(image.Rect(10, 10, 25, 30))
	img := domain.NewImage(bitmap, domain.ColorModeGray, "png")

	normalized := NewNormalizer().ToRGB(img)

	width, height := normalized.Bounds()
	require.Equal(t, 15, width)
	require.Equal(t, 20, height)
}
