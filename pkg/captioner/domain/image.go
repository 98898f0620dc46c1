package domain

import "image"

// ColorMode describes the pixel representation of a decoded image, loosely mirroring the mode names
// used by common imaging toolkits.
type ColorMode string

const (
	// ColorModeRGB an opaque three-channel image, the only representation the caption model accepts
	ColorModeRGB = ColorMode("RGB")
	// ColorModeRGBA a four-channel image with an alpha channel
	ColorModeRGBA = ColorMode("RGBA")
	// ColorModeGray a single-channel grayscale image
	ColorModeGray = ColorMode("L")
	// ColorModePaletted an indexed-color image (GIF-style palettes)
	ColorModePaletted = ColorMode("P")
	// ColorModeOther anything else the decoder may produce (CMYK etc.)
	ColorModeOther = ColorMode("other")
)

// Image is a decoded in-memory bitmap. It lives for the duration of a single caption request
// and is discarded afterwards.
type Image struct {
	Bitmap image.Image
	Mode   ColorMode
	// Format is the container format the bitmap was decoded from ("jpeg", "png", "bmp", "webp").
	Format string
}

func NewImage(bitmap image.Image, mode ColorMode, format string) *Image {
	return &Image{
		Bitmap: bitmap,
		Mode:   mode,
		Format: format,
	}
}

// Bounds the pixel dimensions of the bitmap. Useful for logging.
func (i *Image) Bounds() (width, height int) {
	bounds := i.Bitmap.Bounds()
	return bounds.Dx(), bounds.Dy()
}
