package imaging

import (
	"bytes"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"kgeyst.com/captioner/pkg/captioner/domain"
)

// Decoder decodes JPEG, PNG, BMP and WEBP containers into domain images.
// The format is sniffed from the bytes themselves (magic numbers), not from file names.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(data []byte) (*domain.Image, error) {
	bitmap, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return domain.NewImage(bitmap, detectColorMode(bitmap), format), nil
}

// detectColorMode maps the decoder's concrete bitmap type to the color mode names the pipeline
// reasons about. JPEG decodes to YCbCr which is an opaque three-channel representation already.
func detectColorMode(bitmap image.Image) domain.ColorMode {
	switch bitmap.(type) {
	case *image.YCbCr:
		return domain.ColorModeRGB
	case *image.Gray, *image.Gray16:
		return domain.ColorModeGray
	case *image.Paletted:
		return domain.ColorModePaletted
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.NYCbCrA:
		return domain.ColorModeRGBA
	default:
		return domain.ColorModeOther
	}
}
