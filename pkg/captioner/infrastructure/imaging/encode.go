package imaging

import (
	"bytes"
	"image/jpeg"
	"image/png"

	"kgeyst.com/captioner/pkg/captioner/domain"
)

const jpegQuality = 90

// EncodePNG serializes the bitmap as PNG. Model runtimes that only accept file paths get their
// input written with this (PNG is lossless, so the normalization result survives intact).
func EncodePNG(img *domain.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img.Bitmap)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJPEG serializes the bitmap as JPEG, which is what the HTTP inference backend sends
// over the wire to keep payloads small.
func EncodeJPEG(img *domain.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img.Bitmap, &jpeg.Options{Quality: jpegQuality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
