package domain

// CaptionModel a generic interface for a pretrained image captioning model (BLIP etc.).
// Implementations live in the infrastructure layer; the domain only cares that an image
// comes in and a short natural-language description comes out.
type CaptionModel interface {
	// Name the name of the model backend. Useful for debugging.
	Name() string
	// Describe runs inference on the given image and returns the raw caption text.
	// The image is expected to already be in the three-channel representation (see CaptionService).
	Describe(image *Image) (string, error)
}

// ImageNormalizer coerces a decoded image into the three-channel representation the caption model
// requires. Images which are already three-channel are returned as is.
type ImageNormalizer interface {
	ToRGB(image *Image) *Image
}

// ImageDecoder turns raw container bytes (JPEG, PNG, BMP, WEBP) into a decoded Image.
type ImageDecoder interface {
	Decode(data []byte) (*Image, error)
}

// ImageFetcher retrieves image bytes from a remote URL.
type ImageFetcher interface {
	FetchImage(url string) ([]byte, error)
}
