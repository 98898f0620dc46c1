package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"kgeyst.com/captioner/pkg/common"
)

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrNotAnImage           = errors.New("the data is not a valid image")
	ErrMalformedFrame       = errors.New("malformed camera frame")
	ErrImageUnavailable     = errors.New("failed to fetch the image")
)

const frameDataURLMarker = ";base64,"

// AcquireService produces a decoded in-memory image from one of three sources: raw uploaded bytes,
// a remote URL, or a camera-captured frame (a base64 data URL as produced by a browser canvas).
// Each variant returns either a usable image or an error; no retries are performed.
type AcquireService struct {
	decoder           ImageDecoder
	fetcher           ImageFetcher
	allowedExtensions []string
}

func NewAcquireService(
	decoder ImageDecoder,
	fetcher ImageFetcher,
	config *common.Config,
) *AcquireService {
	return &AcquireService{
		decoder:           decoder,
		fetcher:           fetcher,
		allowedExtensions: config.GetStringsOrDefault(ConfigKeyAllowedImageExtensions, DefaultAllowedImageExtensions),
	}
}

// FromBytes decodes raw uploaded bytes. The file name is checked against the extension allow-list
// (the upload boundary is the only place where the allow-list applies).
func (a *AcquireService) FromBytes(data []byte, fileName string) (*Image, error) {
	extension := strings.ToLower(filepath.Ext(fileName))
	if !common.IsStringInSlice(extension, a.allowedExtensions) {
		return nil, fmt.Errorf("%w: \"%s\"", ErrUnsupportedImageType, extension)
	}
	return a.decode(data)
}

// FromURL fetches the image over HTTP with a bounded timeout and decodes it.
// Whatever the underlying decoder supports is accepted; the extension allow-list doesn't apply here.
func (a *AcquireService) FromURL(url string) (*Image, error) {
	data, err := a.fetcher.FetchImage(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	return a.decode(data)
}

// FromFrame decodes a camera snapshot arriving as a base64 data URL ("data:image/png;base64,...").
func (a *AcquireService) FromFrame(dataURL string) (*Image, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, ErrMalformedFrame
	}
	markerIndex := strings.Index(dataURL, frameDataURLMarker)
	if markerIndex == -1 {
		return nil, ErrMalformedFrame
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[markerIndex+len(frameDataURLMarker):])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedFrame, err.Error())
	}
	return a.decode(data)
}

func (a *AcquireService) decode(data []byte) (*Image, error) {
	image, err := a.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, err.Error())
	}
	return image, nil
}
