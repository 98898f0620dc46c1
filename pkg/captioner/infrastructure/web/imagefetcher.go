package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"kgeyst.com/captioner/pkg/common"
)

const (
	// ConfigKeyURLFetchTimeout how long to wait for a user-supplied URL before giving up
	ConfigKeyURLFetchTimeout = "urlFetchTimeout"
	// ConfigKeyMaxImageBytes the cap on the size of a fetched body (we decode it fully in memory)
	ConfigKeyMaxImageBytes = "maxImageBytes"
)

const (
	defaultFetchTimeout  = 10 * time.Second
	defaultMaxImageBytes = 20 * 1024 * 1024
)

var ErrFetchTimeout = errors.New("timed out fetching the URL")

// ImageFetcher retrieves image bytes from user-supplied URLs with a bounded timeout.
// If the URL turns out to serve an HTML page rather than an image, the page's main image
// (og:image and friends) is resolved and fetched instead, so that users can paste a link
// to a photo page and not just to the raw file.
type ImageFetcher struct {
	httpClient         *http.Client
	maxBytes           int64
	pageImageExtractor *PageImageExtractor
}

func NewImageFetcher(config *common.Config) *ImageFetcher {
	return &ImageFetcher{
		httpClient: &http.Client{
			Timeout: config.GetDurationOrDefault(ConfigKeyURLFetchTimeout, defaultFetchTimeout),
		},
		maxBytes:           int64(config.GetIntOrDefault(ConfigKeyMaxImageBytes, defaultMaxImageBytes)),
		pageImageExtractor: NewPageImageExtractor(),
	}
}

func (f *ImageFetcher) FetchImage(url string) ([]byte, error) {
	data, err := f.readAll(url)
	if err != nil {
		return nil, err
	}
	if !looksLikeHTML(data) {
		return data, nil
	}
	pageImageURL, err := f.pageImageExtractor.ExtractMainImageURL(data, url)
	if err != nil {
		return nil, fmt.Errorf("the URL is a web page and no image could be found on it: %w", err)
	}
	return f.readAll(pageImageURL)
}

func (f *ImageFetcher) readAll(url string) ([]byte, error) {
	data, err := common.ReadAllFromURL(f.httpClient, url, f.maxBytes)
	if err != nil {
		if isTimeoutError(err) {
			return nil, fmt.Errorf("%w: %s", ErrFetchTimeout, url)
		}
		return nil, err
	}
	return data, nil
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func looksLikeHTML(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}
