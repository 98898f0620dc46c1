package web

import (
	"bytes"
	"errors"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

var errNoImageOnPage = errors.New("no image found on the page")

// PageImageExtractor finds the "main" image of an HTML page: the og:image/twitter:image
// metadata most photo hosting sites publish, falling back to the first <img> in the body.
type PageImageExtractor struct{}

func NewPageImageExtractor() *PageImageExtractor {
	return &PageImageExtractor{}
}

func (p *PageImageExtractor) ExtractMainImageURL(page []byte, pageURL string) (string, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	imageURL := findImageURL(document)
	if imageURL == "" {
		return "", errNoImageOnPage
	}
	return resolveURL(pageURL, imageURL)
}

func findImageURL(document *goquery.Document) string {
	if content, ok := document.Find("meta[property='og:image']").Attr("content"); ok && content != "" {
		return content
	}
	if content, ok := document.Find("meta[name='twitter:image']").Attr("content"); ok && content != "" {
		return content
	}
	if src, ok := document.Find("img").First().Attr("src"); ok && src != "" {
		return src
	}
	return ""
}

// resolveURL makes relative image references (src="/static/photo.jpg") absolute.
func resolveURL(pageURL, imageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	reference, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(reference).String(), nil
}
