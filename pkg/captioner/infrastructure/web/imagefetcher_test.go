package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kgeyst.com/captioner/pkg/common"
)

// Small enough to be unambiguous, starts with the PNG magic so content sniffing
// classifies it as an image.
var fakePNG = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newFetcher(values map[string]any) *ImageFetcher {
	return NewImageFetcher(common.NewConfigFromValues(values))
}

func TestFetchImage(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(fakePNG)
	}))
	defer testServer.Close()

	data, err := newFetcher(nil).FetchImage(testServer.URL)

	require.NoError(t, err)
	require.Equal(t, fakePNG, data)
}

func TestFetchImageNotFound(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer testServer.Close()

	data, err := newFetcher(nil).FetchImage(testServer.URL)

	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	require.Nil(t, data)
}

func TestFetchImageTimeout(t *testing.T) {
	blocked := make(chan struct{})
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer testServer.Close()
	defer close(blocked) // unblock the handler before the server shuts down

	fetcher := newFetcher(map[string]any{
		ConfigKeyURLFetchTimeout: 50, // milliseconds
	})
	startTime := time.Now()
	data, err := fetcher.FetchImage(testServer.URL)

	require.ErrorIs(t, err, ErrFetchTimeout)
	require.Nil(t, data)
	require.Less(t, time.Since(startTime), 5*time.Second)
}

func TestFetchImageFromHTMLPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/photo.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(fakePNG)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><head><meta property="og:image" content="/photo.png"></head><body></body></html>`)
	})
	testServer := httptest.NewServer(mux)
	defer testServer.Close()

	data, err := newFetcher(nil).FetchImage(testServer.URL + "/")

	require.NoError(t, err)
	require.Equal(t, fakePNG, data)
}

func TestFetchImageFromHTMLPageWithoutImages(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><p>nothing to see here</p></body></html>`)
	}))
	defer testServer.Close()

	data, err := newFetcher(nil).FetchImage(testServer.URL)

	require.Error(t, err)
	require.Nil(t, data)
}

func TestFetchImageRespectsSizeCap(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(fakePNG)
		_, _ = w.Write(make([]byte, 1024))
	}))
	defer testServer.Close()

	fetcher := newFetcher(map[string]any{
		ConfigKeyMaxImageBytes: len(fakePNG),
	})
	data, err := fetcher.FetchImage(testServer.URL)

	require.NoError(t, err)
	require.Len(t, data, len(fakePNG))
}
