package common

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadAllFromURL(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer testServer.Close()

	data, err := ReadAllFromURL(testServer.Client(), testServer.URL, 1024)

	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestReadAllFromURLNonSuccessStatus(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer testServer.Close()

	data, err := ReadAllFromURL(testServer.Client(), testServer.URL, 1024)

	require.Error(t, err)
	require.Nil(t, data)
}

func TestReadAllFromURLCapsBodySize(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer testServer.Close()

	data, err := ReadAllFromURL(testServer.Client(), testServer.URL, 16)

	require.NoError(t, err)
	require.Len(t, data, 16)
}

func TestRemoveSurroundingQuotesIfAny(t *testing.T) {
	require.Equal(t, "a cat", RemoveSurroundingQuotesIfAny("\"a cat\""))
	require.Equal(t, "a cat", RemoveSurroundingQuotesIfAny("'a cat'"))
	require.Equal(t, "a \"quoted\" cat", RemoveSurroundingQuotesIfAny("a \"quoted\" cat"))
	require.Equal(t, "\"", RemoveSurroundingQuotesIfAny("\""))
}

func TestIsStringInSlice(t *testing.T) {
	require.True(t, IsStringInSlice(".png", []string{".jpg", ".png"}))
	require.False(t, IsStringInSlice(".gif", []string{".jpg", ".png"}))
	require.False(t, IsStringInSlice(".png", nil))
}
