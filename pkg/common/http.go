package common

import (
	"fmt"
	"io"
	"net/http"
)

// ReadAllFromURL reads all content from the URL using the given client (so that the caller controls timeouts).
// Responses outside the 2xx range are reported as errors. `maxBytes` caps how much of the body is read,
// so that a misbehaving server cannot make us run out of memory.
func ReadAllFromURL(client *http.Client, url string, maxBytes int64) ([]byte, error) {
	res, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status \"%s\" for %s", res.Status, url)
	}
	content, err := io.ReadAll(io.LimitReader(res.Body, maxBytes))
	if err != nil {
		return nil, err
	}
	return content, nil
}
