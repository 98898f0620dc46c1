package blipserver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"kgeyst.com/captioner/pkg/captioner/domain"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/imaging"
	"kgeyst.com/captioner/pkg/common"
)

const (
	// ConfigKeyServerURL the base URL of the inference server which hosts the checkpoint
	ConfigKeyServerURL = "inferenceServerURL"
	// ConfigKeyResponseTimeout when to give up if the server takes too long to produce a caption
	ConfigKeyResponseTimeout = "inferenceServerTimeout"
)

// CaptionModel delegates inference to a locally running inference server over HTTP.
// The server resolves the checkpoint identifier through its own registry/cache, so the first
// request after a cold start may be slow while weights are downloaded.
type CaptionModel struct {
	mutex          sync.Mutex
	httpClient     *http.Client
	serverURL      string
	checkpointName string
	maxTokens      int
}

type captionRequest struct {
	Checkpoint string `json:"checkpoint"`
	Image      string `json:"image"` // base64-encoded JPEG
	MaxTokens  int    `json:"max_tokens"`
}

type captionResponse struct {
	Caption string `json:"caption"`
	Error   string `json:"error,omitempty"`
}

func NewCaptionModel(config *common.Config) *CaptionModel {
	return &CaptionModel{
		httpClient: &http.Client{
			Timeout: config.GetDurationOrDefault(ConfigKeyResponseTimeout, time.Minute),
		},
		serverURL:      config.GetStringOrDefault(ConfigKeyServerURL, "http://localhost:8601"),
		checkpointName: config.GetStringOrDefault(domain.ConfigKeyCheckpointName, "blip-image-captioning-base"),
		maxTokens:      config.GetIntOrDefault(domain.ConfigKeyMaxCaptionTokens, 50),
	}
}

func (c *CaptionModel) Name() string {
	return "blipserver"
}

// Validate checks that the inference server is reachable at all. The server downloads and
// caches the checkpoint weights on its side, so a reachable server is as "loaded" as we can
// observe from here.
func (c *CaptionModel) Validate() error {
	response, err := c.httpClient.Get(c.serverURL + "/health")
	if err != nil {
		return fmt.Errorf("the inference server is unreachable: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("the inference server is unhealthy: \"%s\"", response.Status)
	}
	return nil
}

func (c *CaptionModel) Describe(image *domain.Image) (string, error) {
	// The inference server processes one request at a time anyway, so we serialize here and
	// keep its queue empty instead of piling requests up behind its socket.
	c.mutex.Lock()
	defer c.mutex.Unlock()
	jpegData, err := imaging.EncodeJPEG(image)
	if err != nil {
		return "", err
	}
	requestBody, err := json.Marshal(captionRequest{
		Checkpoint: c.checkpointName,
		Image:      base64.StdEncoding.EncodeToString(jpegData),
		MaxTokens:  c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	response, err := c.httpClient.Post(c.serverURL+"/api/caption", "application/json", bytes.NewReader(requestBody))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = response.Body.Close()
	}()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("inference server returned \"%s\"", response.Status)
	}
	var parsedResponse captionResponse
	err = json.NewDecoder(response.Body).Decode(&parsedResponse)
	if err != nil {
		return "", err
	}
	if parsedResponse.Error != "" {
		return "", errors.New(parsedResponse.Error)
	}
	return parsedResponse.Caption, nil
}
