package server

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"kgeyst.com/captioner/pkg/captioner/api"
	"kgeyst.com/captioner/pkg/captioner/domain"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/web"
)

//go:embed index.html
var indexHTML []byte

type handlers struct {
	captionerAPI api.API
}

func newHandlers(captionerAPI api.API) *handlers {
	return &handlers{
		captionerAPI: captionerAPI,
	}
}

type captionURLRequest struct {
	URL string `json:"url" binding:"required"`
}

type captionFrameRequest struct {
	Frame string `json:"frame" binding:"required"`
}

type captionResponse struct {
	Caption string `json:"caption"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *handlers) handleHealth(c *gin.Context) {
	err := h.captionerAPI.Warmup()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) handleCaptionUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing image"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	defer func() {
		_ = file.Close()
	}()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	caption, err := h.captionerAPI.CaptionBytes(data, fileHeader.Filename)
	respond(c, caption, err)
}

func (h *handlers) handleCaptionURL(c *gin.Context) {
	var request captionURLRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing url"})
		return
	}
	caption, err := h.captionerAPI.CaptionURL(request.URL)
	respond(c, caption, err)
}

func (h *handlers) handleCaptionFrame(c *gin.Context) {
	var request captionFrameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing frame"})
		return
	}
	caption, err := h.captionerAPI.CaptionFrame(request.Frame)
	respond(c, caption, err)
}

func respond(c *gin.Context, caption string, err error) {
	if err == nil {
		c.JSON(http.StatusOK, captionResponse{Caption: caption})
		return
	}
	c.JSON(statusForError(err), errorResponse{Error: messageForError(err)})
}

// statusForError distinguishes the caller's fault (bad bytes, bad frame, unknown extension)
// from upstream failures (unreachable URL, fetch timeout) and our own (inference).
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedImageType),
		errors.Is(err, domain.ErrNotAnImage),
		errors.Is(err, domain.ErrMalformedFrame):
		return http.StatusBadRequest
	case errors.Is(err, web.ErrFetchTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrImageUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedImageType),
		errors.Is(err, domain.ErrNotAnImage),
		errors.Is(err, domain.ErrMalformedFrame),
		errors.Is(err, domain.ErrImageUnavailable):
		return err.Error()
	default:
		return fmt.Sprintf("Error generating caption: %s", err.Error())
	}
}
